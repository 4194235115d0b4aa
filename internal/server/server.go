// Package server assembles the reference upstream: a generic resource API
// over the entity collections with idempotent writes, CSRF and bearer auth.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/courtside/internal/config"
	"github.com/iudanet/courtside/internal/server/handlers"
	"github.com/iudanet/courtside/internal/server/jwt"
	"github.com/iudanet/courtside/internal/server/middleware"
	"github.com/iudanet/courtside/internal/server/storage"
)

const (
	// PathHealth опрашивается агентом для определения связности
	PathHealth   = "/api/v1/health"
	PathCSRF     = "/api/v1/auth/csrf"
	PathDevToken = "/api/v1/auth/dev-token"

	// IdempotencyRetention сколько хранится ответ на запись с Idempotency-Key
	IdempotencyRetention = 7 * 24 * time.Hour

	cleanupInterval = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
	devTokenRate    = 10
)

// Storage is everything the upstream persists
type Storage interface {
	storage.ResourceStorage
	storage.IdempotencyStorage
	storage.TokenStorage
	handlers.Pinger
}

// Server is the reference upstream
type Server struct {
	logger  *slog.Logger
	store   Storage
	limits  *middleware.RateLimits
	handler http.Handler
	now     func() time.Time
}

// New wires handlers and middleware. Stop must be called to release the rate limiters.
func New(cfg *config.UpstreamConfig, store Storage, logger *slog.Logger) *Server {
	tokens := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)

	health := handlers.NewHealthHandler(logger, store)
	auth := handlers.NewAuthHandler(logger, store, tokens, handlers.AuthOptions{DevTokens: cfg.DevTokens})
	resources := handlers.NewResourceHandler(logger, store, store)

	requireAuth := middleware.AuthMiddleware(logger, tokens)
	requireCSRF := middleware.CSRFMiddleware(logger, auth)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathHealth, health.Health)
	mux.HandleFunc("POST "+PathDevToken, auth.DevToken)
	mux.Handle("GET "+PathCSRF, requireAuth(http.HandlerFunc(auth.CSRF)))
	resources.Register(mux, func(next http.Handler) http.Handler {
		return requireAuth(requireCSRF(next))
	})

	limits := middleware.NewRateLimits(cfg.RateLimit, cfg.RateWindow, []middleware.PathRateLimit{
		{Path: PathDevToken, Rate: devTokenRate, Window: time.Minute},
	}, logger)

	var handler http.Handler = mux
	handler = limits.Middleware(handler)
	handler = middleware.LoggingWithSkip(logger, []string{PathHealth})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	if cfg.DevTokens {
		logger.Warn("Dev token endpoint is enabled, do not expose this server publicly")
	}

	return &Server{
		logger:  logger,
		store:   store,
		limits:  limits,
		handler: handler,
		now:     time.Now,
	}
}

// Handler returns the root handler with the middleware chain
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Stop releases background resources of the middleware
func (s *Server) Stop() {
	s.limits.Stop()
}

// Run listens on addr and serves until ctx is done
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Upstream listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		s.logger.Info("Shutting down upstream")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.Cleanup(gctx)
			}
		}
	})

	return g.Wait()
}

// Cleanup deletes expired csrf tokens and idempotency records past retention
func (s *Server) Cleanup(ctx context.Context) {
	now := s.now()

	tokens, err := s.store.DeleteExpiredTokens(ctx, now)
	if err != nil {
		s.logger.Error("Failed to delete expired csrf tokens", "error", err)
	}

	records, err := s.store.DeleteIdempotencyRecordsBefore(ctx, now.Add(-IdempotencyRetention))
	if err != nil {
		s.logger.Error("Failed to delete idempotency records", "error", err)
	}

	if tokens > 0 || records > 0 {
		s.logger.Debug("Cleanup finished", "csrf_tokens", tokens, "idempotency_records", records)
	}
}
