// Package agent wires the local agent: the intercepting reverse proxy in
// front of the upstream, the sync manager, connectivity probing, the page
// hub and the background triggers.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/courtside/internal/client/api"
	"github.com/iudanet/courtside/internal/client/auth"
	"github.com/iudanet/courtside/internal/client/connectivity"
	"github.com/iudanet/courtside/internal/client/interceptor"
	"github.com/iudanet/courtside/internal/client/notify"
	"github.com/iudanet/courtside/internal/client/scheduler"
	"github.com/iudanet/courtside/internal/client/storage/boltdb"
	syncmgr "github.com/iudanet/courtside/internal/client/sync"
	"github.com/iudanet/courtside/internal/config"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

// Имена фоновых задач
const (
	TaskSync  = "courtside-sync"
	TaskRetry = "courtside-retry"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// VersionWatcher reports cache versions staged by a config change
type VersionWatcher interface {
	WatchCacheVersion(ctx context.Context, logger *slog.Logger, fn func(version string)) error
}

// Options are the optional collaborators of the agent
type Options struct {
	// Watcher stages new cache versions; nil disables hot reload
	Watcher VersionWatcher
	// Native is the native online signal; nil picks one for the upstream host
	Native func() bool
	// Upstream carries proxied requests; nil means http.DefaultTransport
	Upstream http.RoundTripper
	Logger   *slog.Logger
	Version  pkgapi.VersionResponse
}

// Agent is one running instance of the local agent
type Agent struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *boltdb.Storage
	detector  *connectivity.Detector
	prober    *connectivity.Prober
	transport *interceptor.Transport
	manager   *syncmgr.Manager
	hub       *notify.Hub
	scheduler *scheduler.Scheduler
	session   *auth.Session
	watcher   VersionWatcher
	handler   http.Handler
	version   pkgapi.VersionResponse
}

// New opens the store and builds every component. Close releases the store.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Agent, error) {
	target, err := url.Parse(cfg.Server.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if target.Path != "" && target.Path != "/" {
		// Путь очереди воспроизводится относительно корня upstream
		return nil, fmt.Errorf("server url must not contain a path, got %q", target.Path)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := boltdb.New(ctx, cfg.Agent.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &Agent{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		watcher: opts.Watcher,
		version: opts.Version,
	}

	if err := a.build(ctx, target, opts); err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

func (a *Agent) build(ctx context.Context, target *url.URL, opts Options) error {
	native := opts.Native
	if native == nil {
		native = connectivity.NativeSignalFor(a.cfg.Server.URL)
	}

	upstream := api.NewClient(a.cfg.Server.URL)

	a.detector = connectivity.NewDetector(native(), a.logger)
	a.prober = connectivity.NewProber(upstream, a.detector, a.cfg.Connectivity.ProbeInterval, native, a.logger)
	a.prober.SetTimeout(a.cfg.Connectivity.ProbeTimeout)

	a.session = auth.NewSession(a.store, a.logger)

	// Hub управляет кэшем через агента, поэтому создается до transport
	a.hub = notify.NewHub(a, a.logger)

	manager, err := syncmgr.NewManager(ctx, syncmgr.Deps{
		Queue:        a.store,
		Metadata:     a.store,
		Replayer:     upstream,
		Credentials:  auth.NewProvider(a.session, upstream),
		Connectivity: a.detector,
		Notifier:     a.hub,
		Logger:       a.logger,
	}, syncmgr.Config{
		Retention:          a.cfg.Sync.Retention,
		BackoffBase:        a.cfg.Sync.BackoffBase,
		BackoffMax:         a.cfg.Sync.BackoffMax,
		MinTriggerInterval: a.cfg.Sync.MinTriggerInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to create sync manager: %w", err)
	}
	a.manager = manager

	a.transport = interceptor.NewTransport(opts.Upstream, a.store, a.store, a.detector, a.manager, interceptor.Config{
		APIPrefix:      a.cfg.Agent.APIPrefix,
		DynamicTimeout: a.cfg.Cache.DynamicTimeout,
	}, a.logger)

	if err := a.transport.ActivateVersion(ctx, a.cfg.Cache.Version); err != nil {
		return err
	}

	a.scheduler = scheduler.New(a.logger)
	if err := a.scheduler.Register(TaskSync, a.cfg.Sync.Interval, func(ctx context.Context) {
		a.manager.Trigger(ctx, syncmgr.TriggerBackground)
	}); err != nil {
		return err
	}
	if err := a.scheduler.Register(TaskRetry, a.cfg.Sync.RetryInterval, func(ctx context.Context) {
		if a.manager.RetryDue() {
			a.manager.Trigger(ctx, syncmgr.TriggerTimer)
		}
	}); err != nil {
		return err
	}

	a.handler = a.routes(newProxy(target, a.transport, a.logger))
	return nil
}

// Handler returns the agent HTTP handler: admin endpoints plus the proxy
func (a *Agent) Handler() http.Handler {
	return a.handler
}

// ActivateVersion switches the cache generation
func (a *Agent) ActivateVersion(ctx context.Context, version string) error {
	return a.transport.ActivateVersion(ctx, version)
}

// ClearAll empties every cache
func (a *Agent) ClearAll(ctx context.Context) error {
	return a.transport.ClearAll(ctx)
}

// Run listens on the configured address and serves until ctx is done
func (a *Agent) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", a.cfg.Agent.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Agent.Listen, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs every component on ln until ctx is done or one of them fails
func (a *Agent) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	unsubscribe := a.manager.Watch(gctx, a.detector)
	defer unsubscribe()

	g.Go(func() error {
		a.logger.Info("Agent listening", "addr", ln.Addr().String(), "upstream", a.cfg.Server.URL)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("agent server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("Agent server shutdown incomplete", "error", err)
		}
		return nil
	})
	g.Go(func() error { return a.prober.Run(gctx) })
	g.Go(func() error { return a.scheduler.Run(gctx) })
	g.Go(func() error { return a.hub.Run(gctx) })

	if a.watcher != nil {
		g.Go(func() error {
			return a.watcher.WatchCacheVersion(gctx, a.logger, func(version string) {
				a.stageVersion(gctx, version)
			})
		})
	}

	// Очередь, оставшаяся с прошлого запуска
	g.Go(func() error {
		a.manager.Trigger(gctx, syncmgr.TriggerBackground)
		return nil
	})

	err := g.Wait()
	a.logger.Info("Agent stopped")
	return err
}

// stageVersion активирует версию из конфигурации и уведомляет страницы
func (a *Agent) stageVersion(ctx context.Context, version string) {
	msg, err := pkgapi.NewMessage(pkgapi.MessageActivateVersion, pkgapi.ActivateVersionData{Version: version})
	if err != nil {
		a.logger.Error("Failed to build activate message", "error", err)
		return
	}
	if _, err := a.hub.HandleMessage(ctx, msg); err != nil {
		a.logger.Error("Failed to activate staged cache version", "version", version, "error", err)
	}
}

// Close releases the local store
func (a *Agent) Close() error {
	return a.store.Close()
}
