package agent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/iudanet/courtside/internal/client/storage"
	syncmgr "github.com/iudanet/courtside/internal/client/sync"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

// newProxy forwards page requests to the upstream through the intercepting transport.
// Only scheme and host are rewritten so cache keys and queued paths stay
// relative to the upstream root.
func newProxy(target *url.URL, transport http.RoundTripper, logger *slog.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = target.Scheme
			pr.Out.URL.Host = target.Host
			pr.Out.Host = target.Host
			pr.SetXForwarded()
		},
		Transport:    transport,
		ErrorHandler: proxyErrorHandler(logger),
	}
}

// proxyErrorHandler переводит ошибки transport в JSON ответы
func proxyErrorHandler(logger *slog.Logger) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		switch {
		case errors.Is(err, context.Canceled):
			// Страница ушла, отвечать некому
			logger.Debug("Proxied request canceled", "method", r.Method, "path", r.URL.Path)
			w.WriteHeader(http.StatusBadGateway)

		case errors.Is(err, storage.ErrStorageUnavailable):
			logger.Error("Write could not be stored", "method", r.Method, "path", r.URL.Path, "error", err)
			writeError(w, http.StatusInsufficientStorage, "storage_unavailable", err.Error())

		case errors.Is(err, syncmgr.ErrInvalidAction):
			logger.Warn("Write rejected", "method", r.Method, "path", r.URL.Path, "error", err)
			writeError(w, http.StatusBadRequest, "invalid_action", err.Error())

		default:
			logger.Warn("Proxy error", "method", r.Method, "path", r.URL.Path, "error", err)
			writeError(w, http.StatusBadGateway, "bad_gateway", err.Error())
		}
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, pkgapi.ErrorResponse{Error: code, Message: message})
}
