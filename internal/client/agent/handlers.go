package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iudanet/courtside/internal/client/auth"
	"github.com/iudanet/courtside/internal/client/storage"
	syncmgr "github.com/iudanet/courtside/internal/client/sync"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

const maxAdminBody = 64 << 10

func (a *Agent) routes(proxy http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+pkgapi.AgentPathStatus, a.handleStatus)
	mux.HandleFunc("GET "+pkgapi.AgentPathVersion, a.handleVersion)
	mux.HandleFunc("POST "+pkgapi.AgentPathSync, a.handleSync)
	mux.HandleFunc("GET "+pkgapi.AgentPathQueue, a.handleQueue)
	mux.HandleFunc("POST "+pkgapi.AgentPathQueue+"/{id}/retry", a.handleRetry)
	mux.HandleFunc("DELETE "+pkgapi.AgentPathQueue+"/{id}", a.handleDismiss)
	mux.HandleFunc("GET "+pkgapi.AgentPathAuth, a.handleAuthInfo)
	mux.HandleFunc("PUT "+pkgapi.AgentPathAuth, a.handleSetToken)
	mux.HandleFunc("DELETE "+pkgapi.AgentPathAuth, a.handleClearAuth)
	mux.HandleFunc("GET "+pkgapi.AgentPathWS, a.hub.ServeWS)
	mux.HandleFunc(pkgapi.AgentPathControl, a.hub.ServeControl)

	// Остальные пути агента не уходят в upstream
	mux.HandleFunc("/_courtside/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.Method+" "+r.URL.Path)
	})
	mux.Handle("/", proxy)

	return mux
}

// handleStatus обрабатывает GET /_courtside/status
func (a *Agent) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.manager.Status(r.Context())
	if err != nil {
		a.storageError(w, err)
		return
	}

	version, err := a.transport.CacheVersion(r.Context())
	if err != nil {
		a.logger.Warn("Failed to read cache version", "error", err)
	} else {
		status.CacheGeneration = version
	}

	writeJSON(w, http.StatusOK, status)
}

func (a *Agent) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.version)
}

// handleSync обрабатывает POST /_courtside/sync - ручной запуск синхронизации
func (a *Agent) handleSync(w http.ResponseWriter, r *http.Request) {
	result := a.manager.SyncNow(r.Context())
	writeJSON(w, http.StatusOK, result)
}

// handleQueue обрабатывает GET /_courtside/queue
func (a *Agent) handleQueue(w http.ResponseWriter, r *http.Request) {
	items, err := a.manager.Queue(r.Context())
	if err != nil {
		a.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleRetry обрабатывает POST /_courtside/queue/{id}/retry
func (a *Agent) handleRetry(w http.ResponseWriter, r *http.Request) {
	action, err := a.manager.RetryFailed(r.Context(), r.PathValue("id"))
	if err != nil {
		a.queueError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, syncmgr.QueueItemFor(action))
}

// handleDismiss обрабатывает DELETE /_courtside/queue/{id}
func (a *Agent) handleDismiss(w http.ResponseWriter, r *http.Request) {
	if err := a.manager.Dismiss(r.Context(), r.PathValue("id")); err != nil {
		a.queueError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAuthInfo обрабатывает GET /_courtside/auth
func (a *Agent) handleAuthInfo(w http.ResponseWriter, r *http.Request) {
	info, err := a.session.Describe(r.Context())
	if err != nil {
		a.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleSetToken обрабатывает PUT /_courtside/auth.
// Новый токен снимает паузу синхронизации и запускает цикл.
func (a *Agent) handleSetToken(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.SetTokenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAdminBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if _, err := a.session.SetToken(r.Context(), req.AccessToken); err != nil {
		if errors.Is(err, storage.ErrStorageUnavailable) {
			a.storageError(w, err)
			return
		}
		status := http.StatusBadRequest
		if errors.Is(err, auth.ErrTokenExpired) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, "invalid_token", err.Error())
		return
	}

	a.manager.Resume()
	go a.manager.Trigger(context.WithoutCancel(r.Context()), syncmgr.TriggerBackground)

	info, err := a.session.Describe(r.Context())
	if err != nil {
		a.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleClearAuth обрабатывает DELETE /_courtside/auth
func (a *Agent) handleClearAuth(w http.ResponseWriter, r *http.Request) {
	if err := a.session.Clear(r.Context()); err != nil {
		a.storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Agent) queueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrActionNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, syncmgr.ErrNotFailed):
		writeError(w, http.StatusConflict, "not_failed", err.Error())
	default:
		a.storageError(w, err)
	}
}

func (a *Agent) storageError(w http.ResponseWriter, err error) {
	a.logger.Error("Agent request failed", "error", err)
	status := http.StatusInternalServerError
	if errors.Is(err, storage.ErrStorageUnavailable) {
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, "internal", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
