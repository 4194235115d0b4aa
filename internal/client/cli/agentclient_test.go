package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgapi "github.com/iudanet/courtside/pkg/api"
)

func writeTestJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newAgentServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+pkgapi.AgentPathStatus, func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusOK, pkgapi.StatusResponse{PendingCount: 4, Online: true, CacheGeneration: "2"})
	})
	mux.HandleFunc("POST "+pkgapi.AgentPathSync, func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusOK, pkgapi.SyncResult{Trigger: "manual", Synced: 4, Attempted: 4})
	})
	mux.HandleFunc("POST "+pkgapi.AgentPathQueue+"/{id}/retry", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusConflict, pkgapi.ErrorResponse{Error: "not_failed", Message: r.PathValue("id") + " is pending"})
	})
	mux.HandleFunc("DELETE "+pkgapi.AgentPathQueue+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT "+pkgapi.AgentPathAuth, func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.SetTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccessToken == "" {
			writeTestJSON(w, http.StatusBadRequest, pkgapi.ErrorResponse{Error: "invalid_request"})
			return
		}
		writeTestJSON(w, http.StatusOK, pkgapi.SessionInfo{Authenticated: true, Subject: "scorer"})
	})
	mux.HandleFunc("POST "+pkgapi.AgentPathControl, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var msg pkgapi.Message
		_ = json.Unmarshal(body, &msg)
		if msg.Type != pkgapi.MessageClearCaches {
			reply, _ := pkgapi.NewMessage(pkgapi.MessageError, pkgapi.ErrorData{Message: "unknown type " + msg.Type})
			writeTestJSON(w, http.StatusBadRequest, reply)
			return
		}
		writeTestJSON(w, http.StatusOK, pkgapi.Message{Type: pkgapi.MessageCachesCleared})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAgentClient_Status(t *testing.T) {
	client := NewAgentClient(newAgentServer(t).URL + "/")

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, status.PendingCount)
	assert.Equal(t, "2", status.CacheGeneration)
}

func TestAgentClient_Sync(t *testing.T) {
	client := NewAgentClient(newAgentServer(t).URL)

	result, err := client.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Synced)
}

func TestAgentClient_ErrorResponse(t *testing.T) {
	client := NewAgentClient(newAgentServer(t).URL)

	_, err := client.Retry(context.Background(), "1792314000000000000-000001")
	require.Error(t, err)

	var agentErr *AgentError
	require.True(t, errors.As(err, &agentErr))
	assert.Equal(t, http.StatusConflict, agentErr.StatusCode)
	assert.Equal(t, "not_failed", agentErr.Code)
	assert.Equal(t, "1792314000000000000-000001 is pending", agentErr.Message)
}

func TestAgentClient_NoContent(t *testing.T) {
	client := NewAgentClient(newAgentServer(t).URL)
	assert.NoError(t, client.Dismiss(context.Background(), "1792314000000000000-000001"))
}

func TestAgentClient_SetToken(t *testing.T) {
	client := NewAgentClient(newAgentServer(t).URL)

	info, err := client.SetToken(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, info.Authenticated)
	assert.Equal(t, "scorer", info.Subject)
}

func TestAgentClient_Control(t *testing.T) {
	client := NewAgentClient(newAgentServer(t).URL)

	reply, err := client.Control(context.Background(), pkgapi.Message{Type: pkgapi.MessageClearCaches})
	require.NoError(t, err)
	assert.Equal(t, pkgapi.MessageCachesCleared, reply.Type)

	_, err = client.Control(context.Background(), pkgapi.Message{Type: "reload"})
	var agentErr *AgentError
	require.True(t, errors.As(err, &agentErr))
	assert.Equal(t, "unknown type reload", agentErr.Message)
}

func TestAgentClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewAgentClient(url).Status(context.Background())
	assert.ErrorIs(t, err, ErrAgentUnreachable)
}

func TestAgentClient_NotFound(t *testing.T) {
	client := NewAgentClient(newAgentServer(t).URL)

	_, err := client.Version(context.Background())
	var agentErr *AgentError
	require.True(t, errors.As(err, &agentErr))
	assert.Equal(t, http.StatusNotFound, agentErr.StatusCode)
	assert.Contains(t, agentErr.Error(), "404")
}
