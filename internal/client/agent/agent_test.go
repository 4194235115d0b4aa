package agent

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/courtside/internal/client/interceptor"
	"github.com/iudanet/courtside/internal/config"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

type recordedRequest struct {
	header http.Header
	method string
	path   string
	body   string
}

// fakeUpstream отвечает как upstream и запоминает записи
type fakeUpstream struct {
	server   *httptest.Server
	writes   []recordedRequest
	mu       sync.Mutex
	nextID   int
	rejected map[string]bool
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()

	u := &fakeUpstream{nextID: 100, rejected: map[string]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pkgapi.HealthResponse{Status: "ok", Time: time.Now()})
	})
	mux.HandleFunc("GET /api/v1/auth/csrf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, pkgapi.CSRFTokenResponse{Token: "csrf-token", ExpiresIn: 300})
	})
	mux.HandleFunc("GET /api/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":` + r.PathValue("id") + `,"home":"Lakers"}`))
	})
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		u.mu.Lock()
		u.writes = append(u.writes, recordedRequest{method: r.Method, path: r.URL.RequestURI(), header: r.Header.Clone(), body: string(body)})
		rejected := u.rejected[r.URL.Path]
		u.nextID++
		id := u.nextID
		u.mu.Unlock()

		if rejected {
			writeJSON(w, http.StatusUnprocessableEntity, pkgapi.ErrorResponse{Error: "validation", Message: "x out of court"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int{"id": id})
	})

	u.server = httptest.NewServer(mux)
	t.Cleanup(u.server.Close)
	return u
}

func (u *fakeUpstream) reject(path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rejected[path] = true
}

func (u *fakeUpstream) recorded() []recordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]recordedRequest(nil), u.writes...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{URL: serverURL},
		Agent: config.AgentConfig{
			Listen:    "127.0.0.1:0",
			DBPath:    filepath.Join(t.TempDir(), "agent.db"),
			APIPrefix: "/api/",
		},
		Sync: config.SyncConfig{
			Interval:      time.Hour,
			RetryInterval: time.Hour,
			Retention:     7 * 24 * time.Hour,
			BackoffBase:   2 * time.Second,
			BackoffMax:    5 * time.Minute,
		},
		Connectivity: config.ConnectivityConfig{ProbeInterval: 20 * time.Millisecond, ProbeTimeout: time.Second},
		Cache:        config.CacheConfig{Version: "1", DynamicTimeout: 2 * time.Second},
		Log:          config.LogConfig{Level: "error", Format: "text"},
	}
}

func newTestAgent(t *testing.T, cfg *config.Config, opts Options) *Agent {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = testLogger()
	}
	if opts.Native == nil {
		opts.Native = func() bool { return true }
	}

	a, err := New(context.Background(), cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func bearerToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestNew_RejectsServerPath(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:8080/backend")
	_, err := New(context.Background(), cfg, Options{Logger: testLogger()})
	assert.ErrorContains(t, err, "must not contain a path")
}

func TestNew_RegistersBackgroundTasks(t *testing.T) {
	upstream := newFakeUpstream(t)
	a := newTestAgent(t, testConfig(t, upstream.server.URL), Options{})

	assert.Equal(t, []string{TaskRetry, TaskSync}, a.scheduler.Names())
}

func TestAgent_ProxiesAndCachesReads(t *testing.T) {
	upstream := newFakeUpstream(t)
	a := newTestAgent(t, testConfig(t, upstream.server.URL), Options{})

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp := do(t, http.MethodGet, srv.URL+"/api/games/7", "")
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":7,"home":"Lakers"}`, string(body))

	// Upstream недоступен - ответ из кэша
	upstream.server.Close()

	resp = do(t, http.MethodGet, srv.URL+"/api/games/7", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, interceptor.CacheFallback, resp.Header.Get(pkgapi.HeaderCache))
	resp.Body.Close()

	status := decode[pkgapi.StatusResponse](t, do(t, http.MethodGet, srv.URL+pkgapi.AgentPathStatus, ""))
	assert.Equal(t, "1", status.CacheGeneration)
	assert.False(t, status.Online)
}

func TestAgent_OfflineWriteSyncedManually(t *testing.T) {
	upstream := newFakeUpstream(t)
	a := newTestAgent(t, testConfig(t, upstream.server.URL), Options{})

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	ctx := context.Background()
	_, err := a.session.SetToken(ctx, bearerToken(t, "scorer"))
	require.NoError(t, err)

	a.detector.SetNative(false)

	resp := do(t, http.MethodPost, srv.URL+"/api/shots", `{"gameId":5,"x":10,"y":20,"result":"goal"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	queued := decode[pkgapi.QueuedResponse](t, resp)
	assert.True(t, queued.Queued)
	assert.Empty(t, upstream.recorded())

	status := decode[pkgapi.StatusResponse](t, do(t, http.MethodGet, srv.URL+pkgapi.AgentPathStatus, ""))
	assert.Equal(t, 1, status.PendingCount)
	assert.False(t, status.Online)

	items := decode[[]pkgapi.QueueItem](t, do(t, http.MethodGet, srv.URL+pkgapi.AgentPathQueue, ""))
	require.Len(t, items, 1)
	assert.Equal(t, queued.ActionID, items[0].ID)
	assert.Equal(t, "pending", items[0].Status)
	assert.Equal(t, "/api/shots", items[0].ResourcePath)

	a.detector.SetNative(true)

	result := decode[pkgapi.SyncResult](t, do(t, http.MethodPost, srv.URL+pkgapi.AgentPathSync, ""))
	assert.Equal(t, "manual", result.Trigger)
	assert.Equal(t, 1, result.Synced)

	writes := upstream.recorded()
	require.Len(t, writes, 1)
	assert.Equal(t, http.MethodPost, writes[0].method)
	assert.Equal(t, "/api/shots", writes[0].path)
	assert.JSONEq(t, `{"gameId":5,"x":10,"y":20,"result":"goal"}`, writes[0].body)
	assert.Equal(t, queued.ActionID, writes[0].header.Get(pkgapi.HeaderIdempotencyKey))
	assert.Equal(t, "csrf-token", writes[0].header.Get(pkgapi.HeaderCSRFToken))
	assert.True(t, strings.HasPrefix(writes[0].header.Get("Authorization"), "Bearer "))

	status = decode[pkgapi.StatusResponse](t, do(t, http.MethodGet, srv.URL+pkgapi.AgentPathStatus, ""))
	assert.Zero(t, status.PendingCount)
	assert.NotNil(t, status.LastSyncAt)
}

func TestAgent_FailedActionRetryAndDismiss(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.reject("/api/shots")
	a := newTestAgent(t, testConfig(t, upstream.server.URL), Options{})

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	_, err := a.session.SetToken(context.Background(), bearerToken(t, "scorer"))
	require.NoError(t, err)

	a.detector.SetNative(false)
	queued := decode[pkgapi.QueuedResponse](t, do(t, http.MethodPost, srv.URL+"/api/shots", `{"x":999}`))
	a.detector.SetNative(true)

	result := decode[pkgapi.SyncResult](t, do(t, http.MethodPost, srv.URL+pkgapi.AgentPathSync, ""))
	assert.Equal(t, 1, result.Failed)

	status := decode[pkgapi.StatusResponse](t, do(t, http.MethodGet, srv.URL+pkgapi.AgentPathStatus, ""))
	require.Len(t, status.Failed, 1)
	assert.Equal(t, queued.ActionID, status.Failed[0].ID)
	assert.Equal(t, "/api/shots", status.Failed[0].ResourcePath)
	assert.Contains(t, status.LastError, "x out of court")
	assert.Equal(t, 1, status.PendingCount)

	retryURL := srv.URL + pkgapi.AgentPathQueue + "/" + queued.ActionID + "/retry"
	resp := do(t, http.MethodPost, retryURL, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := decode[pkgapi.QueueItem](t, resp)
	assert.Equal(t, "pending", item.Status)

	resp = do(t, http.MethodPost, retryURL, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	decode[pkgapi.SyncResult](t, do(t, http.MethodPost, srv.URL+pkgapi.AgentPathSync, ""))

	dismissURL := srv.URL + pkgapi.AgentPathQueue + "/" + queued.ActionID
	resp = do(t, http.MethodDelete, dismissURL, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, http.MethodDelete, dismissURL, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	assert.Len(t, upstream.recorded(), 2)
}

func TestAgent_Auth(t *testing.T) {
	upstream := newFakeUpstream(t)
	a := newTestAgent(t, testConfig(t, upstream.server.URL), Options{})

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	// Цикл после смены токена пропускается без сети
	a.detector.SetNative(false)

	info := decode[pkgapi.SessionInfo](t, do(t, http.MethodGet, srv.URL+pkgapi.AgentPathAuth, ""))
	assert.False(t, info.Authenticated)

	resp := do(t, http.MethodPut, srv.URL+pkgapi.AgentPathAuth, `{"access_token":"`+bearerToken(t, "scorer")+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	info = decode[pkgapi.SessionInfo](t, resp)
	assert.True(t, info.Authenticated)
	assert.Equal(t, "scorer", info.Subject)
	assert.False(t, a.manager.AuthPaused())

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "scorer",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := expired.SignedString([]byte("upstream-secret"))
	require.NoError(t, err)

	resp = do(t, http.MethodPut, srv.URL+pkgapi.AgentPathAuth, `{"access_token":"`+signed+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, http.MethodPut, srv.URL+pkgapi.AgentPathAuth, `{"access_token":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, http.MethodDelete, srv.URL+pkgapi.AgentPathAuth, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	info = decode[pkgapi.SessionInfo](t, do(t, http.MethodGet, srv.URL+pkgapi.AgentPathAuth, ""))
	assert.False(t, info.Authenticated)
}

func TestAgent_StorageUnavailable(t *testing.T) {
	upstream := newFakeUpstream(t)
	a := newTestAgent(t, testConfig(t, upstream.server.URL), Options{})

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	a.detector.SetNative(false)
	require.NoError(t, a.store.Close())

	resp := do(t, http.MethodPost, srv.URL+"/api/shots", `{"x":1}`)
	assert.Equal(t, http.StatusInsufficientStorage, resp.StatusCode)
	errResp := decode[pkgapi.ErrorResponse](t, resp)
	assert.Equal(t, "storage_unavailable", errResp.Error)

	resp = do(t, http.MethodGet, srv.URL+pkgapi.AgentPathStatus, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}

func TestAgent_UnknownAgentPath(t *testing.T) {
	upstream := newFakeUpstream(t)
	a := newTestAgent(t, testConfig(t, upstream.server.URL), Options{
		Version: pkgapi.VersionResponse{Version: "1.2.3"},
	})

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp := do(t, http.MethodGet, srv.URL+"/_courtside/nothing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Метод не совпал - запрос все равно не уходит в upstream
	resp = do(t, http.MethodPost, srv.URL+pkgapi.AgentPathStatus, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	version := decode[pkgapi.VersionResponse](t, do(t, http.MethodGet, srv.URL+pkgapi.AgentPathVersion, ""))
	assert.Equal(t, "1.2.3", version.Version)
	assert.Empty(t, upstream.recorded())
}

// channelWatcher передает версии из теста
type channelWatcher struct {
	versions chan string
}

func (w *channelWatcher) WatchCacheVersion(ctx context.Context, logger *slog.Logger, fn func(version string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case v := <-w.versions:
			fn(v)
		}
	}
}

func waitForMessage(t *testing.T, conn *websocket.Conn, msgType string, match func(pkgapi.Message) bool) pkgapi.Message {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		var msg pkgapi.Message
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		if msg.Type == msgType && (match == nil || match(msg)) {
			return msg
		}
	}
}

func TestAgent_Serve(t *testing.T) {
	upstream := newFakeUpstream(t)
	watcher := &channelWatcher{versions: make(chan string)}
	a := newTestAgent(t, testConfig(t, upstream.server.URL), Options{Watcher: watcher})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + pkgapi.AgentPathStatus)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()
	conn, _, err := websocket.Dial(dialCtx, "ws://"+ln.Addr().String()+pkgapi.AgentPathWS, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return a.hub.ClientCount() == 1 }, 5*time.Second, 10*time.Millisecond)

	// Ручной цикл завершается уведомлением
	resp, err := http.Post(base+pkgapi.AgentPathSync, "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	msg := waitForMessage(t, conn, pkgapi.MessageSyncCycleFinished, func(m pkgapi.Message) bool {
		var result pkgapi.SyncResult
		return json.Unmarshal(m.Data, &result) == nil && result.Trigger == "manual"
	})
	assert.False(t, msg.Timestamp.IsZero())

	// Новая версия из конфигурации активируется и рассылается
	watcher.versions <- "2"
	msg = waitForMessage(t, conn, pkgapi.MessageVersionActivated, nil)
	assert.JSONEq(t, `{"version":"2"}`, string(msg.Data))

	version, err := a.transport.CacheVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", version)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("agent did not stop")
	}
}
