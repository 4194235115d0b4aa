// Package interceptor implements the request gatekeeper between pages and
// the upstream: network-first for API reads, cache-first for static assets
// and offline capture of API writes.
package interceptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/courtside/internal/client/api"
	"github.com/iudanet/courtside/internal/client/storage"
	"github.com/iudanet/courtside/internal/models"
	"github.com/iudanet/courtside/internal/validation"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

// DefaultDynamicTimeout bounds a network-first attempt
const DefaultDynamicTimeout = 5 * time.Second

// Values of the X-Courtside-Cache header
const (
	CacheHit      = "hit"
	CacheMiss     = "miss"
	CacheFallback = "fallback"
	CacheEntity   = "entity"
)

// Connectivity is the part of the detector the transport needs
type Connectivity interface {
	IsOnline() bool
	ReportFailure(err error)
	ReportSuccess()
}

//go:generate moq -out enqueuer_mock.go . Enqueuer

// Enqueuer принимает запись, которую не удалось доставить сейчас
type Enqueuer interface {
	// ReserveActionID returns a fresh action id. The live attempt carries it
	// as Idempotency-Key so a replay after a lost response is deduplicated.
	ReserveActionID() string

	// Enqueue durably stores the action. A storage failure must reach the caller.
	Enqueue(ctx context.Context, action *models.QueuedAction) (*models.QueuedAction, error)

	// MustQueue reports whether a write has to wait behind the queue:
	// earlier writes are still outstanding or dependsOn has no server id yet.
	MustQueue(ctx context.Context, dependsOn string) (bool, error)
}

// Config настраивает Transport
type Config struct {
	APIPrefix      string
	DynamicTimeout time.Duration
}

// Transport is an http.RoundTripper applying the per-class strategy
type Transport struct {
	next       http.RoundTripper
	cache      storage.CacheStorage
	entities   storage.EntityStorage
	detector   Connectivity
	enqueuer   Enqueuer
	logger     *slog.Logger
	now        func() time.Time
	classifier Classifier
	timeout    time.Duration
}

// NewTransport создает Transport. next - транспорт до upstream
func NewTransport(next http.RoundTripper, cache storage.CacheStorage, entities storage.EntityStorage,
	detector Connectivity, enqueuer Enqueuer, cfg Config, logger *slog.Logger) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	timeout := cfg.DynamicTimeout
	if timeout <= 0 {
		timeout = DefaultDynamicTimeout
	}

	return &Transport{
		next:       next,
		cache:      cache,
		entities:   entities,
		detector:   detector,
		enqueuer:   enqueuer,
		logger:     logger,
		now:        time.Now,
		classifier: NewClassifier(cfg.APIPrefix),
		timeout:    timeout,
	}
}

// Classifier returns the classifier used by the transport
func (t *Transport) Classifier() Classifier {
	return t.classifier
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	class := t.classifier.Classify(req)

	switch class {
	case ClassDynamic:
		return t.networkFirst(req)
	case ClassStatic:
		return t.cacheFirst(req)
	case ClassWrite:
		return t.write(req)
	default:
		return t.passthrough(req)
	}
}

func (t *Transport) passthrough(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	t.observe(req.Context(), err)
	return resp, err
}

// networkFirst: сеть с ограничением по времени, при отказе - последний снимок
func (t *Transport) networkFirst(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	key := cacheKey(req)

	// Поколение фиксируется до запроса: ответ, пришедший после смены версии, не будет принят
	gen, genErr := t.cache.CacheGeneration(ctx)

	attemptCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, body, err := t.fetch(req.WithContext(attemptCtx))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		t.logger.Debug("Network-first attempt failed, serving from cache", "url", key, "error", err)
		return t.fallback(req, key, nil)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		t.logger.Debug("Upstream returned server error, serving from cache", "url", key, "status", resp.StatusCode)
		return t.fallback(req, key, resp)
	}

	if req.Method == http.MethodGet && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if genErr != nil {
			t.logger.Warn("Cache generation unavailable, response not cached", "error", genErr)
		} else {
			t.storeResponse(ctx, storage.CacheDynamic, key, gen, resp, body)
			t.storeEntities(ctx, req, gen, body)
		}
	}

	return resp, nil
}

// cacheFirst: кэш, при промахе - сеть с последующим сохранением
func (t *Transport) cacheFirst(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	key := cacheKey(req)

	cached, err := t.cache.GetResponse(ctx, storage.CacheStatic, key)
	if err == nil {
		return responseFromCache(req, cached, CacheHit), nil
	}
	if !errors.Is(err, storage.ErrCacheMiss) {
		t.logger.Warn("Static cache read failed", "url", key, "error", err)
	}

	gen, genErr := t.cache.CacheGeneration(ctx)

	resp, body, err := t.fetch(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return offlineResponse(req), nil
	}

	if req.Method == http.MethodGet && resp.StatusCode >= 200 && resp.StatusCode < 300 && genErr == nil {
		t.storeResponse(ctx, storage.CacheStatic, key, gen, resp, body)
	}
	resp.Header.Set(pkgapi.HeaderCache, CacheMiss)

	return resp, nil
}

// write отправляет запись в сеть, а при недоступности сети ставит ее в очередь.
// Запись, которая ссылается на еще не синхронизированные операции или
// пришла раньше, чем очередь опустела, тоже идет через очередь.
func (t *Transport) write(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	payload, err := readBody(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	dependsOn := req.Header.Get(pkgapi.HeaderDependsOn)
	actionID := t.enqueuer.ReserveActionID()

	if !t.detector.IsOnline() {
		return t.enqueue(req, actionID, payload, dependsOn)
	}

	if models.ContainsLocalRef([]byte(req.URL.Path)) || models.ContainsLocalRef(payload) {
		t.logger.Debug("Write references a local action, queueing", "method", req.Method, "path", req.URL.Path)
		return t.enqueue(req, actionID, payload, dependsOn)
	}

	hold, err := t.enqueuer.MustQueue(ctx, dependsOn)
	if err != nil {
		return nil, fmt.Errorf("failed to check sync queue for %s %s: %w", req.Method, req.URL.Path, err)
	}
	if hold {
		t.logger.Debug("Earlier writes not synced yet, queueing", "method", req.Method, "path", req.URL.Path, "depends_on", dependsOn)
		return t.enqueue(req, actionID, payload, dependsOn)
	}

	out := req.Clone(ctx)
	out.Header.Del(pkgapi.HeaderDependsOn)
	out.Header.Set(pkgapi.HeaderIdempotencyKey, actionID)
	setBody(out, payload)

	resp, err := t.next.RoundTrip(out)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		t.detector.ReportFailure(err)
		if !api.IsConnectionError(err) {
			return nil, err
		}
		t.logger.Info("Write failed with connection error, queueing", "method", req.Method, "path", req.URL.Path, "error", err)
		return t.enqueue(req, actionID, payload, dependsOn)
	}
	t.detector.ReportSuccess()

	// Ответ сервера, в том числе ошибочный, возвращается как есть
	return resp, nil
}

func (t *Transport) enqueue(req *http.Request, actionID string, payload []byte, dependsOn string) (*http.Response, error) {
	method, err := models.MethodFromHTTP(req.Method)
	if err != nil {
		return nil, err
	}
	if len(payload) > 0 && !json.Valid(payload) {
		return jsonResponse(req, http.StatusUnsupportedMediaType, pkgapi.ErrorResponse{
			Error:   "unsupported_payload",
			Message: "only JSON bodies can be queued offline",
		}, nil), nil
	}

	action := &models.QueuedAction{
		ID:                actionID,
		Method:            method,
		ResourcePath:      req.URL.RequestURI(),
		DependsOnActionID: dependsOn,
	}
	if len(payload) > 0 {
		action.Payload = json.RawMessage(payload)
	}
	if req.Method != action.HTTPMethod() {
		action.Verb = req.Method
	}

	queued, err := t.enqueuer.Enqueue(req.Context(), action)
	if err != nil {
		// Запись не сохранена - вызывающий должен узнать об этом сразу
		return nil, fmt.Errorf("failed to queue %s %s: %w", req.Method, req.URL.Path, err)
	}

	header := http.Header{}
	header.Set(pkgapi.HeaderActionID, queued.ID)
	return jsonResponse(req, http.StatusAccepted, pkgapi.QueuedResponse{Queued: true, ActionID: queued.ID}, header), nil
}

// fallback serves the last snapshot of the resource: the dynamic cache
// first, then the cached entity fetched under the current cache generation.
// Without either the offline result is synthesized, except for a real 5xx
// answer which is returned as is.
func (t *Transport) fallback(req *http.Request, key string, upstream *http.Response) (*http.Response, error) {
	ctx := req.Context()

	cached, err := t.cache.GetResponse(ctx, storage.CacheDynamic, key)
	if err == nil {
		return responseFromCache(req, cached, CacheFallback), nil
	}
	if !errors.Is(err, storage.ErrCacheMiss) {
		t.logger.Warn("Dynamic cache read failed", "url", key, "error", err)
	}

	if req.Method == http.MethodGet && req.URL.RawQuery == "" {
		if collection, id, ok := resourcePath(t.classifier.APIPrefix(), req.URL.Path); ok && id != "" {
			if entity, ok := t.currentEntity(ctx, collection, id); ok {
				header := http.Header{}
				header.Set("Content-Type", "application/json")
				header.Set(pkgapi.HeaderCache, CacheEntity)
				return bytesResponse(req, http.StatusOK, entity.Data, header), nil
			}
		}
	}

	if upstream != nil {
		upstream.Header.Set(pkgapi.HeaderCache, CacheMiss)
		return upstream, nil
	}
	return offlineResponse(req), nil
}

// currentEntity returns the cached entity only when it was fetched under the
// current cache generation. Older entities stay stored but are not served.
func (t *Transport) currentEntity(ctx context.Context, collection models.Collection, id string) (*models.CachedEntity, bool) {
	entity, err := t.entities.GetEntity(ctx, collection, id)
	if err != nil {
		return nil, false
	}
	gen, err := t.cache.CacheGeneration(ctx)
	if err != nil {
		t.logger.Warn("Cache generation unavailable, entity not served", "collection", collection, "id", id, "error", err)
		return nil, false
	}
	return entity, entity.Generation == gen
}

// fetch выполняет запрос и полностью читает тело, пока контекст попытки жив
func (t *Transport) fetch(req *http.Request) (*http.Response, []byte, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.observe(req.Context(), err)
		return nil, nil, err
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		err = fmt.Errorf("%w: failed to read response body: %w", api.ErrConnection, err)
		t.observe(req.Context(), err)
		return nil, nil, err
	}

	t.detector.ReportSuccess()
	setResponseBody(resp, body)
	return resp, body, nil
}

func (t *Transport) observe(ctx context.Context, err error) {
	if err == nil {
		t.detector.ReportSuccess()
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	t.detector.ReportFailure(err)
}

func (t *Transport) storeResponse(ctx context.Context, cache storage.CacheName, key, gen string, resp *http.Response, body []byte) {
	if noStore(resp.Header) {
		return
	}

	snapshot := &storage.CachedResponse{
		StoredAt:   t.now().UTC(),
		Header:     cacheableHeader(resp.Header),
		URL:        key,
		Generation: gen,
		Body:       body,
		StatusCode: resp.StatusCode,
	}

	err := t.cache.PutResponse(ctx, cache, key, snapshot)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrStaleGeneration):
		t.logger.Debug("Response from previous cache generation dropped", "url", key)
	default:
		t.logger.Warn("Failed to cache response", "cache", cache, "url", key, "error", err)
	}
}

func (t *Transport) storeEntities(ctx context.Context, req *http.Request, gen string, body []byte) {
	collection, id, ok := resourcePath(t.classifier.APIPrefix(), req.URL.Path)
	if !ok {
		return
	}

	for _, entity := range extractEntities(collection, id, body, req.URL.String(), t.now().UTC()) {
		entity.Generation = gen
		if err := t.entities.SaveEntity(ctx, entity); err != nil {
			t.logger.Warn("Failed to cache entity", "collection", collection, "id", entity.ID, "error", err)
		}
	}
}

// ActivateVersion discards every prior-generation cache entry and makes gen current
func (t *Transport) ActivateVersion(ctx context.Context, gen string) error {
	if err := validation.ValidateCacheVersion(gen); err != nil {
		return err
	}
	if err := t.cache.ActivateGeneration(ctx, gen); err != nil {
		return fmt.Errorf("failed to activate cache version %q: %w", gen, err)
	}
	t.logger.Info("Cache version activated", "version", gen)
	return nil
}

// ClearAll empties both response caches and every cached entity
func (t *Transport) ClearAll(ctx context.Context) error {
	if err := t.cache.ClearCaches(ctx); err != nil {
		return fmt.Errorf("failed to clear caches: %w", err)
	}
	if err := t.entities.ClearEntities(ctx); err != nil {
		return fmt.Errorf("failed to clear cached entities: %w", err)
	}
	t.logger.Info("Caches cleared")
	return nil
}

// CacheVersion returns the current cache generation
func (t *Transport) CacheVersion(ctx context.Context) (string, error) {
	return t.cache.CacheGeneration(ctx)
}
