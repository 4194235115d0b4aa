package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/courtside/internal/models"
	"github.com/iudanet/courtside/internal/server/storage"
	"github.com/iudanet/courtside/pkg/api"
)

const (
	// MaxDocumentSize ограничивает тело записи
	MaxDocumentSize = 1 << 20
	// MaxIdempotencyKeyLen ограничивает длину Idempotency-Key
	MaxIdempotencyKeyLen = 255
	// HeaderIdempotentReplay помечает ответ, взятый из сохраненной записи
	HeaderIdempotentReplay = "Idempotent-Replayed"
)

// ResourceHandler serves /api/{collection} and /api/{collection}/{id}
// for the entity collections. Documents are scoped to the token subject.
type ResourceHandler struct {
	logger    *slog.Logger
	resources storage.ResourceStorage
	records   storage.IdempotencyStorage
	now       func() time.Time
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(logger *slog.Logger, resources storage.ResourceStorage, records storage.IdempotencyStorage) *ResourceHandler {
	return &ResourceHandler{
		logger:    logger,
		resources: resources,
		records:   records,
		now:       time.Now,
	}
}

// Register mounts the resource routes on mux
func (h *ResourceHandler) Register(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	mux.Handle("GET /api/{collection}", wrap(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/{collection}", wrap(h.Idempotent(h.Create)))
	mux.Handle("GET /api/{collection}/{id}", wrap(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/{collection}/{id}", wrap(h.Idempotent(h.Update)))
	mux.Handle("DELETE /api/{collection}/{id}", wrap(h.Idempotent(h.Delete)))
}

// List обрабатывает GET /api/{collection}
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	subject, collection, ok := h.target(w, r)
	if !ok {
		return
	}

	list, err := h.resources.ListResources(r.Context(), subject, collection)
	if err != nil {
		h.internalError(w, r, "failed to list resources", err)
		return
	}

	docs := make([]json.RawMessage, 0, len(list))
	for _, res := range list {
		doc, err := render(res)
		if err != nil {
			h.internalError(w, r, "failed to render resource", err)
			return
		}
		docs = append(docs, doc)
	}

	SendJSON(h.logger, w, docs, http.StatusOK)
}

// Create обрабатывает POST /api/{collection}
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	subject, collection, ok := h.target(w, r)
	if !ok {
		return
	}

	data, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	now := h.now().UTC()
	res := &models.Resource{
		Collection: collection,
		OwnerID:    subject,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.resources.CreateResource(r.Context(), res); err != nil {
		h.internalError(w, r, "failed to create resource", err)
		return
	}

	h.logger.InfoContext(r.Context(), "resource created",
		slog.String("collection", string(collection)),
		slog.Int64("id", res.ID),
		slog.String("subject", subject))

	w.Header().Set("Location", fmt.Sprintf("/api/%s/%d", collection, res.ID))
	h.sendResource(w, r, res, http.StatusCreated)
}

// Get обрабатывает GET /api/{collection}/{id}
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	subject, collection, ok := h.target(w, r)
	if !ok {
		return
	}
	id, ok := h.resourceID(w, r)
	if !ok {
		return
	}

	res, err := h.resources.GetResource(r.Context(), subject, collection, id)
	if err != nil {
		h.storageError(w, r, "failed to get resource", err)
		return
	}

	h.sendResource(w, r, res, http.StatusOK)
}

// Update обрабатывает PUT /api/{collection}/{id}, заменяя документ целиком
func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	subject, collection, ok := h.target(w, r)
	if !ok {
		return
	}
	id, ok := h.resourceID(w, r)
	if !ok {
		return
	}

	data, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	res := &models.Resource{
		ID:         id,
		Collection: collection,
		OwnerID:    subject,
		Data:       data,
		UpdatedAt:  h.now().UTC(),
	}
	if err := h.resources.UpdateResource(r.Context(), res); err != nil {
		h.storageError(w, r, "failed to update resource", err)
		return
	}

	h.sendResource(w, r, res, http.StatusOK)
}

// Delete обрабатывает DELETE /api/{collection}/{id}
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subject, collection, ok := h.target(w, r)
	if !ok {
		return
	}
	id, ok := h.resourceID(w, r)
	if !ok {
		return
	}

	if err := h.resources.DeleteResource(r.Context(), subject, collection, id); err != nil {
		h.storageError(w, r, "failed to delete resource", err)
		return
	}

	h.logger.InfoContext(r.Context(), "resource deleted",
		slog.String("collection", string(collection)),
		slog.Int64("id", id),
		slog.String("subject", subject))

	w.WriteHeader(http.StatusNoContent)
}

// Idempotent wraps a write handler. A repeated Idempotency-Key gets the stored
// response of the first successful attempt without applying the write again.
func (h *ResourceHandler) Idempotent(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(api.HeaderIdempotencyKey)
		if key == "" {
			next(w, r)
			return
		}
		if len(key) > MaxIdempotencyKeyLen {
			SendError(h.logger, w, CodeValidation, "idempotency key is too long", http.StatusBadRequest)
			return
		}

		subject, ok := GetSubject(r.Context())
		if !ok {
			SendError(h.logger, w, CodeUnauthorized, "missing subject", http.StatusUnauthorized)
			return
		}

		rec, err := h.records.GetIdempotencyRecord(r.Context(), subject, key)
		switch {
		case err == nil:
			if !rec.Matches(r.Method, r.URL.Path) {
				SendError(h.logger, w, CodeIdempotencyKeyReused,
					fmt.Sprintf("idempotency key was used for %s %s", rec.Method, rec.Path),
					http.StatusUnprocessableEntity)
				return
			}
			h.replay(w, r, rec)
			return
		case !errors.Is(err, storage.ErrRecordNotFound):
			h.internalError(w, r, "failed to read idempotency record", err)
			return
		}

		rw := &recordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		if rw.statusCode < 200 || rw.statusCode >= 300 {
			return
		}

		rec = &models.IdempotencyRecord{
			Key:        key,
			OwnerID:    subject,
			Method:     r.Method,
			Path:       r.URL.Path,
			StatusCode: rw.statusCode,
			Body:       rw.body.Bytes(),
			CreatedAt:  h.now().UTC(),
		}
		if err := h.records.SaveIdempotencyRecord(r.Context(), rec); err != nil {
			// Запись уже применена, ответ клиенту не меняем
			h.logger.ErrorContext(r.Context(), "failed to save idempotency record",
				slog.String("key", key),
				slog.Any("error", err))
		}
	})
}

func (h *ResourceHandler) replay(w http.ResponseWriter, r *http.Request, rec *models.IdempotencyRecord) {
	h.logger.InfoContext(r.Context(), "idempotent replay",
		slog.String("method", rec.Method),
		slog.String("path", rec.Path),
		slog.Int("status", rec.StatusCode))

	w.Header().Set(HeaderIdempotentReplay, "true")
	if len(rec.Body) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(rec.StatusCode)
	if len(rec.Body) > 0 {
		_, _ = w.Write(rec.Body)
	}
}

// target извлекает subject и коллекцию запроса
func (h *ResourceHandler) target(w http.ResponseWriter, r *http.Request) (string, models.Collection, bool) {
	subject, ok := GetSubject(r.Context())
	if !ok {
		SendError(h.logger, w, CodeUnauthorized, "missing subject", http.StatusUnauthorized)
		return "", "", false
	}

	collection, ok := models.ParseCollection(r.PathValue("collection"))
	if !ok {
		SendError(h.logger, w, CodeNotFound, fmt.Sprintf("unknown collection %q", r.PathValue("collection")), http.StatusNotFound)
		return "", "", false
	}

	return subject, collection, true
}

func (h *ResourceHandler) resourceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		SendError(h.logger, w, CodeNotFound, fmt.Sprintf("resource %q not found", r.PathValue("id")), http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// readDocument читает тело записи: 400 для невалидного JSON, 422 для не-объекта.
// Поле id клиента отбрасывается, идентификатор назначает сервер.
func (h *ResourceHandler) readDocument(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDocumentSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			SendError(h.logger, w, CodeValidation, "document is too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		SendError(h.logger, w, CodeInvalidJSON, "failed to read request body", http.StatusBadRequest)
		return nil, false
	}

	if !json.Valid(body) {
		SendError(h.logger, w, CodeInvalidJSON, "request body is not valid JSON", http.StatusBadRequest)
		return nil, false
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		SendError(h.logger, w, CodeValidation, "document must be a JSON object", http.StatusUnprocessableEntity)
		return nil, false
	}
	delete(doc, "id")

	data, err := json.Marshal(doc)
	if err != nil {
		h.internalError(w, r, "failed to encode document", err)
		return nil, false
	}
	return data, true
}

func (h *ResourceHandler) sendResource(w http.ResponseWriter, r *http.Request, res *models.Resource, status int) {
	doc, err := render(res)
	if err != nil {
		h.internalError(w, r, "failed to render resource", err)
		return
	}
	SendJSON(h.logger, w, doc, status)
}

func (h *ResourceHandler) storageError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, storage.ErrResourceNotFound) {
		SendError(h.logger, w, CodeNotFound, "resource not found", http.StatusNotFound)
		return
	}
	h.internalError(w, r, msg, err)
}

func (h *ResourceHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	SendError(h.logger, w, CodeInternal, "internal server error", http.StatusInternalServerError)
}

// render добавляет к документу идентификатор, назначенный сервером
func render(res *models.Resource) (json.RawMessage, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(res.Data, &doc); err != nil {
		return nil, fmt.Errorf("decode resource %d: %w", res.ID, err)
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage, 1)
	}
	doc["id"] = json.RawMessage(strconv.FormatInt(res.ID, 10))

	return json.Marshal(doc)
}

// recordingWriter запоминает статус и тело ответа для Idempotency-Key
type recordingWriter struct {
	http.ResponseWriter
	body       bytes.Buffer
	statusCode int
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}
