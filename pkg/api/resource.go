package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Headers shared by the agent, the sync manager and the upstream
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderCSRFToken      = "X-CSRF-Token"
	HeaderDependsOn      = "X-Courtside-Depends-On"
	HeaderOffline        = "X-Courtside-Offline"
	HeaderCache          = "X-Courtside-Cache"
	HeaderActionID       = "X-Courtside-Action-Id"
)

// CreatedResponse is the minimal body the upstream returns for a create.
// ID may be a JSON number or a string.
type CreatedResponse struct {
	ID json.RawMessage `json:"id"`
}

// ServerID returns the id as text: numbers verbatim, strings unquoted.
// Returns "" when the id is absent or null.
func (r CreatedResponse) ServerID() string {
	raw := strings.TrimSpace(string(r.ID))
	if raw == "" || raw == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(r.ID, &s); err == nil {
		return s
	}

	// Числовой id возвращаем как есть
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return raw
	}
	return ""
}

// QueuedResponse is the synthesized 202 body returned for a write captured offline
type QueuedResponse struct {
	Queued   bool   `json:"queued"`
	ActionID string `json:"actionId"`
}

// OfflineResponse is the synthesized body returned when neither network nor cache can answer
type OfflineResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Time   time.Time `json:"time"`
	Status string    `json:"status"`
}
