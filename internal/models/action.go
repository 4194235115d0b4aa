package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ActionMethod описывает тип отложенной операции записи
type ActionMethod string

const (
	MethodCreate ActionMethod = "CREATE"
	MethodUpdate ActionMethod = "UPDATE"
	MethodDelete ActionMethod = "DELETE"
)

// ActionStatus описывает состояние отложенной операции в очереди
type ActionStatus string

const (
	StatusPending ActionStatus = "pending" // ждет отправки
	StatusSyncing ActionStatus = "syncing" // отправляется прямо сейчас
	StatusSynced  ActionStatus = "synced"  // успешно применена на сервере
	StatusFailed  ActionStatus = "failed"  // терминальная ошибка, нужна реакция пользователя
)

// LocalRefPrefix marks a placeholder for a server id that is not known yet.
// "local:<actionID>" is replaced with the server id assigned to that action.
const LocalRefPrefix = "local:"

// QueuedAction представляет одну отложенную операцию записи.
// ID одновременно является ключом хранения и единственным ключом упорядочивания.
type QueuedAction struct {
	EnqueuedAt        time.Time       `json:"enqueued_at"`                    // время постановки в очередь
	SyncedAt          *time.Time      `json:"synced_at,omitempty"`            // выставляется только при переходе в synced
	FailedAt          *time.Time      `json:"failed_at,omitempty"`            // время терминальной ошибки
	ID                string          `json:"id"`                             // монотонный локальный идентификатор
	Method            ActionMethod    `json:"method"`                         // CREATE / UPDATE / DELETE
	Verb              string          `json:"verb,omitempty"`                 // исходный HTTP метод, если отличается от стандартного
	ResourcePath      string          `json:"resource_path"`                  // путь ресурса на сервере
	DependsOnActionID string          `json:"depends_on_action_id,omitempty"` // родительская операция
	ServerID          string          `json:"server_id,omitempty"`            // id, выданный сервером для CREATE
	LastError         string          `json:"last_error,omitempty"`           // текст последней ошибки
	Status            ActionStatus    `json:"status"`
	Payload           json.RawMessage `json:"payload,omitempty"`
	RetryCount        int             `json:"retry_count"`
}

// MethodFromHTTP maps an HTTP verb to the queued action method.
func MethodFromHTTP(verb string) (ActionMethod, error) {
	switch strings.ToUpper(verb) {
	case http.MethodPost:
		return MethodCreate, nil
	case http.MethodPut, http.MethodPatch:
		return MethodUpdate, nil
	case http.MethodDelete:
		return MethodDelete, nil
	default:
		return "", fmt.Errorf("unsupported write method %q", verb)
	}
}

// HTTPMethod returns the verb used when the action is replayed.
func (a *QueuedAction) HTTPMethod() string {
	if a.Verb != "" {
		return a.Verb
	}
	switch a.Method {
	case MethodCreate:
		return http.MethodPost
	case MethodUpdate:
		return http.MethodPut
	case MethodDelete:
		return http.MethodDelete
	default:
		return ""
	}
}

// IsOutstanding reports whether the action still needs user-visible attention:
// it has not reached the server yet or failed terminally.
func (a *QueuedAction) IsOutstanding() bool {
	switch a.Status {
	case StatusPending, StatusSyncing, StatusFailed:
		return true
	default:
		return false
	}
}

// RetentionExpired reports whether a synced action is old enough to be purged.
// Only synced actions expire; pending and failed actions are kept forever.
func (a *QueuedAction) RetentionExpired(now time.Time, retention time.Duration) bool {
	if a.Status != StatusSynced || a.SyncedAt == nil {
		return false
	}
	return now.Sub(*a.SyncedAt) >= retention
}

// LocalRef returns the placeholder other actions use to reference this
// action's future server id.
func (a *QueuedAction) LocalRef() string {
	return LocalRefPrefix + a.ID
}

// ParseLocalRef returns the action id of a "local:<actionID>" placeholder.
// Strings with the prefix but without a well-formed action id are not placeholders.
func ParseLocalRef(s string) (string, bool) {
	id, ok := strings.CutPrefix(s, LocalRefPrefix)
	if !ok {
		return "", false
	}
	if _, _, err := ParseActionID(id); err != nil {
		return "", false
	}
	return id, true
}

// ContainsLocalRef reports whether data holds a placeholder with a
// well-formed action id anywhere in it
func ContainsLocalRef(data []byte) bool {
	prefix := []byte(LocalRefPrefix)
	for {
		i := bytes.Index(data, prefix)
		if i < 0 {
			return false
		}
		data = data[i+len(prefix):]
		if len(data) >= actionIDLen {
			if _, _, err := ParseActionID(string(data[:actionIDLen])); err == nil {
				return true
			}
		}
	}
}

// Clone создает глубокую копию операции
func (a *QueuedAction) Clone() *QueuedAction {
	clone := *a

	if a.Payload != nil {
		clone.Payload = make(json.RawMessage, len(a.Payload))
		copy(clone.Payload, a.Payload)
	}
	if a.SyncedAt != nil {
		syncedAt := *a.SyncedAt
		clone.SyncedAt = &syncedAt
	}
	if a.FailedAt != nil {
		failedAt := *a.FailedAt
		clone.FailedAt = &failedAt
	}

	return &clone
}
