package models

import (
	"encoding/json"
	"time"
)

// Resource документ коллекции на reference upstream
type Resource struct {
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Collection Collection      `json:"collection"`
	OwnerID    string          `json:"owner_id"` // subject токена, создавшего документ
	Data       json.RawMessage `json:"data"`     // JSON объект без поля id
	ID         int64           `json:"id"`
}

// IdempotencyRecord хранит ответ на запись с заголовком Idempotency-Key.
// Повтор с тем же ключом получает сохраненный ответ без повторного применения.
type IdempotencyRecord struct {
	CreatedAt  time.Time `json:"created_at"`
	Key        string    `json:"key"`
	OwnerID    string    `json:"owner_id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Body       []byte    `json:"body"`
	StatusCode int       `json:"status_code"`
}

// Matches reports whether the record was stored for the same method and path
func (r *IdempotencyRecord) Matches(method, path string) bool {
	return r.Method == method && r.Path == path
}

// CSRFToken anti-forgery токен, выданный subject'у
type CSRFToken struct {
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Token     string    `json:"token"`
	OwnerID   string    `json:"owner_id"`
}

// IsValidFor reports whether the token belongs to owner and has not expired at now
func (t *CSRFToken) IsValidFor(owner string, now time.Time) bool {
	return t.OwnerID == owner && now.Before(t.ExpiresAt)
}
