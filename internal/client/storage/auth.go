package storage

import (
	"context"
)

// AuthStorage defines interface for storing the bearer session on client.
// Session issuance happens elsewhere; the client only keeps the token it was given.
type AuthStorage interface {
	// SaveAuth stores authentication data as-is
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored authentication data
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data
	DeleteAuth(ctx context.Context) error
}

// AuthData represents authentication information in storage
type AuthData struct {
	AccessToken string `json:"access_token"` // bearer token (JWT)
	Subject     string `json:"subject"`      // sub claim, для отображения в status
	ExpiresAt   int64  `json:"expires_at"`   // unix seconds, 0 если exp отсутствует
	SavedAt     int64  `json:"saved_at"`
}
