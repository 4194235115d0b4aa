package storage

import "errors"

// Common storage errors
var (
	// ErrResourceNotFound indicates that the document does not exist or belongs to another subject
	ErrResourceNotFound = errors.New("resource not found")

	// ErrRecordNotFound indicates that no response is stored for the idempotency key
	ErrRecordNotFound = errors.New("idempotency record not found")

	// ErrTokenNotFound indicates that csrf token was not found
	ErrTokenNotFound = errors.New("csrf token not found")
)
