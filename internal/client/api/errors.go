package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
)

// Error classes of an upstream exchange
var (
	// ErrConnection indicates that the upstream was unreachable or timed out.
	// No HTTP status was received.
	ErrConnection = errors.New("connection error")

	// ErrServer indicates a 5xx, 408 or 429 response. Retryable.
	ErrServer = errors.New("server error")

	// ErrValidation indicates a 4xx response other than 401, 408 and 429.
	// Never retried automatically.
	ErrValidation = errors.New("validation error")

	// ErrAuthExpired indicates a 401 response or a locally expired bearer token
	ErrAuthExpired = errors.New("authentication expired")
)

// ErrorClass is the retry class of an error
type ErrorClass int

const (
	ClassUnknown ErrorClass = iota
	ClassConnection
	ClassServer
	ClassValidation
	ClassAuthExpired
)

func (c ErrorClass) String() string {
	switch c {
	case ClassConnection:
		return "connection"
	case ClassServer:
		return "server"
	case ClassValidation:
		return "validation"
	case ClassAuthExpired:
		return "auth_expired"
	default:
		return "unknown"
	}
}

// Transient reports whether the error class is retried automatically
func (c ErrorClass) Transient() bool {
	return c == ClassConnection || c == ClassServer
}

// StatusError is a non-2xx upstream response
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the class sentinel, so errors.Is(err, ErrValidation) works
func (e *StatusError) Unwrap() error {
	return classSentinel(ClassifyStatus(e.StatusCode))
}

// ClassifyStatus maps an HTTP status code to its error class.
// 2xx and 3xx return ClassUnknown.
func ClassifyStatus(code int) ErrorClass {
	switch {
	case code == http.StatusUnauthorized:
		return ClassAuthExpired
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return ClassServer
	case code >= 500:
		return ClassServer
	case code >= 400:
		return ClassValidation
	default:
		return ClassUnknown
	}
}

// Classify returns the class of err
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassUnknown
	case errors.Is(err, ErrAuthExpired):
		return ClassAuthExpired
	case errors.Is(err, ErrValidation):
		return ClassValidation
	case errors.Is(err, ErrServer):
		return ClassServer
	case errors.Is(err, ErrConnection), IsConnectionError(err):
		return ClassConnection
	default:
		return ClassUnknown
	}
}

// IsConnectionError reports whether err is a transport level failure:
// refused or reset connections, DNS errors, timeouts, truncated responses.
// HTTP error statuses and caller cancellation are not connection errors.
func IsConnectionError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrConnection) {
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func classSentinel(c ErrorClass) error {
	switch c {
	case ClassConnection:
		return ErrConnection
	case ClassServer:
		return ErrServer
	case ClassValidation:
		return ErrValidation
	case ClassAuthExpired:
		return ErrAuthExpired
	default:
		return nil
	}
}
