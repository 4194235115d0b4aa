package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code int
		want ErrorClass
	}{
		{code: 200, want: ClassUnknown},
		{code: 201, want: ClassUnknown},
		{code: 400, want: ClassValidation},
		{code: 401, want: ClassAuthExpired},
		{code: 403, want: ClassValidation},
		{code: 404, want: ClassValidation},
		{code: 408, want: ClassServer},
		{code: 409, want: ClassValidation},
		{code: 422, want: ClassValidation},
		{code: 429, want: ClassServer},
		{code: 500, want: ClassServer},
		{code: 503, want: ClassServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.code))
		})
	}
}

func TestStatusError_Unwrap(t *testing.T) {
	err := fmt.Errorf("replay: %w", &StatusError{StatusCode: 422, Message: "bad shot"})

	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrServer)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "bad shot")

	assert.ErrorIs(t, &StatusError{StatusCode: 502}, ErrServer)
	assert.ErrorIs(t, &StatusError{StatusCode: 401}, ErrAuthExpired)
}

func TestErrorClass_Transient(t *testing.T) {
	assert.True(t, ClassConnection.Transient())
	assert.True(t, ClassServer.Transient())
	assert.False(t, ClassValidation.Transient())
	assert.False(t, ClassAuthExpired.Transient())
	assert.False(t, ClassUnknown.Transient())
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "refused", err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, want: true},
		{name: "reset wrapped", err: fmt.Errorf("read: %w", syscall.ECONNRESET), want: true},
		{name: "url error", err: &url.Error{Op: "Get", URL: "http://x", Err: errors.New("no such host")}, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "truncated body", err: io.ErrUnexpectedEOF, want: true},
		{name: "sentinel", err: fmt.Errorf("x: %w", ErrConnection), want: true},
		{name: "caller cancel", err: &url.Error{Op: "Get", URL: "http://x", Err: context.Canceled}, want: false},
		{name: "status error", err: &StatusError{StatusCode: 503}, want: false},
		{name: "plain", err: errors.New("marshal failed"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionError(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassUnknown, Classify(nil))
	assert.Equal(t, ClassConnection, Classify(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}))
	assert.Equal(t, ClassAuthExpired, Classify(fmt.Errorf("token: %w", ErrAuthExpired)))
	assert.Equal(t, ClassValidation, Classify(&StatusError{StatusCode: 400}))
	assert.Equal(t, ClassServer, Classify(&StatusError{StatusCode: 500}))
	assert.Equal(t, ClassUnknown, Classify(errors.New("boom")))
	assert.Equal(t, "auth_expired", ClassAuthExpired.String())
}
