package connectivity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/courtside/internal/client/api"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

func TestProber_Probe(t *testing.T) {
	tests := []struct {
		name       string
		native     bool
		healthErr  error
		wantOnline bool
		wantCalls  int
	}{
		{name: "healthy", native: true, wantOnline: true, wantCalls: 1},
		{name: "no interface skips health check", native: false, wantOnline: false, wantCalls: 0},
		{name: "connection refused", native: true, healthErr: fmt.Errorf("%w: %w", api.ErrConnection, errRefused), wantOnline: false, wantCalls: 1},
		{name: "unhealthy but reachable", native: true, healthErr: &api.StatusError{StatusCode: 503}, wantOnline: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &HealthCheckerMock{
				HealthFunc: func(ctx context.Context) (*pkgapi.HealthResponse, error) {
					if tt.healthErr != nil {
						return nil, tt.healthErr
					}
					return &pkgapi.HealthResponse{Status: "ok"}, nil
				},
			}
			detector := NewDetector(false, testLogger())
			prober := NewProber(checker, detector, time.Minute, func() bool { return tt.native }, testLogger())

			prober.Probe(context.Background())

			assert.Equal(t, tt.wantOnline, detector.IsOnline())
			assert.Len(t, checker.HealthCalls(), tt.wantCalls)
		})
	}
}

func TestProber_RecoversAfterFailure(t *testing.T) {
	healthy := false
	checker := &HealthCheckerMock{
		HealthFunc: func(ctx context.Context) (*pkgapi.HealthResponse, error) {
			if !healthy {
				return nil, fmt.Errorf("%w: %w", api.ErrConnection, errRefused)
			}
			return &pkgapi.HealthResponse{Status: "ok"}, nil
		},
	}
	detector := NewDetector(true, testLogger())
	rec := &recorder{}
	detector.Subscribe(rec.record)

	prober := NewProber(checker, detector, time.Minute, func() bool { return true }, testLogger())

	prober.Probe(context.Background())
	assert.False(t, detector.IsOnline())

	healthy = true
	prober.Probe(context.Background())
	assert.True(t, detector.IsOnline())

	assert.Equal(t, []Event{WentOffline, WentOnline}, rec.get())
}

func TestProber_RunAgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	detector := NewDetector(false, testLogger())
	online := make(chan struct{}, 1)
	detector.Subscribe(func(e Event) {
		if e == WentOnline {
			select {
			case online <- struct{}{}:
			default:
			}
		}
	})

	prober := NewProber(api.NewClient(server.URL), detector, 20*time.Millisecond, NativeSignalFor(server.URL), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- prober.Run(ctx) }()

	select {
	case <-online:
	case <-time.After(2 * time.Second):
		t.Fatal("detector did not go online")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestNativeSignalFor(t *testing.T) {
	assert.True(t, NativeSignalFor("http://127.0.0.1:8080")())
	assert.True(t, NativeSignalFor("http://localhost:8080")())
	assert.True(t, NativeSignalFor("http://[::1]:8080")())
}

func TestProber_SetTimeout(t *testing.T) {
	checker := &HealthCheckerMock{
		HealthFunc: func(ctx context.Context) (*pkgapi.HealthResponse, error) {
			<-ctx.Done()
			return nil, fmt.Errorf("%w: %w", api.ErrConnection, ctx.Err())
		},
	}
	detector := NewDetector(true, testLogger())
	prober := NewProber(checker, detector, time.Hour, func() bool { return true }, testLogger())

	prober.SetTimeout(0)
	assert.Equal(t, DefaultProbeTimeout, prober.timeout)

	prober.SetTimeout(10 * time.Millisecond)

	start := time.Now()
	prober.Probe(context.Background())
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, detector.IsOnline())
}
