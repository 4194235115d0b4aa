package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runScheduler(t *testing.T, s *Scheduler) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestRegister_Validation(t *testing.T) {
	s := New(testLogger())
	noop := func(ctx context.Context) {}

	assert.ErrorIs(t, s.Register("", time.Second, noop), ErrInvalidTask)
	assert.ErrorIs(t, s.Register("sync", 0, noop), ErrInvalidTask)
	assert.ErrorIs(t, s.Register("sync", time.Second, nil), ErrInvalidTask)

	require.NoError(t, s.Register("courtside-sync", time.Second, noop))
	assert.ErrorIs(t, s.Register("courtside-sync", time.Minute, noop), ErrDuplicateTask)

	require.NoError(t, s.Register("courtside-retry", time.Second, noop))
	assert.Equal(t, []string{"courtside-retry", "courtside-sync"}, s.Names())
}

func TestRun_FiresRegisteredTasks(t *testing.T) {
	s := New(testLogger())

	var fast, slow atomic.Int32
	require.NoError(t, s.Register("fast", 5*time.Millisecond, func(ctx context.Context) { fast.Add(1) }))
	require.NoError(t, s.Register("slow", time.Hour, func(ctx context.Context) { slow.Add(1) }))

	runScheduler(t, s)

	require.Eventually(t, func() bool { return fast.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Zero(t, slow.Load())
}

func TestRun_RegisterWhileRunning(t *testing.T) {
	s := New(testLogger())
	runScheduler(t, s)

	// Дожидаемся запуска
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.running
	}, time.Second, time.Millisecond)

	var n atomic.Int32
	require.NoError(t, s.Register("late", 5*time.Millisecond, func(ctx context.Context) { n.Add(1) }))

	require.Eventually(t, func() bool { return n.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestUnregister_StopsTask(t *testing.T) {
	s := New(testLogger())

	var n atomic.Int32
	require.NoError(t, s.Register("sync", 5*time.Millisecond, func(ctx context.Context) { n.Add(1) }))
	runScheduler(t, s)

	require.Eventually(t, func() bool { return n.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)

	assert.True(t, s.Unregister("sync"))
	assert.False(t, s.Unregister("sync"))
	assert.Empty(t, s.Names())

	// Последний запуск мог быть в процессе
	time.Sleep(20 * time.Millisecond)
	stopped := n.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, n.Load())
}

func TestRun_NoOverlap(t *testing.T) {
	s := New(testLogger())

	var active, maxActive, runs atomic.Int32
	require.NoError(t, s.Register("slow-sync", time.Millisecond, func(ctx context.Context) {
		cur := active.Add(1)
		defer active.Add(-1)
		for {
			prev := maxActive.Load()
			if cur <= prev || maxActive.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		runs.Add(1)
	}))

	runScheduler(t, s)

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := New(testLogger())

	started := make(chan struct{}, 1)
	require.NoError(t, s.Register("sync", time.Millisecond, func(ctx context.Context) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not start")
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRun_Twice(t *testing.T) {
	s := New(testLogger())
	runScheduler(t, s)

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.running
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, s.Run(context.Background()), ErrAlreadyRunning)
}
