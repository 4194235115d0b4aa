package connectivity

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/courtside/internal/client/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder собирает события подписки
type recorder struct {
	events []Event
	mu     sync.Mutex
}

func (r *recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) get() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

var errRefused = &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}

func TestDetector_NativeTransitions(t *testing.T) {
	d := NewDetector(false, testLogger())
	rec := &recorder{}
	d.Subscribe(rec.record)

	assert.False(t, d.IsOnline())

	d.SetNative(true)
	assert.True(t, d.IsOnline())

	// Повтор без изменения не порождает событие
	d.SetNative(true)

	d.SetNative(false)
	assert.False(t, d.IsOnline())

	assert.Equal(t, []Event{WentOnline, WentOffline}, rec.get())
}

func TestDetector_PassiveFailureOverridesNative(t *testing.T) {
	d := NewDetector(true, testLogger())
	rec := &recorder{}
	d.Subscribe(rec.record)

	// Ошибка статуса HTTP не считается отказом связи
	d.ReportFailure(&api.StatusError{StatusCode: 503})
	assert.True(t, d.IsOnline())

	d.ReportFailure(errors.New("failed to marshal"))
	assert.True(t, d.IsOnline())

	// Отказ соединения - offline, хотя native все еще online
	d.ReportFailure(errRefused)
	assert.False(t, d.IsOnline())

	// Native подтверждает online, но пассивный отказ остается в силе
	d.SetNative(true)
	assert.False(t, d.IsOnline())

	d.ReportSuccess()
	assert.True(t, d.IsOnline())

	assert.Equal(t, []Event{WentOffline, WentOnline}, rec.get())
}

func TestDetector_SuccessWhileNativeDown(t *testing.T) {
	d := NewDetector(false, testLogger())

	d.ReportSuccess()
	assert.False(t, d.IsOnline())
}

func TestDetector_NativeDownClearsPassiveFailure(t *testing.T) {
	d := NewDetector(true, testLogger())

	d.ReportFailure(errRefused)
	d.SetNative(false)
	d.SetNative(true)

	assert.True(t, d.IsOnline())
}

func TestDetector_Unsubscribe(t *testing.T) {
	d := NewDetector(true, testLogger())
	first := &recorder{}
	second := &recorder{}

	unsubscribe := d.Subscribe(first.record)
	d.Subscribe(second.record)

	d.SetNative(false)
	unsubscribe()
	d.SetNative(true)

	assert.Equal(t, []Event{WentOffline}, first.get())
	assert.Equal(t, []Event{WentOffline, WentOnline}, second.get())
}

func TestDetector_CallbackMayQueryState(t *testing.T) {
	d := NewDetector(false, testLogger())

	var seen []bool
	d.Subscribe(func(e Event) {
		// Колбэк вызывается вне блокировки
		seen = append(seen, d.IsOnline())
	})

	d.SetNative(true)
	assert.Equal(t, []bool{true}, seen)
}

func TestDetector_DeliveryIsSerialised(t *testing.T) {
	d := NewDetector(true, testLogger())

	rec := &recorder{}
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	d.Subscribe(func(e Event) {
		rec.record(e)
		once.Do(func() {
			close(entered)
			<-release
		})
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.SetNative(false)
	}()
	<-entered

	// Пока первый переход доставляется, второй только встает в очередь
	d.SetNative(true)
	assert.Equal(t, []Event{WentOffline}, rec.get())
	assert.True(t, d.IsOnline())

	close(release)
	<-done
	assert.Equal(t, []Event{WentOffline, WentOnline}, rec.get())
}

func TestDetector_TransitionFromCallback(t *testing.T) {
	d := NewDetector(true, testLogger())

	rec := &recorder{}
	d.Subscribe(func(e Event) {
		rec.record(e)
		if e == WentOffline {
			d.SetNative(true)
		}
	})
	d.Subscribe(func(e Event) {
		rec.record(e)
	})

	d.SetNative(false)
	assert.Equal(t, []Event{WentOffline, WentOffline, WentOnline, WentOnline}, rec.get())
	assert.True(t, d.IsOnline())
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "went_online", WentOnline.String())
	assert.Equal(t, "went_offline", WentOffline.String())
}
