// Package connectivity tracks whether the upstream is reachable.
//
// The detector combines a native signal (network interfaces plus a health
// probe) with passive inference from real traffic: a connection level
// failure flips it offline even while the native signal still says online.
package connectivity

import (
	"log/slog"
	"sync"

	"github.com/iudanet/courtside/internal/client/api"
)

// Event is a connectivity transition
type Event int

const (
	WentOffline Event = iota
	WentOnline
)

func (e Event) String() string {
	if e == WentOnline {
		return "went_online"
	}
	return "went_offline"
}

// Detector хранит текущее состояние связи и рассылает переходы подписчикам.
// Online = native && !passiveFailure.
type Detector struct {
	logger      *slog.Logger
	subscribers map[int]func(Event)
	pending     []Event // переходы, ожидающие доставки, в порядке возникновения
	mu          sync.Mutex
	nextID      int
	native      bool
	passiveFail bool
	online      bool
	delivering  bool
}

// NewDetector creates a detector with the given initial native signal
func NewDetector(native bool, logger *slog.Logger) *Detector {
	return &Detector{
		logger:      logger,
		subscribers: make(map[int]func(Event)),
		native:      native,
		online:      native,
	}
}

// IsOnline reports the current best-effort state.
// true is a permission to attempt, not a guarantee of success.
func (d *Detector) IsOnline() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.online
}

// Subscribe registers fn for transition events and returns a function that
// removes the subscription. Events reach every subscriber in the order the
// transitions happened, one at a time. Callbacks must not block.
func (d *Detector) Subscribe(fn func(Event)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.subscribers[id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subscribers, id)
	}
}

// SetNative updates the native connectivity signal
func (d *Detector) SetNative(up bool) {
	d.update(func() {
		d.native = up
		if !up {
			// Без сети прошлый пассивный отказ больше не важен
			d.passiveFail = false
		}
	}, "native")
}

// ReportFailure records the outcome of a request that failed.
// Only connection level failures count; HTTP error statuses are ignored.
func (d *Detector) ReportFailure(err error) {
	if !api.IsConnectionError(err) {
		return
	}
	d.update(func() { d.passiveFail = true }, "passive")
}

// ReportSuccess records a completed HTTP exchange with the upstream
func (d *Detector) ReportSuccess() {
	d.update(func() { d.passiveFail = false }, "passive")
}

func (d *Detector) update(mutate func(), source string) {
	d.mu.Lock()
	was := d.online
	mutate()
	d.online = d.native && !d.passiveFail
	now := d.online

	if was == now {
		d.mu.Unlock()
		return
	}

	event := WentOffline
	if now {
		event = WentOnline
	}
	d.pending = append(d.pending, event)
	d.logger.Info("Connectivity changed", "event", event.String(), "source", source)

	// Доставкой занимается одна горутина, остальные только добавляют события
	if d.delivering {
		d.mu.Unlock()
		return
	}
	d.delivering = true
	d.mu.Unlock()

	d.deliver()
}

// deliver отправляет накопленные события подписчикам вне блокировки
func (d *Detector) deliver() {
	for {
		d.mu.Lock()
		if len(d.pending) == 0 {
			d.delivering = false
			d.mu.Unlock()
			return
		}
		event := d.pending[0]
		d.pending = d.pending[1:]

		subs := make([]func(Event), 0, len(d.subscribers))
		for _, fn := range d.subscribers {
			subs = append(subs, fn)
		}
		d.mu.Unlock()

		for _, fn := range subs {
			fn(event)
		}
	}
}
