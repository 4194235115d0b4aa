package sync

import "sync/atomic"

// DrainState is the global Idle/Draining flag of the queue drain.
// Managers sharing a DrainState never drain concurrently; tests create
// their own instance.
type DrainState struct {
	draining atomic.Bool
}

// NewDrainState returns a state in Idle
func NewDrainState() *DrainState {
	return &DrainState{}
}

// TryStart switches Idle to Draining. It returns false if a drain is
// already running; the caller must not start another one.
func (s *DrainState) TryStart() bool {
	return s.draining.CompareAndSwap(false, true)
}

// Finish returns the state to Idle
func (s *DrainState) Finish() {
	s.draining.Store(false)
}

// IsDraining reports whether a drain cycle is running
func (s *DrainState) IsDraining() bool {
	return s.draining.Load()
}
