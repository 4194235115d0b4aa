// Package scheduler runs named periodic tasks. The agent registers its
// background sync intents here.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

var (
	// ErrDuplicateTask indicates that a task with the same name is already registered
	ErrDuplicateTask = errors.New("task already registered")

	// ErrInvalidTask indicates an empty name, a nil func or a non-positive interval
	ErrInvalidTask = errors.New("invalid task")

	// ErrAlreadyRunning indicates that Run was called twice
	ErrAlreadyRunning = errors.New("scheduler already running")
)

// Task is one run of a periodic intent
type Task func(ctx context.Context)

type registration struct {
	fn       Task
	stop     chan struct{}
	name     string
	interval time.Duration
}

// Scheduler fires registered tasks on their interval. A task never
// overlaps with itself: ticks that arrive while it runs are dropped.
type Scheduler struct {
	logger  *slog.Logger
	tasks   map[string]*registration
	runCtx  context.Context
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// New creates an empty scheduler
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make(map[string]*registration),
	}
}

// Register adds a named task. Registering while Run is active starts the
// task immediately.
func (s *Scheduler) Register(name string, interval time.Duration, fn Task) error {
	if name == "" || fn == nil || interval <= 0 {
		return fmt.Errorf("%w: name=%q interval=%s", ErrInvalidTask, name, interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, name)
	}

	reg := &registration{name: name, interval: interval, fn: fn, stop: make(chan struct{})}
	s.tasks[name] = reg

	if s.running {
		s.start(s.runCtx, reg)
	}

	s.logger.Debug("Task registered", "task", name, "interval", interval)
	return nil
}

// Unregister stops and removes a task. It reports whether the task existed.
func (s *Scheduler) Unregister(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.tasks[name]
	if !ok {
		return false
	}
	delete(s.tasks, name)
	close(reg.stop)

	s.logger.Debug("Task unregistered", "task", name)
	return true
}

// Names returns the registered task names in sorted order
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run starts every registered task and blocks until ctx is done and all
// running tasks return.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.runCtx = ctx
	for _, reg := range s.tasks {
		s.start(ctx, reg)
	}
	count := len(s.tasks)
	s.mu.Unlock()

	s.logger.Info("Scheduler started", "tasks", count)

	<-ctx.Done()

	s.mu.Lock()
	s.running = false
	s.runCtx = nil
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
	return nil
}

// start запускает цикл задачи; вызывается под s.mu
func (s *Scheduler) start(ctx context.Context, reg *registration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx, reg)
	}()
}

func (s *Scheduler) loop(ctx context.Context, reg *registration) {
	ticker := time.NewTicker(reg.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-reg.stop:
			return
		case <-ticker.C:
			s.logger.Debug("Task fired", "task", reg.name)
			reg.fn(ctx)
		}
	}
}
