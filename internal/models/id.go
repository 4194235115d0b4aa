package models

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	maxIDCounter = 999999
	actionIDLen  = 19 + 1 + 6
)

// IDGenerator выдает строго возрастающие идентификаторы операций вида
// "<unix nanos, 19 digits>-<counter, 6 digits>". Лексикографический порядок
// строк совпадает с порядком постановки в очередь.
type IDGenerator struct {
	now       func() time.Time
	lastNanos int64
	counter   int
	mu        sync.Mutex
}

// NewIDGenerator creates a generator that never returns an id lower than or
// equal to seed. Pass the highest id already stored so ordering survives
// restarts and wall clock regressions. An empty seed starts from scratch.
func NewIDGenerator(seed string) (*IDGenerator, error) {
	g := &IDGenerator{now: time.Now}

	if seed != "" {
		nanos, counter, err := ParseActionID(seed)
		if err != nil {
			return nil, fmt.Errorf("invalid seed id: %w", err)
		}
		g.lastNanos = nanos
		g.counter = counter
	}

	return g, nil
}

// Next returns the next action id.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	nanos := g.now().UnixNano()
	if nanos > g.lastNanos {
		g.lastNanos = nanos
		g.counter = 0
	} else {
		// часы не сдвинулись или ушли назад - увеличиваем счетчик
		g.counter++
		if g.counter > maxIDCounter {
			g.lastNanos++
			g.counter = 0
		}
	}

	return FormatActionID(g.lastNanos, g.counter)
}

// FormatActionID builds the canonical string form of an action id.
func FormatActionID(nanos int64, counter int) string {
	return fmt.Sprintf("%019d-%06d", nanos, counter)
}

// ParseActionID splits an action id into its timestamp and counter parts.
func ParseActionID(id string) (int64, int, error) {
	nanosPart, counterPart, ok := strings.Cut(id, "-")
	if !ok || len(nanosPart) != 19 || len(counterPart) != 6 {
		return 0, 0, fmt.Errorf("malformed action id %q", id)
	}

	nanos, err := strconv.ParseInt(nanosPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed action id %q: %w", id, err)
	}
	counter, err := strconv.Atoi(counterPart)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed action id %q: %w", id, err)
	}

	return nanos, counter, nil
}
