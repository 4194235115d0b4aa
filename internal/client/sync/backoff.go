package sync

import "time"

// Значения по умолчанию для повторных попыток
const (
	DefaultBackoffBase = 2 * time.Second
	DefaultBackoffMax  = 5 * time.Minute
)

// backoff returns the delay before the next automatic attempt after the
// retryCount-th transient failure: base, 2*base, 4*base, ... capped at limit.
func backoff(retryCount int, base, limit time.Duration) time.Duration {
	if retryCount <= 0 || base <= 0 {
		return 0
	}

	delay := base
	for i := 1; i < retryCount; i++ {
		delay *= 2
		if limit > 0 && delay >= limit {
			return limit
		}
	}
	if limit > 0 && delay > limit {
		return limit
	}
	return delay
}
