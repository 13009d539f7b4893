// Package retry wraps fallible network operations in a bounded, fixed-delay loop.
package retry

import (
	"fmt"
	"time"
)

// Config carries the retry budget shared by every call site.
type Config struct {
	MaxAttempts int
	Delay       time.Duration
}

// Exhausted reports that every attempt failed, keeping the final cause reachable
// through errors.Unwrap.
type Exhausted struct {
	Attempts int
	Last     error
}

func (e *Exhausted) Error() string {
	return fmt.Sprintf("retry: %d attempts exhausted: %v", e.Attempts, e.Last)
}

func (e *Exhausted) Unwrap() error { return e.Last }

// Do runs op up to cfg.MaxAttempts times, sleeping cfg.Delay between attempts.
// The delay is fixed: these are low-frequency trade operations, not a hot loop
// that needs backoff. Each failure is handed to report (attempt index starting
// at 1) before the sleep; report may be nil. A started attempt always runs to
// completion. After the final failure the zero value and an *Exhausted wrapping
// the last error are returned.
func Do[T any](cfg Config, report func(attempt int, err error), op func() (T, error)) (T, error) {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := op()
		if err == nil {
			return v, nil
		}
		last = err
		if report != nil {
			report(attempt, err)
		}
		if attempt < attempts {
			time.Sleep(cfg.Delay)
		}
	}
	return zero, &Exhausted{Attempts: attempts, Last: last}
}
