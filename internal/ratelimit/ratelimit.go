// Package ratelimit implements fixed-window admission counters.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one admission attempt.
type Decision struct {
	Allowed bool
	Count   int
	Limit   int
	ResetAt time.Time
}

// Remaining returns how many more hits the key may make in the current window.
func (d Decision) Remaining() int {
	if r := d.Limit - d.Count; r > 0 {
		return r
	}
	return 0
}

// Store counts hits per key within fixed windows. Implementations must be
// safe for concurrent use.
type Store interface {
	Admit(ctx context.Context, key string) (Decision, error)
}

// Defaults used when the configuration leaves a value unset.
const (
	DefaultLimit  = 60
	DefaultWindow = time.Minute
)

func normalize(limit int, window time.Duration) (int, time.Duration) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return limit, window
}
