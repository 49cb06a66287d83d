package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count       int
	windowStart time.Time
}

// MemoryStore keeps counters in process memory. Counts are lost on restart and
// are not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	now     func() time.Time
}

// MemoryOption customises a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore builds an in-memory store admitting limit hits per window.
func NewMemoryStore(limit int, window time.Duration, opts ...MemoryOption) *MemoryStore {
	limit, window = normalize(limit, window)
	s := &MemoryStore{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Admit implements Store.
func (s *MemoryStore) Admit(_ context.Context, key string) (Decision, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || now.Sub(e.windowStart) >= s.window {
		e = &entry{count: 1, windowStart: now}
		s.entries[key] = e
	} else {
		e.count++
	}

	return Decision{
		Allowed: e.count <= s.limit,
		Count:   e.count,
		Limit:   s.limit,
		ResetAt: e.windowStart.Add(s.window),
	}, nil
}

// Sweep drops entries whose window has elapsed and returns how many were
// removed.
func (s *MemoryStore) Sweep(context.Context) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if now.Sub(e.windowStart) >= s.window {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Window returns the window length, which is also the sweep interval.
func (s *MemoryStore) Window() time.Duration {
	return s.window
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
