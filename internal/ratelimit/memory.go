package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local fixed-window store useful for tests and
// single-instance deployments. Increments are serialized by the mutex, so
// concurrent bursts never under-count.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	Clock   func() time.Time
}

type window struct {
	count   int64
	resetAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*window), Clock: time.Now}
}

func (s *MemoryStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Clock()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(ttl)}
		s.windows[key] = w
	}
	w.count++
	return w.count, nil
}
