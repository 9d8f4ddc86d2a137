package feedback

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	toasts  []Toast
	expires time.Time
}

// MemoryStore is an in-process Store. Pending toasts expire after the TTL.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*memoryEntry
}

// NewMemoryStore creates an in-process store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Push(_ context.Context, sid string, toasts ...Toast) error {
	if len(toasts) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	e, ok := s.entries[sid]
	if !ok {
		e = &memoryEntry{}
		s.entries[sid] = e
	}
	e.toasts = append(e.toasts, toasts...)
	e.expires = now.Add(s.ttl)
	return nil
}

func (s *MemoryStore) Drain(_ context.Context, sid string) ([]Toast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sid]
	if !ok {
		return nil, nil
	}
	delete(s.entries, sid)
	if s.now().After(e.expires) {
		return nil, nil
	}
	return e.toasts, nil
}

func (s *MemoryStore) sweep(now time.Time) {
	for sid, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, sid)
		}
	}
}
