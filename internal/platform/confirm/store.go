package confirm

import (
	"sync"
	"time"
)

// Store holds short-lived confirmation tokens for destructive operations.
// A token is armed on the first request and consumed when the same key is
// presented again inside the validity window.
type Store interface {
	Arm(key string, ttl time.Duration) time.Time
	Consume(key string) bool
}

type entry struct {
	expiresAt time.Time
}

// MemoryStore is the in-process Store. Keys are operator+action strings.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]entry
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[string]entry),
		now:    time.Now,
	}
}

// Arm records a token for key and returns its expiry.
func (s *MemoryStore) Arm(key string, ttl time.Duration) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(ttl)
	s.tokens[key] = entry{expiresAt: expiresAt}
	return expiresAt
}

// Consume reports whether a live token exists for key and removes it either
// way, so a stale token never satisfies a later attempt.
func (s *MemoryStore) Consume(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[key]
	if !ok {
		return false
	}
	delete(s.tokens, key)

	return token.expiresAt.After(s.now())
}
