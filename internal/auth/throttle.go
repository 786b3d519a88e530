package auth

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LoginThrottle tracks failed login attempts per key (typically the
// client IP) and blocks further attempts once the limit is reached.
// Entries expire on their own, so a quiet client is forgiven without
// any background sweeper.
type LoginThrottle struct {
	mu       sync.Mutex
	attempts *expirable.LRU[string, int]
	limit    int
}

// NewLoginThrottle creates a throttle allowing limit failed attempts
// per key within the given window.
func NewLoginThrottle(limit int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		attempts: expirable.NewLRU[string, int](4096, nil, window),
		limit:    limit,
	}
}

// Allow reports whether the key may attempt another login.
func (t *LoginThrottle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	count, _ := t.attempts.Get(key)
	return count < t.limit
}

// RecordFailure counts a failed login attempt for the key.
func (t *LoginThrottle) RecordFailure(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	count, _ := t.attempts.Get(key)
	t.attempts.Add(key, count+1)
}

// Reset clears the failure count after a successful login.
func (t *LoginThrottle) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.attempts.Remove(key)
}
