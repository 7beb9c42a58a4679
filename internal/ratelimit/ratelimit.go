// Package ratelimit provides the request rate-limit store used by the HTTP
// middleware.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Store decides whether the caller identified by key may proceed.
type Store interface {
	Allow(key string) bool
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore keeps one token bucket per key in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewMemoryStore allows perMinute requests per key with the given burst.
// Keys idle for longer than idle are forgotten by Cleanup.
func NewMemoryStore(perMinute, burst int, idle time.Duration) *MemoryStore {
	if burst < 1 {
		burst = 1
	}
	if idle <= 0 {
		idle = 3 * time.Minute
	}
	return &MemoryStore{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		idle:     idle,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (s *MemoryStore) Allow(key string) bool {
	s.mu.Lock()
	now := s.now()
	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	s.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Cleanup drops visitors idle for longer than the idle window and returns
// how many were removed.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	cutoff := s.now().Add(-s.idle)
	for key, v := range s.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(s.visitors, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// StartCleanup runs Cleanup every interval until Stop is called.
func (s *MemoryStore) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.stop) })
}
