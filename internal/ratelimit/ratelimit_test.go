package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_BurstThenLimited(t *testing.T) {
	s := NewMemoryStore(60, 3, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, s.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, s.Allow("10.0.0.1"))
	assert.True(t, s.Allow("10.0.0.2"), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, s.Allow("10.0.0.1"), "one token refills per second at 60/min")
	assert.False(t, s.Allow("10.0.0.1"))
}

func TestMemoryStore_Cleanup(t *testing.T) {
	s := NewMemoryStore(60, 1, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Allow("old")
	now = now.Add(2 * time.Minute)
	s.Allow("fresh")

	assert.Equal(t, 1, s.Cleanup())
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_StopIsIdempotent(t *testing.T) {
	s := NewMemoryStore(60, 1, time.Minute)
	s.StartCleanup(time.Hour)
	s.Stop()
	s.Stop()
}
