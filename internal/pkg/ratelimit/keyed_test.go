package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyed_PerKeyBudget(t *testing.T) {
	k := NewPerMinute(2)

	assert.True(t, k.Allow("a"))
	assert.True(t, k.Allow("a"))
	assert.False(t, k.Allow("a"))

	assert.True(t, k.Allow("b"))
}

func TestKeyed_Disabled(t *testing.T) {
	k := NewPerMinute(0)
	for i := 0; i < 100; i++ {
		assert.True(t, k.Allow("a"))
	}

	var nilLimiter *Keyed
	assert.True(t, nilLimiter.Allow("a"))
}

func TestKeyed_DropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	k := NewPerMinute(1)
	k.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		assert.True(t, k.Allow(key))
	}
	assert.False(t, k.Allow("a"))
	assert.Equal(t, 3, k.Len())

	now = now.Add(30 * time.Second)
	assert.False(t, k.Allow("a"))

	now = now.Add(45 * time.Second)
	assert.True(t, k.Allow("d"))
	assert.Equal(t, 2, k.Len(), "b and c were idle for a full window")

	now = now.Add(time.Minute)
	assert.True(t, k.Allow("a"))
	assert.Equal(t, 1, k.Len())
}
