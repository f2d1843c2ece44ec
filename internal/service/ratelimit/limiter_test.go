package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowsUpToCapacity(t *testing.T) {
	l := New()

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("k", 5, 0), "call %d should pass", i)
	}
	assert.False(t, l.Allow("k", 5, 0))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("a", 1, 0))
	assert.False(t, l.Allow("a", 1, 0))
	assert.True(t, l.Allow("b", 1, 0))
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("k", 1, 100))
	assert.False(t, l.Allow("k", 1, 100))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow("k", 1, 100))
}
