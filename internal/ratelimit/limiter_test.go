package ratelimit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimiterBurstPerKey(t *testing.T) {
	l := New(0.001, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("alice"), "request %d within burst", i+1)
	}
	assert.False(t, l.Allow("alice"), "burst exhausted")

	assert.True(t, l.Allow("bob"), "keys have independent buckets")
	assert.Equal(t, 2, l.Len())
}

func TestNilLimiterAllows(t *testing.T) {
	var l *Limiter
	assert.True(t, l.Allow("anyone"))
}

func TestLimiterConcurrentKeys(t *testing.T) {
	l := New(1, 1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Allow("shared")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, l.Len())
	assert.False(t, l.Allow("shared"))
}
