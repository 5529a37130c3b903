package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter_GetLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(10), 5, testLogger())

	l1 := limiter.GetLimiter("192.168.1.1")
	assert.NotNil(t, l1)
	assert.Equal(t, rate.Limit(10), l1.Limit())
	assert.Equal(t, 5, l1.Burst())

	// Same IP gets the same bucket back.
	l2 := limiter.GetLimiter("192.168.1.1")
	assert.Same(t, l1, l2)

	l3 := limiter.GetLimiter("1.1.1.1")
	assert.NotSame(t, l1, l3)
}

func TestIPRateLimiter_BurstExhaustion(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 2, testLogger())

	l := limiter.GetLimiter("10.0.0.1")
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	// Another IP is unaffected.
	assert.True(t, limiter.GetLimiter("10.0.0.2").Allow())
}

func TestIPRateLimiter_StartCleanup(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1, testLogger())

	for i := 0; i < limiterMapCap+1; i++ {
		limiter.GetLimiter(fmt.Sprintf("ip-%d", i))
	}
	assert.Equal(t, limiterMapCap+1, len(limiter.ips))

	limiter.StartCleanup(10 * time.Millisecond)

	assert.Eventually(t, func() bool {
		limiter.mu.RLock()
		defer limiter.mu.RUnlock()
		return len(limiter.ips) == 0
	}, time.Second, 10*time.Millisecond)
}
