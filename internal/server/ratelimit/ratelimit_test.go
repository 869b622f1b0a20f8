package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func withClock(l *Limiter, c *fakeClock) *Limiter {
	l.now = c.now
	return l
}

func TestBucket_TakeAndRefill(t *testing.T) {
	clock := newFakeClock()
	b := newBucket(10, 1.0, clock.now())

	for i := 0; i < 10; i++ {
		allowed, remaining, _ := b.take(clock.now())
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 9-i, remaining)
	}
	allowed, _, reset := b.take(clock.now())
	assert.False(t, allowed)
	assert.Equal(t, clock.now().Add(10*time.Second), reset)

	clock.advance(time.Second)
	allowed, _, _ = b.take(clock.now())
	assert.True(t, allowed)
	allowed, _, _ = b.take(clock.now())
	assert.False(t, allowed)
}

func TestLimiter_Allow(t *testing.T) {
	clock := newFakeClock()
	limiter := withClock(NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute}), clock)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 6*time.Second, info.RetryAfter)

	allowed, _ = limiter.Allow("10.0.0.2", "/test", "GET")
	assert.True(t, allowed, "other clients have their own bucket")
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     []string{"127.0.0.1"},
		Blacklist:     []string{"10.0.0.66"},
	})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow("10.0.0.66", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/analyze", "POST")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Endpoints:     DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/analyze", "POST")
		require.True(t, allowed, "burst request %d", i+1)
		assert.Equal(t, 60, info.Limit)
	}
	allowed, _ := limiter.Allow("127.0.0.1", "/analyze", "POST")
	assert.False(t, allowed, "burst of 10 exhausted")

	allowed, info := limiter.Allow("127.0.0.1", "/health", "GET")
	assert.True(t, allowed)
	assert.Zero(t, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		wantPath     string
		wantNil      bool
	}{
		{path: "/analyze", method: "POST", wantPath: "/analyze"},
		{path: "/reports/abc", method: "GET", wantPath: "/reports/"},
		{path: "/metrics", method: "GET", wantPath: "/metrics"},
		{path: "/analyze", method: "GET", wantNil: true},
		{path: "/unknown", method: "POST", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})
	defer limiter.Stop()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if ok, _ := limiter.Allow("127.0.0.1", "/test", "GET"); ok {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowed.Load())
}

func TestLimiter_EvictIdle(t *testing.T) {
	clock := newFakeClock()
	limiter := withClock(NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Hour}), clock)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("10.0.0.%d", i), "/test", "GET")
	}
	require.Equal(t, 3, limiter.Len())

	clock.advance(30 * time.Minute)
	limiter.Allow("10.0.0.0", "/test", "GET")
	clock.advance(45 * time.Minute)
	limiter.evictIdle()

	assert.Equal(t, 1, limiter.Len())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "127.0.0.1,10.0.0.1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, []string{"127.0.0.1", "10.0.0.1"}, cfg.Whitelist)
	assert.Equal(t, DefaultEndpointConfigs(), cfg.Endpoints)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "many")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}
