// Package ratelimit provides per-client token bucket rate limiting.
package ratelimit

import (
	"sync"
	"time"
)

// bucket refills at rate tokens per second up to capacity.
type bucket struct {
	capacity float64
	rate     float64
	tokens   float64
	last     time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{capacity: float64(capacity), rate: rate, tokens: float64(capacity), last: now}
}

func (b *bucket) refill(now time.Time) {
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.last).Seconds()*b.rate)
	b.last = now
}

// take refills, consumes one token when available and reports the state
// after: tokens left and when the bucket is full again.
func (b *bucket) take(now time.Time) (allowed bool, remaining int, reset time.Time) {
	b.refill(now)
	if b.tokens >= 1 {
		b.tokens--
		allowed = true
	}
	remaining = int(b.tokens)
	reset = now
	if b.tokens < b.capacity {
		reset = now.Add(b.wait(b.capacity - b.tokens))
	}
	return allowed, remaining, reset
}

// wait is the time needed to accumulate n tokens.
func (b *bucket) wait(n float64) time.Duration {
	return time.Duration(n / b.rate * float64(time.Second))
}

// Info describes the limit applied to one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks one bucket per client, method and path.
type Limiter struct {
	config    *Config
	whitelist map[string]bool
	blacklist map[string]bool

	mu      sync.Mutex
	buckets map[string]*bucket

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

// NewLimiter creates a limiter and, when enabled, starts the idle bucket sweeper.
// A nil config uses a 1000 requests per minute default.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Minute, CleanupInterval: 5 * time.Minute}
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = time.Hour
	}

	l := &Limiter{
		config:    config,
		whitelist: toSet(config.Whitelist),
		blacklist: toSet(config.Blacklist),
		buckets:   make(map[string]*bucket),
		now:       time.Now,
		stop:      make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.sweep(config.CleanupInterval)
	}
	return l
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item != "" {
			set[item] = true
		}
	}
	return set
}

// Allow consumes a token for the client's request and reports whether it may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.blacklist[clientID] {
		return false, Info{}
	}

	ec := MatchEndpoint(path, method, l.config.Endpoints)
	if ec == nil {
		ec = &EndpointConfig{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if ec.Limit <= 0 || ec.Window <= 0 {
		return true, Info{Allowed: true}
	}
	capacity := ec.Burst
	if capacity <= 0 {
		capacity = ec.Limit
	}

	key := clientID + ":" + method + ":" + path
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(capacity, float64(ec.Limit)/ec.Window.Seconds(), now)
		l.buckets[key] = b
	}
	allowed, remaining, reset := b.take(now)
	var retry time.Duration
	if !allowed {
		retry = b.wait(1 - b.tokens)
	}
	l.mu.Unlock()

	return allowed, Info{Allowed: allowed, Limit: ec.Limit, Remaining: remaining, ResetTime: reset, RetryAfter: retry}
}

func (l *Limiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets untouched for longer than IdleTTL.
func (l *Limiter) evictIdle() {
	cutoff := l.now().Add(-l.config.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.last.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Len returns the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop stops the sweeper. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
