// Package ratelimit throttles clients per endpoint with token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// bucketIdleTTL is how long a bucket may sit unused before the sweeper
// evicts it.
const bucketIdleTTL = time.Hour

// Info describes the rate limit state reported to the client alongside the
// allow/deny decision. Limit 0 means the request was not subject to a limit.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket is a token bucket for one client+route pair. Tokens refill
// continuously at rate per second up to capacity.
type bucket struct {
	mu       sync.Mutex
	capacity float64
	rate     float64
	tokens   float64
	refilled time.Time
	lastSeen time.Time
}

func newBucket(capacity int, rate float64) *bucket {
	now := time.Now()
	return &bucket{
		capacity: float64(capacity),
		rate:     rate,
		tokens:   float64(capacity),
		refilled: now,
		lastSeen: now,
	}
}

// take refills the bucket for the elapsed time, then tries to consume one
// token. It reports the decision plus the remaining tokens and the moment the
// bucket is full again.
func (b *bucket) take() (allowed bool, remaining int, reset time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.refilled).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.refilled = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		allowed = true
	}

	reset = now
	if missing := b.capacity - b.tokens; missing > 0 {
		reset = now.Add(time.Duration(missing / b.rate * float64(time.Second)))
	}
	return allowed, int(b.tokens), reset
}

func (b *bucket) idleSince(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen.Before(cutoff)
}

// Limiter tracks one bucket per client and route.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     *Config

	sweeper *time.Ticker
	stop    chan struct{}
}

// NewLimiter creates a limiter. A nil config gets the built-in defaults.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = &Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
			SweepInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
	}
	if cfg.Enabled && cfg.SweepInterval > 0 {
		l.sweeper = time.NewTicker(cfg.SweepInterval)
		l.stop = make(chan struct{})
		go l.sweep()
	}
	return l
}

// Allow decides whether the client may hit the given path and method now.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.cfg.Enabled || l.cfg.Exempt[clientID] {
		return true, Info{Allowed: true}
	}
	if l.cfg.Blocked[clientID] {
		return false, Info{}
	}

	route := matchRoute(path, method, l.cfg.Routes)
	if route == nil {
		route = &Route{
			Limit:  l.cfg.DefaultLimit,
			Window: l.cfg.DefaultWindow,
		}
	}
	if route.Limit <= 0 {
		// Unlimited route, e.g. the health check.
		return true, Info{Allowed: true}
	}

	// Matched routes share one bucket across the whole route, so a prefix
	// limit cannot be dodged by varying the path suffix. Default-limited
	// requests bucket per concrete path.
	routeKey := route.Path
	if routeKey == "" {
		routeKey = path
	}
	b := l.bucketFor(clientID+":"+method+" "+routeKey, route)
	allowed, remaining, reset := b.take()

	info := Info{
		Allowed:   allowed,
		Limit:     route.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		if wait := time.Until(reset); wait > 0 {
			info.RetryAfter = wait
		}
	}
	return allowed, info
}

// bucketFor returns the bucket for the key, creating it on first use.
func (l *Limiter) bucketFor(key string, route *Route) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}

	capacity := route.Burst
	if capacity <= 0 {
		capacity = route.Limit
	}
	b := newBucket(capacity, float64(route.Limit)/route.Window.Seconds())
	l.buckets[key] = b
	return b
}

// sweep drops buckets idle past the TTL so one-off clients do not accumulate.
func (l *Limiter) sweep() {
	for {
		select {
		case <-l.sweeper.C:
			cutoff := time.Now().Add(-bucketIdleTTL)
			l.mu.Lock()
			for key, b := range l.buckets {
				if b.idleSince(cutoff) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

// Stop halts the background sweeper.
func (l *Limiter) Stop() {
	if l.sweeper != nil {
		l.sweeper.Stop()
	}
	if l.stop != nil {
		close(l.stop)
	}
}
