// Package localratelimit provides an in-process login limiter used
// when no Redis address is configured. Each replica keeps its own
// counters, so the effective limit scales with the replica count.
package localratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles attempts per key with a token bucket per key.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*entry
	limit    rate.Limit
	burst    int
	lastSeen func() time.Time

	// sweepAfter controls when idle buckets are dropped.
	sweepAfter time.Duration
}

type entry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// Options configures a Limiter.
type Options struct {
	// Limit is the maximum number of attempts per key per window.
	Limit int
	// Window is the counting window. Defaults to one minute.
	Window time.Duration
	// Now overrides the clock for tests.
	Now func() time.Time
}

// New creates an in-process limiter.
func New(opts Options) (*Limiter, error) {
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", opts.Limit)
	}
	window := opts.Window
	if window <= 0 {
		window = time.Minute
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		buckets:    make(map[string]*entry),
		limit:      rate.Every(window / time.Duration(opts.Limit)),
		burst:      opts.Limit,
		lastSeen:   now,
		sweepAfter: 2 * window,
	}, nil
}

// Allow reports whether one more attempt for key fits the limit.
// The error return exists to satisfy the limiter port; it is always nil.
func (l *Limiter) Allow(_ context.Context, key string) (bool, error) {
	if key == "" {
		return true, nil
	}

	now := l.lastSeen()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	k := strings.ToLower(key)
	e, ok := l.buckets[k]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[k] = e
	}
	e.seen = now

	return e.limiter.AllowN(now, 1), nil
}

// sweep drops buckets idle long enough to have fully refilled.
// Caller must hold l.mu.
func (l *Limiter) sweep(now time.Time) {
	for k, e := range l.buckets {
		if now.Sub(e.seen) > l.sweepAfter {
			delete(l.buckets, k)
		}
	}
}
