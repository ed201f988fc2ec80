// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter is a token-bucket limiter with a burst equal to its rate,
// reporting an "effective rate": allowed/seen averaged across the current
// and previous one-second windows, rather than a naive lifetime ratio. This
// makes the reported rate responsive to bursty traffic without flapping to
// 0% or 100% at window boundaries.
type rateLimiter struct {
	limiter *rate.Limiter
	maxPS   float64

	mu          sync.Mutex
	prevWindow  time.Time
	curAllowed  float64
	curSeen     float64
	prevAllowed float64
	prevSeen    float64
}

// newRateLimiter builds a rateLimiter allowing up to maxPerSecond events per
// second, with a burst capacity equal to the rate (at least 1).
func newRateLimiter(maxPerSecond float64) *rateLimiter {
	burst := int(maxPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiter:    rate.NewLimiter(rate.Limit(maxPerSecond), burst),
		maxPS:      maxPerSecond,
		prevWindow: time.Now(),
	}
}

// allowOne reports whether one more event may be admitted right now, and
// records the outcome for the effective-rate computation.
func (r *rateLimiter) allowOne(now time.Time) bool {
	allowed := r.limiter.AllowN(now, 1)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotateLocked(now)
	r.curSeen++
	if allowed {
		r.curAllowed++
	}
	return allowed
}

// rotateLocked slides the current window into the previous window once a
// second has elapsed. Must be called with r.mu held.
//
// A gap of at least one but less than two seconds, with at least one
// observation in the current window, rolls the current window into the
// previous one, so the effective rate keeps averaging over two adjacent
// one-second windows. Otherwise (a gap of two seconds or more, or an empty
// current window) the previous window is zeroed instead of carried forward.
func (r *rateLimiter) rotateLocked(now time.Time) {
	d := now.Sub(r.prevWindow)
	if d < time.Second {
		return
	}
	if d.Truncate(time.Second) == time.Second && r.curSeen > 0 {
		r.prevAllowed, r.prevSeen = r.curAllowed, r.curSeen
	} else {
		r.prevAllowed, r.prevSeen = 0, 0
	}
	r.curAllowed, r.curSeen = 0, 0
	r.prevWindow = now
}

// effectiveRate returns the allowed/seen ratio averaged over the current and
// previous one-second windows. Defaults to 1.0 (fully permissive) if nothing
// has been seen yet.
func (r *rateLimiter) effectiveRate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := r.curSeen + r.prevSeen
	if seen == 0 {
		return 1.0
	}
	return (r.curAllowed + r.prevAllowed) / seen
}

// maxPerSecond returns the configured limiter rate.
func (r *rateLimiter) maxPerSecond() float64 { return r.maxPS }
