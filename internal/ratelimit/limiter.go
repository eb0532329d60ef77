package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APITavily represents the Tavily search and extract API
	APITavily API = "tavily"
	// APIYahoo represents the Yahoo Finance chart API
	APIYahoo API = "yahoo"
	// APIPages represents direct page downloads made during profile extraction
	APIPages API = "pages"
)

// Limiter manages rate limits for different APIs.
// A nil *Limiter allows everything.
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

// New creates a limiter with one token bucket (burst 1) per API.
func New(limits map[API]rate.Limit) *Limiter {
	l := &Limiter{
		limiters: make(map[API]*rate.Limiter, len(limits)),
	}
	for api, limit := range limits {
		l.limiters[api] = rate.NewLimiter(limit, 1)
	}
	return l
}

// Default returns a limiter with conservative production limits.
func Default() *Limiter {
	return New(map[API]rate.Limit{
		// Tavily: free tier is generous, stay well under it
		APITavily: rate.Limit(5),
		// Yahoo throttles aggressive clients, keep to 2 requests per second
		APIYahoo: rate.Limit(2),
		APIPages: rate.Limit(10),
	})
}

// NewUnlimited returns a limiter that never blocks, for tests.
func NewUnlimited() *Limiter {
	return New(map[API]rate.Limit{
		APITavily: rate.Inf,
		APIYahoo:  rate.Inf,
		APIPages:  rate.Inf,
	})
}

// SetLimit replaces the limit for an API.
func (l *Limiter) SetLimit(api API, limit rate.Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[api] = rate.NewLimiter(limit, 1)
}

// Wait blocks until the rate limiter permits an event for the given API
// It returns an error if the context is canceled before the event can proceed
func (l *Limiter) Wait(ctx context.Context, api API) error {
	limiter := l.get(api)
	if limiter == nil {
		// If no limiter exists for this API, allow the request without limiting
		return nil
	}

	return limiter.Wait(ctx)
}

// Allow reports whether an event for the given API may happen now
func (l *Limiter) Allow(api API) bool {
	limiter := l.get(api)
	if limiter == nil {
		return true
	}

	return limiter.Allow()
}

func (l *Limiter) get(api API) *rate.Limiter {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.limiters[api]
}
