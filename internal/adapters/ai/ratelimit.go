package ai

import (
	"context"

	"golang.org/x/time/rate"

	"aperture/pkg/errors"
)

// Limiter gates outbound requests toward one provider.
type Limiter interface {
	// Wait blocks until a request may proceed or the context is cancelled.
	Wait(ctx context.Context) error

	// Allow checks if a request may proceed without blocking.
	Allow() bool
}

// RateLimiter wraps x/time rate.Limiter with provider attribution.
type RateLimiter struct {
	limiter *rate.Limiter
	name    ProviderName
}

// NewRateLimiter creates a limiter for requestsPerMinute toward a provider.
// Burst is 10% of the per-minute budget, minimum 1.
func NewRateLimiter(name ProviderName, requestsPerMinute int) *RateLimiter {
	rps := float64(requestsPerMinute) / 60.0

	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    name,
	}
}

// Wait blocks until the rate limiter allows the request
func (l *RateLimiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(err, "rate limiter %s", l.name)
	}
	return nil
}

// Allow checks if a request is allowed without blocking
func (l *RateLimiter) Allow() bool {
	return l.limiter.Allow()
}

// NoopLimiter never blocks; used when rate limiting is disabled.
type NoopLimiter struct{}

// Wait always allows the request.
func (NoopLimiter) Wait(context.Context) error { return nil }

// Allow always returns true.
func (NoopLimiter) Allow() bool { return true }

// NewLimiterFor builds the configured limiter for a provider;
// requestsPerMinute <= 0 disables limiting.
func NewLimiterFor(name ProviderName, requestsPerMinute int) Limiter {
	if requestsPerMinute <= 0 {
		return NoopLimiter{}
	}
	return NewRateLimiter(name, requestsPerMinute)
}
