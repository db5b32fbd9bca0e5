package generate

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ResilientTextGenerator decorates a TextGenerator with client-side rate
// limiting and a circuit breaker, so a misbehaving upstream sheds load instead
// of queueing every retry.
type ResilientTextGenerator struct {
	inner   TextGenerator
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewResilientTextGenerator wraps gen. requestsPerMinute <= 0 disables the
// rate limit.
func NewResilientTextGenerator(gen TextGenerator, requestsPerMinute int) *ResilientTextGenerator {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "text-generation",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &ResilientTextGenerator{inner: gen, limiter: limiter, breaker: breaker}
}

// GenerateText waits for the rate limiter, then runs the call through the
// circuit breaker.
func (r *ResilientTextGenerator) GenerateText(ctx context.Context, req TextRequest) (*TextResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.inner.GenerateText(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*TextResult), nil
}
