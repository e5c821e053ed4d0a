package provider

import (
	"context"

	"github.com/sony/gobreaker"
	"github.com/teilomillet/chatrelay/config"
	"github.com/teilomillet/chatrelay/server/metrics"
	"go.uber.org/zap"
)

// Breaker stops calling a failing upstream for a while. While open, calls
// fail immediately with gobreaker.ErrOpenState; the chatbot handler treats
// that like any other upstream failure. It never retries.
type Breaker struct {
	next Generator
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next with a circuit breaker. m may be nil.
func NewBreaker(next Generator, name string, cfg config.CircuitBreakerConfig, logger *zap.Logger, m *metrics.Metrics) *Breaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if m != nil {
				m.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	}

	if m != nil {
		m.BreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
	}

	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Generate runs the wrapped generator through the breaker.
func (b *Breaker) Generate(ctx context.Context, text string) (string, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, text)
	})
	if err != nil {
		return "", err
	}
	return resp.(string), nil
}

// State reports the breaker's current state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
