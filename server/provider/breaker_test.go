package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teilomillet/chatrelay/config"
	"github.com/teilomillet/chatrelay/server/metrics"
	"go.uber.org/zap/zaptest"
)

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	upstreamErr := errors.New("upstream down")
	failing := GeneratorFunc(func(ctx context.Context, text string) (string, error) {
		calls++
		return "", upstreamErr
	})

	m := metrics.NewMetrics()
	breaker := NewBreaker(failing, "gemini", config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Timeout:          time.Minute,
		FailureThreshold: 3,
	}, zaptest.NewLogger(t), m)

	for i := 0; i < 3; i++ {
		_, err := breaker.Generate(context.Background(), "hello")
		assert.ErrorIs(t, err, upstreamErr)
	}
	assert.Equal(t, gobreaker.StateOpen, breaker.State())
	assert.Equal(t, float64(gobreaker.StateOpen), testutil.ToFloat64(m.BreakerState.WithLabelValues("gemini")))

	// Open circuit fails fast without reaching the upstream
	_, err := breaker.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, calls)
}

func TestBreakerPassesSuccess(t *testing.T) {
	ok := GeneratorFunc(func(ctx context.Context, text string) (string, error) {
		return "fine: " + text, nil
	})
	breaker := NewBreaker(ok, "gemini", config.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1}, zaptest.NewLogger(t), nil)

	resp, err := breaker.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "fine: hi", resp)
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
}
