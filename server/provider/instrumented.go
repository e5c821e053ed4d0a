package provider

import (
	"context"
	"time"

	"github.com/teilomillet/chatrelay/server/metrics"
)

// Instrumented records call counts and latency for the wrapped generator.
type Instrumented struct {
	next     Generator
	provider string
	metrics  *metrics.Metrics
}

// Instrument wraps next so each call is counted under provider.
func Instrument(next Generator, provider string, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, provider: provider, metrics: m}
}

// Generate calls the wrapped generator and records the outcome.
func (i *Instrumented) Generate(ctx context.Context, text string) (string, error) {
	start := time.Now()
	resp, err := i.next.Generate(ctx, text)
	i.metrics.UpstreamDuration.WithLabelValues(i.provider).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	i.metrics.UpstreamRequests.WithLabelValues(i.provider, outcome).Inc()

	return resp, err
}
