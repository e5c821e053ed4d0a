// Package provider implements the client side of the generative-language API.
//
// Every backend satisfies Generator: one call is one fresh exchange, with no
// history carried from earlier calls. Backends are built once at startup and
// shared read-only by all requests; decorators (circuit breaker,
// instrumentation) wrap them without changing that contract.
package provider

import (
	"context"
	"fmt"

	"github.com/teilomillet/chatrelay/config"
	"github.com/teilomillet/chatrelay/server/metrics"
	"go.uber.org/zap"
)

// ProviderGemini selects the native Google GenAI backend.
const ProviderGemini = "gemini"

// Generator sends a single message to the upstream model and returns its
// completion text.
type Generator interface {
	Generate(ctx context.Context, text string) (string, error)
}

// GeneratorFunc adapts an ordinary function to the Generator interface.
type GeneratorFunc func(ctx context.Context, text string) (string, error)

// Generate calls f(ctx, text).
func (f GeneratorFunc) Generate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// New builds the configured backend and wraps it with the circuit breaker
// (when enabled) and metrics (when m is non-nil).
func New(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger, m *metrics.Metrics) (Generator, error) {
	var (
		gen Generator
		err error
	)

	switch cfg.Provider {
	case ProviderGemini:
		gen, err = NewGeminiClient(ctx, cfg)
	default:
		gen, err = NewGollmClient(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}

	logger.Info("Upstream client created",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
	)

	if cb := cfg.CircuitBreaker; cb != nil && cb.Enabled {
		gen = NewBreaker(gen, cfg.Provider, *cb, logger, m)
	}

	if m != nil {
		gen = Instrument(gen, cfg.Provider, m)
	}

	return gen, nil
}
