package processing

import (
	"context"
	"fmt"

	"github.com/teilomillet/chatrelay/server/provider"
	"go.uber.org/zap"
)

// Processor relays one message to the upstream generator and sanitizes the
// reply. It holds no per-conversation state; concurrent use is safe as long
// as the generator is.
type Processor struct {
	generator provider.Generator
	logger    *zap.Logger
}

// NewProcessor creates a processor. The generator is required; a nil
// logger is replaced with a no-op one.
func NewProcessor(generator provider.Generator, logger *zap.Logger) (*Processor, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		generator: generator,
		logger:    logger,
	}, nil
}

// ProcessRequest sends req.Text upstream as a fresh exchange and returns
// the sanitized completion. Any upstream error is returned wrapped.
func (p *Processor) ProcessRequest(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	completion, err := p.generator.Generate(ctx, req.Text)
	if err != nil {
		return nil, fmt.Errorf("upstream generation failed: %w", err)
	}

	p.logger.Debug("Completion received",
		zap.Int("input_length", len(req.Text)),
		zap.Int("completion_length", len(completion)),
	)

	return &Response{BotResponse: Sanitize(completion)}, nil
}
