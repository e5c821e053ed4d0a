package provider

import (
	"context"
	"fmt"

	"github.com/teilomillet/chatrelay/config"
	"github.com/teilomillet/gollm"
)

// GollmClient relays to any provider gollm supports (openai, anthropic,
// ollama, groq, ...).
type GollmClient struct {
	llm gollm.LLM
}

// NewGollmClient creates the gollm LLM from configuration. gollm's own
// retries are disabled; a failed call is reported straight back.
func NewGollmClient(cfg config.LLMConfig) (*GollmClient, error) {
	opts := []gollm.ConfigOption{
		gollm.SetProvider(cfg.Provider),
		gollm.SetModel(cfg.Model),
		gollm.SetMaxRetries(0),
	}
	if cfg.APIKey != "" {
		opts = append(opts, gollm.SetAPIKey(cfg.APIKey))
	}
	if cfg.Generation.MaxOutputTokens > 0 {
		opts = append(opts, gollm.SetMaxTokens(cfg.Generation.MaxOutputTokens))
	}

	llm, err := gollm.NewLLM(opts...)
	if err != nil {
		return nil, fmt.Errorf("create LLM: %w", err)
	}
	if cfg.Endpoint != "" {
		llm.SetEndpoint(cfg.Endpoint)
	}

	return NewGollmClientWithLLM(llm, cfg.Generation), nil
}

// NewGollmClientWithLLM wraps an existing gollm.LLM and applies the
// sampling parameters to it.
func NewGollmClientWithLLM(llm gollm.LLM, g config.GenerationConfig) *GollmClient {
	if g.Temperature > 0 {
		llm.SetOption("temperature", g.Temperature)
	}
	if g.TopP > 0 {
		llm.SetOption("top_p", g.TopP)
	}
	if g.TopK > 0 {
		llm.SetOption("top_k", g.TopK)
	}
	return &GollmClient{llm: llm}
}

// Generate sends text as a single user message with no prior history.
func (c *GollmClient) Generate(ctx context.Context, text string) (string, error) {
	prompt := &gollm.Prompt{
		Messages: []gollm.PromptMessage{
			{Role: "user", Content: text},
		},
	}

	resp, err := c.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("LLM generation failed: %w", err)
	}
	return resp, nil
}
