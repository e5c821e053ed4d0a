package provider

import (
	"context"
	"fmt"

	"github.com/teilomillet/chatrelay/config"
	"google.golang.org/genai"
)

// chatSession is the part of *genai.Chat the client uses.
type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatStarter func(ctx context.Context, model string, settings *genai.GenerateContentConfig) (chatSession, error)

// GeminiClient talks to the Gemini API through the Google GenAI SDK.
// The SDK client is created once; every Generate starts a new chat with an
// empty history, so nothing said in one request is visible to the next.
type GeminiClient struct {
	model     string
	settings  *genai.GenerateContentConfig
	startChat chatStarter
}

// NewGeminiClient creates the SDK client from the configured API key.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGeminiClient(cfg, func(ctx context.Context, model string, settings *genai.GenerateContentConfig) (chatSession, error) {
		chat, err := client.Chats.Create(ctx, model, settings, nil)
		if err != nil {
			return nil, err
		}
		return chat, nil
	}), nil
}

func newGeminiClient(cfg config.LLMConfig, start chatStarter) *GeminiClient {
	return &GeminiClient{
		model:     cfg.Model,
		settings:  geminiSettings(cfg.Generation),
		startChat: start,
	}
}

// geminiSettings converts generation config to the SDK's form. Zero values
// are left unset so the model's own defaults apply.
func geminiSettings(g config.GenerationConfig) *genai.GenerateContentConfig {
	settings := &genai.GenerateContentConfig{
		ResponseMIMEType: g.ResponseMIMEType,
		MaxOutputTokens:  int32(g.MaxOutputTokens),
	}
	if g.Temperature > 0 {
		settings.Temperature = genai.Ptr(float32(g.Temperature))
	}
	if g.TopP > 0 {
		settings.TopP = genai.Ptr(float32(g.TopP))
	}
	if g.TopK > 0 {
		settings.TopK = genai.Ptr(float32(g.TopK))
	}
	return settings
}

// Generate opens a fresh chat session and sends text as its only message.
func (c *GeminiClient) Generate(ctx context.Context, text string) (string, error) {
	chat, err := c.startChat(ctx, c.model, c.settings)
	if err != nil {
		return "", fmt.Errorf("start chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}

	// No candidates means the prompt was blocked
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Text(), nil
}
