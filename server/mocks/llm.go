// Package mocks holds test doubles for the upstream client libraries.
package mocks

import (
	"context"
	"sync"

	"github.com/teilomillet/gollm"
	"github.com/teilomillet/gollm/llm"
	"github.com/teilomillet/gollm/utils"
)

var _ gollm.LLM = (*MockLLM)(nil)

// MockLLM is a gollm.LLM that answers from a function and remembers what the
// relay sent it: every prompt and every SetOption call.
type MockLLM struct {
	reply func(context.Context, *gollm.Prompt) (string, error)

	mu      sync.Mutex
	prompts []*gollm.Prompt
	options map[string]interface{}
}

// NewMockLLM returns a MockLLM answering with reply. A nil reply answers
// every prompt with "".
func NewMockLLM(reply func(context.Context, *gollm.Prompt) (string, error)) *MockLLM {
	return &MockLLM{
		reply:   reply,
		options: make(map[string]interface{}),
	}
}

func (m *MockLLM) Generate(ctx context.Context, prompt *gollm.Prompt, _ ...llm.GenerateOption) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.reply == nil {
		return "", nil
	}
	return m.reply(ctx, prompt)
}

func (m *MockLLM) GenerateWithSchema(ctx context.Context, prompt *gollm.Prompt, _ interface{}, opts ...llm.GenerateOption) (string, error) {
	return m.Generate(ctx, prompt, opts...)
}

// Prompts returns the prompts seen so far, oldest first.
func (m *MockLLM) Prompts() []*gollm.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*gollm.Prompt(nil), m.prompts...)
}

func (m *MockLLM) SetOption(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options[key] = value
}

// Option returns the value last passed to SetOption for key.
func (m *MockLLM) Option(key string) interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.options[key]
}

func (m *MockLLM) NewPrompt(text string) *gollm.Prompt {
	return &gollm.Prompt{Messages: []gollm.PromptMessage{{Role: "user", Content: text}}}
}

func (m *MockLLM) GetProvider() string { return "mock" }
func (m *MockLLM) GetModel() string    { return "mock-model" }

func (m *MockLLM) GetPromptJSONSchema(...gollm.SchemaOption) ([]byte, error) { return []byte(`{}`), nil }
func (m *MockLLM) SupportsJSONSchema() bool                                 { return false }

// The remaining methods configure transport or logging, which a mock has none of.

func (m *MockLLM) Debug(string, ...interface{})          {}
func (m *MockLLM) GetLogLevel() gollm.LogLevel           { return gollm.LogLevelInfo }
func (m *MockLLM) SetLogLevel(gollm.LogLevel)            {}
func (m *MockLLM) UpdateLogLevel(gollm.LogLevel)         {}
func (m *MockLLM) GetLogger() utils.Logger               { return nil }
func (m *MockLLM) SetEndpoint(string)                    {}
func (m *MockLLM) SetOllamaEndpoint(string) error        { return nil }
func (m *MockLLM) SetSystemPrompt(string, llm.CacheType) {}
