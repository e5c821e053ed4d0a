// Package config provides configuration management for the chatrelay server.
// It covers the HTTP listener, the upstream generative-language provider and
// its generation settings, and logging preferences.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file configuration.
const (
	EnvPort   = "PORT"
	EnvAPIKey = "GEMINI_API_KEY"
)

var validate = validator.New()

// Config represents the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds server-specific configuration for the HTTP server.
type ServerConfig struct {
	// Port specifies the HTTP server port (default: 3000)
	Port int `yaml:"port" validate:"gte=0,lte=65535"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body (default: 30s)
	ReadTimeout time.Duration `yaml:"read_timeout" validate:"gte=0"`

	// WriteTimeout bounds writes of the response. Zero disables it, which
	// leaves the chatbot handler waiting on the upstream as long as it takes.
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values (default: 1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes" validate:"gte=0"`

	// ShutdownTimeout specifies how long to wait for in-flight requests
	// during graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`

	// StaticDir is served at the root path (default: public)
	StaticDir string `yaml:"static_dir" validate:"required"`
}

// LLMConfig holds the upstream provider configuration.
type LLMConfig struct {
	// Provider selects the backend: "gemini" uses the Google GenAI SDK,
	// anything else is handed to gollm (openai, anthropic, ollama, ...)
	Provider string `yaml:"provider" validate:"required"`

	// Model is the name of the model to use (e.g., "gemini-1.5-flash")
	Model string `yaml:"model" validate:"required"`

	// APIKey is the credential for the provider's API.
	// Falls back to GEMINI_API_KEY when empty.
	APIKey string `yaml:"api_key"`

	// Endpoint overrides the provider's API endpoint (gollm backends only)
	Endpoint string `yaml:"endpoint"`

	// Generation holds the sampling parameters sent with every exchange
	Generation GenerationConfig `yaml:"generation"`

	// CircuitBreaker guards the upstream (optional)
	CircuitBreaker *CircuitBreakerConfig `yaml:"circuit_breaker,omitempty" validate:"omitempty"`
}

// GenerationConfig holds the sampling parameters for the model.
type GenerationConfig struct {
	Temperature      float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	TopP             float64 `yaml:"top_p" validate:"gte=0,lte=1"`
	TopK             int     `yaml:"top_k" validate:"gte=0"`
	MaxOutputTokens  int     `yaml:"max_output_tokens" validate:"gte=0"`
	ResponseMIMEType string  `yaml:"response_mime_type"`
}

// CircuitBreakerConfig configures the breaker around the upstream client.
// An open breaker fails requests the same way any upstream error does.
type CircuitBreakerConfig struct {
	Enabled bool `yaml:"enabled"`

	// MaxRequests is the number of requests allowed through while half-open
	MaxRequests uint32 `yaml:"max_requests"`

	// Interval is the cyclic period of the closed state after which counts reset
	Interval time.Duration `yaml:"interval" validate:"gte=0"`

	// Timeout is the period of the open state until it becomes half-open
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// FailureThreshold is the number of consecutive failures needed to trip
	FailureThreshold uint32 `yaml:"failure_threshold" validate:"required_if=Enabled true"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	// Level sets logging verbosity: debug, info, warn, error
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format specifies log output format: json or text
	Format string `yaml:"format" validate:"oneof=json text"`
}

// DefaultConfig returns the configuration used when no file is present.
// Generation defaults mirror the settings the relay has always sent to
// gemini-1.5-flash.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    0,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			StaticDir:       "public",
		},

		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-1.5-flash",
			Generation: GenerationConfig{
				Temperature:      1,
				TopP:             0.95,
				TopK:             40,
				MaxOutputTokens:  8192,
				ResponseMIMEType: "text/plain",
			},
			CircuitBreaker: &CircuitBreakerConfig{
				Enabled:          false,
				MaxRequests:      1,
				Interval:         60 * time.Second,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFile loads configuration from a YAML file
func LoadFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// LoadOptional behaves like LoadFile but falls back to defaults plus
// environment when the file does not exist. The relay runs without any
// config file; port and credential come from the environment.
func LoadOptional(filename string) (*Config, error) {
	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			return LoadFile(filename)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// expandEnvVars resolves ${VAR} and ${VAR:-default} references.
// A default applies when the variable is unset or empty.
//
// Examples:
//   - "${GEMINI_API_KEY}" → "AIza..."
//   - "${PORT:-3000}" → "3000" (if PORT is unset)
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		if i := strings.Index(key, ":-"); i >= 0 {
			if val := os.Getenv(key[:i]); val != "" {
				return val
			}
			return key[i+2:]
		}
		return os.Getenv(key)
	})
}

// Load loads configuration from an io.Reader
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Start with defaults
	config := DefaultConfig()

	// Decode YAML on top of defaults. An empty document keeps the defaults.
	dec := yaml.NewDecoder(strings.NewReader(expandEnvVars(string(data))))
	if err := dec.Decode(config); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// applyEnv overlays PORT and GEMINI_API_KEY. PORT always wins over the file;
// the API key only fills an empty value.
func (c *Config) applyEnv() error {
	if port := os.Getenv(EnvPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, port, err)
		}
		c.Server.Port = p
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv(EnvAPIKey)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
