package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable read by ConfigFromEnv.
const EnvPrefix = "CAREERCOACH_"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "groq", "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `env:"LLM_PROVIDER" yaml:"provider"`

	Groq       GroqConfig       `envPrefix:"GROQ_" yaml:"groq"`
	Anthropic  AnthropicConfig  `envPrefix:"ANTHROPIC_" yaml:"anthropic"`
	OpenAI     OpenAIConfig     `envPrefix:"OPENAI_" yaml:"openai"`
	Gemini     GeminiConfig     `envPrefix:"GEMINI_" yaml:"gemini"`
	OpenRouter OpenRouterConfig `envPrefix:"OPENROUTER_" yaml:"openrouter"`
	Retry      RetryConfig      `envPrefix:"LLM_RETRY_" yaml:"retry"`

	// Timeout bounds a single completion including retries.
	Timeout time.Duration `env:"LLM_TIMEOUT" yaml:"timeout"`

	// MaxTokens is used when a request leaves MaxTokens unset.
	MaxTokens int `env:"LLM_MAX_TOKENS" yaml:"max_tokens"`
}

// GroqConfig holds Groq-specific configuration.
type GroqConfig struct {
	APIKey  string `env:"API_KEY" yaml:"-"`
	Model   string `env:"MODEL" yaml:"model"` // Default: "llama-3.3-70b"
	BaseURL string `env:"BASE_URL" yaml:"base_url"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `env:"API_KEY" yaml:"-"`
	Model  string `env:"MODEL" yaml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY" yaml:"-"`
	Model   string `env:"MODEL" yaml:"model"` // Default: "gpt-4o-mini"
	BaseURL string `env:"BASE_URL" yaml:"base_url"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `env:"API_KEY" yaml:"-"`
	Model  string `env:"MODEL" yaml:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `env:"API_KEY" yaml:"-"`
	Model   string `env:"MODEL" yaml:"model"`
	BaseURL string `env:"BASE_URL" yaml:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" yaml:"max_attempts"`
	InitialWait time.Duration `env:"INITIAL_WAIT" yaml:"initial_wait"`
	MaxWait     time.Duration `env:"MAX_WAIT" yaml:"max_wait"`
	Multiplier  float64       `env:"MULTIPLIER" yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "groq",
		Groq: GroqConfig{
			Model: "llama-3.3-70b",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "meta-llama/llama-3.3-70b-instruct",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout:   60 * time.Second,
		MaxTokens: 4096,
	}
}

// ConfigFromEnv overlays CAREERCOACH_* environment variables onto base.
// Unset variables leave the corresponding base value untouched.
func ConfigFromEnv(base Config) (Config, error) {
	cfg := base
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return base, fmt.Errorf("parse LLM env: %w", err)
	}
	return cfg, nil
}

// DiscoverConfig probes the providers' conventional API key variables in
// priority order (Groq → Gemini → OpenAI → Anthropic → OpenRouter) and
// selects the first provider whose key is found. The key is filled in on
// base. Returns (base, false) if none is found.
func DiscoverConfig(base Config) (Config, bool) {
	cfg := base

	if k := os.Getenv("GROQ_API_KEY"); k != "" {
		cfg.Provider = "groq"
		cfg.Groq.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return base, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	missing := func(name string) error {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", EnvPrefix, name, c.Provider)
	}
	switch c.Provider {
	case "groq":
		if c.Groq.APIKey == "" {
			return missing("GROQ")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return missing("ANTHROPIC")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return missing("OPENAI")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return missing("GEMINI")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return missing("OPENROUTER")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}

// HasAPIKey reports whether the selected provider has a key configured.
func (c Config) HasAPIKey() bool {
	switch c.Provider {
	case "groq":
		return c.Groq.APIKey != ""
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "gemini":
		return c.Gemini.APIKey != ""
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	case "mock":
		return true
	}
	return false
}
