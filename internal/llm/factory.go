package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration, wrapped with retry
// and event logging. A nil eventRepo disables logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo EventRecorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "groq":
		base, err = NewGroqProvider(cfg.Groq)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → retry → logging → base
	p := base
	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo)
	}
	p = WithRetry(p, cfg.Retry)
	p = WithTimeout(p, cfg.Timeout)
	return p, nil
}

// ResolveConfig layers environment overrides and key discovery on base.
// An explicitly configured provider with a key wins over discovery.
func ResolveConfig(base Config) (Config, error) {
	cfg, err := ConfigFromEnv(base)
	if err != nil {
		return base, err
	}
	if cfg.HasAPIKey() {
		return cfg, nil
	}
	if discovered, ok := DiscoverConfig(cfg); ok {
		return discovered, nil
	}
	return cfg, cfg.Validate()
}

type unavailableProvider struct {
	err error
}

// Unavailable returns a Provider whose every call fails with
// ErrProviderUnavailable wrapping err. The app uses it when no provider
// could be configured so that sign-in and progress still work.
func Unavailable(err error) Provider {
	return unavailableProvider{err: err}
}

func (p unavailableProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{Err: p.err}
}

func (p unavailableProvider) ModelID() string {
	return "unavailable"
}
