package llm

import "fmt"

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// groqModels maps friendly names to Groq model IDs.
var groqModels = map[string]string{
	"llama-3.3-70b": "llama-3.3-70b-versatile",
	"llama-3.1-8b":  "llama-3.1-8b-instant",
}

// GroqProvider talks to Groq's OpenAI-compatible endpoint through the
// OpenAI SDK.
type GroqProvider struct {
	*OpenAIProvider
}

// NewGroqProvider creates a provider targeting the Groq API.
func NewGroqProvider(cfg GroqConfig) (*GroqProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}

	inner, err := newOpenAICompatible(cfg.APIKey, resolveModel(cfg.Model, groqModels), baseURL)
	if err != nil {
		return nil, err
	}
	return &GroqProvider{OpenAIProvider: inner}, nil
}
