package llm

import (
	"context"
	"encoding/json"
)

// Provider is the completion service behind every coaching feature.
// Consumers call Generate with a Request and receive either free text or
// schema-validated JSON.
type Provider interface {
	// Generate sends req to the model. With req.Schema set, Content is
	// JSON already validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	System string

	// Messages is the conversation history. Coaching prompts are single-turn,
	// so this usually holds one user message.
	Messages []Message

	// Schema switches the provider to its native structured output. Nil
	// means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0,1]. Zero keeps the provider default.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema and keys the compiled-schema cache.
	// Kebab-case, e.g. "assessment-questions".
	Name string

	// Description is sent to providers that accept one.
	Description string

	// Definition is a JSON Schema document.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output: validated JSON when the request
	// carried a Schema, otherwise the model's raw text. Use Text for the
	// latter.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request, which may differ from
	// the configured alias.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// reply is what a provider pulled out of its SDK response.
type reply struct {
	content   json.RawMessage
	usage     Usage
	model     string
	truncated bool
}

// finish turns a reply into a Response. A structured reply must be
// complete and match the request schema. Free text is returned even when
// truncated; the stop reason tells the caller.
func (r reply) finish(req Request) (*Response, error) {
	stop := StopEnd
	if r.truncated {
		stop = StopMaxTokens
	}
	if req.Schema != nil {
		if r.truncated {
			return nil, &ErrMaxTokensExceeded{Content: r.content}
		}
		if err := validateResponse(req.Schema, r.content); err != nil {
			return nil, err
		}
	}
	return &Response{
		Content:    r.content,
		Usage:      r.usage,
		Model:      r.model,
		StopReason: stop,
	}, nil
}
