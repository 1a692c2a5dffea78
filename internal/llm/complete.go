package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyCompletion is returned when the model produced no text.
var ErrEmptyCompletion = errors.New("empty completion")

// Text returns the response content as plain text.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Completer turns a single prompt into model text. It is the whole
// contract the coaching features rely on.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TextCompleter adapts a Provider to Completer.
type TextCompleter struct {
	Provider    Provider
	System      string
	MaxTokens   int
	Temperature float64
}

// NewCompleter returns a TextCompleter with the given token budget.
func NewCompleter(p Provider, maxTokens int) *TextCompleter {
	return &TextCompleter{Provider: p, MaxTokens: maxTokens, Temperature: 0.7}
}

// Complete sends prompt as a single user message and returns the trimmed text.
func (c *TextCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.Provider.Generate(ctx, Request{
		System:      c.System,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
