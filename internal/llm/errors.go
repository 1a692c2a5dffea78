package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit. Content holds the partial output.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// UserMessage turns a completion error into a short message for the
// screen. Unknown errors fall back to err.Error().
func UserMessage(err error) string {
	var (
		rateLimit   *ErrRateLimit
		unavailable *ErrProviderUnavailable
		invalid     *ErrInvalidResponse
		truncated   *ErrMaxTokensExceeded
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "The coaching service took too long to answer. Try again."
	case errors.Is(err, context.Canceled):
		return "Request cancelled."
	case errors.As(err, &rateLimit):
		return "The coaching service is busy. Wait a moment and try again."
	case errors.As(err, &truncated):
		return "The answer was cut off. Try again."
	case errors.As(err, &invalid):
		return "The coaching service returned an unexpected answer. Try again."
	case errors.As(err, &unavailable):
		return "The coaching service is unavailable right now."
	case errors.Is(err, ErrEmptyCompletion):
		return "The coaching service returned an empty answer. Try again."
	}
	return err.Error()
}
