package llm

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff and
// jitter. An invalid response is retried once; truncation and context
// errors are returned immediately.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	invalidSeen := false

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var resp *Response
		if resp, err = r.inner.Generate(ctx, req); err == nil {
			return resp, nil
		}

		var retry bool
		retry, invalidSeen = retryable(err, invalidSeen)
		if !retry || attempt == attempts-1 {
			return nil, err
		}

		wait := r.wait(attempt, err)
		slog.Debug("retrying LLM request",
			slog.String("purpose", PurposeFrom(ctx)),
			slog.Int("attempt", attempt+1),
			slog.Duration("wait", wait),
			slog.Any("error", err))

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable classifies err. invalidSeen records whether an invalid
// response was already retried and is returned updated.
func retryable(err error, invalidSeen bool) (retry, seen bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, invalidSeen
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false, invalidSeen
	}
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		return !invalidSeen, true
	}
	// Rate limits, unavailable providers and plain network errors.
	return true, invalidSeen
}

// wait is the pause before the next attempt: the server's Retry-After
// when given, else InitialWait*Multiplier^attempt capped at MaxWait,
// with ±20% jitter.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.config.InitialWait)
	for range attempt {
		d *= r.config.Multiplier
		if d >= float64(r.config.MaxWait) {
			break
		}
	}
	d = min(d, float64(r.config.MaxWait))
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(max(d, 0))
}
