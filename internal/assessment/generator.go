package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/abhisek/careercoach/internal/llm"
)

// Config controls question generation.
type Config struct {
	// Count is the number of questions per week.
	Count int

	// Validators run on every parsed question, in order.
	Validators []Validator

	// UseSchema asks the provider for structured output instead of
	// parsing free text.
	UseSchema bool

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard generation settings.
func DefaultConfig() Config {
	return Config{
		Count:       DefaultQuestionCount,
		Validators:  DefaultValidators(),
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Generator produces a question batch for a roadmap week.
type Generator struct {
	provider llm.Provider
	config   Config
}

// NewGenerator creates a Generator. A zero Count falls back to the default.
func NewGenerator(provider llm.Provider, cfg Config) *Generator {
	if cfg.Count <= 0 {
		cfg.Count = DefaultQuestionCount
	}
	if cfg.Validators == nil {
		cfg.Validators = DefaultValidators()
	}
	return &Generator{provider: provider, config: cfg}
}

// Count returns the number of questions per batch.
func (g *Generator) Count() int {
	return g.config.Count
}

// Generate asks the model for questions about task and returns them as a
// batch for week. Every failure wraps ErrNoQuestions.
func (g *Generator) Generate(ctx context.Context, week, task string) (*Batch, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeAssessment)

	req := llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildPrompt(task, g.config.Count)}},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	if g.config.UseSchema {
		req.Schema = QuestionsSchema
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: generate questions: %w", ErrNoQuestions, err)
	}

	var res ParseResult
	if g.config.UseSchema {
		res = parseStructured(resp.Content, g.config.Validators)
	} else {
		res = ParseQuestionsWith(resp.Text(), g.config.Validators)
	}
	if !res.OK() {
		return nil, fmt.Errorf("%w: %w", ErrNoQuestions, res.Err)
	}

	qs := res.Questions
	if len(qs) < g.config.Count {
		return nil, fmt.Errorf("%w: %w: got %d questions, want %d",
			ErrNoQuestions, ErrInvalidQuestion, len(qs), g.config.Count)
	}
	if len(qs) > g.config.Count {
		slog.Debug("trimming extra questions", "week", week, "got", len(qs), "want", g.config.Count)
		qs = qs[:g.config.Count]
	}

	return &Batch{Week: week, Task: task, Questions: qs}, nil
}

func parseStructured(content json.RawMessage, validators []Validator) ParseResult {
	var wrapper struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(content, &wrapper); err != nil {
		return ParseResult{Err: fmt.Errorf("%w: %w", ErrMalformedJSON, err)}
	}
	if len(wrapper.Questions) == 0 {
		return ParseResult{Err: ErrNoJSON}
	}
	return decodeQuestions(wrapper.Questions, validators)
}
