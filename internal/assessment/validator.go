package assessment

import (
	"fmt"
	"strings"
)

// Validator checks a parsed question. Implementations are stateless.
type Validator interface {
	// Name is a short identifier used in error messages, e.g. "structural".
	Name() string

	// Validate returns nil if q passes.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Index     int
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: validator %q: %s", e.Index+1, e.Validator, e.Message)
}

// DefaultValidators is the chain every parsed batch runs through.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&OptionsValidator{},
	}
}

// StructuralValidator checks that text fields are present and sized sanely.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	switch {
	case strings.TrimSpace(q.Question) == "":
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	case len(q.Question) > 1000:
		return &ValidationError{Validator: v.Name(), Message: "question exceeds 1000 characters"}
	case strings.TrimSpace(q.Answer) == "":
		return &ValidationError{Validator: v.Name(), Message: "answer is empty"}
	}
	return nil
}

// OptionsValidator checks there are exactly four distinct options and the
// answer is one of them.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question) *ValidationError {
	if len(q.Options) != OptionCount {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)),
		}
	}
	seen := make(map[string]bool, len(q.Options))
	found := false
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return &ValidationError{Validator: v.Name(), Message: "option is empty"}
		}
		if seen[opt] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("duplicate option %q", opt)}
		}
		seen[opt] = true
		if opt == q.Answer {
			found = true
		}
	}
	if !found {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer %q is not one of the options", q.Answer),
		}
	}
	return nil
}
