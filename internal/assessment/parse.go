package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/careercoach/internal/llm"
)

var (
	// ErrNoJSON means the response contained no JSON array at all.
	ErrNoJSON = errors.New("no JSON array found in response")

	// ErrMalformedJSON means an array was found but did not decode into
	// the question shape.
	ErrMalformedJSON = errors.New("malformed question JSON")

	// ErrInvalidQuestion means a decoded question failed validation.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrNoQuestions wraps every generation failure. Callers treat it as
	// "nothing to show, offer regeneration" and leave progress untouched.
	ErrNoQuestions = errors.New("no questions available")
)

// ParseResult is the outcome of parsing a model response. Exactly one of
// Questions and Err is set.
type ParseResult struct {
	Questions []Question
	Err       error
}

// OK reports whether parsing succeeded.
func (r ParseResult) OK() bool {
	return r.Err == nil
}

// ParseQuestions extracts a question list from free model text. The text
// may carry prose or code fences around the array. It never panics.
func ParseQuestions(text string) ParseResult {
	return ParseQuestionsWith(text, DefaultValidators())
}

// ParseQuestionsWith is ParseQuestions with an explicit validator chain.
func ParseQuestionsWith(text string, validators []Validator) ParseResult {
	text = stripFences(text)

	raw, err := extractArray(text)
	if err != nil {
		return ParseResult{Err: err}
	}
	return decodeQuestions(raw, validators)
}

func decodeQuestions(raw []byte, validators []Validator) ParseResult {
	schema, err := llm.CompileSchema(listSchema)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("%w: %w", ErrMalformedJSON, err)}
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ParseResult{Err: fmt.Errorf("%w: %w", ErrMalformedJSON, err)}
	}
	if err := schema.Validate(doc); err != nil {
		return ParseResult{Err: fmt.Errorf("%w: %w", ErrMalformedJSON, err)}
	}

	var qs []Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return ParseResult{Err: fmt.Errorf("%w: %w", ErrMalformedJSON, err)}
	}

	for i := range qs {
		normalize(&qs[i])
		for _, v := range validators {
			if verr := v.Validate(&qs[i]); verr != nil {
				verr.Index = i
				return ParseResult{Err: fmt.Errorf("%w: %w", ErrInvalidQuestion, verr)}
			}
		}
	}
	return ParseResult{Questions: qs}
}

// extractArray returns the JSON array spanning from an opening bracket to
// the last closing bracket. Prose before the array may itself contain
// brackets, so each opening bracket is tried in turn.
func extractArray(text string) ([]byte, error) {
	end := strings.LastIndexByte(text, ']')
	if end < 0 || strings.IndexByte(text, '[') < 0 || strings.IndexByte(text, '[') > end {
		return nil, ErrNoJSON
	}

	var firstErr error
	for start := 0; start < end; start++ {
		if text[start] != '[' {
			continue
		}
		candidate := []byte(text[start : end+1])
		if json.Valid(candidate) {
			return candidate, nil
		}
		if firstErr == nil {
			var v any
			firstErr = json.Unmarshal(candidate, &v)
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, firstErr)
}

// stripFences removes a surrounding ```json fence if present.
func stripFences(s string) string {
	clean := strings.TrimSpace(s)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// normalize trims fields and resolves letter answers ("B", "b)") to the
// option text, so grading can stay an exact string match.
func normalize(q *Question) {
	q.Question = strings.TrimSpace(q.Question)
	q.Answer = strings.TrimSpace(q.Answer)
	for i := range q.Options {
		q.Options[i] = strings.TrimSpace(q.Options[i])
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return
		}
	}
	letter := strings.TrimRight(strings.ToUpper(q.Answer), ").:")
	if len(letter) == 1 && letter[0] >= 'A' && int(letter[0]-'A') < len(q.Options) {
		q.Answer = q.Options[letter[0]-'A']
	}
}
