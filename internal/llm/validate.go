package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas maps Schema.Name to its *jsonschema.Schema.
var compiledSchemas sync.Map

// CompileSchema compiles s, once per schema name.
func CompileSchema(s *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiledSchemas.Load(s.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	// The compiler takes decoded JSON, so Go literals such as []string
	// are normalized by a round trip first.
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}

	url := "schema://" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}

	v, _ := compiledSchemas.LoadOrStore(s.Name, compiled)
	return v.(*jsonschema.Schema), nil
}

// validateResponse checks a structured response against its request
// schema. A nil schema accepts anything. Failures are *ErrInvalidResponse
// so the retry decorator gets a second attempt.
func validateResponse(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	invalid := func(err error) error {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}

	compiled, err := CompileSchema(s)
	if err != nil {
		return invalid(err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid(fmt.Errorf("invalid JSON: %w", err))
	}
	if err := compiled.Validate(doc); err != nil {
		return invalid(fmt.Errorf("does not match %s: %w", s.Name, err))
	}
	return nil
}
