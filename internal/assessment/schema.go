package assessment

import "github.com/abhisek/careercoach/internal/llm"

// questionDefinition is the JSON schema of a single question object.
var questionDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The question text",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    OptionCount,
			"maxItems":    OptionCount,
			"description": "Exactly 4 answer options",
		},
		"answer": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "The text of the correct option, copied exactly",
		},
	},
	"required": []any{"question", "options", "answer"},
}

// listDefinition is the schema of the bare JSON array found in free text.
var listDefinition = map[string]any{
	"type":     "array",
	"items":    questionDefinition,
	"minItems": 1,
}

// QuestionsSchema requests structured output from providers that support
// it. Structured output must be an object, so the list is wrapped.
var QuestionsSchema = &llm.Schema{
	Name:        "assessment-questions",
	Description: "Multiple-choice questions assessing one week of a learning roadmap",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": listDefinition,
		},
		"required": []any{"questions"},
	},
}

// listSchema validates the bare array found in free text.
var listSchema = &llm.Schema{
	Name:       "assessment-question-list",
	Definition: listDefinition,
}
