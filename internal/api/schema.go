package api

// Schema is a named JSON Schema definition for a response body.
type Schema struct {
	Name       string
	Definition map[string]any
}

var optionalString = map[string]any{"type": []any{"string", "null"}}

var generateSchema = &Schema{
	Name: "generate-response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":   map[string]any{"type": "string"},
						"answer":     optionalString,
						"rationale":  optionalString,
						"difficulty": optionalString,
						"type":       optionalString,
					},
					"required": []any{"question"},
				},
			},
		},
		"required": []any{"questions"},
	},
}

var answerSchema = &Schema{
	Name: "generate-answer-response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer":    map[string]any{"type": "string"},
			"rationale": map[string]any{"type": "string"},
		},
		"required": []any{"answer", "rationale"},
	},
}
