package trapgen

import "github.com/abhisek/trapz/internal/llm"

// TrapQuestionSchema defines the JSON schema for LLM trap-question responses.
var TrapQuestionSchema = &llm.Schema{
	Name:        "trap-question",
	Description: "A multiple-choice question whose most tempting wrong answer follows a common misconception",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The question shown to the learner, in plain ASCII text",
			},
			"concept": map[string]any{
				"type":        "string",
				"description": "The concept being tested, e.g. Order of Operations",
			},
			"correct_answer": map[string]any{
				"type":        "string",
				"description": "The correct answer text",
			},
			"trap_answer": map[string]any{
				"type":        "string",
				"description": "The answer a learner holding the misconception would pick",
			},
			"trap_feedback": map[string]any{
				"type":        "string",
				"description": "One or two sentences shown when the trap is picked, naming the misconception",
			},
			"wrong_answers": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "One or two plausible but plainly wrong answers",
			},
		},
		"required":             []any{"question_text", "concept", "correct_answer", "trap_answer", "trap_feedback", "wrong_answers"},
		"additionalProperties": false,
	},
}
