package question

import "fmt"

// Length limits for question content.
const (
	MaxTextLen        = 500
	MaxExplanationLen = 1000
	MinOptions        = 2
	MaxOptions        = 6
)

// ValidationError describes why a question was rejected.
type ValidationError struct {
	QuestionID string
	Field      string
	Message    string
}

func (e *ValidationError) Error() string {
	if e.QuestionID == "" {
		return fmt.Sprintf("question: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("question %q: %s: %s", e.QuestionID, e.Field, e.Message)
}

// Validate checks that q is playable: non-empty text and ids, a sane number
// of uniquely identified options, and exactly one correct option that is
// not also flagged as a trap.
func Validate(q Question) error {
	fail := func(field, msg string) error {
		return &ValidationError{QuestionID: q.ID, Field: field, Message: msg}
	}

	if q.ID == "" {
		return fail("id", "is empty")
	}
	if q.Text == "" {
		return fail("text", "is empty")
	}
	if len(q.Text) > MaxTextLen {
		return fail("text", fmt.Sprintf("exceeds %d characters", MaxTextLen))
	}
	if len(q.Explanation) > MaxExplanationLen {
		return fail("explanation", fmt.Sprintf("exceeds %d characters", MaxExplanationLen))
	}
	if q.Topic == "" {
		return fail("topic", "is empty")
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return fail("options", fmt.Sprintf("must have between %d and %d options, got %d", MinOptions, MaxOptions, len(q.Options)))
	}

	seen := make(map[string]bool, len(q.Options))
	correct := 0
	for i, o := range q.Options {
		if o.ID == "" {
			return fail(fmt.Sprintf("options[%d].id", i), "is empty")
		}
		if seen[o.ID] {
			return fail(fmt.Sprintf("options[%d].id", i), fmt.Sprintf("duplicate option id %q", o.ID))
		}
		seen[o.ID] = true
		if o.Text == "" {
			return fail(fmt.Sprintf("options[%d].text", i), "is empty")
		}
		if o.IsCorrect && o.IsTrap {
			return fail(fmt.Sprintf("options[%d]", i), "cannot be both correct and a trap")
		}
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fail("options", fmt.Sprintf("must have exactly one correct option, got %d", correct))
	}
	return nil
}

// ValidateAll validates every question and rejects duplicate question ids.
func ValidateAll(qs []Question) error {
	ids := make(map[string]int, len(qs))
	for i, q := range qs {
		if err := Validate(q); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
		if prev, ok := ids[q.ID]; ok {
			return fmt.Errorf("question %d: duplicate id %q (first seen at %d)", i, q.ID, prev)
		}
		ids[q.ID] = i
	}
	return nil
}
