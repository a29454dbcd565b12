package question

import (
	"fmt"

	"github.com/google/uuid"
)

// Draft holds the fields collected by the add-question form: one correct
// answer, one trap answer with its feedback, and one plain wrong answer.
type Draft struct {
	Topic         string
	Text          string
	Explanation   string
	CorrectAnswer string
	TrapAnswer    string
	TrapFeedback  string
	WrongAnswer   string
}

// NewCustom builds a validated custom question from a draft.
func NewCustom(d Draft) (Question, error) {
	if _, ok := TopicByID(d.Topic); !ok {
		return Question{}, &ValidationError{Field: "topic", Message: fmt.Sprintf("unknown topic %q", d.Topic)}
	}
	if d.TrapAnswer != "" && d.TrapFeedback == "" {
		return Question{}, &ValidationError{Field: "trap feedback", Message: "is required for a trap answer"}
	}

	q := Question{
		ID:          "custom_" + uuid.NewString(),
		Text:        d.Text,
		Topic:       d.Topic,
		Explanation: d.Explanation,
		Options: []Option{
			{ID: "opt1", Text: d.CorrectAnswer, IsCorrect: true},
			{ID: "opt2", Text: d.TrapAnswer, IsTrap: true, Feedback: d.TrapFeedback},
		},
	}
	if d.WrongAnswer != "" {
		q.Options = append(q.Options, Option{ID: "opt3", Text: d.WrongAnswer})
	}

	if err := Validate(q); err != nil {
		return Question{}, err
	}
	return q, nil
}
