package statsapi

import (
	"bytes"
	"encoding/json"

	"github.com/abhisek/trapz/internal/question"
)

// FlexString decodes from either a JSON string or a JSON number. The
// service returns numeric ids from some deployments and string ids from
// others.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// wireQuestion is a question as the service sends it. Ids may be numbers.
type wireQuestion struct {
	ID          FlexString   `json:"id"`
	Text        string       `json:"text"`
	Topic       string       `json:"topic"`
	Explanation string       `json:"explanation"`
	Options     []wireOption `json:"options"`
}

type wireOption struct {
	ID        FlexString `json:"id"`
	Text      string     `json:"text"`
	IsCorrect bool       `json:"isCorrect"`
	IsTrap    bool       `json:"isTrap"`
	Feedback  string     `json:"feedback"`
}

func (w wireQuestion) question() question.Question {
	q := question.Question{
		ID:          string(w.ID),
		Text:        w.Text,
		Topic:       w.Topic,
		Explanation: w.Explanation,
		Options:     make([]question.Option, len(w.Options)),
	}
	for i, o := range w.Options {
		q.Options[i] = question.Option{
			ID:        string(o.ID),
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
			IsTrap:    o.IsTrap,
			Feedback:  o.Feedback,
		}
	}
	return q
}

// UserStats is the learner's server-side progress.
type UserStats struct {
	XP    int    `json:"xp"`
	Level int    `json:"level"`
	Name  string `json:"name"`
}

// Textbook is a book in the remote library.
type Textbook struct {
	ID      FlexString `json:"id"`
	Title   string     `json:"title"`
	Grade   FlexString `json:"grade"`
	Subject string     `json:"subject"`
	Board   string     `json:"board"`
}

// Chapter is a chapter of a textbook.
type Chapter struct {
	ID            FlexString `json:"id"`
	Title         string     `json:"title"`
	ChapterNumber int        `json:"chapter_number"`
}

// Answer is the payload for POST /submit-answer.
type Answer struct {
	UserID           string `json:"user_id"`
	QuestionID       string `json:"question_id"`
	SelectedOptionID string `json:"selected_option_id"`
	IsCorrect        bool   `json:"is_correct"`
	IsTrap           bool   `json:"is_trap"`
}

// Shelf pairs a textbook with its chapters.
type Shelf struct {
	Textbook Textbook
	Chapters []Chapter
}
