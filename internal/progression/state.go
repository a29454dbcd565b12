package progression

import (
	"slices"
	"time"

	"github.com/abhisek/trapz/internal/question"
)

// XPPerLevel is the XP span of one level. Reaching level*XPPerLevel
// cumulative XP promotes the learner out of level.
const XPPerLevel = 1000

// Trap types recorded on a Mistake.
const (
	TrapTypeTrap  = "Trap"
	TrapTypeError = "Error"
)

// State is the learner's complete progression record. It is persisted as a
// single JSON blob.
type State struct {
	XP                 int                 `json:"xp"`
	Level              int                 `json:"level"`
	Streak             int                 `json:"streak"`
	Mistakes           []Mistake           `json:"mistakes"`
	CompletedQuestions []string            `json:"completedQuestions"`
	Badges             []Badge             `json:"badges"`
	CustomQuestions    []question.Question `json:"customQuestions"`
}

// Mistake is a snapshot of an incorrect answer.
type Mistake struct {
	QuestionID     string `json:"questionId"`
	QuestionText   string `json:"questionText"`
	SelectedAnswer string `json:"selectedAnswer"`
	CorrectAnswer  string `json:"correctAnswer"`
	Topic          string `json:"topic"`
	TrapType       string `json:"trapType"`
}

// Badge is an unlocked achievement.
type Badge struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Icon         string    `json:"icon"`
	Description  string    `json:"description"`
	DateUnlocked time.Time `json:"dateUnlocked"`
}

// NewState returns the zero progression state.
func NewState() State {
	return State{
		Level:              1,
		Mistakes:           []Mistake{},
		CompletedQuestions: []string{},
		Badges:             []Badge{},
		CustomQuestions:    []question.Question{},
	}
}

// Clone returns a deep copy of s. Question option slices are shared since
// questions are treated as immutable once stored.
func (s State) Clone() State {
	c := s
	c.Mistakes = slices.Clone(s.Mistakes)
	c.CompletedQuestions = slices.Clone(s.CompletedQuestions)
	c.Badges = slices.Clone(s.Badges)
	c.CustomQuestions = slices.Clone(s.CustomQuestions)
	if c.Mistakes == nil {
		c.Mistakes = []Mistake{}
	}
	if c.CompletedQuestions == nil {
		c.CompletedQuestions = []string{}
	}
	if c.Badges == nil {
		c.Badges = []Badge{}
	}
	if c.CustomQuestions == nil {
		c.CustomQuestions = []question.Question{}
	}
	return c
}

// normalize repairs numeric fields of a decoded state so the invariants
// xp >= 0, level >= 1 and streak >= 0 hold.
func (s State) normalize() State {
	c := s.Clone()
	if c.XP < 0 {
		c.XP = 0
	}
	if c.Level < 1 {
		c.Level = 1
	}
	if c.Streak < 0 {
		c.Streak = 0
	}
	return c
}

// HasBadge reports whether the badge id is unlocked.
func (s State) HasBadge(id string) bool {
	for _, b := range s.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

// TrapCount returns how many recorded mistakes were trap picks.
func (s State) TrapCount() int {
	n := 0
	for _, m := range s.Mistakes {
		if m.TrapType == TrapTypeTrap {
			n++
		}
	}
	return n
}
