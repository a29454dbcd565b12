package progression

import (
	"time"

	"github.com/abhisek/trapz/internal/question"
)

// AwardXP adds amount to the learner's XP. If the new total reaches the
// current level's threshold the level goes up by exactly one, even when the
// award would cross several thresholds. Negative amounts are treated as 0.
func AwardXP(s State, amount int, now time.Time) State {
	next := s.Clone()
	if amount < 0 {
		amount = 0
	}
	next.XP += amount
	if next.XP >= next.Level*XPPerLevel {
		next.Level++
	}
	return EvaluateBadges(next, now)
}

// RecordMistake appends m to the mistake log and breaks the streak.
func RecordMistake(s State, m Mistake, now time.Time) State {
	next := s.Clone()
	next.Mistakes = append(next.Mistakes, m)
	next.Streak = 0
	return EvaluateBadges(next, now)
}

// RecordSuccess appends questionID to the completed log and extends the
// streak. The same question may appear more than once.
func RecordSuccess(s State, questionID string, now time.Time) State {
	next := s.Clone()
	next.CompletedQuestions = append(next.CompletedQuestions, questionID)
	next.Streak++
	return EvaluateBadges(next, now)
}

// AddCustomQuestion appends q to the learner's custom questions as is.
func AddCustomQuestion(s State, q question.Question) State {
	next := s.Clone()
	next.CustomQuestions = append(next.CustomQuestions, q)
	return next
}

// AllQuestions returns defaults followed by the custom questions.
func AllQuestions(s State, defaults []question.Question) []question.Question {
	out := make([]question.Question, 0, len(defaults)+len(s.CustomQuestions))
	out = append(out, defaults...)
	out = append(out, s.CustomQuestions...)
	return out
}

// ProgressFraction returns how far the learner is through the current
// level, in [0, 1].
func ProgressFraction(s State) float64 {
	level := s.Level
	if level < 1 {
		level = 1
	}
	base := (level - 1) * XPPerLevel
	f := float64(s.XP-base) / float64(XPPerLevel)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// NewBadges returns the badges present in after but not in before.
func NewBadges(before, after State) []Badge {
	var out []Badge
	for _, b := range after.Badges {
		if !before.HasBadge(b.ID) {
			out = append(out, b)
		}
	}
	return out
}
