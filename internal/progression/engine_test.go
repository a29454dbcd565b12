package progression

import (
	"testing"
	"time"

	"github.com/abhisek/trapz/internal/question"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func mistake(id string) Mistake {
	return Mistake{
		QuestionID:     id,
		QuestionText:   "text " + id,
		SelectedAnswer: "9",
		CorrectAnswer:  "'333'",
		Topic:          "cs",
		TrapType:       TrapTypeTrap,
	}
}

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, 0, s.XP)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 0, s.Streak)
	assert.Empty(t, s.Mistakes)
	assert.Empty(t, s.Badges)
	assert.NotNil(t, s.CompletedQuestions)
}

func TestAwardXPAddsAmount(t *testing.T) {
	for _, amount := range []int{0, 1, 50, 999, 5000} {
		s := State{XP: 123, Level: 1}
		got := AwardXP(s, amount, testNow)
		assert.Equal(t, 123+amount, got.XP, "amount %d", amount)
	}
}

func TestAwardXPLevels(t *testing.T) {
	tests := []struct {
		name      string
		xp, level int
		amount    int
		wantXP    int
		wantLevel int
	}{
		{"below threshold", 0, 1, 50, 50, 1},
		{"reaches threshold exactly", 950, 1, 50, 1000, 2},
		{"crosses threshold", 950, 1, 100, 1050, 2},
		{"level 2 threshold is 2000", 1500, 2, 400, 1900, 2},
		{"level 2 to 3", 1950, 2, 50, 2000, 3},
		{"single level per call", 0, 1, 10000, 10000, 2},
		{"negative amount ignored", 500, 1, -200, 500, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AwardXP(State{XP: tt.xp, Level: tt.level}, tt.amount, testNow)
			assert.Equal(t, tt.wantXP, got.XP)
			assert.Equal(t, tt.wantLevel, got.Level)
		})
	}
}

func TestAwardXPFourCorrectAnswers(t *testing.T) {
	s := NewState()
	for range 4 {
		s = AwardXP(s, 50, testNow)
	}
	assert.Equal(t, 200, s.XP)
	assert.Equal(t, 1, s.Level)
}

func TestAwardXPDoesNotMutateInput(t *testing.T) {
	in := NewState()
	in.Streak = 2
	_ = RecordSuccess(in, "q1", testNow)
	_ = AwardXP(in, 2000, testNow)
	assert.Equal(t, 0, in.XP)
	assert.Equal(t, 2, in.Streak)
	assert.Empty(t, in.CompletedQuestions)
	assert.Empty(t, in.Badges)
}

func TestRecordMistakeResetsStreak(t *testing.T) {
	for _, streak := range []int{0, 1, 7} {
		s := NewState()
		s.Streak = streak
		got := RecordMistake(s, mistake("q1"), testNow)
		assert.Equal(t, 0, got.Streak)
		require.Len(t, got.Mistakes, 1)
		assert.Equal(t, mistake("q1"), got.Mistakes[0])
	}
}

func TestRecordSuccessIncrementsStreak(t *testing.T) {
	s := NewState()
	s.Streak = 4
	got := RecordSuccess(s, "q1", testNow)
	assert.Equal(t, 5, got.Streak)
	assert.Equal(t, []string{"q1"}, got.CompletedQuestions)

	got = RecordSuccess(got, "q1", testNow)
	assert.Equal(t, []string{"q1", "q1"}, got.CompletedQuestions)
}

func TestStreakBadgeUnlocksOnce(t *testing.T) {
	s := NewState()
	s = RecordSuccess(s, "q1", testNow)
	s = RecordSuccess(s, "q2", testNow)
	assert.False(t, s.HasBadge(BadgeStreak3))

	s = RecordSuccess(s, "q3", testNow)
	assert.Equal(t, 3, s.Streak)
	require.Len(t, s.Badges, 1)
	b := s.Badges[0]
	assert.Equal(t, BadgeStreak3, b.ID)
	assert.Equal(t, "Sharp Eye", b.Name)
	assert.Equal(t, "🎯", b.Icon)
	assert.Equal(t, testNow, b.DateUnlocked)

	s = RecordSuccess(s, "q4", testNow.Add(time.Minute))
	s = RecordMistake(s, mistake("q5"), testNow)
	for i := range 3 {
		s = RecordSuccess(s, "again", testNow.Add(time.Duration(i)*time.Hour))
	}
	assert.Len(t, s.Badges, 1)
	assert.Equal(t, testNow, s.Badges[0].DateUnlocked)
}

func TestLearnerBadgeAfterFiveMistakes(t *testing.T) {
	s := NewState()
	for i := range 4 {
		s = RecordMistake(s, mistake(string(rune('a'+i))), testNow)
	}
	assert.False(t, s.HasBadge(BadgeLearner))

	s = RecordMistake(s, mistake("e"), testNow)
	assert.True(t, s.HasBadge(BadgeLearner))

	s = RecordMistake(s, mistake("f"), testNow)
	count := 0
	for _, b := range s.Badges {
		if b.ID == BadgeLearner {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, s.Mistakes, 6)
}

func TestLevelBadge(t *testing.T) {
	s := State{XP: 4990, Level: 4}
	s = AwardXP(s, 50, testNow)
	assert.Equal(t, 5, s.Level)
	assert.True(t, s.HasBadge(BadgeLevel5))
	assert.Equal(t, "Scholar", s.Badges[0].Name)
}

func TestEvaluateBadgesIdempotent(t *testing.T) {
	s := State{Level: 6, Streak: 4, Mistakes: make([]Mistake, 5)}
	once := EvaluateBadges(s, testNow)
	require.Len(t, once.Badges, 3)
	twice := EvaluateBadges(once, testNow.Add(time.Hour))
	assert.Equal(t, once.Badges, twice.Badges)
	assert.Equal(t, []string{BadgeStreak3, BadgeLevel5, BadgeLearner},
		[]string{once.Badges[0].ID, once.Badges[1].ID, once.Badges[2].ID})
}

func TestEvaluateBadgesNeverRemoves(t *testing.T) {
	s := NewState()
	s.Badges = []Badge{{ID: BadgeStreak3, Name: "Sharp Eye"}}
	got := EvaluateBadges(s, testNow)
	assert.True(t, got.HasBadge(BadgeStreak3))
}

func TestNewBadgesAndLocked(t *testing.T) {
	before := NewState()
	after := RecordSuccess(RecordSuccess(RecordSuccess(before, "a", testNow), "b", testNow), "c", testNow)
	nb := NewBadges(before, after)
	require.Len(t, nb, 1)
	assert.Equal(t, BadgeStreak3, nb[0].ID)

	locked := LockedBadges(after)
	require.Len(t, locked, 2)
	assert.Equal(t, BadgeLevel5, locked[0].ID)
	assert.Equal(t, BadgeLearner, locked[1].ID)
}

func TestProgressFraction(t *testing.T) {
	tests := []struct {
		name      string
		xp, level int
		want      float64
	}{
		{"start", 0, 1, 0},
		{"halfway level 1", 500, 1, 0.5},
		{"level 2 start", 1000, 2, 0},
		{"level 2 quarter", 1250, 2, 0.25},
		{"overflow clamps", 2500, 1, 1},
		{"below base clamps", 100, 3, 0},
		{"invalid level", 300, 0, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressFraction(State{XP: tt.xp, Level: tt.level})
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestAllQuestions(t *testing.T) {
	defaults := question.DefaultBank()
	s := NewState()
	assert.Equal(t, defaults, AllQuestions(s, defaults))

	custom := question.Question{ID: "custom_1", Text: "?", Topic: "cs"}
	s = AddCustomQuestion(s, custom)
	s = AddCustomQuestion(s, question.Question{ID: "q1", Text: "dup id", Topic: "cs"})

	all := AllQuestions(s, defaults)
	require.Len(t, all, len(defaults)+2)
	assert.Equal(t, defaults, all[:len(defaults)])
	assert.Equal(t, "custom_1", all[len(defaults)].ID)
	assert.Equal(t, "q1", all[len(defaults)+1].ID)
}

func TestAddCustomQuestionDoesNotValidate(t *testing.T) {
	bad := question.Question{ID: "bad"}
	s := AddCustomQuestion(NewState(), bad)
	require.Len(t, s.CustomQuestions, 1)
	assert.Equal(t, bad, s.CustomQuestions[0])
}

func TestTrapCount(t *testing.T) {
	s := NewState()
	s = RecordMistake(s, mistake("a"), testNow)
	m := mistake("b")
	m.TrapType = TrapTypeError
	s = RecordMistake(s, m, testNow)
	assert.Equal(t, 1, s.TrapCount())
}
