package progression

import "time"

// Badge ids.
const (
	BadgeStreak3 = "streak_3"
	BadgeLevel5  = "level_5"
	BadgeLearner = "learner"
)

// BadgeRule unlocks Badge once Unlocked holds for a state.
type BadgeRule struct {
	Badge    Badge
	Unlocked func(State) bool
}

// Rules lists every badge rule in evaluation order.
var Rules = []BadgeRule{
	{
		Badge:    Badge{ID: BadgeStreak3, Name: "Sharp Eye", Icon: "🎯", Description: "Achieved a 3-question streak"},
		Unlocked: func(s State) bool { return s.Streak >= 3 },
	},
	{
		Badge:    Badge{ID: BadgeLevel5, Name: "Scholar", Icon: "🎓", Description: "Reached Level 5"},
		Unlocked: func(s State) bool { return s.Level >= 5 },
	},
	{
		Badge:    Badge{ID: BadgeLearner, Name: "Humble Student", Icon: "📝", Description: "Analyzed 5 mistakes"},
		Unlocked: func(s State) bool { return len(s.Mistakes) >= 5 },
	},
}

// EvaluateBadges appends every badge whose rule holds and which is not yet
// unlocked, stamped with now. Badges are never removed.
func EvaluateBadges(s State, now time.Time) State {
	next := s
	cloned := false
	for _, r := range Rules {
		if next.HasBadge(r.Badge.ID) || !r.Unlocked(next) {
			continue
		}
		if !cloned {
			next = next.Clone()
			cloned = true
		}
		b := r.Badge
		b.DateUnlocked = now.UTC()
		next.Badges = append(next.Badges, b)
	}
	return next
}

// LockedBadges returns the rules' badges that s has not unlocked yet.
func LockedBadges(s State) []Badge {
	var out []Badge
	for _, r := range Rules {
		if !s.HasBadge(r.Badge.ID) {
			out = append(out, r.Badge)
		}
	}
	return out
}
