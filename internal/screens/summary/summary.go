package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/quiz"
	"github.com/abhisek/trapz/internal/router"
	"github.com/abhisek/trapz/internal/screen"
	"github.com/abhisek/trapz/internal/ui/components"
	"github.com/abhisek/trapz/internal/ui/layout"
	"github.com/abhisek/trapz/internal/ui/theme"
)

// SummaryScreen displays the result of a finished quiz.
type SummaryScreen struct {
	topic   string
	summary quiz.Summary
	state   progression.State
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(topic string, sum quiz.Summary, state progression.State) *SummaryScreen {
	return &SummaryScreen{topic: topic, summary: sum, state: state}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), width,
		fmt.Sprintf("%s complete!", question.TopicName(s.topic))))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Answered: %d/%d    Correct: %d    Accuracy: %.0f%%",
		sum.Answered, sum.Total, sum.Correct, sum.Accuracy()*100)
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Text), width, stats))
	b.WriteString("\n")

	detail := theme.Trapped.Render(fmt.Sprintf("Traps: %d", sum.Traps)) + "    " +
		theme.Incorrect.Render(fmt.Sprintf("Wrong: %d", sum.Wrong)) + "    " +
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("+%d XP", sum.XPEarned))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, detail))
	b.WriteString("\n\n")

	bar := components.NewProgressBar(fmt.Sprintf("Level %d", s.state.Level),
		progression.ProgressFraction(s.state), true, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")

	if sum.Traps > 0 {
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Hint, width,
			"Traps are answers built on a common misconception. Check your profile for the analysis."))
	}
	return b.String()
}
