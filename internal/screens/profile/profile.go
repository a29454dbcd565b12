// Package profile shows the learner's progression: level, XP, badges and
// an analysis of recent mistakes.
package profile

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/screen"
	"github.com/abhisek/trapz/internal/trapgen"
	"github.com/abhisek/trapz/internal/ui/components"
	"github.com/abhisek/trapz/internal/ui/layout"
	"github.com/abhisek/trapz/internal/ui/theme"
)

// mistakesShown caps the mistake analysis list.
const mistakesShown = 5

// ProfileScreen renders a progression.State snapshot.
type ProfileScreen struct {
	svc    *progression.Service
	state  progression.State
	name   string
	offset int
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a ProfileScreen for the learner called name.
func New(svc *progression.Service, name string) *ProfileScreen {
	return &ProfileScreen{svc: svc, state: svc.State(), name: name}
}

func (s *ProfileScreen) Init() tea.Cmd {
	return nil
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll mistakes"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset+mistakesShown < len(s.state.Mistakes) {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *ProfileScreen) View(width, height int) string {
	st := s.state
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, layout.Centered(theme.Title, width, s.name))

	stats := fmt.Sprintf("Level %d   ⚡ %d XP   ✔ %d solved   🔥 %d streak   ⚠ %d traps",
		st.Level, st.XP, len(st.CompletedQuestions), st.Streak, st.TrapCount())
	bar := components.NewProgressBar(fmt.Sprintf("Next level (%d XP)", st.Level*progression.XPPerLevel),
		progression.ProgressFraction(st), true, cw-6)
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.StatsBox(stats+"\n"+bar.View(), cw)))

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(renderBadges(st), cw)))

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(s.renderMistakes(), cw)))

	return "\n" + strings.Join(sections, "\n")
}

func renderBadges(st progression.State) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Badges"))
	b.WriteString("\n")
	for _, badge := range st.Badges {
		fmt.Fprintf(&b, "%s %s  %s  %s\n",
			badge.Icon,
			theme.Correct.Render(badge.Name),
			badge.Description,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(badge.DateUnlocked.Local().Format("Jan 02, 2006")))
	}
	locked := lipgloss.NewStyle().Foreground(theme.TextDim)
	for _, badge := range progression.LockedBadges(st) {
		b.WriteString(locked.Render(fmt.Sprintf("🔒 %s  %s", badge.Name, badge.Description)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ProfileScreen) renderMistakes() string {
	mistakes := s.state.Mistakes
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Mistake analysis (%d)", len(mistakes))))
	b.WriteString("\n")
	if len(mistakes) == 0 {
		b.WriteString(theme.Hint.Render("No mistakes yet. Nothing to analyze!"))
		return b.String()
	}

	// Most recent first.
	for i := len(mistakes) - 1 - s.offset; i >= 0 && i >= len(mistakes)-s.offset-mistakesShown; i-- {
		m := mistakes[i]
		tag := theme.Incorrect.Render("[" + m.TrapType + "]")
		if m.TrapType == progression.TrapTypeTrap {
			tag = theme.Trapped.Render("[" + m.TrapType + "]")
		}
		fmt.Fprintf(&b, "%s %s  %s\n", tag,
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(question.TopicName(m.Topic)), m.QuestionText)
		fmt.Fprintf(&b, "   You said %q, answer was %q\n", m.SelectedAnswer, m.CorrectAnswer)
		b.WriteString(theme.Hint.Render("   " + trapgen.AnalyzeMistake(m.SelectedAnswer, m.CorrectAnswer)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
