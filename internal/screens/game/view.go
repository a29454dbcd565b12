package game

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/ui/layout"
	"github.com/abhisek/trapz/internal/ui/theme"
)

func (s *GameScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.errMsg != "" {
		return layout.Centered(dim.Italic(true), width, "\n\n"+s.errMsg+"\n\nPress any key to go back.")
	}
	if s.session == nil {
		return layout.Centered(dim, width, "\n\n  Loading questions...")
	}
	q, ok := s.session.Current()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), width, q.Text))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))

	if s.outcome != nil {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width))
	}
	return b.String()
}

func (s *GameScreen) renderInfoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", s.session.Index()+1, s.session.Len()))

	timerStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.remaining <= 5*time.Second {
		timerStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	}
	timer := fmt.Sprintf("⏱ %ds", int(s.remaining.Seconds()))
	if s.remaining == 0 && s.outcome == nil {
		timer = "⏱ time's up"
	}
	right := timerStyle.Render(timer)

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

func (s *GameScreen) renderFeedback(width int) string {
	out := s.outcome
	style := theme.Incorrect
	switch out.Verdict {
	case question.VerdictCorrect:
		style = theme.Correct
	case question.VerdictTrap:
		style = theme.Trapped
	}

	var b strings.Builder
	headline := out.Headline()
	if out.XPAwarded > 0 {
		headline += fmt.Sprintf("  +%d XP", out.XPAwarded)
	}
	b.WriteString(layout.Centered(style, width, headline))
	b.WriteString("\n\n")

	if out.Feedback != "" {
		fb := lipgloss.NewStyle().Width(min(width-8, 70)).Foreground(theme.Text).Render(out.Feedback)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, fb))
		b.WriteString("\n")
	}
	for _, badge := range out.NewBadges {
		b.WriteString("\n")
		b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true), width,
			fmt.Sprintf("%s Badge unlocked: %s", badge.Icon, badge.Name)))
	}
	return b.String()
}
