// Package history lists recent answers and per-topic accuracy from the
// event log.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/screen"
	"github.com/abhisek/trapz/internal/store"
	"github.com/abhisek/trapz/internal/ui/layout"
	"github.com/abhisek/trapz/internal/ui/theme"
)

// recentLimit is the number of answers loaded.
const recentLimit = 50

type historyLoadedMsg struct {
	Answers []store.AnswerEvent
	Topics  []store.TopicStats
	Err     error
}

// HistoryScreen displays the answer log.
type HistoryScreen struct {
	eventRepo store.EventRepo
	answers   []store.AnswerEvent
	topics    []store.TopicStats
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{eventRepo: eventRepo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		ctx := context.Background()
		answers, err := repo.QueryAnswerEvents(ctx, store.QueryOpts{Limit: recentLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		topics, err := repo.TopicStats(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Answers: answers, Topics: topics}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.answers = msg.Answers
			s.topics = msg.Topics
		}
		s.loaded = true

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.answers)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.errMsg != "" {
		return layout.Centered(lipgloss.NewStyle().Foreground(theme.Error), width, "\n\nError: "+s.errMsg)
	}
	if !s.loaded {
		return layout.Centered(dim, width, "\n\n  Loading history...")
	}
	if len(s.answers) == 0 {
		return layout.Centered(dim.Italic(true), width, "\n\n  No answers yet. Go fall into some traps!")
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, t := range s.topics {
		line := fmt.Sprintf("%-18s %3d answered  %3.0f%% correct  %d traps",
			question.TopicName(t.Topic), t.Total, t.Accuracy()*100, t.Traps)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Foreground(theme.Secondary).Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Keep the selection visible in the rows that fit.
	rows := max(height-len(s.topics)-3, 1)
	start := max(s.selected-rows+1, 0)
	for i := start; i < len(s.answers) && i < start+rows; i++ {
		a := s.answers[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-7s  %s", prefix, a.Timestamp.Local().Format("Jan 02 15:04"), a.Verdict, truncate(a.QuestionText, 48))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, verdictStyle(a.Verdict, i == s.selected).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func verdictStyle(verdict string, selected bool) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(theme.Text)
	switch verdict {
	case "correct":
		style = style.Foreground(theme.Success)
	case "trap":
		style = style.Foreground(theme.Trap)
	case "wrong":
		style = style.Foreground(theme.Error)
	}
	return style.Bold(selected)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
