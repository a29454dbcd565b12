// Package topics lets the learner pick what to be quizzed on.
package topics

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/quiz"
	"github.com/abhisek/trapz/internal/router"
	"github.com/abhisek/trapz/internal/screen"
	"github.com/abhisek/trapz/internal/screens/game"
	"github.com/abhisek/trapz/internal/ui/components"
	"github.com/abhisek/trapz/internal/ui/layout"
	"github.com/abhisek/trapz/internal/ui/theme"
)

// TopicsScreen lists the topic catalog with the number of questions each
// deck holds.
type TopicsScreen struct {
	deps game.Deps
	menu components.Menu
}

var _ screen.Screen = (*TopicsScreen)(nil)

// New creates a TopicsScreen.
func New(deps game.Deps) *TopicsScreen {
	s := &TopicsScreen{deps: deps}
	s.menu = components.NewMenu(s.items())
	return s
}

func (s *TopicsScreen) items() []components.MenuItem {
	all := s.deps.Progression.AllQuestions(s.deps.Bank)
	var items []components.MenuItem
	for _, t := range question.Topics() {
		n := len(quiz.BuildDeck(all, t.ID))
		items = append(items, components.MenuItem{
			Label: fmt.Sprintf("%-20s %d questions", t.Name, n),
			Action: func() tea.Cmd {
				return router.Push(game.New(s.deps, t.ID))
			},
		})
	}
	return items
}

func (s *TopicsScreen) Init() tea.Cmd {
	return nil
}

// Refresh recounts questions, which change when custom ones are added.
func (s *TopicsScreen) Refresh() tea.Cmd {
	selected := s.menu.Selected
	s.menu = components.NewMenu(s.items())
	s.menu.Selected = selected
	return nil
}

func (s *TopicsScreen) Title() string {
	return "Choose a Topic"
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *TopicsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Title, width, "What do you want to be tricked on?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(s.menu.View(), cw)))
	return b.String()
}
