// Package home is the main menu.
package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/router"
	"github.com/abhisek/trapz/internal/screen"
	"github.com/abhisek/trapz/internal/screens/admin"
	"github.com/abhisek/trapz/internal/screens/game"
	"github.com/abhisek/trapz/internal/screens/history"
	"github.com/abhisek/trapz/internal/screens/profile"
	"github.com/abhisek/trapz/internal/screens/topics"
	"github.com/abhisek/trapz/internal/statsapi"
	"github.com/abhisek/trapz/internal/ui/components"
	"github.com/abhisek/trapz/internal/ui/theme"
)

const banner = `▀█▀ █▀█ ▄▀█ █▀█ ▀█
 █  █▀▄ █▀█ █▀▀ █▄`

// statsTimeout bounds the background user-stats lookup.
const statsTimeout = 10 * time.Second

// StatsSource looks up the learner on the stats service.
type StatsSource interface {
	UserStats(ctx context.Context, userID string) (statsapi.UserStats, error)
}

// Profile is who the home screen greets. When Stats is set the name is
// refreshed from the service in the background; until then Name is shown.
type Profile struct {
	Name   string
	UserID string
	Stats  StatsSource
}

type userStatsMsg struct {
	stats statsapi.UserStats
	err   error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps     game.Deps
	profile  Profile
	userName string
	state    progression.State
	menu     components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen for profile.
func New(deps game.Deps, p Profile) *HomeScreen {
	if p.Name == "" {
		p.Name = statsapi.DefaultUserName
	}
	h := &HomeScreen{deps: deps, profile: p, userName: p.Name, state: deps.Progression.State()}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "PLAY", Action: func() tea.Cmd {
			return router.Push(topics.New(deps))
		}},
		{Label: "PROFILE", Action: func() tea.Cmd {
			return router.Push(profile.New(deps.Progression, h.userName))
		}},
		{Label: "ADD QUESTION", Action: func() tea.Cmd {
			return router.Push(admin.New(deps.Progression))
		}},
		{Label: "HISTORY", Disabled: deps.EventRepo == nil, Action: func() tea.Cmd {
			return router.Push(history.New(deps.EventRepo))
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	return h
}

// Init starts the user-stats lookup. The screen renders with the fallback
// name until the result arrives.
func (h *HomeScreen) Init() tea.Cmd {
	if h.profile.Stats == nil {
		return nil
	}
	src, id := h.profile.Stats, h.profile.UserID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()
		st, err := src.UserStats(ctx, id)
		return userStatsMsg{stats: st, err: err}
	}
}

// Refresh reloads the progression numbers after a quiz or profile visit.
func (h *HomeScreen) Refresh() tea.Cmd {
	h.state = h.deps.Progression.State()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(userStatsMsg); ok {
		if msg.err != nil {
			if h.deps.Logger != nil {
				h.deps.Logger.Printf("home: user stats: %v", msg.err)
			}
			return h, nil
		}
		if msg.stats.Name != "" {
			h.userName = msg.stats.Name
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	center := func(s string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, s) }

	var sections []string
	sections = append(sections, center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(banner)))
	sections = append(sections, center(theme.Hint.Render("Spot the trap before it spots you.")))

	st := h.state
	stats := fmt.Sprintf("Welcome back, %s!\nLevel %d   ⚡ %d XP   🔥 %d streak   🏅 %d badges",
		h.userName, st.Level, st.XP, st.Streak, len(st.Badges))
	sections = append(sections, center(components.StatsBox(stats, cw)))
	sections = append(sections, center(components.Card(h.menu.View(), cw)))

	return "\n" + strings.Join(sections, "\n\n")
}

func (h *HomeScreen) Title() string {
	return "Home"
}
