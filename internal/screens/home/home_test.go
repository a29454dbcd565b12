package home

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/router"
	"github.com/abhisek/trapz/internal/screens/game"
	"github.com/abhisek/trapz/internal/screens/topics"
	"github.com/abhisek/trapz/internal/statsapi"
	"github.com/abhisek/trapz/internal/store"
)

func testDeps() game.Deps {
	return game.Deps{
		Progression: progression.NewService(context.Background(), store.NewMemoryKV()),
	}
}

func TestHomeScreen_Menu(t *testing.T) {
	h := New(testDeps(), Profile{Name: "ada"})
	labels := make([]string, len(h.menu.Items))
	for i, item := range h.menu.Items {
		labels[i] = item.Label
	}
	want := []string{"PLAY", "PROFILE", "ADD QUESTION", "HISTORY", "EXIT"}
	if strings.Join(labels, ",") != strings.Join(want, ",") {
		t.Errorf("menu = %v, want %v", labels, want)
	}
}

func TestHomeScreen_HistoryDisabledWithoutEvents(t *testing.T) {
	h := New(testDeps(), Profile{Name: "ada"})
	if !h.menu.Items[3].Disabled {
		t.Error("expected HISTORY disabled without an event repo")
	}
}

func TestHomeScreen_PlayPushesTopics(t *testing.T) {
	h := New(testDeps(), Profile{Name: "ada"})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*topics.TopicsScreen); !ok {
		t.Errorf("expected topics screen, got %T", msg.Screen)
	}
}

func TestHomeScreen_RefreshReadsState(t *testing.T) {
	deps := testDeps()
	h := New(deps, Profile{Name: "ada"})
	deps.Progression.AwardXP(context.Background(), 150)

	if h.state.XP != 0 {
		t.Fatal("state should be a snapshot until refresh")
	}
	h.Refresh()
	if h.state.XP != 150 {
		t.Errorf("XP = %d, want 150", h.state.XP)
	}
	if !strings.Contains(h.View(80, 30), "150 XP") {
		t.Error("expected XP in view")
	}
}

func TestHomeScreen_Greeting(t *testing.T) {
	h := New(testDeps(), Profile{Name: "ada"})
	if !strings.Contains(h.View(80, 30), "Welcome back, ada!") {
		t.Error("expected greeting in view")
	}
}

type stubStats struct {
	stats statsapi.UserStats
	err   error
	delay time.Duration
	calls int
}

func (s *stubStats) UserStats(ctx context.Context, userID string) (statsapi.UserStats, error) {
	s.calls++
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return statsapi.UserStats{}, ctx.Err()
	}
	return s.stats, s.err
}

func TestHomeScreen_SlowStatsDoNotBlockView(t *testing.T) {
	slow := &stubStats{stats: statsapi.UserStats{Name: "Ada"}, delay: time.Hour}

	start := time.Now()
	h := New(testDeps(), Profile{UserID: "u-1", Stats: slow})
	cmd := h.Init()
	view := h.View(80, 30)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("New/Init/View took %v", elapsed)
	}

	if cmd == nil {
		t.Fatal("expected a stats command")
	}
	if slow.calls != 0 {
		t.Error("stats should only be fetched when the command runs")
	}
	if !strings.Contains(view, "Welcome back, Student!") {
		t.Error("expected the fallback name before stats arrive")
	}
}

func TestHomeScreen_StatsUpdateGreeting(t *testing.T) {
	fast := &stubStats{stats: statsapi.UserStats{Name: "Ada", XP: 10, Level: 1}}
	h := New(testDeps(), Profile{UserID: "u-1", Stats: fast})

	msg := h.Init()()
	if _, cmd := h.Update(msg); cmd != nil {
		t.Error("stats result should not produce a command")
	}
	if fast.calls != 1 {
		t.Errorf("calls = %d, want 1", fast.calls)
	}
	if !strings.Contains(h.View(80, 30), "Welcome back, Ada!") {
		t.Error("expected the fetched name in view")
	}
}

func TestHomeScreen_StatsErrorKeepsName(t *testing.T) {
	failing := &stubStats{err: errors.New("connection refused")}
	h := New(testDeps(), Profile{Name: "ada", UserID: "u-1", Stats: failing})

	h.Update(h.Init()())
	if !strings.Contains(h.View(80, 30), "Welcome back, ada!") {
		t.Error("expected the original name after a failed lookup")
	}
}

func TestHomeScreen_NoStatsSourceNoCommand(t *testing.T) {
	h := New(testDeps(), Profile{Name: "ada"})
	if h.Init() != nil {
		t.Error("expected no command without a stats source")
	}
}
