package topics

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/router"
	"github.com/abhisek/trapz/internal/screens/game"
	"github.com/abhisek/trapz/internal/store"
)

func testDeps() game.Deps {
	return game.Deps{
		Progression: progression.NewService(context.Background(), store.NewMemoryKV()),
		Bank:        question.DefaultBank(),
	}
}

func TestTopicsScreen_ListsEveryTopic(t *testing.T) {
	s := New(testDeps())
	if len(s.menu.Items) != len(question.Topics()) {
		t.Fatalf("items = %d, want %d", len(s.menu.Items), len(question.Topics()))
	}
	view := s.View(80, 24)
	for _, topic := range question.Topics() {
		if !strings.Contains(view, topic.Name) {
			t.Errorf("view missing %q", topic.Name)
		}
	}
}

func TestTopicsScreen_EnterPushesGame(t *testing.T) {
	s := New(testDeps())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*game.GameScreen); !ok {
		t.Errorf("expected game screen, got %T", msg.Screen)
	}
}

func TestTopicsScreen_RefreshRecounts(t *testing.T) {
	deps := testDeps()
	s := New(deps)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	before := s.menu.Items[0].Label

	q, err := question.NewCustom(question.Draft{
		Topic: "math", Text: "Is 1 prime?", CorrectAnswer: "No", TrapAnswer: "Yes",
		TrapFeedback: "Primes need exactly two divisors.",
	})
	if err != nil {
		t.Fatal(err)
	}
	deps.Progression.AddCustomQuestion(context.Background(), q)

	s.Refresh()
	if s.menu.Items[0].Label == before {
		t.Error("expected the math count to change after refresh")
	}
	if s.menu.Selected != 1 {
		t.Errorf("Selected = %d, want 1 kept across refresh", s.menu.Selected)
	}
}
