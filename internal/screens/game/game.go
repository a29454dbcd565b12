// Package game is the question screen: one question at a time, verdict
// colouring, feedback and a countdown.
package game

import (
	"context"
	"io"
	"log"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/quiz"
	"github.com/abhisek/trapz/internal/router"
	"github.com/abhisek/trapz/internal/screen"
	"github.com/abhisek/trapz/internal/screens/summary"
	"github.com/abhisek/trapz/internal/store"
	"github.com/abhisek/trapz/internal/trapgen"
	"github.com/abhisek/trapz/internal/ui/components"
	"github.com/abhisek/trapz/internal/ui/layout"
)

// QuestionTime is the countdown shown for each question. It is a display
// only; answering late is still accepted.
const QuestionTime = 30 * time.Second

// Deps are the collaborators of the game screen. Generator, EventRepo and
// Sink are optional.
type Deps struct {
	Progression *progression.Service
	Bank        []question.Question
	Generator   trapgen.Generator
	EventRepo   store.EventRepo
	Sink        quiz.AnswerSink
	Logger      *log.Logger
}

// GameScreen implements screen.Screen for a quiz on one topic.
type GameScreen struct {
	deps    Deps
	topic   string
	session *quiz.Session
	options components.OptionList
	outcome *quiz.Outcome
	errMsg  string

	remaining time.Duration
	tickID    int
}

var _ screen.Screen = (*GameScreen)(nil)
var _ screen.KeyHintProvider = (*GameScreen)(nil)

// New creates a GameScreen for topic.
func New(deps Deps, topic string) *GameScreen {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard, "", 0)
	}
	return &GameScreen{deps: deps, topic: quiz.ResolveTopic(topic)}
}

func (s *GameScreen) Init() tea.Cmd {
	return s.buildDeck()
}

func (s *GameScreen) Title() string {
	return question.TopicName(s.topic)
}

func (s *GameScreen) KeyHints() []layout.KeyHint {
	if s.outcome != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-6", Description: "Answer"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

// buildDeck collects the topic's bank and custom questions and, when a
// generator is configured, one freshly generated question.
func (s *GameScreen) buildDeck() tea.Cmd {
	deps, topic := s.deps, s.topic
	return func() tea.Msg {
		deck := quiz.BuildDeck(deps.Progression.AllQuestions(deps.Bank), topic)
		if deps.Generator != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			q, err := deps.Generator.Generate(ctx, topic)
			if err != nil {
				deps.Logger.Printf("game: generate question: %v", err)
			} else {
				deck = append(deck, q)
			}
		}
		return deckReadyMsg{Deck: deck}
	}
}

func (s *GameScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case deckReadyMsg:
		return s.handleDeck(msg)
	case timerTickMsg:
		return s.handleTick(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *GameScreen) handleDeck(msg deckReadyMsg) (screen.Screen, tea.Cmd) {
	opts := []quiz.SessionOption{quiz.WithLogger(s.deps.Logger)}
	if s.deps.EventRepo != nil {
		opts = append(opts, quiz.WithEventRepo(s.deps.EventRepo))
	}
	if s.deps.Sink != nil {
		opts = append(opts, quiz.WithAnswerSink(s.deps.Sink))
	}
	s.session = quiz.NewSession(s.deps.Progression, s.topic, msg.Deck, opts...)

	if s.session.Done() {
		s.errMsg = "No questions for this topic yet. Add one from the home screen!"
		return s, nil
	}
	return s, s.showCurrent()
}

func (s *GameScreen) showCurrent() tea.Cmd {
	q, _ := s.session.Current()
	s.options = components.NewOptionList(q)
	s.outcome = nil
	s.remaining = QuestionTime
	s.tickID++
	return tickCmd(s.tickID)
}

func (s *GameScreen) handleTick(msg timerTickMsg) (screen.Screen, tea.Cmd) {
	if msg.ID != s.tickID || s.outcome != nil || s.remaining <= 0 {
		return s, nil
	}
	s.remaining -= time.Second
	if s.remaining <= 0 {
		s.remaining = 0
		return s, nil
	}
	return s, tickCmd(s.tickID)
}

func (s *GameScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, router.Pop
	}
	if s.session == nil {
		return s, nil
	}

	if s.outcome != nil {
		switch msg.String() {
		case "enter", "n", "space":
			return s.advance()
		}
		return s, nil
	}

	var chosen string
	s.options, chosen = s.options.Update(msg)
	if chosen == "" {
		return s, nil
	}

	out, err := s.session.Select(context.Background(), chosen)
	if err != nil {
		s.deps.Logger.Printf("game: select: %v", err)
		return s, nil
	}
	s.outcome = &out
	s.options.Reveal(chosen)
	return s, nil
}

func (s *GameScreen) advance() (screen.Screen, tea.Cmd) {
	if s.session.Next() {
		return s, s.showCurrent()
	}
	sum := summary.New(s.topic, s.session.Summary(), s.deps.Progression.State())
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: sum} }
}

// tickCmd returns a 1-second tick tagged with the question's tick id.
func tickCmd(id int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{ID: id}
	})
}
