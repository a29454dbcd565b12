package progression

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/store"
)

// Event names a state transition.
type Event string

const (
	EventAwardXP        Event = "award_xp"
	EventMistake        Event = "mistake"
	EventSuccess        Event = "success"
	EventCustomQuestion Event = "custom_question"
	EventReset          Event = "reset"
)

// Change describes the result of one transition.
type Change struct {
	Event     Event
	State     State
	NewBadges []Badge
}

// Listener is notified after every transition, once the new state has been
// persisted.
type Listener func(Change)

// Service owns the learner's State. Every mutating call applies the
// transition, writes the state to the KV store and notifies listeners.
type Service struct {
	mu        sync.Mutex
	kv        store.KV
	eventRepo store.EventRepo
	logger    *log.Logger
	now       func() time.Time
	state     State
	listeners []Listener
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for badge timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithEventRepo records badge unlocks in repo.
func WithEventRepo(repo store.EventRepo) Option {
	return func(s *Service) { s.eventRepo = repo }
}

// WithLogger sets the logger for persistence failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService loads the state stored under store.StateKey. A missing or
// unreadable blob yields the zero state.
func NewService(ctx context.Context, kv store.KV, opts ...Option) *Service {
	s := &Service{
		kv:     kv,
		logger: log.New(io.Discard, "", 0),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.load(ctx)
	return s
}

func (s *Service) load(ctx context.Context) State {
	data, err := s.kv.Get(ctx, store.StateKey)
	if errors.Is(err, store.ErrNotFound) {
		return NewState()
	}
	if err != nil {
		s.logger.Printf("progression: read state: %v; starting fresh", err)
		return NewState()
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Printf("progression: decode state: %v; starting fresh", err)
		return NewState()
	}
	return st.normalize()
}

// State returns a copy of the current state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ProgressFraction returns progress through the current level in [0, 1].
func (s *Service) ProgressFraction() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ProgressFraction(s.state)
}

// AllQuestions returns defaults followed by the learner's custom questions.
func (s *Service) AllQuestions(defaults []question.Question) []question.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllQuestions(s.state, defaults)
}

// Subscribe registers l for all future transitions.
func (s *Service) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// AwardXP adds amount XP.
func (s *Service) AwardXP(ctx context.Context, amount int) Change {
	return s.apply(ctx, EventAwardXP, func(st State, now time.Time) State {
		return AwardXP(st, amount, now)
	})
}

// RecordMistake logs an incorrect answer and resets the streak.
func (s *Service) RecordMistake(ctx context.Context, m Mistake) Change {
	return s.apply(ctx, EventMistake, func(st State, now time.Time) State {
		return RecordMistake(st, m, now)
	})
}

// RecordSuccess logs a correct answer and extends the streak.
func (s *Service) RecordSuccess(ctx context.Context, questionID string) Change {
	return s.apply(ctx, EventSuccess, func(st State, now time.Time) State {
		return RecordSuccess(st, questionID, now)
	})
}

// AddCustomQuestion stores a learner-authored question.
func (s *Service) AddCustomQuestion(ctx context.Context, q question.Question) Change {
	return s.apply(ctx, EventCustomQuestion, func(st State, _ time.Time) State {
		return AddCustomQuestion(st, q)
	})
}

// Reset deletes the persisted state and starts over from the zero state.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	if err := s.kv.Delete(ctx, store.StateKey); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = NewState()
	change := Change{Event: EventReset, State: s.state.Clone()}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(change)
	}
	return nil
}

func (s *Service) apply(ctx context.Context, ev Event, fn func(State, time.Time) State) Change {
	s.mu.Lock()
	before := s.state
	after := fn(before, s.now())
	s.state = after
	s.persist(ctx, after)

	change := Change{
		Event:     ev,
		State:     after.Clone(),
		NewBadges: NewBadges(before, after),
	}
	s.recordBadges(ctx, after, change.NewBadges)
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(change)
	}
	return change
}

// persist writes st to the KV store. Failures are logged and the in-memory
// state is kept.
func (s *Service) persist(ctx context.Context, st State) {
	data, err := json.Marshal(st)
	if err != nil {
		s.logger.Printf("progression: encode state: %v", err)
		return
	}
	if err := s.kv.Set(ctx, store.StateKey, data); err != nil {
		s.logger.Printf("progression: save state: %v", err)
	}
}

func (s *Service) recordBadges(ctx context.Context, st State, badges []Badge) {
	if s.eventRepo == nil {
		return
	}
	for _, b := range badges {
		err := s.eventRepo.AppendBadgeEvent(ctx, store.BadgeEventData{
			BadgeID: b.ID,
			Name:    b.Name,
			XP:      st.XP,
			Level:   st.Level,
		})
		if err != nil {
			s.logger.Printf("progression: record badge %s: %v", b.ID, err)
		}
	}
}
