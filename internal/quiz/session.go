package quiz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/store"
	"github.com/google/uuid"
)

// ErrFinished is returned by Select once the deck is exhausted.
var ErrFinished = errors.New("quiz: no current question")

// Engine is the subset of progression.Service a session drives.
type Engine interface {
	RecordSuccess(ctx context.Context, questionID string) progression.Change
	RecordMistake(ctx context.Context, m progression.Mistake) progression.Change
	AwardXP(ctx context.Context, amount int) progression.Change
}

// AnswerSink receives every accepted answer. Implementations must not
// block; statsapi.Submitter posts in the background.
type AnswerSink interface {
	Submit(questionID, optionID string, correct, trap bool)
}

// Outcome is the result of answering one question.
type Outcome struct {
	Question  question.Question
	Option    question.Option
	Verdict   question.Verdict
	Feedback  string
	XPAwarded int
	State     progression.State
	NewBadges []progression.Badge

	// Repeated is set when the question had already been answered; the
	// first outcome is returned and nothing is dispatched.
	Repeated bool
}

// Headline is the verdict banner shown above the feedback.
func (o Outcome) Headline() string {
	return o.Verdict.Headline()
}

// Summary totals a session.
type Summary struct {
	Total    int
	Answered int
	Correct  int
	Traps    int
	Wrong    int
	XPEarned int
}

// Accuracy is the share of answered questions that were correct.
func (s Summary) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// Session walks a deck by index, accepting one answer per question.
// A Session is not safe for concurrent use.
type Session struct {
	id       string
	topic    string
	deck     []question.Question
	index    int
	done     bool
	outcomes map[int]Outcome
	shownAt  time.Time

	engine    Engine
	sink      AnswerSink
	eventRepo store.EventRepo
	logger    *log.Logger
	now       func() time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAnswerSink forwards every answer to sink.
func WithAnswerSink(sink AnswerSink) SessionOption {
	return func(s *Session) { s.sink = sink }
}

// WithEventRepo records every answer as an answer event.
func WithEventRepo(repo store.EventRepo) SessionOption {
	return func(s *Session) { s.eventRepo = repo }
}

// WithLogger sets the logger for event recording failures.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides the time source used for answer timings.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession starts a session over deck. An empty deck starts finished.
func NewSession(engine Engine, topic string, deck []question.Question, opts ...SessionOption) *Session {
	s := &Session{
		id:       uuid.NewString(),
		topic:    ResolveTopic(topic),
		deck:     deck,
		outcomes: make(map[int]Outcome),
		engine:   engine,
		logger:   log.New(io.Discard, "", 0),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.done = len(deck) == 0
	s.shownAt = s.now()
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Topic returns the topic the deck was drawn from.
func (s *Session) Topic() string { return s.topic }

// Len returns the number of questions in the deck.
func (s *Session) Len() int { return len(s.deck) }

// Index returns the zero-based position of the current question.
func (s *Session) Index() int { return s.index }

// Done reports whether every question has been answered.
func (s *Session) Done() bool { return s.done }

// Current returns the question being asked, or false once the deck is
// exhausted.
func (s *Session) Current() (question.Question, bool) {
	if s.done {
		return question.Question{}, false
	}
	return s.deck[s.index], true
}

// Answered reports whether the current question has an accepted answer.
func (s *Session) Answered() bool {
	_, ok := s.outcomes[s.index]
	return ok && !s.done
}

// Outcome returns the accepted outcome for the current question.
func (s *Session) Outcome() (Outcome, bool) {
	if s.done {
		return Outcome{}, false
	}
	o, ok := s.outcomes[s.index]
	return o, ok
}

// Select answers the current question with optionID. Only the first
// selection per question is dispatched to the engine.
func (s *Session) Select(ctx context.Context, optionID string) (Outcome, error) {
	q, ok := s.Current()
	if !ok {
		return Outcome{}, ErrFinished
	}
	if prev, ok := s.outcomes[s.index]; ok {
		prev.Repeated = true
		return prev, nil
	}

	opt, ok := q.OptionByID(optionID)
	if !ok {
		return Outcome{}, fmt.Errorf("quiz: question %q has no option %q", q.ID, optionID)
	}

	out := Outcome{
		Question: q,
		Option:   opt,
		Verdict:  question.Classify(opt),
		Feedback: q.FeedbackFor(opt),
	}

	var changes []progression.Change
	if out.Verdict == question.VerdictCorrect {
		changes = append(changes,
			s.engine.RecordSuccess(ctx, q.ID),
			s.engine.AwardXP(ctx, XPReward),
		)
		out.XPAwarded = XPReward
	} else {
		changes = append(changes, s.engine.RecordMistake(ctx, mistakeFor(q, opt, out.Verdict)))
	}
	for _, c := range changes {
		out.State = c.State
		out.NewBadges = append(out.NewBadges, c.NewBadges...)
	}

	s.outcomes[s.index] = out
	s.record(ctx, out)
	if s.sink != nil {
		s.sink.Submit(q.ID, opt.ID, out.Verdict == question.VerdictCorrect, opt.IsTrap)
	}
	return out, nil
}

// Next advances to the following question. It returns false, and marks the
// session finished, when there is none.
func (s *Session) Next() bool {
	if s.done {
		return false
	}
	if s.index+1 >= len(s.deck) {
		s.done = true
		return false
	}
	s.index++
	s.shownAt = s.now()
	return true
}

// Summary totals the accepted answers so far.
func (s *Session) Summary() Summary {
	sum := Summary{Total: len(s.deck), Answered: len(s.outcomes)}
	for _, o := range s.outcomes {
		switch o.Verdict {
		case question.VerdictCorrect:
			sum.Correct++
		case question.VerdictTrap:
			sum.Traps++
		default:
			sum.Wrong++
		}
		sum.XPEarned += o.XPAwarded
	}
	return sum
}

func mistakeFor(q question.Question, opt question.Option, v question.Verdict) progression.Mistake {
	m := progression.Mistake{
		QuestionID:     q.ID,
		QuestionText:   q.Text,
		SelectedAnswer: opt.Text,
		Topic:          q.Topic,
		TrapType:       progression.TrapTypeError,
	}
	if c, ok := q.CorrectOption(); ok {
		m.CorrectAnswer = c.Text
	}
	if v == question.VerdictTrap {
		m.TrapType = progression.TrapTypeTrap
	}
	return m
}

func (s *Session) record(ctx context.Context, out Outcome) {
	if s.eventRepo == nil {
		return
	}
	data := store.AnswerEventData{
		SessionID:      s.id,
		QuestionID:     out.Question.ID,
		QuestionText:   out.Question.Text,
		Topic:          out.Question.Topic,
		SelectedAnswer: out.Option.Text,
		Verdict:        out.Verdict.String(),
		XPAwarded:      out.XPAwarded,
		TimeMs:         s.now().Sub(s.shownAt).Milliseconds(),
	}
	if c, ok := out.Question.CorrectOption(); ok {
		data.CorrectAnswer = c.Text
	}
	if err := s.eventRepo.AppendAnswerEvent(ctx, data); err != nil {
		s.logger.Printf("quiz: record answer %s: %v", out.Question.ID, err)
	}
}
