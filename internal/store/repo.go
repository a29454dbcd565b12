package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Topic   string    // answer events only; empty = all topics
	Purpose string    // LLM events only; empty = all purposes
}

// AnswerEventData captures one answered question.
type AnswerEventData struct {
	SessionID      string
	QuestionID     string
	QuestionText   string
	Topic          string
	SelectedAnswer string
	CorrectAnswer  string
	Verdict        string // "correct", "trap", "wrong"
	XPAwarded      int
	TimeMs         int64
}

// AnswerEvent is a stored answer.
type AnswerEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// BadgeEventData captures a badge unlock.
type BadgeEventData struct {
	BadgeID string
	Name    string
	XP      int
	Level   int
}

// BadgeEvent is a stored badge unlock.
type BadgeEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	BadgeEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM call.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// TopicStats aggregates answers for one topic.
type TopicStats struct {
	Topic   string
	Total   int
	Correct int
	Traps   int
}

// Accuracy returns Correct/Total, or 0 with no answers.
func (t TopicStats) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

// LLMUsage aggregates LLM calls for one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAnswerEvent records an answered question.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendBadgeEvent records a badge unlock.
	AppendBadgeEvent(ctx context.Context, data BadgeEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryAnswerEvents returns answers, newest first.
	QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error)

	// QueryBadgeEvents returns badge unlocks, newest first.
	QueryBadgeEvents(ctx context.Context, opts QueryOpts) ([]BadgeEvent, error)

	// QueryLLMEvents returns LLM calls, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM call by id, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// TopicStats aggregates answers per topic, ordered by topic.
	TopicStats(ctx context.Context) ([]TopicStats, error)

	// LLMUsageByPurpose aggregates LLM calls per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
}
