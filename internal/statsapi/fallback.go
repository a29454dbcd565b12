package statsapi

import (
	"context"
	"io"
	"log"

	"github.com/abhisek/trapz/internal/question"
)

// DefaultUserName is shown when the service does not know the learner.
const DefaultUserName = "Student"

// FallbackStats is used when user stats cannot be fetched.
func FallbackStats() UserStats {
	return UserStats{XP: 0, Level: 1, Name: DefaultUserName}
}

// FallbackTextbooks is the sample library shown offline.
func FallbackTextbooks() []Textbook {
	return []Textbook{
		{ID: "1", Title: "Mathematics", Grade: "9", Subject: "Math", Board: "International"},
		{ID: "2", Title: "Physics Part 1", Grade: "11", Subject: "Physics", Board: "Local"},
		{ID: "3", Title: "Biology Essentials", Grade: "10", Subject: "Biology", Board: "International"},
		{ID: "4", Title: "Chemistry World", Grade: "9", Subject: "Chemistry", Board: "Local"},
	}
}

// FallbackChapters is the sample chapter list shown offline.
func FallbackChapters() []Chapter {
	return []Chapter{
		{ID: "1", Title: "Chapter 1: Algebra Basics", ChapterNumber: 1},
		{ID: "2", Title: "Chapter 2: Trigonometry", ChapterNumber: 2},
		{ID: "3", Title: "Chapter 3: Calculus I", ChapterNumber: 3},
	}
}

// FallbackQuestion is served when question generation fails.
func FallbackQuestion(topic string) question.Question {
	return question.Question{
		ID:    "mock",
		Text:  "Connection Error. Is 5 > 3?",
		Topic: topic,
		Options: []question.Option{
			{ID: "1", Text: "Yes", IsCorrect: true},
			{ID: "2", Text: "No"},
		},
		Explanation: "Five is greater than three.",
	}
}

// Fallback wraps an API so that read calls never fail: errors are logged
// and the fixed sample data is returned instead. SubmitAnswer errors are
// logged and swallowed.
type Fallback struct {
	api    API
	logger *log.Logger
}

// WithFallback wraps api. A nil api serves fallback data only.
func WithFallback(api API, logger *log.Logger) *Fallback {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Fallback{api: api, logger: logger}
}

// UserStats falls back to FallbackStats.
func (f *Fallback) UserStats(ctx context.Context, userID string) (UserStats, error) {
	if f.api == nil {
		return FallbackStats(), nil
	}
	s, err := f.api.UserStats(ctx, userID)
	if err != nil {
		f.logger.Printf("statsapi: fetch user stats: %v", err)
		return FallbackStats(), nil
	}
	return s, nil
}

// Textbooks falls back to FallbackTextbooks.
func (f *Fallback) Textbooks(ctx context.Context) ([]Textbook, error) {
	if f.api == nil {
		return FallbackTextbooks(), nil
	}
	books, err := f.api.Textbooks(ctx)
	if err != nil {
		f.logger.Printf("statsapi: fetch textbooks: %v", err)
		return FallbackTextbooks(), nil
	}
	return books, nil
}

// Chapters falls back to FallbackChapters.
func (f *Fallback) Chapters(ctx context.Context, textbookID string) ([]Chapter, error) {
	if f.api == nil {
		return FallbackChapters(), nil
	}
	chapters, err := f.api.Chapters(ctx, textbookID)
	if err != nil {
		f.logger.Printf("statsapi: fetch chapters for %s: %v", textbookID, err)
		return FallbackChapters(), nil
	}
	return chapters, nil
}

// ChapterQuestions falls back to an empty list.
func (f *Fallback) ChapterQuestions(ctx context.Context, chapterID string) ([]question.Question, error) {
	if f.api == nil {
		return nil, nil
	}
	qs, err := f.api.ChapterQuestions(ctx, chapterID)
	if err != nil {
		f.logger.Printf("statsapi: fetch questions for chapter %s: %v", chapterID, err)
		return nil, nil
	}
	return qs, nil
}

// GenerateQuestion falls back to FallbackQuestion for topic.
func (f *Fallback) GenerateQuestion(ctx context.Context, topic string) (question.Question, error) {
	if f.api == nil {
		return FallbackQuestion(topic), nil
	}
	q, err := f.api.GenerateQuestion(ctx, topic)
	if err != nil {
		f.logger.Printf("statsapi: generate question for %s: %v", topic, err)
		return FallbackQuestion(topic), nil
	}
	return q, nil
}

// SubmitAnswer logs and drops a failed submission.
func (f *Fallback) SubmitAnswer(ctx context.Context, a Answer) error {
	if f.api == nil {
		return nil
	}
	if err := f.api.SubmitAnswer(ctx, a); err != nil {
		f.logger.Printf("statsapi: submit answer for %s: %v", a.QuestionID, err)
	}
	return nil
}
