// Package trapgen produces trap questions from sources other than the
// static bank: local concept templates, an LLM, or the remote service.
package trapgen

import (
	"context"

	"github.com/abhisek/trapz/internal/question"
)

// Generator produces a single question for a topic.
type Generator interface {
	// Generate returns a validated question. Implementations may ignore
	// topics they do not know and fall back to a default.
	Generate(ctx context.Context, topic string) (question.Question, error)
}
