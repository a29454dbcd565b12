package trapgen

import (
	"context"
	"fmt"

	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/statsapi"
)

// RemoteGenerator asks the stats service to generate a question.
type RemoteGenerator struct {
	api statsapi.API
}

// NewRemoteGenerator creates a RemoteGenerator.
func NewRemoteGenerator(api statsapi.API) *RemoteGenerator {
	return &RemoteGenerator{api: api}
}

func (g *RemoteGenerator) Generate(ctx context.Context, topic string) (question.Question, error) {
	q, err := g.api.GenerateQuestion(ctx, topic)
	if err != nil {
		return question.Question{}, fmt.Errorf("remote generation failed: %w", err)
	}
	if err := question.Validate(q); err != nil {
		return question.Question{}, err
	}
	return q, nil
}
