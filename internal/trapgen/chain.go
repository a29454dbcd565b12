package trapgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/abhisek/trapz/internal/question"
	"golang.org/x/sync/errgroup"
)

// Chain tries each generator in order and returns the first success.
type Chain struct {
	generators []Generator
	logger     *log.Logger
}

// NewChain creates a Chain. Failures of earlier generators are logged.
func NewChain(logger *log.Logger, generators ...Generator) *Chain {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Chain{generators: generators, logger: logger}
}

// Generate tries each generator in order and returns the first question
// produced. It fails when every generator fails or ctx is done.
func (c *Chain) Generate(ctx context.Context, topic string) (question.Question, error) {
	var errs []error
	for _, g := range c.generators {
		q, err := g.Generate(ctx, topic)
		if err == nil {
			return q, nil
		}
		if ctx.Err() != nil {
			return question.Question{}, ctx.Err()
		}
		c.logger.Printf("trapgen: %T failed: %v", g, err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return question.Question{}, errors.New("trapgen: no generators configured")
	}
	return question.Question{}, errors.Join(errs...)
}

// Batch generates n questions on topic with at most concurrency calls in
// flight. Results keep request order. Any failure fails the batch.
func Batch(ctx context.Context, g Generator, topic string, n, concurrency int) ([]question.Question, error) {
	out := make([]question.Question, n)
	eg, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}
	for i := range n {
		eg.Go(func() error {
			q, err := g.Generate(ctx, topic)
			if err != nil {
				return fmt.Errorf("question %d: %w", i+1, err)
			}
			out[i] = q
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
