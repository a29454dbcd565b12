package statsapi

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

// Submitter posts answers in the background so the caller never waits on
// the network. Failures are logged and dropped.
type Submitter struct {
	api     API
	userID  string
	timeout time.Duration
	logger  *log.Logger
	wg      sync.WaitGroup
}

// NewSubmitter creates a Submitter for userID.
func NewSubmitter(api API, userID string, timeout time.Duration, logger *log.Logger) *Submitter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	return &Submitter{api: api, userID: userID, timeout: timeout, logger: logger}
}

// Submit sends the answer asynchronously.
func (s *Submitter) Submit(questionID, optionID string, correct, trap bool) {
	a := Answer{
		UserID:           s.userID,
		QuestionID:       questionID,
		SelectedOptionID: optionID,
		IsCorrect:        correct,
		IsTrap:           trap,
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.api.SubmitAnswer(ctx, a); err != nil {
			s.logger.Printf("statsapi: submit answer for %s: %v", a.QuestionID, err)
		}
	}()
}

// Wait blocks until all in-flight submissions finish.
func (s *Submitter) Wait() {
	s.wg.Wait()
}
