package game

import "github.com/abhisek/trapz/internal/question"

// deckReadyMsg is sent when the question deck has been assembled.
type deckReadyMsg struct {
	Deck []question.Question
}

// timerTickMsg is sent every second to update the countdown. Ticks from an
// earlier question carry a stale ID and are dropped.
type timerTickMsg struct {
	ID int
}
