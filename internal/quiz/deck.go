// Package quiz walks a learner through a deck of questions and feeds each
// answer into the progression engine.
package quiz

import "github.com/abhisek/trapz/internal/question"

// XPReward is awarded for every correct answer.
const XPReward = 50

// ResolveTopic substitutes the default topic for an empty one.
func ResolveTopic(topic string) string {
	if topic == "" {
		return question.DefaultTopic
	}
	return topic
}

// BuildDeck selects the questions played for topic from all, keeping order.
func BuildDeck(all []question.Question, topic string) []question.Question {
	return question.FilterByTopic(all, ResolveTopic(topic))
}
