package question

// DefaultTopic is used when a quiz is started without a topic.
const DefaultTopic = "cs"

// Topic is a quiz subject.
type Topic struct {
	ID   string
	Name string
}

var topics = []Topic{
	{ID: "math", Name: "Mathematics"},
	{ID: "science", Name: "Physics & Science"},
	{ID: "cs", Name: "Computer Science"},
	{ID: "history", Name: "History"},
}

// Topics returns the topic catalog in display order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// TopicByID looks up a topic.
func TopicByID(id string) (Topic, bool) {
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// TopicName returns the display name for id, or id itself if unknown.
func TopicName(id string) string {
	if t, ok := TopicByID(id); ok {
		return t.Name
	}
	return id
}

// DefaultBank returns the built-in questions. The slice is freshly
// allocated on every call.
func DefaultBank() []Question {
	return []Question{
		{
			ID:    "q1",
			Topic: "cs",
			Text:  "In Python, what is the output of `print(3 * '3')`?",
			Options: []Option{
				{ID: "opt1", Text: "9", IsTrap: true, Feedback: "Ah! The 'Trap of Type'. In Python, multiplying a string repeats it. It doesn't perform arithmetic."},
				{ID: "opt2", Text: "'333'", IsCorrect: true},
				{ID: "opt3", Text: "Error", Feedback: "It's a valid operation in Python!"},
				{ID: "opt4", Text: "33"},
			},
			Explanation: "Multiplying a string by an integer n repeats the string n times.",
		},
		{
			ID:    "q2",
			Topic: "science",
			Text:  "Which falls faster in a vacuum: a feather or a hammer?",
			Options: []Option{
				{ID: "opt1", Text: "The Hammer", IsTrap: true, Feedback: "Caught by the 'Intuitive Physics Trap'. On Earth with air, yes. But in a vacuum, gravity acts equally on all mass."},
				{ID: "opt2", Text: "They fall at the same rate", IsCorrect: true},
				{ID: "opt3", Text: "The Feather"},
			},
			Explanation: "In a vacuum, air resistance is absent, so gravity accelerates all objects at approximately 9.8 m/s² regardless of mass.",
		},
		{
			ID:    "q3",
			Topic: "math",
			Text:  "What is the result of 0.1 + 0.2 in JavaScript?",
			Options: []Option{
				{ID: "opt1", Text: "0.3", IsTrap: true, Feedback: "The 'Floating Point Trap'! Computers use binary floating point, which cannot exactly represent 0.1. The result is slightly more than 0.3."},
				{ID: "opt2", Text: "0.30000000000000004", IsCorrect: true},
				{ID: "opt3", Text: "0.12"},
			},
			Explanation: "Standard IEEE 754 floating point arithmetic causes 0.1 + 0.2 to result in 0.30000000000000004.",
		},
		{
			ID:    "q4",
			Topic: "history",
			Text:  "Did Napoleon shoot the nose off the Sphinx?",
			Options: []Option{
				{ID: "opt1", Text: "Yes, with a cannon", IsTrap: true, Feedback: "A common myth! Drawings from before Napoleon's campaign show the nose was already missing."},
				{ID: "opt2", Text: "No, it was already missing", IsCorrect: true},
				{ID: "opt3", Text: "No, it fell off due to erosion", Feedback: "Erosion played a part, but it was likely chiseled off centuries earlier."},
			},
			Explanation: "Sketches by Frederic Louis Norden in 1737 show the Sphinx without a nose, long before Napoleon arrived in Egypt in 1798.",
		},
	}
}

// FilterByTopic keeps questions whose topic matches, preserving order.
// Science questions are mixed into every topic's deck.
func FilterByTopic(qs []Question, topic string) []Question {
	if topic == "" {
		topic = DefaultTopic
	}
	var out []Question
	for _, q := range qs {
		if q.Topic == topic || q.Topic == "science" {
			out = append(out, q)
		}
	}
	return out
}
