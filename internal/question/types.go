package question

// Question is a multiple-choice question with at most one correct option
// and, usually, one trap option.
type Question struct {
	ID          string   `json:"id" yaml:"id"`
	Text        string   `json:"text" yaml:"text"`
	Topic       string   `json:"topic" yaml:"topic"`
	Options     []Option `json:"options" yaml:"options"`
	Explanation string   `json:"explanation" yaml:"explanation"`
}

// Option is a single answer choice.
type Option struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	IsCorrect bool   `json:"isCorrect,omitempty" yaml:"isCorrect,omitempty"`
	IsTrap    bool   `json:"isTrap,omitempty" yaml:"isTrap,omitempty"`
	Feedback  string `json:"feedback,omitempty" yaml:"feedback,omitempty"`
}

// Verdict classifies a selected option.
type Verdict int

const (
	VerdictWrong Verdict = iota
	VerdictCorrect
	VerdictTrap
)

// String returns the lowercase verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictTrap:
		return "trap"
	default:
		return "wrong"
	}
}

// Headline returns the feedback title shown after an answer.
func (v Verdict) Headline() string {
	switch v {
	case VerdictCorrect:
		return "Excellent!"
	case VerdictTrap:
		return "It's a TRAP!"
	default:
		return "Incorrect"
	}
}

// Classify returns the verdict for selecting opt. A correct flag wins over
// a trap flag.
func Classify(opt Option) Verdict {
	switch {
	case opt.IsCorrect:
		return VerdictCorrect
	case opt.IsTrap:
		return VerdictTrap
	default:
		return VerdictWrong
	}
}

// OptionByID returns the option with the given id.
func (q Question) OptionByID(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// CorrectOption returns the first option flagged correct.
func (q Question) CorrectOption() (Option, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o, true
		}
	}
	return Option{}, false
}

// FeedbackFor returns the option feedback, falling back to the question
// explanation.
func (q Question) FeedbackFor(opt Option) string {
	if opt.Feedback != "" {
		return opt.Feedback
	}
	return q.Explanation
}
