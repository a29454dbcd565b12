package trapgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/abhisek/trapz/internal/question"
	"github.com/google/uuid"
)

// DefaultTemplateTopic is used for topics without templates.
const DefaultTemplateTopic = "math"

// Concept is a misconception the template generator knows how to bait.
type Concept struct {
	Name          string
	Misconception string
	TrapPattern   string
	build         func(r *rand.Rand) instance
}

type instance struct {
	text     string
	correct  string
	trap     string
	feedback string
}

var concepts = map[string][]Concept{
	"math": {
		{
			Name:          "Order of Operations",
			Misconception: "Processing left-to-right regardless of operators",
			TrapPattern:   "Linearity Bias",
			build: func(r *rand.Rand) instance {
				a, b, c := 2+r.IntN(4), 2+r.IntN(4), 2+r.IntN(4)
				return instance{
					text:     fmt.Sprintf("What is %d + %d x %d?", a, b, c),
					correct:  strconv.Itoa(a + b*c),
					trap:     strconv.Itoa((a + b) * c),
					feedback: "Remember PEMDAS! Multiplication happens before Addition.",
				}
			},
		},
		{
			Name:          "Fractions",
			Misconception: "Adding numerators and denominators directly",
			TrapPattern:   "Simplification Fallacy",
			build: func(r *rand.Rand) instance {
				d := []int{2, 4, 8}[r.IntN(3)]
				correct := fmt.Sprintf("2/%d", d)
				if d == 2 {
					correct = "1"
				}
				return instance{
					text:     fmt.Sprintf("What is 1/%d + 1/%d?", d, d),
					correct:  correct,
					trap:     fmt.Sprintf("2/%d", d+d),
					feedback: "When adding fractions with the same denominator, you only add the numerators.",
				}
			},
		},
	},
	"cs": {
		{
			Name:          "Array Indexing",
			Misconception: "1-based indexing",
			TrapPattern:   "Off-by-one Error",
			build: func(r *rand.Rand) instance {
				vals := make([]string, 3)
				for i := range vals {
					vals[i] = strconv.Itoa(10 + r.IntN(90))
				}
				for vals[1] == vals[0] {
					vals[1] = strconv.Itoa(10 + r.IntN(90))
				}
				return instance{
					text:     fmt.Sprintf("Given list L = [%s], what is L[1]?", strings.Join(vals, ", ")),
					correct:  vals[1],
					trap:     vals[0],
					feedback: "Most programming languages (like Python, JS) use 0-based indexing. L[1] is the second element.",
				}
			},
		},
	},
}

// Concepts returns the concepts known for topic, or nil.
func Concepts(topic string) []Concept {
	return concepts[topic]
}

// TemplateGenerator builds questions from concept templates with random
// operands. It needs no network.
type TemplateGenerator struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewTemplateGenerator creates a TemplateGenerator. A nil src seeds from the
// runtime's random source.
func NewTemplateGenerator(src rand.Source) *TemplateGenerator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &TemplateGenerator{rand: rand.New(src)}
}

// Generate picks a random concept for topic (math when topic has none) and
// returns a question with a correct option, a trap option and one filler,
// shuffled.
func (g *TemplateGenerator) Generate(_ context.Context, topic string) (question.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	list, ok := concepts[topic]
	if !ok {
		topic = DefaultTemplateTopic
		list = concepts[topic]
	}
	c := list[g.rand.IntN(len(list))]
	in := c.build(g.rand)

	options := []question.Option{
		{ID: uuid.NewString(), Text: in.correct, IsCorrect: true},
		{ID: uuid.NewString(), Text: in.trap, IsTrap: true, Feedback: in.feedback},
		{ID: uuid.NewString(), Text: g.filler(in)},
	}
	g.rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	q := question.Question{
		ID:          uuid.NewString(),
		Text:        in.text,
		Topic:       topic,
		Options:     options,
		Explanation: fmt.Sprintf("Concept: %s. %s", c.Name, in.feedback),
	}
	return q, question.Validate(q)
}

// filler offsets a numeric correct answer by 1 to 5, avoiding the trap
// value; non-numeric answers get "None of the above".
func (g *TemplateGenerator) filler(in instance) string {
	v, err := strconv.ParseFloat(in.correct, 64)
	if err != nil {
		return "None of the above"
	}
	for {
		s := strconv.FormatFloat(v+float64(1+g.rand.IntN(5)), 'f', -1, 64)
		if s != in.trap {
			return s
		}
	}
}
