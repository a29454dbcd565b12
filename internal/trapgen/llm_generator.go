package trapgen

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/abhisek/trapz/internal/llm"
	"github.com/abhisek/trapz/internal/question"
	"github.com/google/uuid"
)

// LLMConfig controls the behavior of the LLMGenerator.
type LLMConfig struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions is the maximum number of earlier questions
	// included in the prompt for deduplication.
	MaxPriorQuestions int
}

// DefaultLLMConfig returns recommended defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		MaxTokens:         512,
		Temperature:       0.8,
		MaxPriorQuestions: 8,
	}
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   LLMConfig

	mu    sync.Mutex
	prior []string
}

// NewLLMGenerator creates an LLMGenerator.
func NewLLMGenerator(provider llm.Provider, cfg LLMConfig) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// trapOutput is the raw LLM response before validation.
type trapOutput struct {
	QuestionText  string   `json:"question_text"`
	Concept       string   `json:"concept"`
	CorrectAnswer string   `json:"correct_answer"`
	TrapAnswer    string   `json:"trap_answer"`
	TrapFeedback  string   `json:"trap_feedback"`
	WrongAnswers  []string `json:"wrong_answers"`
}

// Generate asks the provider for a trap question on topic.
func (g *LLMGenerator) Generate(ctx context.Context, topic string) (question.Question, error) {
	if topic == "" {
		topic = question.DefaultTopic
	}
	ctx = llm.WithPurpose(ctx, "trap-gen")

	g.mu.Lock()
	userMsg := buildUserMessage(topic, g.prior, g.config.MaxPriorQuestions)
	g.mu.Unlock()

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserPrompt(userMsg),
		Schema:      TrapQuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return question.Question{}, fmt.Errorf("LLM generation failed: %w", err)
	}

	q, err := DecodeResponse(topic, resp.Content)
	if err != nil {
		return question.Question{}, err
	}

	g.mu.Lock()
	g.prior = append(g.prior, q.Text)
	g.mu.Unlock()
	return q, nil
}

// DecodeResponse turns a trap-gen response body into a playable question
// on topic. It applies the checks Generate does, so a stored response can
// be replayed to see why it was rejected.
func DecodeResponse(topic string, body []byte) (question.Question, error) {
	var raw trapOutput
	if err := json.Unmarshal(body, &raw); err != nil {
		return question.Question{}, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	q := raw.toQuestion(topic)
	if err := question.Validate(q); err != nil {
		return question.Question{}, err
	}
	if err := distinctAnswers(q); err != nil {
		return question.Question{}, err
	}
	return q, nil
}

// TopicFromRequest recovers the topic id from a logged trap-gen request.
// Unknown topic names are returned as-is; "" means no topic line.
func TopicFromRequest(req string) string {
	for _, line := range strings.Split(req, "\n") {
		name, ok := strings.CutPrefix(strings.TrimSpace(line), "Topic: ")
		if !ok {
			continue
		}
		for _, t := range question.Topics() {
			if t.Name == name || t.ID == name {
				return t.ID
			}
		}
		return name
	}
	return ""
}

func (o trapOutput) toQuestion(topic string) question.Question {
	options := []question.Option{
		{ID: "opt1", Text: o.CorrectAnswer, IsCorrect: true},
		{ID: "opt2", Text: o.TrapAnswer, IsTrap: true, Feedback: o.TrapFeedback},
	}
	for i, w := range o.WrongAnswers {
		if len(options) == question.MaxOptions {
			break
		}
		options = append(options, question.Option{ID: fmt.Sprintf("opt%d", i+3), Text: w})
	}
	rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	explanation := o.TrapFeedback
	if o.Concept != "" {
		explanation = fmt.Sprintf("Concept: %s. %s", o.Concept, o.TrapFeedback)
	}
	return question.Question{
		ID:          "llm_" + uuid.NewString(),
		Text:        o.QuestionText,
		Topic:       topic,
		Options:     options,
		Explanation: explanation,
	}
}

// distinctAnswers rejects questions where two options share a text, which
// would make the trap indistinguishable from the correct answer.
func distinctAnswers(q question.Question) error {
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if seen[o.Text] {
			return &question.ValidationError{QuestionID: q.ID, Field: "options", Message: fmt.Sprintf("duplicate answer %q", o.Text)}
		}
		seen[o.Text] = true
	}
	return nil
}
