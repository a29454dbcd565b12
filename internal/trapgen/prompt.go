package trapgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/trapz/internal/question"
)

const systemPrompt = `You write "trap" questions for a quiz that teaches students to spot their own misconceptions.

Rules:
- Generate one multiple-choice question for the given topic.
- Exactly one answer is correct.
- The trap answer must be what a student holding a specific, common misconception would choose. It must be wrong.
- The trap feedback names the misconception and explains the correct reasoning in one or two sentences.
- Add one or two other wrong answers that are plausible but not based on the misconception.
- All answers must be distinct. Keep answers short.
- Use plain ASCII text. No LaTeX, no Markdown.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage describes the topic and recent questions to avoid.
func buildUserMessage(topic string, prior []string, maxPrior int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", question.TopicName(topic))
	if cs := Concepts(topic); len(cs) > 0 {
		b.WriteString("Example misconceptions for this topic:\n")
		for _, c := range cs {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", c.Name, c.Misconception, c.TrapPattern)
		}
	}

	b.WriteString("\nAlready asked in this session:\n")
	if len(prior) == 0 {
		b.WriteString("None")
		return b.String()
	}
	if maxPrior > 0 && len(prior) > maxPrior {
		prior = prior[len(prior)-maxPrior:]
	}
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
