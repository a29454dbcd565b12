// Package admin is the step-by-step form for authoring a custom trap
// question.
package admin

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/screen"
	"github.com/abhisek/trapz/internal/ui/components"
	"github.com/abhisek/trapz/internal/ui/layout"
	"github.com/abhisek/trapz/internal/ui/theme"
)

// field is one step of the form.
type field struct {
	label       string
	placeholder string
	optional    bool
	set         func(*question.Draft, string)
}

var fields = []field{
	{"Question", "e.g. What is the result of...", false, func(d *question.Draft, v string) { d.Text = v }},
	{"Correct answer", "The right answer", false, func(d *question.Draft, v string) { d.CorrectAnswer = v }},
	{"Trap answer", "The answer a misconception leads to", false, func(d *question.Draft, v string) { d.TrapAnswer = v }},
	{"Trap feedback", "Why the trap is tempting and wrong", false, func(d *question.Draft, v string) { d.TrapFeedback = v }},
	{"Other wrong answer", "Optional, Enter to skip", true, func(d *question.Draft, v string) { d.WrongAnswer = v }},
	{"Explanation", "Optional, shown after answering", true, func(d *question.Draft, v string) { d.Explanation = v }},
}

// AdminScreen collects a question.Draft one field at a time, starting with
// the topic, and adds the result as a custom question.
type AdminScreen struct {
	svc      *progression.Service
	topics   []question.Topic
	topicIdx int
	step     int // -1 is the topic picker
	draft    question.Draft
	values   []string
	input    components.TextInput
	errMsg   string
	added    int
}

var _ screen.Screen = (*AdminScreen)(nil)
var _ screen.KeyHintProvider = (*AdminScreen)(nil)

// New creates an AdminScreen.
func New(svc *progression.Service) *AdminScreen {
	s := &AdminScreen{svc: svc, topics: question.Topics()}
	for i, t := range s.topics {
		if t.ID == question.DefaultTopic {
			s.topicIdx = i
		}
	}
	s.reset()
	return s
}

func (s *AdminScreen) reset() {
	s.step = -1
	s.draft = question.Draft{}
	s.values = make([]string, len(fields))
}

func (s *AdminScreen) Init() tea.Cmd {
	return nil
}

func (s *AdminScreen) Title() string {
	return "Add Question"
}

func (s *AdminScreen) KeyHints() []layout.KeyHint {
	if s.step < 0 {
		return []layout.KeyHint{
			{Key: "←→", Description: "Topic"},
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AdminScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.step >= 0 {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.step < 0 {
		switch kmsg.String() {
		case "left", "h", "up", "k":
			s.topicIdx = (s.topicIdx + len(s.topics) - 1) % len(s.topics)
		case "right", "l", "down", "j", "tab":
			s.topicIdx = (s.topicIdx + 1) % len(s.topics)
		case "enter":
			s.errMsg = ""
			s.draft.Topic = s.topics[s.topicIdx].ID
			return s, s.startStep(0)
		}
		return s, nil
	}

	if kmsg.String() == "enter" {
		return s.submitStep()
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *AdminScreen) startStep(i int) tea.Cmd {
	s.step = i
	s.input = components.NewTextInput(fields[i].placeholder, question.MaxTextLen)
	return s.input.Init()
}

func (s *AdminScreen) submitStep() (screen.Screen, tea.Cmd) {
	f := fields[s.step]
	v := strings.TrimSpace(s.input.Value())
	if v == "" && !f.optional {
		s.errMsg = fmt.Sprintf("%s is required", f.label)
		return s, nil
	}
	s.errMsg = ""
	s.values[s.step] = v
	f.set(&s.draft, v)

	if s.step+1 < len(fields) {
		return s, s.startStep(s.step + 1)
	}

	q, err := question.NewCustom(s.draft)
	if err != nil {
		s.errMsg = err.Error()
		s.reset()
		return s, nil
	}
	s.svc.AddCustomQuestion(context.Background(), q)
	s.added++
	s.reset()
	return s, nil
}

func (s *AdminScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	topicLine := fmt.Sprintf("Topic:  ◂ %s ▸", s.topics[s.topicIdx].Name)
	if s.step < 0 {
		b.WriteString(theme.Selected.Render(topicLine))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(topicLine))
	}
	b.WriteString("\n\n")

	for i, f := range fields {
		switch {
		case i < s.step:
			fmt.Fprintf(&b, "%s  %s\n",
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(f.label+":"),
				s.values[i])
		case i == s.step:
			b.WriteString(theme.Selected.Render(f.label + ":"))
			b.WriteString("\n")
			b.WriteString(s.input.View())
			b.WriteString("\n")
		}
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(layout.Centered(theme.Title, width, "Create a trap question"))
	out.WriteString("\n\n")
	out.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(strings.TrimRight(b.String(), "\n"), cw)))
	out.WriteString("\n\n")
	if s.errMsg != "" {
		out.WriteString(layout.Centered(theme.Incorrect, width, s.errMsg))
	} else if s.added > 0 {
		out.WriteString(layout.Centered(theme.Correct, width, fmt.Sprintf("Question added! (%d this visit)", s.added)))
	}
	return out.String()
}
