package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/ui/theme"
)

// OptionList is the answer selector for one question. Once revealed, the
// correct option is shown green, traps amber and the learner's wrong pick
// red.
type OptionList struct {
	Options  []question.Option
	Selected int
	Revealed bool
	Chosen   string
}

// NewOptionList creates an OptionList for q.
func NewOptionList(q question.Question) OptionList {
	return OptionList{Options: q.Options}
}

// Update moves the cursor. Digit keys jump straight to an option.
// It reports the option id to submit, or "" when nothing was chosen.
func (o OptionList) Update(msg tea.Msg) (OptionList, string) {
	if o.Revealed {
		return o, ""
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, ""
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Options)-1 {
			o.Selected++
		}
	case "enter":
		if o.Selected < len(o.Options) {
			return o, o.Options[o.Selected].ID
		}
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(o.Options) {
			o.Selected = int(key[0] - '1')
			return o, o.Options[o.Selected].ID
		}
	}
	return o, ""
}

// Reveal marks optionID as the learner's answer.
func (o *OptionList) Reveal(optionID string) {
	o.Revealed = true
	o.Chosen = optionID
}

// View renders the options.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Selected && !o.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt.Text)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case o.Revealed && opt.IsCorrect:
			style = theme.Correct
		case o.Revealed && opt.ID == o.Chosen && opt.IsTrap:
			style = theme.Trapped
		case o.Revealed && opt.ID == o.Chosen:
			style = theme.Incorrect
		case o.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == o.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
