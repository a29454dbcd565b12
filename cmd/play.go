package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/quiz"
	"github.com/abhisek/trapz/internal/trapgen"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a quiz in line mode (no TUI)",
	Long: `Play one topic's questions on stdin/stdout.

Answers are typed as option numbers. Progress, badges and the answer log
are saved exactly as in the full-screen app.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringP("topic", "t", "", "Topic id: math, science, cs or history (default cs)")
	playCmd.Flags().StringP("source", "s", "bank", "Extra question source: bank, local, llm or remote")
	playCmd.Flags().IntP("generated", "g", 1, "Number of generated questions to add (ignored for bank)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	topic, _ := cmd.Flags().GetString("topic")
	source, _ := cmd.Flags().GetString("source")
	generated, _ := cmd.Flags().GetInt("generated")
	out := cmd.OutOrStdout()

	if topic != "" {
		if _, ok := question.TopicByID(topic); !ok {
			return fmt.Errorf("unknown topic %q", topic)
		}
	}

	e, err := openEnv(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	gen, err := e.generator(ctx, source)
	if err != nil {
		return err
	}

	topic = quiz.ResolveTopic(topic)
	deck := quiz.BuildDeck(e.progression.AllQuestions(question.DefaultBank()), topic)
	if gen != nil && generated > 0 {
		extra, err := trapgen.Batch(ctx, gen, topic, generated, 0)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "question generation failed: %v\n", err)
		}
		deck = append(deck, extra...)
	}

	opts := []quiz.SessionOption{quiz.WithEventRepo(e.events), quiz.WithLogger(e.logger)}
	if sub := e.submitter(ctx); sub != nil {
		defer sub.Wait()
		opts = append(opts, quiz.WithAnswerSink(sub))
	}
	s := quiz.NewSession(e.progression, topic, deck, opts...)

	return playLines(ctx, s, cmd.InOrStdin(), out, e.progression)
}

// playLines runs s on line-oriented input. An empty line skips the
// question, "q" quits.
func playLines(ctx context.Context, s *quiz.Session, in io.Reader, out io.Writer, svc *progression.Service) error {
	if s.Done() {
		fmt.Fprintln(out, "No questions for this topic yet. Add one with `trapz question add`.")
		return nil
	}

	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "Topic: %s (%d questions)\n\n", question.TopicName(s.Topic()), s.Len())

	for !s.Done() {
		q, _ := s.Current()
		fmt.Fprintf(out, "── Question %d/%d ──\n", s.Index()+1, s.Len())
		fmt.Fprintln(out, q.Text)
		for i, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o.Text)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "q" {
			break
		}
		n, err := strconv.Atoi(line)
		if line == "" || err != nil || n < 1 || n > len(q.Options) {
			fmt.Fprintln(out, "(skipped)")
			fmt.Fprintln(out)
			s.Next()
			continue
		}

		outcome, err := s.Select(ctx, q.Options[n-1].ID)
		if err != nil {
			return err
		}
		printOutcome(out, outcome)
		s.Next()
	}

	sum := s.Summary()
	st := svc.State()
	fmt.Fprintf(out, "── Summary: %d/%d correct, %d traps, %d wrong, +%d XP ──\n",
		sum.Correct, sum.Total, sum.Traps, sum.Wrong, sum.XPEarned)
	fmt.Fprintf(out, "Level %d · %d XP · streak %d\n", st.Level, st.XP, st.Streak)
	return nil
}

func printOutcome(out io.Writer, o quiz.Outcome) {
	switch o.Verdict {
	case question.VerdictCorrect:
		fmt.Fprintf(out, "\033[32m✓ %s\033[0m +%d XP\n", o.Headline(), o.XPAwarded)
	case question.VerdictTrap:
		fmt.Fprintf(out, "\033[33m⚠ %s\033[0m\n", o.Headline())
	default:
		fmt.Fprintf(out, "\033[31m✗ %s\033[0m\n", o.Headline())
	}
	if o.Feedback != "" {
		fmt.Fprintln(out, o.Feedback)
	}
	for _, b := range o.NewBadges {
		fmt.Fprintf(out, "%s Badge unlocked: %s\n", b.Icon, b.Name)
	}
	fmt.Fprintln(out)
}
