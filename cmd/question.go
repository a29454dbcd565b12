package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/trapz/internal/question"
	"github.com/spf13/cobra"
)

var questionCmd = &cobra.Command{
	Use:   "question",
	Short: "Manage custom questions",
}

var questionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom trap question",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var d question.Draft
		d.Topic, _ = f.GetString("topic")
		d.Text, _ = f.GetString("text")
		d.CorrectAnswer, _ = f.GetString("correct")
		d.TrapAnswer, _ = f.GetString("trap")
		d.TrapFeedback, _ = f.GetString("feedback")
		d.WrongAnswer, _ = f.GetString("wrong")
		d.Explanation, _ = f.GetString("explanation")

		q, err := question.NewCustom(d)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		e.progression.AddCustomQuestion(cmd.Context(), q)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s.\n", q.ID, question.TopicName(q.Topic))
		return nil
	},
}

var questionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and custom questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		out := cmd.OutOrStdout()

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		qs := e.progression.AllQuestions(question.DefaultBank())
		if topic != "" {
			qs = question.FilterByTopic(qs, topic)
		}

		fmt.Fprintf(out, "%-44s  %-8s  %-6s  %s\n", "ID", "Topic", "Trap", "Question")
		fmt.Fprintln(out, strings.Repeat("─", 110))
		for _, q := range qs {
			trap := ""
			for _, o := range q.Options {
				if o.IsTrap {
					trap = "yes"
				}
			}
			fmt.Fprintf(out, "%-44s  %-8s  %-6s  %s\n", q.ID, q.Topic, trap, truncate(q.Text, 48))
		}
		fmt.Fprintf(out, "\n%d questions\n", len(qs))
		return nil
	},
}

var questionImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import custom questions from a YAML or JSON bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		qs, err := question.LoadFile(args[0])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		for _, q := range qs {
			e.progression.AddCustomQuestion(cmd.Context(), q)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions.\n", len(qs))
		return nil
	},
}

var questionExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write custom questions as a YAML bank to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		qs := e.progression.State().CustomQuestions
		if len(qs) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No custom questions.")
			return nil
		}
		return question.Encode(cmd.OutOrStdout(), qs)
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	af := questionAddCmd.Flags()
	af.String("topic", question.DefaultTopic, "Topic id: math, science, cs or history")
	af.String("text", "", "Question text (required)")
	af.String("correct", "", "Correct answer (required)")
	af.String("trap", "", "Trap answer (required)")
	af.String("feedback", "", "Why the trap is tempting and wrong (required)")
	af.String("wrong", "", "Another wrong answer")
	af.String("explanation", "", "Explanation shown after answering")
	for _, name := range []string{"text", "correct", "trap", "feedback"} {
		_ = questionAddCmd.MarkFlagRequired(name)
	}

	questionListCmd.Flags().String("topic", "", "Only questions in this topic's deck")

	questionCmd.AddCommand(questionAddCmd)
	questionCmd.AddCommand(questionListCmd)
	questionCmd.AddCommand(questionImportCmd)
	questionCmd.AddCommand(questionExportCmd)
}
