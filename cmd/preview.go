package cmd

import (
	"fmt"

	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/quiz"
	"github.com/abhisek/trapz/internal/trapgen"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated trap questions (no progression)",
	Long: `Generate a batch of questions for a topic and print them with their
trap answers marked.

This is a developer tool for judging question quality: nothing is
added to the learner's progression.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringP("topic", "t", "", "Topic id (default cs)")
	previewCmd.Flags().StringP("source", "s", "local", "Generator: local, llm or remote")
	previewCmd.Flags().IntP("count", "n", 5, "Number of questions to generate")
	previewCmd.Flags().Int("concurrency", 2, "Parallel generation calls")
}

func runPreview(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	source, _ := cmd.Flags().GetString("source")
	count, _ := cmd.Flags().GetInt("count")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	out := cmd.OutOrStdout()

	if source == "bank" {
		return fmt.Errorf("preview needs a generator: local, llm or remote")
	}

	e, err := openEnv(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	gen, err := e.generator(ctx, source)
	if err != nil {
		return err
	}

	topic = quiz.ResolveTopic(topic)
	fmt.Fprintf(out, "Topic: %s — generating %d questions from %s...\n\n", question.TopicName(topic), count, source)

	qs, err := trapgen.Batch(ctx, gen, topic, count, concurrency)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	for i, q := range qs {
		fmt.Fprintf(out, "── Question %d/%d  (%s) ──\n", i+1, len(qs), q.ID)
		fmt.Fprintln(out, q.Text)
		for j, o := range q.Options {
			tag := ""
			switch {
			case o.IsCorrect:
				tag = "  \033[32m[correct]\033[0m"
			case o.IsTrap:
				tag = "  \033[33m[trap]\033[0m " + o.Feedback
			}
			fmt.Fprintf(out, "  %d) %s%s\n", j+1, o.Text, tag)
		}
		if q.Explanation != "" {
			fmt.Fprintf(out, "Explanation: %s\n", q.Explanation)
		}
		fmt.Fprintln(out)
	}
	return nil
}
