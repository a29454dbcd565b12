package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		topic, _ := cmd.Flags().GetString("topic")
		out := cmd.OutOrStdout()

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		answers, err := e.events.QueryAnswerEvents(cmd.Context(), store.QueryOpts{Limit: limit, Topic: topic})
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}
		if len(answers) == 0 {
			fmt.Fprintln(out, "No answers recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-19s  %-18s  %-7s  %4s  %s\n", "Timestamp", "Topic", "Verdict", "XP", "Question")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, a := range answers {
			fmt.Fprintf(out, "%-19s  %-18s  %-7s  %4d  %s\n",
				a.Timestamp.Local().Format("2006-01-02 15:04:05"),
				question.TopicName(a.Topic), a.Verdict, a.XPAwarded, truncate(a.QuestionText, 40))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of answers to show")
	historyCmd.Flags().String("topic", "", "Filter by topic id")
}
