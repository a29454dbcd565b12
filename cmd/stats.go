package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/trapz/internal/progression"
	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/statsapi"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progression statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		st := e.progression.State()
		fmt.Fprintf(out, "Level %d   %d XP   (%.0f%% to level %d)\n",
			st.Level, st.XP, progression.ProgressFraction(st)*100, st.Level+1)
		fmt.Fprintf(out, "Streak %d   Solved %d   Traps %d   Mistakes %d   Custom questions %d\n",
			st.Streak, len(st.CompletedQuestions), st.TrapCount(), len(st.Mistakes), len(st.CustomQuestions))

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Badges")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, b := range st.Badges {
			fmt.Fprintf(out, "%s %-16s %s  (%s)\n", b.Icon, b.Name, b.Description,
				b.DateUnlocked.Local().Format("2006-01-02"))
		}
		for _, b := range progression.LockedBadges(st) {
			fmt.Fprintf(out, "🔒 %-16s %s\n", b.Name, b.Description)
		}

		topics, err := e.events.TopicStats(ctx)
		if err != nil {
			return fmt.Errorf("query topic stats: %w", err)
		}
		if len(topics) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%-20s  %8s  %8s  %6s  %8s\n", "Topic", "Answered", "Correct", "Traps", "Accuracy")
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, t := range topics {
				fmt.Fprintf(out, "%-20s  %8d  %8d  %6d  %7.0f%%\n",
					question.TopicName(t.Topic), t.Total, t.Correct, t.Traps, t.Accuracy()*100)
			}
		}

		if e.apiConfig.Offline {
			return nil
		}
		id, err := statsapi.UserID(ctx, e.kv)
		if err != nil {
			return err
		}
		remote, _ := e.api.UserStats(ctx, id)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Server: %s, level %d, %d XP\n", remote.Name, remote.Level, remote.XP)
		return nil
	},
}
