package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/trapz/internal/statsapi"
	"github.com/spf13/cobra"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse the stats service's textbook library",
	Long: `List every textbook with its chapters.

With --chapter, print that chapter's questions instead. Offline, or when
the service is unreachable, the sample library is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		chapter, _ := cmd.Flags().GetString("chapter")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		if chapter != "" {
			qs, err := e.api.ChapterQuestions(ctx, chapter)
			if err != nil {
				return err
			}
			if len(qs) == 0 {
				fmt.Fprintln(out, "No questions in this chapter.")
				return nil
			}
			for i, q := range qs {
				fmt.Fprintf(out, "%d. %s\n", i+1, q.Text)
				for _, o := range q.Options {
					mark := " "
					switch {
					case o.IsCorrect:
						mark = "✓"
					case o.IsTrap:
						mark = "⚠"
					}
					fmt.Fprintf(out, "   %s %s\n", mark, o.Text)
				}
			}
			return nil
		}

		shelves, err := statsapi.FetchLibrary(ctx, e.api, concurrency)
		if err != nil {
			return fmt.Errorf("fetch library: %w", err)
		}
		for _, sh := range shelves {
			b := sh.Textbook
			fmt.Fprintf(out, "%s  (grade %s, %s, %s)  id=%s\n", b.Title, b.Grade, b.Subject, b.Board, b.ID)
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, c := range sh.Chapters {
				fmt.Fprintf(out, "  %2d. %s  id=%s\n", c.ChapterNumber, c.Title, c.ID)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	booksCmd.Flags().String("chapter", "", "Show the questions of this chapter id")
	booksCmd.Flags().Int("concurrency", statsapi.DefaultLibraryConcurrency, "Parallel chapter fetches")
}
