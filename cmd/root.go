package cmd

import (
	"context"

	"github.com/abhisek/trapz/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trapz",
	Short: "Trap-question quiz",
	Long:  "Trapz — a terminal quiz where every question hides a trap answer built on a common misconception.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; real environment variables win.
		_ = godotenv.Load()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides TRAPZ_DB env var)")
	pf.String("redis", "", "Redis URL for progression state (overrides TRAPZ_REDIS_URL env var)")
	pf.String("api-url", "", "Stats service base URL (overrides TRAPZ_API_URL env var)")
	pf.Bool("offline", false, "Never contact the stats service")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(questionCmd)
	rootCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TRAPZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
