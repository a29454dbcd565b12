package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/trapz/internal/app"
	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/screens/game"
	"github.com/abhisek/trapz/internal/screens/home"
	"github.com/abhisek/trapz/internal/statsapi"
	"github.com/abhisek/trapz/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
// Warnings go to trapz.log in the data directory so they don't corrupt
// the screen.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dir, err := store.DataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	logPath := filepath.Join(dir, "trapz.log")
	if err := store.EnsureDir(logPath); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	e, err := openEnv(cmd, logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	deps := app.Deps{
		Deps: game.Deps{
			Progression: e.progression,
			Bank:        question.DefaultBank(),
			EventRepo:   e.events,
			Logger:      e.logger,
		},
		Profile: e.profile(ctx),
	}
	if gen, err := e.generator(ctx, "llm"); err == nil {
		deps.Generator = gen
	}
	if sub := e.submitter(ctx); sub != nil {
		defer sub.Wait()
		deps.Sink = sub
	}

	return app.Run(deps)
}

// profile is who the home screen greets. TRAPZ_USER pins the name;
// otherwise the name the stats service knows is fetched in the background.
func (e *env) profile(ctx context.Context) home.Profile {
	if n := os.Getenv("TRAPZ_USER"); n != "" {
		return home.Profile{Name: n}
	}
	p := home.Profile{Name: statsapi.DefaultUserName}
	id, err := statsapi.UserID(ctx, e.kv)
	if err != nil {
		e.logger.Printf("user id: %v", err)
		return p
	}
	p.UserID = id
	p.Stats = e.api
	return p
}
