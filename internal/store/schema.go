package store

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS answer_events (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence        INTEGER NOT NULL UNIQUE,
		timestamp       TIMESTAMP NOT NULL,
		session_id      TEXT NOT NULL,
		question_id     TEXT NOT NULL,
		question_text   TEXT NOT NULL,
		topic           TEXT NOT NULL,
		selected_answer TEXT NOT NULL,
		correct_answer  TEXT NOT NULL,
		verdict         TEXT NOT NULL,
		xp_awarded      INTEGER NOT NULL DEFAULT 0,
		time_ms         INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS answer_events_topic ON answer_events (topic)`,
	`CREATE TABLE IF NOT EXISTS badge_events (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence  INTEGER NOT NULL UNIQUE,
		timestamp TIMESTAMP NOT NULL,
		badge_id  TEXT NOT NULL,
		name      TEXT NOT NULL,
		xp        INTEGER NOT NULL,
		level     INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp     TIMESTAMP NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
