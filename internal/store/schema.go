package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	tableLLMRequests = "llm_request_events"
	tableAttempts    = "assessment_attempts"
	tableSnapshots   = "roadmap_snapshots"
)

// Timestamps are stored as unix milliseconds.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		purpose TEXT NOT NULL DEFAULT '',
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_purpose ON llm_request_events (purpose)`,
	`CREATE TABLE IF NOT EXISTS assessment_attempts (
		id TEXT PRIMARY KEY,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		username TEXT NOT NULL,
		week TEXT NOT NULL,
		correct INTEGER NOT NULL,
		total INTEGER NOT NULL,
		score_delta REAL NOT NULL,
		score REAL NOT NULL,
		passed INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessment_attempts_username ON assessment_attempts (username)`,
	`CREATE TABLE IF NOT EXISTS roadmap_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		username TEXT NOT NULL,
		data TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_roadmap_snapshots_username ON roadmap_snapshots (username)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
