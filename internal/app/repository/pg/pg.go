// Package pg is the hosted PostgreSQL store for history and profiles.
package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresDB implements repository.HistoryStore and repository.ProfileStore.
type PostgresDB struct {
	db *sql.DB
}

// NewPostgresDB opens a connection pool for dsn. The pool connects lazily.
func NewPostgresDB(dsn string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &PostgresDB{db: db}, nil
}

// NewPostgresDBFromConn wraps an existing pool.
func NewPostgresDBFromConn(db *sql.DB) *PostgresDB {
	return &PostgresDB{db: db}
}

func (pdb *PostgresDB) Close() error {
	return pdb.db.Close()
}

// Ping checks connectivity.
func (pdb *PostgresDB) Ping(ctx context.Context) error {
	return pdb.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	file_name        TEXT NOT NULL,
	file_size        BIGINT NOT NULL DEFAULT 0,
	file_type        TEXT NOT NULL DEFAULT '',
	transcription    TEXT NOT NULL DEFAULT '',
	word_count       INTEGER NOT NULL DEFAULT 0,
	char_count       INTEGER NOT NULL DEFAULT 0,
	language         TEXT NOT NULL DEFAULT 'pt',
	has_diarization  BOOLEAN NOT NULL DEFAULT FALSE,
	has_timestamps   BOOLEAN NOT NULL DEFAULT FALSE,
	duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
	audio_url        TEXT NOT NULL DEFAULT '',
	metadata         JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transcriptions_user_created ON transcriptions (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS user_profiles (
	user_id              TEXT PRIMARY KEY,
	display_name         TEXT NOT NULL DEFAULT '',
	avatar_url           TEXT NOT NULL DEFAULT '',
	company              TEXT NOT NULL DEFAULT '',
	job_title            TEXT NOT NULL DEFAULT '',
	phone                TEXT NOT NULL DEFAULT '',
	bio                  TEXT NOT NULL DEFAULT '',
	preferences          JSONB NOT NULL DEFAULT '{}'::jsonb,
	plan                 TEXT NOT NULL DEFAULT 'free',
	onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
	onboarding_step      INTEGER NOT NULL DEFAULT 0,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// EnsureSchema creates the tables when missing.
func (pdb *PostgresDB) EnsureSchema(ctx context.Context) error {
	if _, err := pdb.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create postgres schema: %w", err)
	}
	return nil
}
