// Package sqlite is the local fallback store. It keeps at most MaxItems
// records per user, the newest ones.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"voxscribe/internal/app/util/files"
)

// MaxItems is the per-user record cap.
const MaxItems = 20

// SQLiteDB implements repository.HistoryStore and repository.ProfileStore.
type SQLiteDB struct {
	db       *sql.DB
	maxItems int
}

// NewSQLiteDB opens (creating if needed) the database file at dbPath and
// applies the schema.
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := files.EnsureDir(dir); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteDB{db: db, maxItems: MaxItems}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	file_name        TEXT NOT NULL,
	file_size        INTEGER NOT NULL DEFAULT 0,
	file_type        TEXT NOT NULL DEFAULT '',
	transcription    TEXT NOT NULL DEFAULT '',
	word_count       INTEGER NOT NULL DEFAULT 0,
	char_count       INTEGER NOT NULL DEFAULT 0,
	language         TEXT NOT NULL DEFAULT 'pt',
	has_diarization  INTEGER NOT NULL DEFAULT 0,
	has_timestamps   INTEGER NOT NULL DEFAULT 0,
	duration_seconds REAL NOT NULL DEFAULT 0,
	audio_url        TEXT NOT NULL DEFAULT '',
	metadata         TEXT NOT NULL DEFAULT '{}',
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
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
	preferences          TEXT NOT NULL DEFAULT '{}',
	plan                 TEXT NOT NULL DEFAULT 'free',
	onboarding_completed INTEGER NOT NULL DEFAULT 0,
	onboarding_step      INTEGER NOT NULL DEFAULT 0,
	created_at           DATETIME NOT NULL,
	updated_at           DATETIME NOT NULL
);`

func (s *SQLiteDB) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create sqlite schema: %w", err)
	}
	return nil
}

// UserIDs lists users that hold local records, for bulk migration.
func (s *SQLiteDB) UserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM transcriptions ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
