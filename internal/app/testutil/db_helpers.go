package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/repository"
	"voxscribe/internal/app/repository/pg"
	"voxscribe/internal/app/repository/sqlite"
)

// SetupTestSQLite opens a fresh SQLite store under t.TempDir.
func SetupTestSQLite(t *testing.T) *sqlite.SQLiteDB {
	t.Helper()

	db, err := sqlite.NewSQLiteDB(filepath.Join(t.TempDir(), "voxscribe_test.db"))
	if err != nil {
		t.Fatalf("Failed to create SQLite test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestPostgres connects to POSTGRES_TEST_URL and creates the schema.
// The test is skipped when the variable is unset. Rows written under
// userIDs are removed on cleanup.
func SetupTestPostgres(t *testing.T, userIDs ...string) *pg.PostgresDB {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_URL")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	db, err := pg.NewPostgresDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL test database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to create test tables: %v", err)
	}

	t.Cleanup(func() {
		for _, id := range userIDs {
			_ = db.DeleteAll(context.Background(), id)
		}
		_ = db.Close()
	})
	return db
}

// SeedHistory writes records through store.Upsert so ids and timestamps
// are kept.
func SeedHistory(t *testing.T, store repository.HistoryStore, records []model.TranscriptionRecord) {
	t.Helper()
	for i := range records {
		rec := records[i]
		repository.Recount(&rec)
		if err := store.Upsert(context.Background(), &rec); err != nil {
			t.Fatalf("Failed to seed record %s: %v", rec.ID, err)
		}
	}
}
