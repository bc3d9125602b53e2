package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/repository"
	"voxscribe/internal/app/repository/sqlite"
)

func openStore(t *testing.T, name string) *sqlite.SQLiteDB {
	t.Helper()
	db, err := sqlite.NewSQLiteDB(filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// flakyStore wraps a store and fails selected operations.
type flakyStore struct {
	repository.HistoryStore
	down       bool
	failUpsert map[string]bool
}

var errDown = errors.New("hosted store unreachable")

func (s *flakyStore) Save(ctx context.Context, userID string, rec *model.TranscriptionRecord) (*model.TranscriptionRecord, error) {
	if s.down {
		return nil, errDown
	}
	return s.HistoryStore.Save(ctx, userID, rec)
}

func (s *flakyStore) Upsert(ctx context.Context, rec *model.TranscriptionRecord) error {
	if s.down || s.failUpsert[rec.ID] {
		return errDown
	}
	return s.HistoryStore.Upsert(ctx, rec)
}

func (s *flakyStore) List(ctx context.Context, userID string, limit, offset int) ([]model.TranscriptionRecord, int, error) {
	if s.down {
		return nil, 0, errDown
	}
	return s.HistoryStore.List(ctx, userID, limit, offset)
}

func (s *flakyStore) Stats(ctx context.Context, userID string) (*model.UserStats, error) {
	if s.down {
		return nil, errDown
	}
	return s.HistoryStore.Stats(ctx, userID)
}

func TestFallbackStore_SaveFallsBackWhenHostedDown(t *testing.T) {
	hosted := &flakyStore{HistoryStore: openStore(t, "hosted.db"), down: true}
	local := openStore(t, "local.db")
	store := repository.NewFallbackStore(hosted, local, nil, nil)
	ctx := context.Background()

	saved, err := store.Save(ctx, "user-1", &model.TranscriptionRecord{Transcription: "olá"})
	require.NoError(t, err)

	_, err = local.Get(ctx, "user-1", saved.ID)
	assert.NoError(t, err)

	records, total, err := store.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, saved.ID, records[0].ID)

	stats, err := store.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTranscriptions)
}

func TestFallbackStore_MigratesLocalRecordsOnFirstEmptyList(t *testing.T) {
	hostedDB := openStore(t, "hosted.db")
	hosted := &flakyStore{HistoryStore: hostedDB}
	local := openStore(t, "local.db")
	ctx := context.Background()

	for _, text := range []string{"primeira", "segunda"} {
		_, err := local.Save(ctx, "user-1", &model.TranscriptionRecord{Transcription: text})
		require.NoError(t, err)
	}

	store := repository.NewFallbackStore(hosted, local, nil, nil)
	records, total, err := store.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total, "first empty hosted list is answered locally")
	assert.Len(t, records, 2)

	store.Wait()

	_, hostedTotal, err := hostedDB.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, hostedTotal)
	_, localTotal, err := local.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, localTotal)
}

func TestFallbackStore_MigratesRecordsSavedDuringOutage(t *testing.T) {
	hostedDB := openStore(t, "hosted.db")
	hosted := &flakyStore{HistoryStore: hostedDB}
	local := openStore(t, "local.db")
	store := repository.NewFallbackStore(hosted, local, nil, nil)
	ctx := context.Background()

	_, err := store.Save(ctx, "user-1", &model.TranscriptionRecord{Transcription: "antes"})
	require.NoError(t, err)
	_, total, err := store.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	store.Wait()

	hosted.down = true
	during, err := store.Save(ctx, "user-1", &model.TranscriptionRecord{Transcription: "durante"})
	require.NoError(t, err)
	hosted.down = false

	_, _, err = store.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	store.Wait()

	records, total, err := store.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, during.ID)

	_, localTotal, err := local.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, localTotal)
}

func TestMigrateUser_IdempotentAfterPartialFailure(t *testing.T) {
	hostedDB := openStore(t, "hosted.db")
	local := openStore(t, "local.db")
	ctx := context.Background()

	a, err := local.Save(ctx, "user-1", &model.TranscriptionRecord{Transcription: "a", CreatedAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	b, err := local.Save(ctx, "user-1", &model.TranscriptionRecord{Transcription: "b"})
	require.NoError(t, err)

	hosted := &flakyStore{HistoryStore: hostedDB, failUpsert: map[string]bool{b.ID: true}}
	report, err := repository.MigrateUser(ctx, local, hosted, "user-1")
	require.Error(t, err)
	assert.Equal(t, repository.MigrationReport{Migrated: 1, Failed: 1}, report)

	_, err = local.Get(ctx, "user-1", b.ID)
	assert.NoError(t, err, "failed record must stay local")

	// A crash after the upsert but before the local delete leaves a copy in both stores.
	require.NoError(t, local.Upsert(ctx, mustGet(t, hostedDB, a.ID)))

	hosted.failUpsert = nil
	report, err = repository.MigrateUser(ctx, local, hosted, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Migrated)

	_, hostedTotal, err := hostedDB.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, hostedTotal, "re-running the migration must not duplicate rows")
}

func TestFallbackStore_DeleteRemovesFromBothStores(t *testing.T) {
	hostedDB := openStore(t, "hosted.db")
	local := openStore(t, "local.db")
	store := repository.NewFallbackStore(hostedDB, local, nil, nil)
	ctx := context.Background()

	rec, err := hostedDB.Save(ctx, "user-1", &model.TranscriptionRecord{Transcription: "x"})
	require.NoError(t, err)
	require.NoError(t, local.Upsert(ctx, rec))

	require.NoError(t, store.Delete(ctx, "user-1", rec.ID))
	assert.ErrorIs(t, store.Delete(ctx, "user-1", rec.ID), repository.ErrNotFound)
}

func TestFallbackStore_LocalOnly(t *testing.T) {
	local := openStore(t, "local.db")
	store := repository.NewFallbackStore(nil, local, nil, nil)
	ctx := context.Background()

	rec, err := store.Save(ctx, "user-1", &model.TranscriptionRecord{Transcription: "um dois"})
	require.NoError(t, err)

	updated, err := store.UpdateText(ctx, "user-1", rec.ID, "um dois três")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.WordCount)

	found, err := store.Search(ctx, "user-1", "TRÊS")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestPrepareRecord(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := &model.TranscriptionRecord{Transcription: " a  b ", WordCount: 40}
	repository.PrepareRecord("user-9", rec, now)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "user-9", rec.UserID)
	assert.Equal(t, "Audio", rec.FileName)
	assert.Equal(t, 2, rec.WordCount)
	assert.Equal(t, 6, rec.CharCount)
	assert.Equal(t, now, rec.CreatedAt)
	assert.NotNil(t, rec.Metadata)
}

func mustGet(t *testing.T, store repository.HistoryStore, id string) *model.TranscriptionRecord {
	t.Helper()
	rec, err := store.Get(context.Background(), "user-1", id)
	require.NoError(t, err)
	return rec
}
