package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"voxscribe/internal/app/metrics"
	"voxscribe/internal/app/model"
)

// FallbackStore serves history from the hosted store and falls back to the
// local store when a hosted call fails. Local records are moved to the
// hosted store in the background the first time a user's history is read
// while the hosted store is reachable, and again after any write that
// landed locally.
type FallbackStore struct {
	hosted  HistoryStore
	local   HistoryStore
	logger  *slog.Logger
	metrics *metrics.Metrics

	migrationTimeout time.Duration

	mu       sync.Mutex
	migrated map[string]bool
	bg       errgroup.Group
}

// NewFallbackStore combines hosted and local. A nil hosted store makes every
// call local.
func NewFallbackStore(hosted, local HistoryStore, logger *slog.Logger, m *metrics.Metrics) *FallbackStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FallbackStore{
		hosted:           hosted,
		local:            local,
		logger:           logger,
		metrics:          m,
		migrationTimeout: 2 * time.Minute,
		migrated:         make(map[string]bool),
	}
}

func (f *FallbackStore) fallback(ctx context.Context, op string, err error) {
	f.metrics.ObserveFallback(op)
	if err != nil {
		f.logger.WarnContext(ctx, "hosted history unavailable, using local store", "operation", op, "error", err)
	}
}

// Save implements HistoryStore.
func (f *FallbackStore) Save(ctx context.Context, userID string, rec *model.TranscriptionRecord) (*model.TranscriptionRecord, error) {
	if f.hosted != nil {
		saved, err := f.hosted.Save(ctx, userID, rec)
		if err == nil {
			return saved, nil
		}
		f.fallback(ctx, "save", err)
	} else {
		f.fallback(ctx, "save", nil)
	}
	saved, err := f.local.Save(ctx, userID, rec)
	if err == nil {
		f.markPending(userID)
	}
	return saved, err
}

// Upsert implements HistoryStore.
func (f *FallbackStore) Upsert(ctx context.Context, rec *model.TranscriptionRecord) error {
	if f.hosted != nil {
		err := f.hosted.Upsert(ctx, rec)
		if err == nil {
			return nil
		}
		f.fallback(ctx, "upsert", err)
	}
	if err := f.local.Upsert(ctx, rec); err != nil {
		return err
	}
	f.markPending(rec.UserID)
	return nil
}

// List implements HistoryStore. An empty hosted first page is answered from
// the local store, and the local records are migrated afterwards.
func (f *FallbackStore) List(ctx context.Context, userID string, limit, offset int) ([]model.TranscriptionRecord, int, error) {
	if f.hosted == nil {
		f.fallback(ctx, "list", nil)
		return f.local.List(ctx, userID, limit, offset)
	}

	records, total, err := f.hosted.List(ctx, userID, limit, offset)
	if err != nil {
		f.fallback(ctx, "list", err)
		return f.local.List(ctx, userID, limit, offset)
	}

	first := f.markChecked(userID)
	if first && total == 0 {
		localRecords, localTotal, lerr := f.local.List(ctx, userID, limit, offset)
		if lerr == nil && localTotal > 0 {
			f.fallback(ctx, "list", nil)
			f.migrateInBackground(userID)
			return localRecords, localTotal, nil
		}
	} else if first {
		f.migrateInBackground(userID)
	}
	return records, total, nil
}

// Get implements HistoryStore.
func (f *FallbackStore) Get(ctx context.Context, userID, id string) (*model.TranscriptionRecord, error) {
	if f.hosted != nil {
		rec, err := f.hosted.Get(ctx, userID, id)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrNotFound) {
			f.fallback(ctx, "get", err)
		}
	}
	return f.local.Get(ctx, userID, id)
}

// UpdateText implements HistoryStore.
func (f *FallbackStore) UpdateText(ctx context.Context, userID, id, transcription string) (*model.TranscriptionRecord, error) {
	if f.hosted != nil {
		rec, err := f.hosted.UpdateText(ctx, userID, id, transcription)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrNotFound) {
			f.fallback(ctx, "update", err)
		}
	}
	return f.local.UpdateText(ctx, userID, id, transcription)
}

// Delete implements HistoryStore. The record is removed from both stores;
// it is missing only when neither held it.
func (f *FallbackStore) Delete(ctx context.Context, userID, id string) error {
	localErr := f.local.Delete(ctx, userID, id)
	if f.hosted == nil {
		return localErr
	}
	hostedErr := f.hosted.Delete(ctx, userID, id)
	switch {
	case hostedErr == nil || localErr == nil:
		if hostedErr != nil && !errors.Is(hostedErr, ErrNotFound) {
			f.fallback(ctx, "delete", hostedErr)
		}
		return nil
	case errors.Is(hostedErr, ErrNotFound):
		return localErr
	default:
		return hostedErr
	}
}

// DeleteAll implements HistoryStore.
func (f *FallbackStore) DeleteAll(ctx context.Context, userID string) error {
	if err := f.local.DeleteAll(ctx, userID); err != nil {
		return err
	}
	if f.hosted == nil {
		return nil
	}
	return f.hosted.DeleteAll(ctx, userID)
}

// Search implements HistoryStore.
func (f *FallbackStore) Search(ctx context.Context, userID, term string) ([]model.TranscriptionRecord, error) {
	if f.hosted != nil {
		records, err := f.hosted.Search(ctx, userID, term)
		if err == nil {
			return records, nil
		}
		f.fallback(ctx, "search", err)
	}
	return f.local.Search(ctx, userID, term)
}

// Stats implements HistoryStore.
func (f *FallbackStore) Stats(ctx context.Context, userID string) (*model.UserStats, error) {
	if f.hosted != nil {
		stats, err := f.hosted.Stats(ctx, userID)
		if err == nil {
			return stats, nil
		}
		f.fallback(ctx, "stats", err)
	}
	return f.local.Stats(ctx, userID)
}

// Wait blocks until background migrations finish.
func (f *FallbackStore) Wait() {
	_ = f.bg.Wait()
}

func (f *FallbackStore) markChecked(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.migrated[userID] {
		return false
	}
	f.migrated[userID] = true
	return true
}

// markPending forces the next hosted List for userID to migrate again.
func (f *FallbackStore) markPending(userID string) {
	if f.hosted == nil {
		return
	}
	f.mu.Lock()
	delete(f.migrated, userID)
	f.mu.Unlock()
}

func (f *FallbackStore) migrateInBackground(userID string) {
	f.bg.Go(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), f.migrationTimeout)
		defer cancel()

		report, err := MigrateUser(ctx, f.local, f.hosted, userID)
		if err != nil {
			// Failed records stay local; the next list retries them.
			f.mu.Lock()
			delete(f.migrated, userID)
			f.mu.Unlock()
			f.logger.Error("local history migration failed",
				"user_id", userID, "migrated", report.Migrated, "failed", report.Failed, "error", err)
			return nil
		}
		if report.Migrated > 0 {
			f.logger.Info("local history migrated", "user_id", userID, "migrated", report.Migrated)
		}
		return nil
	})
}
