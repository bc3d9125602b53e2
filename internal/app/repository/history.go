package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/util/text"
)

// ErrNotFound is returned when a record or profile does not exist for the
// requesting user.
var ErrNotFound = errors.New("not found")

// SearchLimit caps Search results.
const SearchLimit = 50

// HistoryStore persists transcription records. Every method is scoped by
// user id; a record owned by another user behaves as missing.
type HistoryStore interface {
	// Save inserts rec, assigning an id when empty. Counts are recomputed.
	Save(ctx context.Context, userID string, rec *model.TranscriptionRecord) (*model.TranscriptionRecord, error)
	// Upsert writes rec keyed by its id, keeping created_at of an existing row.
	Upsert(ctx context.Context, rec *model.TranscriptionRecord) error
	// List returns records newest first and the user's total count.
	List(ctx context.Context, userID string, limit, offset int) ([]model.TranscriptionRecord, int, error)
	Get(ctx context.Context, userID, id string) (*model.TranscriptionRecord, error)
	UpdateText(ctx context.Context, userID, id, transcription string) (*model.TranscriptionRecord, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteAll(ctx context.Context, userID string) error
	Search(ctx context.Context, userID, term string) ([]model.TranscriptionRecord, error)
	Stats(ctx context.Context, userID string) (*model.UserStats, error)
}

// PrepareRecord fills the fields every store derives on save: id, owner,
// counts and timestamps.
func PrepareRecord(userID string, rec *model.TranscriptionRecord, now time.Time) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.UserID = userID
	if rec.FileName == "" {
		rec.FileName = "Audio"
	}
	if rec.Metadata == nil {
		rec.Metadata = map[string]interface{}{}
	}
	Recount(rec)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
}

// Recount recomputes word and character counts from the text.
func Recount(rec *model.TranscriptionRecord) {
	rec.WordCount = text.CountWords(rec.Transcription)
	rec.CharCount = text.CountCharacters(rec.Transcription)
}

// NormalizePage clamps list parameters.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// AggregateStats folds per-record counters into UserStats. Minutes are the
// summed durations rounded to the nearest minute.
func AggregateStats(words, chars []int, durations []float64) *model.UserStats {
	return &model.UserStats{
		TotalTranscriptions: len(words),
		TotalWords:          lo.Sum(words),
		TotalCharacters:     lo.Sum(chars),
		TotalMinutes:        int(math.Round(lo.Sum(durations) / 60)),
	}
}
