package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/repository"
)

const recordColumns = `id, user_id, file_name, file_size, file_type, transcription, word_count, char_count,
	language, has_diarization, has_timestamps, duration_seconds, audio_url, metadata, created_at, updated_at`

const upsertSQL = `INSERT INTO transcriptions (` + recordColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (id) DO UPDATE SET
		file_name = EXCLUDED.file_name,
		file_size = EXCLUDED.file_size,
		file_type = EXCLUDED.file_type,
		transcription = EXCLUDED.transcription,
		word_count = EXCLUDED.word_count,
		char_count = EXCLUDED.char_count,
		language = EXCLUDED.language,
		has_diarization = EXCLUDED.has_diarization,
		has_timestamps = EXCLUDED.has_timestamps,
		duration_seconds = EXCLUDED.duration_seconds,
		audio_url = EXCLUDED.audio_url,
		metadata = EXCLUDED.metadata,
		updated_at = EXCLUDED.updated_at
	WHERE transcriptions.user_id = EXCLUDED.user_id`

// Save implements repository.HistoryStore.
func (pdb *PostgresDB) Save(ctx context.Context, userID string, rec *model.TranscriptionRecord) (*model.TranscriptionRecord, error) {
	repository.PrepareRecord(userID, rec, time.Now().UTC())
	if err := pdb.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Upsert implements repository.HistoryStore. A conflicting id owned by a
// different user is left untouched.
func (pdb *PostgresDB) Upsert(ctx context.Context, rec *model.TranscriptionRecord) error {
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	_, err = pdb.db.ExecContext(ctx, upsertSQL,
		rec.ID, rec.UserID, rec.FileName, rec.FileSize, rec.FileType, rec.Transcription,
		rec.WordCount, rec.CharCount, rec.Language, rec.HasDiarization, rec.HasTimestamps,
		rec.DurationSec, rec.AudioURL, meta, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert transcription %s: %w", rec.ID, err)
	}
	return nil
}

// List implements repository.HistoryStore.
func (pdb *PostgresDB) List(ctx context.Context, userID string, limit, offset int) ([]model.TranscriptionRecord, int, error) {
	limit, offset = repository.NormalizePage(limit, offset)

	var total int
	if err := pdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transcriptions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transcriptions: %w", err)
	}

	rows, err := pdb.db.QueryContext(ctx, `SELECT `+recordColumns+`
		FROM transcriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query transcriptions: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Get implements repository.HistoryStore.
func (pdb *PostgresDB) Get(ctx context.Context, userID, id string) (*model.TranscriptionRecord, error) {
	rows, err := pdb.db.QueryContext(ctx, `SELECT `+recordColumns+`
		FROM transcriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("query transcription: %w", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, repository.ErrNotFound
	}
	return &records[0], nil
}

// UpdateText implements repository.HistoryStore.
func (pdb *PostgresDB) UpdateText(ctx context.Context, userID, id, transcription string) (*model.TranscriptionRecord, error) {
	rec := &model.TranscriptionRecord{Transcription: transcription}
	repository.Recount(rec)

	res, err := pdb.db.ExecContext(ctx, `UPDATE transcriptions
		SET transcription = $1, word_count = $2, char_count = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6`,
		transcription, rec.WordCount, rec.CharCount, time.Now().UTC(), id, userID)
	if err := checkAffected(res, err, "update transcription"); err != nil {
		return nil, err
	}
	return pdb.Get(ctx, userID, id)
}

// Delete implements repository.HistoryStore.
func (pdb *PostgresDB) Delete(ctx context.Context, userID, id string) error {
	res, err := pdb.db.ExecContext(ctx, `DELETE FROM transcriptions WHERE id = $1 AND user_id = $2`, id, userID)
	return checkAffected(res, err, "delete transcription")
}

// DeleteAll implements repository.HistoryStore.
func (pdb *PostgresDB) DeleteAll(ctx context.Context, userID string) error {
	if _, err := pdb.db.ExecContext(ctx, `DELETE FROM transcriptions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete transcriptions: %w", err)
	}
	return nil
}

// Search implements repository.HistoryStore with ILIKE on name and text.
func (pdb *PostgresDB) Search(ctx context.Context, userID, term string) ([]model.TranscriptionRecord, error) {
	pattern := "%" + escapeLike(term) + "%"
	rows, err := pdb.db.QueryContext(ctx, `SELECT `+recordColumns+`
		FROM transcriptions
		WHERE user_id = $1 AND (file_name ILIKE $2 OR transcription ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3`, userID, pattern, repository.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search transcriptions: %w", err)
	}
	return scanRecords(rows)
}

// Stats implements repository.HistoryStore.
func (pdb *PostgresDB) Stats(ctx context.Context, userID string) (*model.UserStats, error) {
	rows, err := pdb.db.QueryContext(ctx, `SELECT word_count, char_count, duration_seconds
		FROM transcriptions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var (
		words, chars []int
		durations    []float64
	)
	for rows.Next() {
		var w, c int
		var d float64
		if err := rows.Scan(&w, &c, &d); err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		words, chars, durations = append(words, w), append(chars, c), append(durations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return repository.AggregateStats(words, chars, durations), nil
}

func scanRecords(rows *sql.Rows) ([]model.TranscriptionRecord, error) {
	defer rows.Close()

	records := []model.TranscriptionRecord{}
	for rows.Next() {
		var (
			r    model.TranscriptionRecord
			meta []byte
		)
		err := rows.Scan(&r.ID, &r.UserID, &r.FileName, &r.FileSize, &r.FileType, &r.Transcription,
			&r.WordCount, &r.CharCount, &r.Language, &r.HasDiarization, &r.HasTimestamps,
			&r.DurationSec, &r.AudioURL, &meta, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		r.Metadata = map[string]interface{}{}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &r.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata of %s: %w", r.ID, err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return records, nil
}

func checkAffected(res sql.Result, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
