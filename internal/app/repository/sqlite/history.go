package sqlite

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

// Save implements repository.HistoryStore and trims the user's history to
// the newest MaxItems records.
func (s *SQLiteDB) Save(ctx context.Context, userID string, rec *model.TranscriptionRecord) (*model.TranscriptionRecord, error) {
	repository.PrepareRecord(userID, rec, time.Now().UTC())
	if err := s.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.trim(ctx, userID); err != nil {
		return nil, err
	}
	return rec, nil
}

// Upsert implements repository.HistoryStore.
func (s *SQLiteDB) Upsert(ctx context.Context, rec *model.TranscriptionRecord) error {
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO transcriptions (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			file_name = excluded.file_name,
			file_size = excluded.file_size,
			file_type = excluded.file_type,
			transcription = excluded.transcription,
			word_count = excluded.word_count,
			char_count = excluded.char_count,
			language = excluded.language,
			has_diarization = excluded.has_diarization,
			has_timestamps = excluded.has_timestamps,
			duration_seconds = excluded.duration_seconds,
			audio_url = excluded.audio_url,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
		WHERE transcriptions.user_id = excluded.user_id`,
		rec.ID, rec.UserID, rec.FileName, rec.FileSize, rec.FileType, rec.Transcription,
		rec.WordCount, rec.CharCount, rec.Language, rec.HasDiarization, rec.HasTimestamps,
		rec.DurationSec, rec.AudioURL, string(meta), rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert transcription %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLiteDB) trim(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transcriptions
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM transcriptions WHERE user_id = ? ORDER BY created_at DESC LIMIT ?
		)`, userID, userID, s.maxItems)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// List implements repository.HistoryStore.
func (s *SQLiteDB) List(ctx context.Context, userID string, limit, offset int) ([]model.TranscriptionRecord, int, error) {
	limit, offset = repository.NormalizePage(limit, offset)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transcriptions WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transcriptions: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM transcriptions
		WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`, userID, limit, offset)
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
func (s *SQLiteDB) Get(ctx context.Context, userID, id string) (*model.TranscriptionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM transcriptions WHERE id = ? AND user_id = ?`, id, userID)
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
func (s *SQLiteDB) UpdateText(ctx context.Context, userID, id, transcription string) (*model.TranscriptionRecord, error) {
	rec := &model.TranscriptionRecord{Transcription: transcription}
	repository.Recount(rec)

	res, err := s.db.ExecContext(ctx, `UPDATE transcriptions
		SET transcription = ?, word_count = ?, char_count = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		transcription, rec.WordCount, rec.CharCount, time.Now().UTC(), id, userID)
	if err := checkAffected(res, err, "update transcription"); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Delete implements repository.HistoryStore.
func (s *SQLiteDB) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transcriptions WHERE id = ? AND user_id = ?`, id, userID)
	return checkAffected(res, err, "delete transcription")
}

// DeleteAll implements repository.HistoryStore.
func (s *SQLiteDB) DeleteAll(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transcriptions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete transcriptions: %w", err)
	}
	return nil
}

// Search implements repository.HistoryStore. SQLite LIKE is case
// insensitive for ASCII only, so both sides are lowered first.
func (s *SQLiteDB) Search(ctx context.Context, userID, term string) ([]model.TranscriptionRecord, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM transcriptions
		WHERE user_id = ? AND (lower(file_name) LIKE ? ESCAPE '\' OR lower(transcription) LIKE ? ESCAPE '\')
		ORDER BY created_at DESC LIMIT ?`, userID, pattern, pattern, repository.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search transcriptions: %w", err)
	}
	return scanRecords(rows)
}

// Stats implements repository.HistoryStore.
func (s *SQLiteDB) Stats(ctx context.Context, userID string) (*model.UserStats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word_count, char_count, duration_seconds FROM transcriptions WHERE user_id = ?`, userID)
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
			meta string
		)
		err := rows.Scan(&r.ID, &r.UserID, &r.FileName, &r.FileSize, &r.FileType, &r.Transcription,
			&r.WordCount, &r.CharCount, &r.Language, &r.HasDiarization, &r.HasTimestamps,
			&r.DurationSec, &r.AudioURL, &meta, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		r.Metadata = map[string]interface{}{}
		if meta != "" {
			if err := json.Unmarshal([]byte(meta), &r.Metadata); err != nil {
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
