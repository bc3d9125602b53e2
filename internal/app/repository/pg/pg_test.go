package pg

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/repository"
)

func TestPostgresDB_Interfaces(t *testing.T) {
	var _ repository.HistoryStore = (*PostgresDB)(nil)
	var _ repository.ProfileStore = (*PostgresDB)(nil)
}

func newMock(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresDBFromConn(db), mock
}

var columns = []string{"id", "user_id", "file_name", "file_size", "file_type", "transcription", "word_count",
	"char_count", "language", "has_diarization", "has_timestamps", "duration_seconds", "audio_url", "metadata",
	"created_at", "updated_at"}

func recordRow(id, text string, created time.Time) []driver.Value {
	return []driver.Value{id, "user-1", "a.mp3", int64(1024), "audio/mpeg", text, 2, len(text), "pt",
		false, false, 61.0, "", []byte(`{"vendor":"assemblyai"}`), created, created}
}

func TestPostgresDB_Save(t *testing.T) {
	pdb, mock := newMock(t)

	mock.ExpectExec(`INSERT INTO transcriptions .* ON CONFLICT \(id\) DO UPDATE`).
		WithArgs(sqlmock.AnyArg(), "user-1", "a.mp3", int64(10), "audio/mpeg", "olá  mundo ",
			2, 11, "pt", true, false, 0.0, "", []byte(`{}`), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := pdb.Save(context.Background(), "user-1", &model.TranscriptionRecord{
		FileName:       "a.mp3",
		FileSize:       10,
		FileType:       "audio/mpeg",
		Transcription:  "olá  mundo ",
		Language:       "pt",
		HasDiarization: true,
		WordCount:      999,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 2, rec.WordCount)
	assert.Equal(t, 11, rec.CharCount)
	assert.Equal(t, "user-1", rec.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_List(t *testing.T) {
	pdb, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM transcriptions WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT .* FROM transcriptions WHERE user_id = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("user-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(recordRow("b", "novo", now)...).
			AddRow(recordRow("a", "velho", now.Add(-time.Hour))...))

	records, total, err := pdb.List(context.Background(), "user-1", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "assemblyai", records[0].Metadata["vendor"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_GetNotFound(t *testing.T) {
	pdb, mock := newMock(t)
	mock.ExpectQuery(`FROM transcriptions WHERE id = \$1 AND user_id = \$2`).
		WithArgs("missing", "user-1").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := pdb.Get(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostgresDB_UpdateText(t *testing.T) {
	pdb, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE transcriptions SET transcription = \$1, word_count = \$2, char_count = \$3`).
		WithArgs("um dois três", 3, 12, sqlmock.AnyArg(), "rec-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM transcriptions WHERE id = \$1 AND user_id = \$2`).
		WithArgs("rec-1", "user-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(recordRow("rec-1", "um dois três", now)...))

	rec, err := pdb.UpdateText(context.Background(), "user-1", "rec-1", "um dois três")
	require.NoError(t, err)
	assert.Equal(t, "um dois três", rec.Transcription)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		execErr  error
		wantErr  error
	}{
		{name: "deleted", affected: 1},
		{name: "not owned", affected: 0, wantErr: repository.ErrNotFound},
		{name: "driver error", execErr: errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdb, mock := newMock(t)
			exp := mock.ExpectExec(`DELETE FROM transcriptions WHERE id = \$1 AND user_id = \$2`).WithArgs("rec-1", "user-1")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err := pdb.Delete(context.Background(), "user-1", "rec-1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.execErr != nil:
				assert.ErrorContains(t, err, "connection reset")
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostgresDB_Search(t *testing.T) {
	pdb, mock := newMock(t)
	mock.ExpectQuery(`ILIKE \$2`).
		WithArgs("user-1", `%50\%%`, repository.SearchLimit).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(recordRow("a", "desconto de 50%", time.Now())...))

	records, err := pdb.Search(context.Background(), "user-1", "50%")
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDB_Stats(t *testing.T) {
	pdb, mock := newMock(t)
	mock.ExpectQuery(`SELECT word_count, char_count, duration_seconds`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"word_count", "char_count", "duration_seconds"}).
			AddRow(10, 50, 60.0).
			AddRow(5, 20, 31.0))

	stats, err := pdb.Stats(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.UserStats{TotalTranscriptions: 2, TotalWords: 15, TotalCharacters: 70, TotalMinutes: 2}, *stats)
}

func TestPostgresDB_Profile(t *testing.T) {
	pdb, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM user_profiles WHERE user_id = \$1`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	_, err := pdb.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectExec(`INSERT INTO user_profiles .* ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("user-1", "Ana", "", "", "", "", "", []byte(`{"theme":"dark"}`), "free", false, 2, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err = pdb.SaveProfile(context.Background(), &model.UserProfile{
		UserID:         "user-1",
		DisplayName:    "Ana",
		Preferences:    map[string]interface{}{"theme": "dark"},
		Plan:           "free",
		OnboardingStep: 2,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
