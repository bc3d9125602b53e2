package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/plans"
	"voxscribe/internal/app/testutil"
)

func TestHistoryService_RequiresSession(t *testing.T) {
	svc := NewHistoryService(testutil.SetupTestSQLite(t))
	ctx := context.Background()

	_, err := svc.ListRecords(ctx, dto.ListHistoryQuery{})
	apiErr := requireKind(t, err, errors.KindUnauthorized)
	assert.Equal(t, "Usuário não autenticado", apiErr.Message)

	requireKind(t, svc.DeleteAll(ctx), errors.KindUnauthorized)
	_, err = svc.Stats(ctx)
	requireKind(t, err, errors.KindUnauthorized)
}

func TestHistoryService_Lifecycle(t *testing.T) {
	store := testutil.SetupTestSQLite(t)
	svc := NewHistoryService(store)
	ctx := userCtx("user-1", plans.Free)

	saved, err := svc.SaveRecord(ctx, &dto.SaveHistoryRequest{
		FileName:      "entrevista.mp3",
		FileType:      "audio/mpeg",
		Transcription: "uma duas três",
		Language:      "pt",
		Segments: []model.TranscriptSegment{
			{Start: 0, End: 1.5, Text: "uma duas três"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, 3, saved.WordCount)
	assert.Equal(t, "user-1", saved.UserID)

	got, err := svc.GetRecord(ctx, saved.ID)
	require.NoError(t, err)
	assert.Len(t, SegmentsFromMetadata(got.Metadata), 1)

	updated, err := svc.UpdateText(ctx, saved.ID, "texto corrigido")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.WordCount)

	_, err = svc.UpdateText(ctx, saved.ID, "   ")
	requireKind(t, err, errors.KindValidation)

	found, err := svc.Search(ctx, "CORRIGIDO")
	require.NoError(t, err)
	assert.Equal(t, 1, found.Count)

	_, err = svc.Search(ctx, " ")
	requireKind(t, err, errors.KindBadRequest)

	// Another user cannot see the record.
	_, err = svc.GetRecord(userCtx("user-2", plans.Free), saved.ID)
	requireKind(t, err, errors.KindNotFound)

	require.NoError(t, svc.DeleteRecord(ctx, saved.ID))
	requireKind(t, svc.DeleteRecord(ctx, saved.ID), errors.KindNotFound)
}

func TestHistoryService_ListAndStats(t *testing.T) {
	store := testutil.SetupTestSQLite(t)
	testutil.SeedHistory(t, store, testutil.SampleRecords("user-1", 5, time.Now().UTC()))
	svc := NewHistoryService(store)
	ctx := userCtx("user-1", plans.Free)

	page, err := svc.ListRecords(ctx, dto.ListHistoryQuery{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 1, page.Offset)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "reuniao-02.mp3", page.Items[0].FileName)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalTranscriptions)

	require.NoError(t, svc.DeleteAll(ctx))
	page, err = svc.ListRecords(ctx, dto.ListHistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}
