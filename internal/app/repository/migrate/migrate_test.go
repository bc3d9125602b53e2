package migrate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/repository/sqlite"
)

func TestMigrateToPostgres(t *testing.T) {
	dir := t.TempDir()
	local, err := sqlite.NewSQLiteDB(filepath.Join(dir, "local.db"))
	require.NoError(t, err)
	defer local.Close()
	hosted, err := sqlite.NewSQLiteDB(filepath.Join(dir, "hosted.db"))
	require.NoError(t, err)
	defer hosted.Close()

	ctx := context.Background()
	for _, user := range []string{"u1", "u1", "u2"} {
		_, err := local.Save(ctx, user, &model.TranscriptionRecord{Transcription: "texto de " + user})
		require.NoError(t, err)
	}

	sum, err := MigrateToPostgres(ctx, local, hosted, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 2, Migrated: 3}, sum)

	sum, err = MigrateToPostgres(ctx, local, hosted, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)

	_, total, err := hosted.List(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
