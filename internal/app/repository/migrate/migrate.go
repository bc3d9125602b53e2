// Package migrate moves every locally held history record into the hosted
// store. The serve command migrates per user on demand; this package backs
// the bulk "voxscribe migrate" command.
package migrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"voxscribe/internal/app/repository"
)

// LocalSource is a local store that can enumerate its users.
type LocalSource interface {
	repository.HistoryStore
	UserIDs(ctx context.Context) ([]string, error)
}

// Summary is the outcome of a bulk migration.
type Summary struct {
	Users    int
	Migrated int
	Failed   int
}

// MigrateToPostgres upserts all local records into hosted, user by user.
// Per-user failures are logged and counted; the run continues.
func MigrateToPostgres(ctx context.Context, local LocalSource, hosted repository.HistoryStore, logger *zap.Logger) (Summary, error) {
	users, err := local.UserIDs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list local users: %w", err)
	}

	var sum Summary
	for _, userID := range users {
		report, err := repository.MigrateUser(ctx, local, hosted, userID)
		sum.Users++
		sum.Migrated += report.Migrated
		sum.Failed += report.Failed
		if err != nil {
			logger.Warn("user migration incomplete",
				zap.String("user_id", userID),
				zap.Int("migrated", report.Migrated),
				zap.Int("failed", report.Failed),
				zap.Error(err))
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			continue
		}
		logger.Info("user migrated", zap.String("user_id", userID), zap.Int("records", report.Migrated))
	}
	return sum, nil
}
