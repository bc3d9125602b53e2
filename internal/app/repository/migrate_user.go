package repository

import (
	"context"
	"errors"
	"fmt"
)

// MigrationReport summarises a local to hosted copy.
type MigrationReport struct {
	Migrated int
	Failed   int
}

// MigrateUser copies every local record of userID into hosted with an
// upsert keyed by record id, deleting each local copy only after its upsert
// succeeded. Running it again after a partial failure never duplicates rows.
func MigrateUser(ctx context.Context, local, hosted HistoryStore, userID string) (MigrationReport, error) {
	var report MigrationReport
	var errs []error

	for {
		records, _, err := local.List(ctx, userID, 100, report.Failed)
		if err != nil {
			return report, fmt.Errorf("list local records: %w", err)
		}
		if len(records) == 0 {
			break
		}
		for i := range records {
			rec := records[i]
			if err := hosted.Upsert(ctx, &rec); err != nil {
				report.Failed++
				errs = append(errs, fmt.Errorf("upsert %s: %w", rec.ID, err))
				continue
			}
			if err := local.Delete(ctx, userID, rec.ID); err != nil && !errors.Is(err, ErrNotFound) {
				report.Failed++
				errs = append(errs, fmt.Errorf("delete local %s: %w", rec.ID, err))
				continue
			}
			report.Migrated++
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
	}
	return report, errors.Join(errs...)
}
