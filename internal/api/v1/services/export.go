package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/app/export"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/plans"
	"voxscribe/internal/app/repository"
	"voxscribe/internal/app/session"
)

// maxExportRecords bounds a history export.
const maxExportRecords = 1000

// ExportServiceImpl implements the ExportService interface
type ExportServiceImpl struct {
	store repository.HistoryStore
	now   func() time.Time
}

// NewExportService creates a new export service
func NewExportService(store repository.HistoryStore) *ExportServiceImpl {
	return &ExportServiceImpl{store: store, now: time.Now}
}

// ExportHistory writes the caller's whole history. xlsx requires a plan
// with spreadsheet export; srt is only available per record.
func (s *ExportServiceImpl) ExportHistory(ctx context.Context, format export.Format, w io.Writer) error {
	userID, err := userOf(ctx)
	if err != nil {
		return err
	}
	if err := checkExportPlan(ctx, format); err != nil {
		return err
	}

	records, err := s.allRecords(ctx, userID)
	if err != nil {
		return storeError(err, "History", "Failed to load history")
	}

	switch format {
	case export.FormatXLSX:
		return export.History(w, records)
	case export.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case export.FormatTXT:
		for _, r := range records {
			if _, err := fmt.Fprintf(w, "=== %s (%s) ===\n%s\n\n", r.FileName, r.CreatedAt.Format(time.RFC3339), r.Transcription); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.NewBadRequestError(export.ErrUnsupportedFormat{Format: string(format)}.Error())
	}
}

// ExportRecord writes one record. Stored segments are used for the txt
// and srt layouts.
func (s *ExportServiceImpl) ExportRecord(ctx context.Context, id string, format export.Format, w io.Writer) (*model.TranscriptionRecord, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkExportPlan(ctx, format); err != nil {
		return nil, err
	}

	rec, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, storeError(err, "Transcription", "Failed to load transcription")
	}

	doc := export.Document{
		Text:     rec.Transcription,
		Segments: SegmentsFromMetadata(rec.Metadata),
		Language: rec.Language,
		FileName: rec.FileName,
	}
	if err := export.Transcript(w, format, doc, s.now()); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *ExportServiceImpl) allRecords(ctx context.Context, userID string) ([]model.TranscriptionRecord, error) {
	var out []model.TranscriptionRecord
	for offset := 0; offset < maxExportRecords; offset += 100 {
		page, total, err := s.store.List(ctx, userID, 100, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) == 0 || len(out) >= total {
			break
		}
	}
	return out, nil
}

func checkExportPlan(ctx context.Context, format export.Format) error {
	if format == export.FormatXLSX && !plans.CanPerform(session.FromContext(ctx).Plan, plans.ActionExportXLSX, plans.Usage{}) {
		return errors.NewForbiddenError("Seu plano não inclui exportação XLSX")
	}
	return nil
}

// SegmentsFromMetadata decodes the "segments" entry a record was saved
// with. Records read back from a store hold it as generic JSON.
func SegmentsFromMetadata(meta map[string]interface{}) []model.TranscriptSegment {
	raw, ok := meta["segments"]
	if !ok || raw == nil {
		return nil
	}
	if segs, ok := raw.([]model.TranscriptSegment); ok {
		return segs
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var segs []model.TranscriptSegment
	if err := json.Unmarshal(data, &segs); err != nil {
		return nil
	}
	return segs
}
