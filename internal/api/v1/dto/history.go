package dto

import (
	"strings"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/app/model"
)

// SaveHistoryRequest is the body of POST /history. ID may be set by the
// client so retries upsert the same record.
type SaveHistoryRequest struct {
	ID             string                    `json:"id" binding:"omitempty,uuid"`
	FileName       string                    `json:"file_name" binding:"max=255"`
	FileSize       int64                     `json:"file_size" binding:"gte=0"`
	FileType       string                    `json:"file_type"`
	Transcription  string                    `json:"transcription" binding:"required"`
	Language       string                    `json:"language"`
	HasDiarization bool                      `json:"has_diarization"`
	HasTimestamps  bool                      `json:"has_timestamps"`
	DurationSec    float64                   `json:"duration_seconds" binding:"gte=0"`
	AudioURL       string                    `json:"audio_url"`
	Metadata       map[string]interface{}    `json:"metadata"`
	Segments       []model.TranscriptSegment `json:"segments,omitempty"`
}

// Validate performs domain-specific validation
func (r *SaveHistoryRequest) Validate() error {
	if strings.TrimSpace(r.Transcription) == "" {
		return errors.NewValidationError("Invalid history record", map[string]string{
			"transcription": "must not be blank",
		})
	}
	return nil
}

// ToRecord converts the request into a record for userID.
func (r *SaveHistoryRequest) ToRecord(userID string) *model.TranscriptionRecord {
	meta := r.Metadata
	if meta == nil {
		meta = map[string]interface{}{}
	}
	if len(r.Segments) > 0 {
		meta["segments"] = r.Segments
	}
	return &model.TranscriptionRecord{
		ID:             r.ID,
		UserID:         userID,
		FileName:       r.FileName,
		FileSize:       r.FileSize,
		FileType:       r.FileType,
		Transcription:  r.Transcription,
		Language:       r.Language,
		HasDiarization: r.HasDiarization,
		HasTimestamps:  r.HasTimestamps,
		DurationSec:    r.DurationSec,
		AudioURL:       r.AudioURL,
		Metadata:       meta,
	}
}

// ListHistoryQuery holds pagination parameters.
type ListHistoryQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// HistoryListResponse is one page of history.
type HistoryListResponse struct {
	Items  []model.TranscriptionRecord `json:"items"`
	Total  int                         `json:"total"`
	Limit  int                         `json:"limit"`
	Offset int                         `json:"offset"`
}

// SearchHistoryQuery is the search term.
type SearchHistoryQuery struct {
	Q string `form:"q" binding:"required"`
}

// SearchResponse lists matching records, newest first.
type SearchResponse struct {
	Items []model.TranscriptionRecord `json:"items"`
	Count int                         `json:"count"`
}

// UpdateTextRequest replaces a record's transcript.
type UpdateTextRequest struct {
	Transcription string `json:"transcription" binding:"required"`
}

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=txt json srt xlsx"`
}

// StatsResponse aggregates the caller's history.
type StatsResponse struct {
	model.UserStats
}
