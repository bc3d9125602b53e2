package testutil

import (
	"fmt"
	"time"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/model"
)

// WAVHeader is the start of a RIFF/WAVE file, enough for content sniffing.
var WAVHeader = []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00\x44\xac\x00\x00\x88\x58\x01\x00\x02\x00\x10\x00data\x00\x00\x00\x00")

// PNGImage is a 1x1 transparent PNG.
var PNGImage = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// CompletedResult is a finished job with text only.
func CompletedResult(text string) *provider.JobResult {
	return &provider.JobResult{
		ID:               "job-1",
		Status:           model.JobCompleted,
		Text:             text,
		LanguageCode:     "pt",
		AudioDurationSec: 12,
	}
}

// DiarizedResult is a finished job with two speakers, utterances listed
// out of order.
func DiarizedResult() *provider.JobResult {
	conf := 0.91
	return &provider.JobResult{
		ID:           "job-1",
		Status:       model.JobCompleted,
		Text:         "Olá, tudo bem? Tudo ótimo.",
		LanguageCode: "pt",
		Utterances: []provider.Utterance{
			{StartMs: 2500, EndMs: 4000, Text: "Tudo ótimo.", Speaker: "B", Confidence: &conf},
			{StartMs: 0, EndMs: 2400, Text: "Olá, tudo bem?", Speaker: "A", Confidence: &conf},
		},
		AudioDurationSec: 4,
	}
}

// FailedResult is a job the vendor reported as failed.
func FailedResult(message string) *provider.JobResult {
	return &provider.JobResult{ID: "job-1", Status: model.JobError, Error: message}
}

// SampleRecords builds n records for userID, newest first, one hour apart
// ending at latest.
func SampleRecords(userID string, n int, latest time.Time) []model.TranscriptionRecord {
	out := make([]model.TranscriptionRecord, 0, n)
	for i := 0; i < n; i++ {
		at := latest.Add(-time.Duration(i) * time.Hour)
		out = append(out, model.TranscriptionRecord{
			ID:            fmt.Sprintf("00000000-0000-4000-8000-%012d", i+1),
			UserID:        userID,
			FileName:      fmt.Sprintf("reuniao-%02d.mp3", i+1),
			FileSize:      int64(1024 * (i + 1)),
			FileType:      "audio/mpeg",
			Transcription: fmt.Sprintf("gravação número %d da reunião", i+1),
			Language:      "pt",
			DurationSec:   60,
			Metadata:      map[string]interface{}{},
			CreatedAt:     at,
			UpdatedAt:     at,
		})
	}
	return out
}
