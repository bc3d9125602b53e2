package provider

import (
	"voxscribe/internal/app/metrics"
	"voxscribe/internal/app/model"
)

// SubmitRequest describes a transcription job for an already uploaded file.
type SubmitRequest struct {
	AudioURL      string `json:"audio_url"`
	LanguageCode  string `json:"language_code"`
	SpeakerLabels bool   `json:"speaker_labels"`
}

// Utterance is a vendor-native speaker turn. Offsets are milliseconds.
type Utterance struct {
	StartMs    int64    `json:"start"`
	EndMs      int64    `json:"end"`
	Text       string   `json:"text"`
	Speaker    string   `json:"speaker"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// JobResult is the vendor's view of a job at one point in time.
type JobResult struct {
	ID           string          `json:"id"`
	Status       model.JobStatus `json:"status"`
	Text         string          `json:"text"`
	LanguageCode string          `json:"language_code"`
	Error        string          `json:"error,omitempty"`
	Utterances   []Utterance     `json:"utterances,omitempty"`

	// AudioDurationSec is zero when the vendor does not report it.
	AudioDurationSec float64 `json:"audio_duration,omitempty"`
}

// Config carries the settings every vendor factory understands.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	RequestTimeout int // seconds

	// Metrics is optional; vendors record their calls into it.
	Metrics *metrics.Metrics
}
