package model

import "time"

// TranscriptionRecord is a persisted history entry owned by a user.
// ID is generated by the client before the first write so the same record
// can be upserted into any store without duplicating.
type TranscriptionRecord struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"user_id"`
	FileName       string                 `json:"file_name"`
	FileSize       int64                  `json:"file_size"`
	FileType       string                 `json:"file_type,omitempty"`
	Transcription  string                 `json:"transcription"`
	WordCount      int                    `json:"word_count"`
	CharCount      int                    `json:"char_count"`
	Language       string                 `json:"language"`
	HasDiarization bool                   `json:"has_diarization"`
	HasTimestamps  bool                   `json:"has_timestamps"`
	DurationSec    float64                `json:"duration_seconds,omitempty"`
	AudioURL       string                 `json:"audio_url,omitempty"`
	Metadata       map[string]interface{} `json:"metadata"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// UserStats aggregates a user's history.
type UserStats struct {
	TotalTranscriptions int `json:"total_transcriptions"`
	TotalWords          int `json:"total_words"`
	TotalCharacters     int `json:"total_characters"`
	TotalMinutes        int `json:"total_minutes"`
}
