package dto

import (
	"io"

	"voxscribe/internal/app/model"
)

// TranscribeRequest is the parsed multipart body of the proxy and job
// endpoints.
type TranscribeRequest struct {
	File        io.Reader
	FileName    string
	FileSize    int64
	ContentType string
	Language    string
	Diarization bool
	Timestamps  bool
}

// TranscribeResponse is the proxy contract. Segments is omitted when the
// vendor returned none.
type TranscribeResponse struct {
	Success  bool                      `json:"success" example:"true"`
	Text     string                    `json:"text,omitempty"`
	Language string                    `json:"language,omitempty" example:"pt"`
	Segments []model.TranscriptSegment `json:"segments,omitempty"`
	Error    string                    `json:"error,omitempty"`
	// RecordID is set when the transcript was saved to the caller's history.
	RecordID string `json:"record_id,omitempty"`
	// Approximate marks segments estimated from sentence lengths.
	Approximate bool `json:"approximate_segments,omitempty"`
}

// ProxyFailure is the body of a failed proxy call.
type ProxyFailure struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Upload falhou: 401 - Unauthorized"`
}
