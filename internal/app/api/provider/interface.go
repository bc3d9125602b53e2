package provider

import (
	"context"
	"io"
)

// Vendor is a speech-to-text backend that works as upload, submit, then
// poll. Synchronous backends report completed on the first Status call.
type Vendor interface {
	// Name identifies the vendor in logs, metrics and errors.
	Name() string

	// Upload streams audio to the vendor and returns a URL (or handle) the
	// vendor accepts in SubmitRequest.AudioURL.
	Upload(ctx context.Context, audio io.Reader, contentType string) (string, error)

	// Submit creates a transcription job and returns its vendor id.
	Submit(ctx context.Context, req SubmitRequest) (string, error)

	// Status fetches the current state of a job.
	Status(ctx context.Context, jobID string) (*JobResult, error)
}

// HealthChecker is implemented by vendors that can cheaply verify
// connectivity and credentials.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
