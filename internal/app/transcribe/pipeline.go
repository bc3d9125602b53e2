// Package transcribe runs the upload, submit, poll and reshape steps against
// a vendor and returns the client-facing result.
package transcribe

import (
	"context"
	"io"
	"log/slog"
	"time"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/metrics"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/segments"
	"voxscribe/internal/app/util/files"
)

// Input is one transcription request.
type Input struct {
	Audio       io.Reader
	ContentType string
	Language    string
	Diarization bool
	Timestamps  bool
}

// Result is what the proxy returns on success.
type Result struct {
	Text        string                    `json:"text"`
	Language    string                    `json:"language"`
	Segments    []model.TranscriptSegment `json:"segments,omitempty"`
	DurationSec float64                   `json:"duration_seconds,omitempty"`
	VendorJobID string                    `json:"vendor_job_id"`

	// ApproximateSegments is set when Segments were estimated from the
	// text rather than reported by the vendor.
	ApproximateSegments bool `json:"approximate_segments,omitempty"`
}

// Pipeline drives a single vendor.
type Pipeline struct {
	vendor  provider.Vendor
	poll    PollConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewPipeline creates a pipeline. A nil logger discards output.
func NewPipeline(v provider.Vendor, poll PollConfig, m *metrics.Metrics, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{vendor: v, poll: poll, metrics: m, logger: logger}
}

// Vendor returns the backend this pipeline talks to.
func (p *Pipeline) Vendor() provider.Vendor {
	return p.vendor
}

// Run executes the whole flow. onStatus, when non-nil, observes job state
// changes: queued after submit, then every polled status.
func (p *Pipeline) Run(ctx context.Context, in Input, onStatus StatusFunc) (*Result, error) {
	started := time.Now()
	res, err := p.run(ctx, in, onStatus)

	outcome := "completed"
	if err != nil {
		outcome = provider.Code(err)
		if outcome == "" {
			outcome = "failed"
		}
		p.logger.ErrorContext(ctx, "transcription failed",
			"vendor", p.vendor.Name(),
			"code", outcome,
			"error", err,
			"duration", time.Since(started))
	} else {
		p.logger.InfoContext(ctx, "transcription completed",
			"vendor", p.vendor.Name(),
			"job_id", res.VendorJobID,
			"language", res.Language,
			"segments", len(res.Segments),
			"duration", time.Since(started))
	}
	p.metrics.ObservePipeline(p.vendor.Name(), outcome, started)
	return res, err
}

func (p *Pipeline) run(ctx context.Context, in Input, onStatus StatusFunc) (*Result, error) {
	if in.Audio == nil {
		return nil, provider.NewError(p.vendor.Name(), provider.CodeInvalidInput, "Nenhum arquivo foi enviado")
	}
	language := MapLanguage(in.Language)
	contentType := in.ContentType
	if contentType == "" {
		contentType = files.DefaultAudioContentType
	}

	uploadURL, err := p.vendor.Upload(ctx, in.Audio, contentType)
	if err != nil {
		return nil, p.contextError(ctx, err)
	}
	p.logger.DebugContext(ctx, "audio uploaded", "vendor", p.vendor.Name())

	jobID, err := p.vendor.Submit(ctx, provider.SubmitRequest{
		AudioURL:      uploadURL,
		LanguageCode:  language,
		SpeakerLabels: in.Diarization,
	})
	if err != nil {
		return nil, p.contextError(ctx, err)
	}
	if onStatus != nil {
		onStatus(model.JobQueued)
	}
	p.logger.DebugContext(ctx, "job submitted", "vendor", p.vendor.Name(), "job_id", jobID)

	job, err := Poll(ctx, p.vendor, jobID, p.poll, p.metrics, onStatus)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Text:        job.Text,
		Language:    language,
		DurationSec: job.AudioDurationSec,
		VendorJobID: jobID,
	}
	if in.Diarization && len(job.Utterances) > 0 {
		out.Segments = Reshape(job.Utterances, true)
	} else if in.Timestamps {
		if len(job.Utterances) > 0 {
			out.Segments = Reshape(job.Utterances, false)
		} else if job.Text != "" {
			out.Segments = segments.Approximate(job.Text, job.AudioDurationSec)
			out.ApproximateSegments = len(out.Segments) > 0
		}
	}
	return out, nil
}

// contextError maps a bare context error from a vendor call onto the
// error taxonomy. Any failure after ctx ended is reported as the
// cancellation or deadline.
func (p *Pipeline) contextError(ctx context.Context, err error) error {
	if ctx.Err() == nil {
		return err
	}
	return stopError(ctx, p.vendor.Name(), p.Timeout())
}

// Timeout is the deadline a transcription is allowed to take.
func (p *Pipeline) Timeout() time.Duration {
	if p.poll.Interval <= 0 || p.poll.Timeout <= 0 {
		return DefaultPollConfig().Timeout
	}
	return p.poll.Timeout
}
