package transcribe

import (
	"context"
	"io"
	"sync"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/model"
)

// fakeVendor replays a scripted list of statuses. The last entry repeats.
type fakeVendor struct {
	mu        sync.Mutex
	statuses  []*provider.JobResult
	polls     int
	uploadErr error
	submitErr error
	lastReq   provider.SubmitRequest
	uploaded  []byte
}

func (f *fakeVendor) Name() string { return "fake" }

func (f *fakeVendor) Upload(ctx context.Context, audio io.Reader, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", err
	}
	f.uploaded = data
	return "https://cdn.fake/audio", nil
}

func (f *fakeVendor) Submit(ctx context.Context, req provider.SubmitRequest) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.lastReq = req
	return "job-1", nil
}

func (f *fakeVendor) Status(ctx context.Context, jobID string) (*provider.JobResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.polls
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	f.polls++
	return f.statuses[idx], nil
}

func (f *fakeVendor) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func processing() *provider.JobResult {
	return &provider.JobResult{ID: "job-1", Status: model.JobProcessing}
}

func ptr(f float64) *float64 { return &f }
