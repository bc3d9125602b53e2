package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/model"
)

// VendorCall records one request made to a ScriptedVendor.
type VendorCall struct {
	Operation string
	Timestamp time.Time
	Request   provider.SubmitRequest
}

// ScriptedVendor is a provider.Vendor whose Status calls walk through a
// scripted list and then keep returning the final result.
type ScriptedVendor struct {
	mu sync.Mutex

	name       string
	statuses   []*provider.JobResult
	final      *provider.JobResult
	uploadErr  error
	submitErr  error
	statusErr  error
	blockPolls bool

	polls       int
	uploaded    []byte
	contentType string
	calls       []VendorCall
}

// NewScriptedVendor returns a vendor that completes immediately with a
// short transcript.
func NewScriptedVendor() *ScriptedVendor {
	return &ScriptedVendor{
		name:  "scripted",
		final: CompletedResult("transcrição de teste"),
	}
}

// WithName sets the vendor name.
func (v *ScriptedVendor) WithName(name string) *ScriptedVendor {
	v.name = name
	return v
}

// WithStatuses queues intermediate statuses returned before the result.
func (v *ScriptedVendor) WithStatuses(statuses ...model.JobStatus) *ScriptedVendor {
	for _, s := range statuses {
		v.statuses = append(v.statuses, &provider.JobResult{ID: "job-1", Status: s})
	}
	return v
}

// WithResult sets the terminal result.
func (v *ScriptedVendor) WithResult(res *provider.JobResult) *ScriptedVendor {
	v.final = res
	return v
}

// WithUploadError makes Upload fail.
func (v *ScriptedVendor) WithUploadError(err error) *ScriptedVendor {
	v.uploadErr = err
	return v
}

// WithSubmitError makes Submit fail.
func (v *ScriptedVendor) WithSubmitError(err error) *ScriptedVendor {
	v.submitErr = err
	return v
}

// WithStatusError makes every Status call fail.
func (v *ScriptedVendor) WithStatusError(err error) *ScriptedVendor {
	v.statusErr = err
	return v
}

// Pending makes the job stay in processing forever.
func (v *ScriptedVendor) Pending() *ScriptedVendor {
	v.blockPolls = true
	return v
}

func (v *ScriptedVendor) Name() string { return v.name }

func (v *ScriptedVendor) record(op string, req provider.SubmitRequest) {
	v.calls = append(v.calls, VendorCall{Operation: op, Timestamp: time.Now(), Request: req})
}

// Upload implements provider.Vendor.
func (v *ScriptedVendor) Upload(ctx context.Context, audio io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("upload", provider.SubmitRequest{})
	if v.uploadErr != nil {
		return "", v.uploadErr
	}
	v.uploaded = data
	v.contentType = contentType
	return fmt.Sprintf("https://cdn.%s.test/upload/%d", v.name, len(data)), nil
}

// Submit implements provider.Vendor.
func (v *ScriptedVendor) Submit(ctx context.Context, req provider.SubmitRequest) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("submit", req)
	if v.submitErr != nil {
		return "", v.submitErr
	}
	return "job-1", nil
}

// Status implements provider.Vendor.
func (v *ScriptedVendor) Status(ctx context.Context, jobID string) (*provider.JobResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("status", provider.SubmitRequest{})
	v.polls++
	if v.statusErr != nil {
		return nil, v.statusErr
	}
	if v.blockPolls {
		return &provider.JobResult{ID: jobID, Status: model.JobProcessing}, nil
	}
	if v.polls <= len(v.statuses) {
		return v.statuses[v.polls-1], nil
	}
	return v.final, nil
}

// Polls returns the number of Status calls.
func (v *ScriptedVendor) Polls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.polls
}

// Uploaded returns the bytes and content type of the last upload.
func (v *ScriptedVendor) Uploaded() ([]byte, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.uploaded, v.contentType
}

// LastSubmit returns the last submit request.
func (v *ScriptedVendor) LastSubmit() (provider.SubmitRequest, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := len(v.calls) - 1; i >= 0; i-- {
		if v.calls[i].Operation == "submit" {
			return v.calls[i].Request, true
		}
	}
	return provider.SubmitRequest{}, false
}

// Calls returns every recorded call.
func (v *ScriptedVendor) Calls() []VendorCall {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]VendorCall(nil), v.calls...)
}
