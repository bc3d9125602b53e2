// Package whisper adapts the OpenAI audio transcription endpoint to the
// upload/submit/poll vendor contract. The endpoint is synchronous, so the
// work happens in Submit and Status reports the stored result.
package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/metrics"
	"voxscribe/internal/app/model"
)

const (
	// Name is the registry key of this vendor.
	Name = "openai"

	// EnvAPIKey holds the vendor credential.
	EnvAPIKey = "OPENAI_API_KEY"

	uploadScheme = "openai-upload://"
)

type upload struct {
	data        []byte
	contentType string
}

// RemoteTranscriber implements provider.Vendor on top of go-openai.
type RemoteTranscriber struct {
	client  *openai.Client
	model   string
	metrics *metrics.Metrics

	mu      sync.Mutex
	uploads map[string]upload
	results map[string]*provider.JobResult
}

// NewRemoteTranscriber creates a transcriber from vendor configuration.
func NewRemoteTranscriber(cfg provider.Config) (*RemoteTranscriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, provider.MissingAPIKey(Name, EnvAPIKey)
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = openai.Whisper1
	}
	return &RemoteTranscriber{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   modelName,
		metrics: cfg.Metrics,
		uploads: make(map[string]upload),
		results: make(map[string]*provider.JobResult),
	}, nil
}

// Name implements provider.Vendor.
func (rt *RemoteTranscriber) Name() string {
	return Name
}

// Upload buffers the audio and returns an opaque handle for Submit.
func (rt *RemoteTranscriber) Upload(ctx context.Context, audio io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", provider.WrapError(Name, provider.CodeUploadFailed, err, "Upload falhou: %v", err)
	}
	if len(data) == 0 {
		return "", provider.NewError(Name, provider.CodeInvalidInput, "Upload falhou: arquivo vazio")
	}

	handle := uploadScheme + uuid.NewString()
	rt.mu.Lock()
	rt.uploads[handle] = upload{data: data, contentType: contentType}
	rt.mu.Unlock()
	return handle, nil
}

// Submit runs the transcription and keeps the result for Status.
func (rt *RemoteTranscriber) Submit(ctx context.Context, req provider.SubmitRequest) (string, error) {
	rt.mu.Lock()
	up, ok := rt.uploads[req.AudioURL]
	delete(rt.uploads, req.AudioURL)
	rt.mu.Unlock()
	if !ok {
		return "", provider.NewError(Name, provider.CodeSubmitFailed, "Transcrição falhou: upload desconhecido")
	}

	started := time.Now()
	resp, err := rt.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    rt.model,
		FilePath: "audio" + extensionFor(up.contentType),
		Reader:   bytes.NewReader(up.data),
		Language: req.LanguageCode,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		rt.metrics.ObserveVendorCall(Name, "submit", provider.CodeSubmitFailed, started)
		return "", rt.handleAPIError(ctx, err)
	}
	rt.metrics.ObserveVendorCall(Name, "submit", "ok", started)

	id := uuid.NewString()
	result := &provider.JobResult{
		ID:               id,
		Status:           model.JobCompleted,
		Text:             resp.Text,
		LanguageCode:     req.LanguageCode,
		AudioDurationSec: resp.Duration,
	}
	for _, seg := range resp.Segments {
		result.Utterances = append(result.Utterances, provider.Utterance{
			StartMs: int64(seg.Start * 1000),
			EndMs:   int64(seg.End * 1000),
			Text:    strings.TrimSpace(seg.Text),
		})
	}

	rt.mu.Lock()
	rt.results[id] = result
	rt.mu.Unlock()
	return id, nil
}

// Status returns the stored result once and forgets it.
func (rt *RemoteTranscriber) Status(ctx context.Context, jobID string) (*provider.JobResult, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	result, ok := rt.results[jobID]
	if !ok {
		return nil, provider.NewError(Name, provider.CodePollFailed, "Polling falhou: 404")
	}
	delete(rt.results, jobID)
	return result, nil
}

func (rt *RemoteTranscriber) handleAPIError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return provider.NewError(Name, provider.CodeSubmitFailed,
			fmt.Sprintf("Transcrição falhou: %d - %s", apiErr.HTTPStatusCode, apiErr.Message))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return provider.NewError(Name, provider.CodeSubmitFailed,
			fmt.Sprintf("Transcrição falhou: %d - %v", reqErr.HTTPStatusCode, reqErr.Err))
	}
	return provider.WrapError(Name, provider.CodeNetworkError, err, "Transcrição falhou: %v", err)
}

func extensionFor(contentType string) string {
	if mt := mimetype.Lookup(contentType); mt != nil && mt.Extension() != "" {
		return mt.Extension()
	}
	return ".mp3"
}
