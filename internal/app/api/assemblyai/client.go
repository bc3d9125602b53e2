package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/metrics"
	"voxscribe/internal/app/model"
)

const (
	// Name is the registry key of this vendor.
	Name = "assemblyai"

	// EnvAPIKey holds the vendor credential.
	EnvAPIKey = "ASSEMBLYAI_API_KEY"

	defaultBaseURL = "https://api.assemblyai.com/v2"
)

// Client talks to the AssemblyAI v2 REST API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithMetrics records vendor calls into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) { cl.metrics = m }
}

// NewClient creates a client. The API key is required.
func NewClient(cfg provider.Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, provider.MissingAPIKey(Name, EnvAPIKey)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	c := &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		metrics: cfg.Metrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements provider.Vendor.
func (c *Client) Name() string {
	return Name
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

// Upload streams the raw audio bytes to /upload.
func (c *Client) Upload(ctx context.Context, audio io.Reader, contentType string) (string, error) {
	started := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", audio)
	if err != nil {
		return "", provider.WrapError(Name, provider.CodeUploadFailed, err, "Upload falhou: %v", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("upload", provider.CodeNetworkError, started)
		return "", transportError(ctx, err, "Upload falhou: %v")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.observe("upload", provider.CodeUploadFailed, started)
		return "", provider.NewError(Name, provider.CodeUploadFailed,
			fmt.Sprintf("Upload falhou: %d - %s", resp.StatusCode, string(body)))
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.observe("upload", provider.CodeParseError, started)
		return "", provider.WrapError(Name, provider.CodeParseError, err, "Upload falhou: resposta inválida: %v", err)
	}
	if out.UploadURL == "" {
		c.observe("upload", provider.CodeUploadFailed, started)
		return "", provider.NewError(Name, provider.CodeUploadFailed, "Upload falhou: upload_url ausente na resposta")
	}

	c.observe("upload", "ok", started)
	return out.UploadURL, nil
}

type submitResponse struct {
	ID string `json:"id"`
}

// Submit posts a job to /transcript.
func (c *Client) Submit(ctx context.Context, sr provider.SubmitRequest) (string, error) {
	started := time.Now()
	payload, err := json.Marshal(sr)
	if err != nil {
		return "", provider.WrapError(Name, provider.CodeSubmitFailed, err, "Transcrição falhou: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", provider.WrapError(Name, provider.CodeSubmitFailed, err, "Transcrição falhou: %v", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("submit", provider.CodeNetworkError, started)
		return "", transportError(ctx, err, "Transcrição falhou: %v")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.observe("submit", provider.CodeSubmitFailed, started)
		return "", provider.NewError(Name, provider.CodeSubmitFailed,
			fmt.Sprintf("Transcrição falhou: %d - %s", resp.StatusCode, string(body)))
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.ID == "" {
		c.observe("submit", provider.CodeParseError, started)
		return "", provider.WrapError(Name, provider.CodeParseError, err, "Transcrição falhou: id ausente na resposta")
	}

	c.observe("submit", "ok", started)
	return out.ID, nil
}

type transcriptResponse struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	Text          string               `json:"text"`
	LanguageCode  string               `json:"language_code"`
	Error         string               `json:"error"`
	AudioDuration float64              `json:"audio_duration"`
	Utterances    []provider.Utterance `json:"utterances"`
}

// Status fetches /transcript/{id}.
func (c *Client) Status(ctx context.Context, jobID string) (*provider.JobResult, error) {
	started := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+jobID, nil)
	if err != nil {
		return nil, provider.WrapError(Name, provider.CodePollFailed, err, "Polling falhou: %v", err)
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("status", provider.CodeNetworkError, started)
		return nil, transportError(ctx, err, "Polling falhou: %v")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe("status", provider.CodePollFailed, started)
		return nil, provider.NewError(Name, provider.CodePollFailed, fmt.Sprintf("Polling falhou: %d", resp.StatusCode))
	}

	var out transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.observe("status", provider.CodeParseError, started)
		return nil, provider.WrapError(Name, provider.CodeParseError, err, "Polling falhou: resposta inválida: %v", err)
	}

	c.observe("status", "ok", started)
	return &provider.JobResult{
		ID:               out.ID,
		Status:           mapStatus(out.Status),
		Text:             out.Text,
		LanguageCode:     out.LanguageCode,
		Error:            out.Error,
		Utterances:       out.Utterances,
		AudioDurationSec: out.AudioDuration,
	}, nil
}

// HealthCheck verifies the key by listing a single transcript.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript?limit=1", nil)
	if err != nil {
		return err
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("assemblyai unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("assemblyai health check returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) observe(operation, status string, started time.Time) {
	c.metrics.ObserveVendorCall(Name, operation, status, started)
}

// mapStatus folds vendor states onto the job lifecycle.
func mapStatus(s string) model.JobStatus {
	switch s {
	case "queued":
		return model.JobQueued
	case "processing":
		return model.JobProcessing
	case "completed":
		return model.JobCompleted
	case "error":
		return model.JobError
	default:
		return model.JobProcessing
	}
}

// transportError keeps context cancellation distinguishable from a network
// failure so the poller can report timeouts correctly.
func transportError(ctx context.Context, err error, format string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return provider.WrapError(Name, provider.CodeNetworkError, err, format, err)
}
