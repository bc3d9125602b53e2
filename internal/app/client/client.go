// Package client talks to a voxscribe server: the transcription proxy and
// the history API. It also hosts the upload/transcribe state machine used by
// the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"voxscribe/internal/app/model"
)

const (
	// TranscribePath is the proxy endpoint.
	TranscribePath = "/functions/v1/transcribe"
	historyPath    = "/api/v1/history"
)

// Options are the form fields sent alongside the audio.
type Options struct {
	Language    string
	Diarization bool
	Timestamps  bool
}

// TranscribeResponse is the proxy reply.
type TranscribeResponse struct {
	Success  bool                      `json:"success"`
	Text     string                    `json:"text"`
	Language string                    `json:"language"`
	Segments []model.TranscriptSegment `json:"segments,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

// HistoryPage is one page of GET /api/v1/history.
type HistoryPage struct {
	Items  []model.TranscriptionRecord `json:"items"`
	Total  int                         `json:"total"`
	Limit  int                         `json:"limit"`
	Offset int                         `json:"offset"`
}

// Client is an HTTP client for a voxscribe server.
type Client struct {
	baseURL string
	token   string
	userID  string
	http    *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

// WithUserID sends X-User-ID. Servers accept it only when configured to
// trust the header.
func WithUserID(userID string) Option {
	return func(cl *Client) { cl.userID = userID }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// The server polls for up to ten minutes before answering.
		http: &http.Client{Timeout: 11 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcribe posts audio to the proxy as multipart/form-data.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, fileName string, opts Options) (*TranscribeResponse, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeForm(mw, audio, fileName, opts))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+TranscribePath, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeHTTPError(resp)
	}

	var out TranscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !out.Success {
		if out.Error != "" {
			return nil, fmt.Errorf("%s", out.Error)
		}
		return nil, fmt.Errorf("Erro desconhecido na transcrição")
	}
	return &out, nil
}

func writeForm(mw *multipart.Writer, audio io.Reader, fileName string, opts Options) error {
	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return err
	}
	if opts.Language != "" {
		if err := mw.WriteField("language", opts.Language); err != nil {
			return err
		}
	}
	if opts.Diarization {
		if err := mw.WriteField("diarization", "true"); err != nil {
			return err
		}
	}
	if opts.Timestamps {
		if err := mw.WriteField("timestamps", "true"); err != nil {
			return err
		}
	}
	return mw.Close()
}

// SaveHistory stores rec through POST /api/v1/history.
func (c *Client) SaveHistory(ctx context.Context, rec model.TranscriptionRecord) (*model.TranscriptionRecord, error) {
	var out model.TranscriptionRecord
	if err := c.doJSON(ctx, http.MethodPost, historyPath, rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListHistory returns one page of the caller's history.
func (c *Client) ListHistory(ctx context.Context, limit, offset int) (*HistoryPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var out HistoryPage
	if err := c.doJSON(ctx, http.MethodGet, historyPath+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteHistory removes one record.
func (c *Client) DeleteHistory(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, historyPath+"/"+url.PathEscape(id), nil, nil)
}

// ExportHistory streams the history export in format to w.
func (c *Client) ExportHistory(ctx context.Context, format string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+historyPath+"/export?format="+url.QueryEscape(format), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeHTTPError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeHTTPError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}
}

// decodeHTTPError prefers the server's own message over the status code.
func decodeHTTPError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)
	switch {
	case body.Error != "":
		return fmt.Errorf("%s", body.Error)
	case body.Message != "":
		return fmt.Errorf("%s", body.Message)
	default:
		return fmt.Errorf("Erro HTTP: %d", resp.StatusCode)
	}
}
