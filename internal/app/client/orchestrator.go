package client

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/session"
	"voxscribe/internal/app/util/files"
	"voxscribe/internal/app/util/text"
)

// State is the orchestrator's position in idle → uploading → transcribing →
// done | error.
type State string

const (
	StateIdle         State = "idle"
	StateUploading    State = "uploading"
	StateTranscribing State = "transcribing"
	StateDone         State = "done"
	StateError        State = "error"
)

const (
	// DefaultStep is the simulated upload tick.
	DefaultStep = 150 * time.Millisecond

	uploadIncrement = 10
	transcribeCap   = 90
)

// Progress is reported on every state change and tick.
type Progress struct {
	State   State
	Percent int
}

// ProgressFunc receives progress updates. It is called from the goroutine
// running Run.
type ProgressFunc func(Progress)

// API is the part of Client the orchestrator needs.
type API interface {
	Transcribe(ctx context.Context, audio io.Reader, fileName string, opts Options) (*TranscribeResponse, error)
	SaveHistory(ctx context.Context, rec model.TranscriptionRecord) (*model.TranscriptionRecord, error)
}

// Outcome is a successful run.
type Outcome struct {
	Text      string
	Language  string
	Segments  []model.TranscriptSegment
	FileName  string
	FileSize  int64
	WordCount int
	CharCount int

	// Record is the saved history entry, nil for anonymous sessions.
	Record *model.TranscriptionRecord
	// SaveErr is set when saving to history failed. The transcript is
	// still returned.
	SaveErr error
}

// Orchestrator drives one file at a time through upload and transcription.
type Orchestrator struct {
	api     API
	session session.Session
	logger  *zap.Logger
	step    time.Duration
	jitter  func() int

	mu    sync.Mutex
	state State
}

// NewOrchestrator creates an orchestrator bound to sess. A nil logger is
// replaced by a no-op logger.
func NewOrchestrator(api API, sess session.Session, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		api:     api,
		session: sess,
		logger:  logger,
		step:    DefaultStep,
		jitter:  func() int { return rand.IntN(10) + 1 },
		state:   StateIdle,
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Reset returns a finished orchestrator to idle.
func (o *Orchestrator) Reset() {
	o.setState(StateIdle)
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Run validates path, simulates the upload, calls the proxy and, for an
// authenticated session, saves the result to history. On error nothing of
// the partial result is returned.
func (o *Orchestrator) Run(ctx context.Context, path string, opts Options, onProgress ProgressFunc) (*Outcome, error) {
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	out, err := o.run(ctx, path, opts, onProgress)
	if err != nil {
		o.setState(StateError)
		onProgress(Progress{State: StateError})
		o.logger.Warn("transcription failed", zap.String("file", path), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, path string, opts Options, onProgress ProgressFunc) (*Outcome, error) {
	if path == "" {
		return nil, fmt.Errorf("Selecione um arquivo primeiro")
	}
	info, err := files.ValidateLocalAudioFile(path)
	if err != nil {
		return nil, err
	}

	o.setState(StateUploading)
	onProgress(Progress{State: StateUploading})
	if err := o.simulateUpload(ctx, onProgress); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	o.setState(StateTranscribing)
	onProgress(Progress{State: StateTranscribing})
	resp, err := o.transcribe(ctx, f, info.Name(), opts, onProgress)
	if err != nil {
		return nil, err
	}
	if resp.Text == "" {
		return nil, fmt.Errorf("Nenhum texto foi transcrito")
	}

	out := &Outcome{
		Text:      resp.Text,
		Language:  resp.Language,
		Segments:  resp.Segments,
		FileName:  info.Name(),
		FileSize:  info.Size(),
		WordCount: text.CountWords(resp.Text),
		CharCount: text.CountCharacters(resp.Text),
	}

	if o.session.Authenticated() {
		out.Record, out.SaveErr = o.save(ctx, out, opts)
		if out.SaveErr != nil {
			o.logger.Error("failed to save transcription to history",
				zap.String("user_id", o.session.UserID), zap.Error(out.SaveErr))
		}
	}

	o.setState(StateDone)
	onProgress(Progress{State: StateDone, Percent: 100})
	return out, nil
}

func (o *Orchestrator) simulateUpload(ctx context.Context, onProgress ProgressFunc) error {
	ticker := time.NewTicker(o.step)
	defer ticker.Stop()

	for progress := uploadIncrement; progress <= 100; progress += uploadIncrement {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			onProgress(Progress{State: StateUploading, Percent: progress})
		}
	}
	return nil
}

type transcribeResult struct {
	resp *TranscribeResponse
	err  error
}

// transcribe runs the proxy call while reporting indeterminate progress
// that never passes transcribeCap until the call returns.
func (o *Orchestrator) transcribe(ctx context.Context, audio io.Reader, name string, opts Options, onProgress ProgressFunc) (*TranscribeResponse, error) {
	done := make(chan transcribeResult, 1)
	go func() {
		resp, err := o.api.Transcribe(ctx, audio, name, opts)
		done <- transcribeResult{resp: resp, err: err}
	}()

	ticker := time.NewTicker(o.step)
	defer ticker.Stop()

	progress := 0
	for {
		select {
		case r := <-done:
			if r.err != nil {
				return nil, r.err
			}
			onProgress(Progress{State: StateTranscribing, Percent: 100})
			return r.resp, nil
		case <-ticker.C:
			progress = min(progress+o.jitter(), transcribeCap)
			onProgress(Progress{State: StateTranscribing, Percent: progress})
		}
	}
}

func (o *Orchestrator) save(ctx context.Context, out *Outcome, opts Options) (*model.TranscriptionRecord, error) {
	rec := model.TranscriptionRecord{
		ID:             uuid.NewString(),
		UserID:         o.session.UserID,
		FileName:       out.FileName,
		FileSize:       out.FileSize,
		FileType:       files.DefaultAudioContentType,
		Transcription:  out.Text,
		Language:       out.Language,
		HasDiarization: opts.Diarization,
		HasTimestamps:  opts.Timestamps,
		Metadata:       map[string]interface{}{"source": "cli"},
	}
	if ext := filepath.Ext(out.FileName); ext != "" {
		rec.FileType = "audio/" + strings.ToLower(ext[1:])
	}
	if len(out.Segments) > 0 {
		rec.Metadata["segments"] = out.Segments
	}
	return o.api.SaveHistory(ctx, rec)
}
