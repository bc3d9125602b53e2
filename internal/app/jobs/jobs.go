// Package jobs runs transcription pipelines in the background and tracks
// their status so clients can poll or cancel them.
package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/metrics"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/transcribe"
)

var (
	// ErrNotFound is returned for unknown job ids.
	ErrNotFound = errors.New("job not found")
	// ErrFinished is returned when canceling a job that already ended.
	ErrFinished = errors.New("job already finished")
)

// Snapshot is the externally visible state of a job.
type Snapshot struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id,omitempty"`
	Status      model.JobStatus    `json:"status"`
	FileName    string             `json:"file_name,omitempty"`
	Language    string             `json:"language"`
	Diarization bool               `json:"diarization"`
	Result      *transcribe.Result `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
	ErrorCode   string             `json:"error_code,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Spec describes a job to start.
type Spec struct {
	UserID      string
	FileName    string
	Language    string
	Diarization bool
	// Timeout bounds the whole run. Zero means no deadline.
	Timeout time.Duration
}

// RunFunc performs the work. It must honour ctx and report status changes
// through onStatus.
type RunFunc func(ctx context.Context, onStatus transcribe.StatusFunc) (*transcribe.Result, error)

// Cache mirrors snapshots outside the process.
type Cache interface {
	Put(ctx context.Context, s Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
}

type entry struct {
	snap   Snapshot
	cancel context.CancelFunc
}

// Registry owns the running jobs.
type Registry struct {
	mu        sync.Mutex
	jobs      map[string]*entry
	cache     Cache
	metrics   *metrics.Metrics
	logger    *slog.Logger
	retention time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewRegistry creates a registry. cache may be nil.
func NewRegistry(cache Cache, m *metrics.Metrics, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		jobs:      make(map[string]*entry),
		cache:     cache,
		metrics:   m,
		logger:    logger,
		retention: time.Hour,
		now:       time.Now,
	}
}

// Submit registers a job and starts run in a new goroutine. The job's
// context is detached from the submitting request and ends after
// req.Timeout.
func (r *Registry) Submit(req Spec, run RunFunc) Snapshot {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if req.Timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), req.Timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	now := r.now().UTC()
	e := &entry{
		snap: Snapshot{
			ID:          uuid.NewString(),
			UserID:      req.UserID,
			Status:      model.JobQueued,
			FileName:    req.FileName,
			Language:    transcribe.MapLanguage(req.Language),
			Diarization: req.Diarization,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		cancel: cancel,
	}

	r.mu.Lock()
	r.evictLocked(now)
	r.jobs[e.snap.ID] = e
	snap := e.snap
	r.mu.Unlock()

	r.mirror(snap)
	if r.metrics != nil {
		r.metrics.ActiveJobs.Inc()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		if r.metrics != nil {
			defer r.metrics.ActiveJobs.Dec()
		}

		res, err := run(ctx, func(s model.JobStatus) {
			if s == model.JobQueued || s == model.JobProcessing {
				r.update(snap.ID, func(js *Snapshot) { js.Status = s })
			}
		})
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && provider.Code(err) != provider.CodeTimeout {
			err = provider.NewError("job", provider.CodeTimeout, transcribe.TimeoutMessage(req.Timeout))
		}
		r.finish(snap.ID, res, err)
	}()
	return snap
}

// Get returns a job visible to userID. Jobs submitted anonymously are
// visible to everyone holding the id.
func (r *Registry) Get(ctx context.Context, userID, id string) (*Snapshot, error) {
	r.mu.Lock()
	e, ok := r.jobs[id]
	var snap Snapshot
	if ok {
		snap = e.snap
	}
	r.mu.Unlock()

	if !ok {
		if r.cache == nil {
			return nil, ErrNotFound
		}
		cached, err := r.cache.Get(ctx, id)
		if err != nil || cached == nil {
			return nil, ErrNotFound
		}
		snap = *cached
	}
	if snap.UserID != "" && snap.UserID != userID {
		return nil, ErrNotFound
	}
	return &snap, nil
}

// Cancel stops a running job. Only the local replica can cancel it.
func (r *Registry) Cancel(userID, id string) (*Snapshot, error) {
	r.mu.Lock()
	e, ok := r.jobs[id]
	if !ok || (e.snap.UserID != "" && e.snap.UserID != userID) {
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	if e.snap.Status.Terminal() {
		snap := e.snap
		r.mu.Unlock()
		return &snap, ErrFinished
	}
	e.snap.Status = model.JobCanceled
	e.snap.ErrorCode = provider.CodeCanceled
	e.snap.Error = "Transcrição cancelada"
	e.snap.UpdatedAt = r.now().UTC()
	snap := e.snap
	cancel := e.cancel
	r.mu.Unlock()

	cancel()
	r.mirror(snap)
	r.logger.Info("job canceled", "job_id", id)
	return &snap, nil
}

// Wait blocks until every started job returned.
func (r *Registry) Wait() {
	r.wg.Wait()
}

// Shutdown cancels all running jobs and waits for them.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	for _, e := range r.jobs {
		if !e.snap.Status.Terminal() {
			e.cancel()
		}
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Registry) update(id string, fn func(*Snapshot)) {
	r.mu.Lock()
	e, ok := r.jobs[id]
	if !ok || e.snap.Status.Terminal() {
		r.mu.Unlock()
		return
	}
	fn(&e.snap)
	e.snap.UpdatedAt = r.now().UTC()
	snap := e.snap
	r.mu.Unlock()
	r.mirror(snap)
}

func (r *Registry) finish(id string, res *transcribe.Result, err error) {
	r.update(id, func(s *Snapshot) {
		if err != nil {
			s.Status = model.JobError
			s.Error = err.Error()
			s.ErrorCode = provider.Code(err)
			if s.ErrorCode == provider.CodeCanceled {
				s.Status = model.JobCanceled
			}
			return
		}
		s.Status = model.JobCompleted
		s.Result = res
	})
	if err != nil {
		r.logger.Warn("job failed", "job_id", id, "error", err)
	}
}

func (r *Registry) mirror(s Snapshot) {
	if r.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.cache.Put(ctx, s); err != nil {
		r.logger.Warn("job snapshot not mirrored", "job_id", s.ID, "error", err)
	}
}

func (r *Registry) evictLocked(now time.Time) {
	for id, e := range r.jobs {
		if e.snap.Status.Terminal() && now.Sub(e.snap.UpdatedAt) > r.retention {
			delete(r.jobs, id)
		}
	}
}
