package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/app/jobs"
	"voxscribe/internal/app/repository"
	"voxscribe/internal/app/session"
	"voxscribe/internal/app/transcribe"
)

// JobServiceImpl implements the JobService interface
type JobServiceImpl struct {
	registry *jobs.Registry
	pipeline *transcribe.Pipeline
	history  repository.HistoryStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewJobService creates a job service.
func NewJobService(registry *jobs.Registry, pipeline *transcribe.Pipeline, history repository.HistoryStore, logger *slog.Logger) *JobServiceImpl {
	return &JobServiceImpl{
		registry: registry,
		pipeline: pipeline,
		history:  history,
		logger:   logger,
		now:      time.Now,
	}
}

// SubmitJob buffers the upload and starts the pipeline in the background.
// The job outlives the request; CancelJob, shutdown or the transcription
// deadline stops it.
func (s *JobServiceImpl) SubmitJob(ctx context.Context, req *dto.TranscribeRequest) (*dto.JobAccepted, error) {
	if err := validateUpload(req); err != nil {
		return nil, err
	}
	sess := session.FromContext(ctx)
	if err := checkPlan(ctx, s.history, sess, req, s.now()); err != nil {
		return nil, err
	}

	audio, err := io.ReadAll(req.File)
	if err != nil {
		return nil, errors.NewBadRequestError(fmt.Sprintf("Falha ao ler o arquivo: %v", err))
	}
	buffered := *req
	buffered.File = nil

	snap := s.registry.Submit(jobs.Spec{
		UserID:      sess.UserID,
		FileName:    req.FileName,
		Language:    transcribe.MapLanguage(req.Language),
		Diarization: req.Diarization,
		Timeout:     s.pipeline.Timeout(),
	}, func(jobCtx context.Context, onStatus transcribe.StatusFunc) (*transcribe.Result, error) {
		in := pipelineInput(&buffered)
		in.Audio = bytes.NewReader(audio)

		res, err := s.pipeline.Run(jobCtx, in, onStatus)
		if err != nil {
			return nil, err
		}
		if sess.Authenticated() {
			persistResult(context.WithoutCancel(jobCtx), s.history, s.logger, sess.UserID, &buffered, res, s.pipeline.Vendor().Name())
		}
		return res, nil
	})

	return &dto.JobAccepted{ID: snap.ID, Status: snap.Status}, nil
}

// GetJob returns the caller's job.
func (s *JobServiceImpl) GetJob(ctx context.Context, id string) (*dto.JobResponse, error) {
	snap, err := s.registry.Get(ctx, session.FromContext(ctx).UserID, id)
	if err != nil {
		return nil, jobError(err)
	}
	return snap, nil
}

// CancelJob stops the caller's running job.
func (s *JobServiceImpl) CancelJob(ctx context.Context, id string) (*dto.JobResponse, error) {
	snap, err := s.registry.Cancel(session.FromContext(ctx).UserID, id)
	if err != nil {
		return nil, jobError(err)
	}
	return snap, nil
}

func jobError(err error) error {
	switch {
	case stderrors.Is(err, jobs.ErrNotFound):
		return errors.NewNotFoundError("Job")
	case stderrors.Is(err, jobs.ErrFinished):
		return errors.NewConflictError("Transcrição já finalizada")
	default:
		return err
	}
}
