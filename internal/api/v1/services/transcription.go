package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/plans"
	"voxscribe/internal/app/repository"
	"voxscribe/internal/app/session"
	"voxscribe/internal/app/transcribe"
	"voxscribe/internal/app/util/files"
)

// TranscriptionServiceImpl implements the TranscriptionService interface
type TranscriptionServiceImpl struct {
	pipeline *transcribe.Pipeline
	history  repository.HistoryStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewTranscriptionService creates a transcription service. history may be
// nil, in which case nothing is persisted.
func NewTranscriptionService(pipeline *transcribe.Pipeline, history repository.HistoryStore, logger *slog.Logger) *TranscriptionServiceImpl {
	return &TranscriptionServiceImpl{
		pipeline: pipeline,
		history:  history,
		logger:   logger,
		now:      time.Now,
	}
}

// Transcribe validates the upload, checks the caller's plan and runs the
// pipeline. Authenticated results are saved to history; a failed save is
// logged and does not fail the call.
func (s *TranscriptionServiceImpl) Transcribe(ctx context.Context, req *dto.TranscribeRequest) (*dto.TranscribeResponse, error) {
	if err := validateUpload(req); err != nil {
		return nil, err
	}
	sess := session.FromContext(ctx)
	if err := checkPlan(ctx, s.history, sess, req, s.now()); err != nil {
		return nil, err
	}

	res, err := s.pipeline.Run(ctx, pipelineInput(req), nil)
	if err != nil {
		return nil, err
	}

	resp := &dto.TranscribeResponse{
		Success:     true,
		Text:        res.Text,
		Language:    res.Language,
		Segments:    res.Segments,
		Approximate: res.ApproximateSegments,
	}
	if sess.Authenticated() {
		resp.RecordID = persistResult(ctx, s.history, s.logger, sess.UserID, req, res, s.pipeline.Vendor().Name())
	}
	return resp, nil
}

func validateUpload(req *dto.TranscribeRequest) error {
	if req == nil || req.File == nil {
		return errors.NewBadRequestError("Nenhum arquivo foi enviado")
	}
	if result := files.ValidateAudioFile(req.FileName, req.FileSize); !result.IsValid {
		if req.FileSize > files.MaxAudioSize && len(result.Errors) == 1 {
			return errors.NewPayloadTooLargeError(result.Error())
		}
		return errors.NewValidationError(result.Error(), map[string]string{"file": result.Error()})
	}
	return nil
}

func pipelineInput(req *dto.TranscribeRequest) transcribe.Input {
	return transcribe.Input{
		Audio:       req.File,
		ContentType: req.ContentType,
		Language:    req.Language,
		Diarization: req.Diarization,
		Timestamps:  req.Timestamps,
	}
}

// checkPlan enforces plan limits for authenticated callers. Anonymous calls
// are not limited.
func checkPlan(ctx context.Context, history repository.HistoryStore, sess session.Session, req *dto.TranscribeRequest, now time.Time) error {
	if !sess.Authenticated() {
		return nil
	}
	planID := sess.Plan
	if req.Diarization && !plans.CanPerform(planID, plans.ActionSpeakerDiarization, plans.Usage{}) {
		return errors.NewForbiddenError("Seu plano não inclui identificação de falantes")
	}
	if req.Timestamps && !plans.CanPerform(planID, plans.ActionTimestamps, plans.Usage{}) {
		return errors.NewForbiddenError("Seu plano não inclui timestamps")
	}
	if !plans.AllowsFileSize(planID, req.FileSize) {
		return errors.NewForbiddenError(fmt.Sprintf("Arquivo excede o limite do plano %s", plans.Get(planID).Name))
	}

	usage, err := monthlyUsage(ctx, history, sess.UserID, now)
	if err != nil {
		return errors.WrapError(err, errors.KindServiceUnavailable, "Não foi possível verificar o uso do plano")
	}
	if !plans.CanPerform(planID, plans.ActionTranscribe, usage) {
		return errors.NewForbiddenError("Limite mensal de transcrições atingido")
	}
	return nil
}

// monthlyUsage counts the records userID created since the start of now's
// month. Records come newest first, so paging stops at the first older one.
func monthlyUsage(ctx context.Context, history repository.HistoryStore, userID string, now time.Time) (plans.Usage, error) {
	if history == nil {
		return plans.Usage{}, nil
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	const pageSize = 100
	count := 0
	for offset := 0; ; offset += pageSize {
		recs, total, err := history.List(ctx, userID, pageSize, offset)
		if err != nil {
			return plans.Usage{}, err
		}
		for _, rec := range recs {
			if rec.CreatedAt.Before(start) {
				return plans.Usage{TranscriptionsThisMonth: count}, nil
			}
			count++
		}
		if len(recs) == 0 || offset+len(recs) >= total {
			return plans.Usage{TranscriptionsThisMonth: count}, nil
		}
	}
}

// persistResult saves a finished transcription and returns the record id,
// or "" when it could not be saved.
func persistResult(ctx context.Context, history repository.HistoryStore, logger *slog.Logger, userID string, req *dto.TranscribeRequest, res *transcribe.Result, vendor string) string {
	if history == nil {
		return ""
	}

	meta := map[string]interface{}{
		"vendor":        vendor,
		"vendor_job_id": res.VendorJobID,
	}
	if len(res.Segments) > 0 {
		meta["segments"] = res.Segments
	}
	if res.ApproximateSegments {
		meta["approximate_segments"] = true
	}

	rec := &model.TranscriptionRecord{
		FileName:       req.FileName,
		FileSize:       req.FileSize,
		FileType:       req.ContentType,
		Transcription:  res.Text,
		Language:       res.Language,
		HasDiarization: req.Diarization,
		HasTimestamps:  len(res.Segments) > 0,
		DurationSec:    res.DurationSec,
		Metadata:       meta,
	}

	saved, err := history.Save(ctx, userID, rec)
	if err != nil {
		logger.ErrorContext(ctx, "failed to save transcription to history",
			"user_id", userID,
			"vendor_job_id", res.VendorJobID,
			"error", err)
		return ""
	}
	return saved.ID
}
