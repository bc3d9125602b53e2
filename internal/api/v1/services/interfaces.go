package services

import (
	"context"
	"io"

	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/app/export"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/plans"
)

// The caller of every method is read from the session in ctx.

// TranscriptionService runs the synchronous proxy flow.
type TranscriptionService interface {
	Transcribe(ctx context.Context, req *dto.TranscribeRequest) (*dto.TranscribeResponse, error)
}

// JobService runs transcriptions in the background.
type JobService interface {
	SubmitJob(ctx context.Context, req *dto.TranscribeRequest) (*dto.JobAccepted, error)
	GetJob(ctx context.Context, id string) (*dto.JobResponse, error)
	CancelJob(ctx context.Context, id string) (*dto.JobResponse, error)
}

// HistoryService manages the caller's transcription history.
type HistoryService interface {
	SaveRecord(ctx context.Context, req *dto.SaveHistoryRequest) (*model.TranscriptionRecord, error)
	ListRecords(ctx context.Context, query dto.ListHistoryQuery) (*dto.HistoryListResponse, error)
	GetRecord(ctx context.Context, id string) (*model.TranscriptionRecord, error)
	UpdateText(ctx context.Context, id, text string) (*model.TranscriptionRecord, error)
	DeleteRecord(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, term string) (*dto.SearchResponse, error)
	Stats(ctx context.Context) (*model.UserStats, error)
}

// ExportService renders history in download formats.
type ExportService interface {
	ExportHistory(ctx context.Context, format export.Format, w io.Writer) error
	ExportRecord(ctx context.Context, id string, format export.Format, w io.Writer) (*model.TranscriptionRecord, error)
}

// ProfileService manages the caller's profile.
type ProfileService interface {
	GetProfile(ctx context.Context) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*model.UserProfile, error)
	UpdatePreferences(ctx context.Context, prefs map[string]interface{}) (*model.UserProfile, error)
	CompleteOnboarding(ctx context.Context) (*model.UserProfile, error)
	SetOnboardingStep(ctx context.Context, step int) (*model.UserProfile, error)
	UploadAvatar(ctx context.Context, data []byte) (*model.UserProfile, error)
	DeleteAvatar(ctx context.Context) (*model.UserProfile, error)
	PlanOf(ctx context.Context, userID string) string
}

// PlanService exposes the plan catalogue and the caller's quota.
type PlanService interface {
	ListPlans(ctx context.Context) []plans.Plan
	GetPlan(ctx context.Context, id string) (*plans.Plan, error)
	Usage(ctx context.Context) (*dto.PlanUsageResponse, error)
}
