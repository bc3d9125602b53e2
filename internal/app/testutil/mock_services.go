package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/app/export"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/plans"
)

// MockServices contains all mock services for testing
type MockServices struct {
	TranscriptionService *MockTranscriptionService
	JobService           *MockJobService
	HistoryService       *MockHistoryService
	ExportService        *MockExportService
	ProfileService       *MockProfileService
	PlanService          *MockPlanService
}

// NewMockServices creates a new instance of mock services
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		TranscriptionService: NewMockTranscriptionService(t),
		JobService:           NewMockJobService(t),
		HistoryService:       NewMockHistoryService(t),
		ExportService:        NewMockExportService(t),
		ProfileService:       NewMockProfileService(t),
		PlanService:          NewMockPlanService(t),
	}
}

// AssertExpectations checks every mock.
func (ms *MockServices) AssertExpectations(t *testing.T) {
	ms.TranscriptionService.AssertExpectations(t)
	ms.JobService.AssertExpectations(t)
	ms.HistoryService.AssertExpectations(t)
	ms.ExportService.AssertExpectations(t)
	ms.ProfileService.AssertExpectations(t)
	ms.PlanService.AssertExpectations(t)
}

// MockTranscriptionService is a mock implementation of TranscriptionService
type MockTranscriptionService struct {
	mock.Mock
}

func NewMockTranscriptionService(t *testing.T) *MockTranscriptionService {
	m := &MockTranscriptionService{}
	m.Test(t)
	return m
}

func (m *MockTranscriptionService) Transcribe(ctx context.Context, req *dto.TranscribeRequest) (*dto.TranscribeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranscribeResponse), args.Error(1)
}

// MockJobService is a mock implementation of JobService
type MockJobService struct {
	mock.Mock
}

func NewMockJobService(t *testing.T) *MockJobService {
	m := &MockJobService{}
	m.Test(t)
	return m
}

func (m *MockJobService) SubmitJob(ctx context.Context, req *dto.TranscribeRequest) (*dto.JobAccepted, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.JobAccepted), args.Error(1)
}

func (m *MockJobService) GetJob(ctx context.Context, id string) (*dto.JobResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.JobResponse), args.Error(1)
}

func (m *MockJobService) CancelJob(ctx context.Context, id string) (*dto.JobResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.JobResponse), args.Error(1)
}

// MockHistoryService is a mock implementation of HistoryService
type MockHistoryService struct {
	mock.Mock
}

func NewMockHistoryService(t *testing.T) *MockHistoryService {
	m := &MockHistoryService{}
	m.Test(t)
	return m
}

func (m *MockHistoryService) record(args mock.Arguments) (*model.TranscriptionRecord, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranscriptionRecord), args.Error(1)
}

func (m *MockHistoryService) SaveRecord(ctx context.Context, req *dto.SaveHistoryRequest) (*model.TranscriptionRecord, error) {
	return m.record(m.Called(ctx, req))
}

func (m *MockHistoryService) ListRecords(ctx context.Context, query dto.ListHistoryQuery) (*dto.HistoryListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.HistoryListResponse), args.Error(1)
}

func (m *MockHistoryService) GetRecord(ctx context.Context, id string) (*model.TranscriptionRecord, error) {
	return m.record(m.Called(ctx, id))
}

func (m *MockHistoryService) UpdateText(ctx context.Context, id, text string) (*model.TranscriptionRecord, error) {
	return m.record(m.Called(ctx, id, text))
}

func (m *MockHistoryService) DeleteRecord(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockHistoryService) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHistoryService) Search(ctx context.Context, term string) (*dto.SearchResponse, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SearchResponse), args.Error(1)
}

func (m *MockHistoryService) Stats(ctx context.Context) (*model.UserStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserStats), args.Error(1)
}

// MockExportService is a mock implementation of ExportService. Set
// Payload to control what is written on success.
type MockExportService struct {
	mock.Mock
	Payload []byte
}

func NewMockExportService(t *testing.T) *MockExportService {
	m := &MockExportService{}
	m.Test(t)
	return m
}

func (m *MockExportService) ExportHistory(ctx context.Context, format export.Format, w io.Writer) error {
	args := m.Called(ctx, format)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := w.Write(m.Payload)
	return err
}

func (m *MockExportService) ExportRecord(ctx context.Context, id string, format export.Format, w io.Writer) (*model.TranscriptionRecord, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if _, err := w.Write(m.Payload); err != nil {
		return nil, err
	}
	return args.Get(0).(*model.TranscriptionRecord), args.Error(1)
}

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	mock.Mock
}

func NewMockProfileService(t *testing.T) *MockProfileService {
	m := &MockProfileService{}
	m.Test(t)
	return m
}

func (m *MockProfileService) profile(args mock.Arguments) (*model.UserProfile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

func (m *MockProfileService) GetProfile(ctx context.Context) (*model.UserProfile, error) {
	return m.profile(m.Called(ctx))
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*model.UserProfile, error) {
	return m.profile(m.Called(ctx, req))
}

func (m *MockProfileService) UpdatePreferences(ctx context.Context, prefs map[string]interface{}) (*model.UserProfile, error) {
	return m.profile(m.Called(ctx, prefs))
}

func (m *MockProfileService) CompleteOnboarding(ctx context.Context) (*model.UserProfile, error) {
	return m.profile(m.Called(ctx))
}

func (m *MockProfileService) SetOnboardingStep(ctx context.Context, step int) (*model.UserProfile, error) {
	return m.profile(m.Called(ctx, step))
}

func (m *MockProfileService) UploadAvatar(ctx context.Context, data []byte) (*model.UserProfile, error) {
	return m.profile(m.Called(ctx, data))
}

func (m *MockProfileService) DeleteAvatar(ctx context.Context) (*model.UserProfile, error) {
	return m.profile(m.Called(ctx))
}

func (m *MockProfileService) PlanOf(ctx context.Context, userID string) string {
	return m.Called(ctx, userID).String(0)
}

// MockPlanService is a mock implementation of PlanService
type MockPlanService struct {
	mock.Mock
}

func NewMockPlanService(t *testing.T) *MockPlanService {
	m := &MockPlanService{}
	m.Test(t)
	return m
}

func (m *MockPlanService) ListPlans(ctx context.Context) []plans.Plan {
	return m.Called(ctx).Get(0).([]plans.Plan)
}

func (m *MockPlanService) GetPlan(ctx context.Context, id string) (*plans.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plans.Plan), args.Error(1)
}

func (m *MockPlanService) Usage(ctx context.Context) (*dto.PlanUsageResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PlanUsageResponse), args.Error(1)
}
