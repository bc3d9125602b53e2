package services

import (
	"context"
	"time"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/app/plans"
	"voxscribe/internal/app/repository"
	"voxscribe/internal/app/session"
)

// PlanServiceImpl implements the PlanService interface
type PlanServiceImpl struct {
	history repository.HistoryStore
	now     func() time.Time
}

// NewPlanService creates a plan service.
func NewPlanService(history repository.HistoryStore) *PlanServiceImpl {
	return &PlanServiceImpl{history: history, now: time.Now}
}

// ListPlans returns the catalogue.
func (s *PlanServiceImpl) ListPlans(ctx context.Context) []plans.Plan {
	return plans.All()
}

// GetPlan returns one catalogue entry.
func (s *PlanServiceImpl) GetPlan(ctx context.Context, id string) (*plans.Plan, error) {
	p, ok := plans.Lookup(id)
	if !ok {
		return nil, errors.NewNotFoundError("Plan")
	}
	return &p, nil
}

// Usage reports the caller's plan and this month's consumption.
func (s *PlanServiceImpl) Usage(ctx context.Context) (*dto.PlanUsageResponse, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	planID := session.FromContext(ctx).Plan

	usage, err := monthlyUsage(ctx, s.history, userID, s.now())
	if err != nil {
		return nil, storeError(err, "History", "Failed to compute usage")
	}
	return &dto.PlanUsageResponse{
		Plan:      plans.Get(planID),
		Usage:     usage,
		Remaining: plans.RemainingFor(planID, usage),
	}, nil
}
