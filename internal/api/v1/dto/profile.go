package dto

import (
	"voxscribe/internal/api/errors"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/plans"
)

// UpdateProfileRequest carries the editable fields. Absent fields are kept.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Company     *string `json:"company" binding:"omitempty,max=100"`
	JobTitle    *string `json:"job_title" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	Plan        *string `json:"plan"`
}

// Validate performs domain-specific validation
func (r *UpdateProfileRequest) Validate() error {
	if r.Plan != nil {
		if _, ok := plans.Lookup(*r.Plan); !ok {
			return errors.NewValidationError("Invalid profile update", map[string]string{
				"plan": "unknown plan",
			})
		}
	}
	return nil
}

// ToUpdate converts the request into a model update.
func (r *UpdateProfileRequest) ToUpdate() model.ProfileUpdate {
	return model.ProfileUpdate{
		DisplayName: r.DisplayName,
		Company:     r.Company,
		JobTitle:    r.JobTitle,
		Phone:       r.Phone,
		Bio:         r.Bio,
		Plan:        r.Plan,
	}
}

// PreferencesRequest replaces the preferences object.
type PreferencesRequest struct {
	Preferences map[string]interface{} `json:"preferences" binding:"required"`
}

// OnboardingStepRequest moves the onboarding cursor.
type OnboardingStepRequest struct {
	Step *int `json:"step" binding:"required,min=0,max=20"`
}

// PlanUsageResponse is the caller's plan and quota.
type PlanUsageResponse struct {
	Plan      plans.Plan      `json:"plan"`
	Usage     plans.Usage     `json:"usage"`
	Remaining plans.Remaining `json:"remaining"`
}
