package model

import "time"

// UserProfile holds per-account data. The avatar itself lives in object
// storage; only its public URL is kept here.
type UserProfile struct {
	UserID              string                 `json:"user_id"`
	DisplayName         string                 `json:"display_name"`
	AvatarURL           string                 `json:"avatar_url,omitempty"`
	Company             string                 `json:"company,omitempty"`
	JobTitle            string                 `json:"job_title,omitempty"`
	Phone               string                 `json:"phone,omitempty"`
	Bio                 string                 `json:"bio,omitempty"`
	Preferences         map[string]interface{} `json:"preferences"`
	Plan                string                 `json:"plan"`
	OnboardingCompleted bool                   `json:"onboarding_completed"`
	OnboardingStep      int                    `json:"onboarding_step"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// ProfileUpdate carries the editable profile fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	DisplayName *string
	Company     *string
	JobTitle    *string
	Phone       *string
	Bio         *string
	AvatarURL   *string
	Plan        *string
}

// Apply copies the non-nil fields of u onto p.
func (u ProfileUpdate) Apply(p *UserProfile) {
	if u.DisplayName != nil {
		p.DisplayName = *u.DisplayName
	}
	if u.Company != nil {
		p.Company = *u.Company
	}
	if u.JobTitle != nil {
		p.JobTitle = *u.JobTitle
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	if u.Plan != nil {
		p.Plan = *u.Plan
	}
}
