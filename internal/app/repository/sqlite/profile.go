package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"voxscribe/internal/app/model"
	"voxscribe/internal/app/repository"
)

const profileColumns = `user_id, display_name, avatar_url, company, job_title, phone, bio, preferences,
	plan, onboarding_completed, onboarding_step, created_at, updated_at`

// GetProfile implements repository.ProfileStore.
func (s *SQLiteDB) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var (
		p     model.UserProfile
		prefs string
	)
	err := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.DisplayName, &p.AvatarURL, &p.Company, &p.JobTitle, &p.Phone, &p.Bio, &prefs,
			&p.Plan, &p.OnboardingCompleted, &p.OnboardingStep, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	p.Preferences = map[string]interface{}{}
	if prefs != "" {
		if err := json.Unmarshal([]byte(prefs), &p.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}
	return &p, nil
}

// SaveProfile implements repository.ProfileStore.
func (s *SQLiteDB) SaveProfile(ctx context.Context, p *model.UserProfile) error {
	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO user_profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.DisplayName, p.AvatarURL, p.Company, p.JobTitle, p.Phone, p.Bio, string(prefs),
		p.Plan, p.OnboardingCompleted, p.OnboardingStep, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
