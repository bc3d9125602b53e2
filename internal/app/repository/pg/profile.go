package pg

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
func (pdb *PostgresDB) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var (
		p     model.UserProfile
		prefs []byte
	)
	err := pdb.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.DisplayName, &p.AvatarURL, &p.Company, &p.JobTitle, &p.Phone, &p.Bio, &prefs,
			&p.Plan, &p.OnboardingCompleted, &p.OnboardingStep, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	p.Preferences = map[string]interface{}{}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &p.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}
	return &p, nil
}

// SaveProfile implements repository.ProfileStore.
func (pdb *PostgresDB) SaveProfile(ctx context.Context, p *model.UserProfile) error {
	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	_, err = pdb.db.ExecContext(ctx, `INSERT INTO user_profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			company = EXCLUDED.company,
			job_title = EXCLUDED.job_title,
			phone = EXCLUDED.phone,
			bio = EXCLUDED.bio,
			preferences = EXCLUDED.preferences,
			plan = EXCLUDED.plan,
			onboarding_completed = EXCLUDED.onboarding_completed,
			onboarding_step = EXCLUDED.onboarding_step,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.DisplayName, p.AvatarURL, p.Company, p.JobTitle, p.Phone, p.Bio, prefs,
		p.Plan, p.OnboardingCompleted, p.OnboardingStep, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
