package repository

import (
	"context"

	"voxscribe/internal/app/model"
)

// ProfileStore persists user profiles. Writes replace the whole row; the
// last writer wins.
type ProfileStore interface {
	// GetProfile returns ErrNotFound when the user has no profile yet.
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	SaveProfile(ctx context.Context, p *model.UserProfile) error
}
