package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/plans"
	"voxscribe/internal/app/repository"
	"voxscribe/internal/app/util/files"
)

// ProfileServiceImpl implements the ProfileService interface
type ProfileServiceImpl struct {
	store   repository.ProfileStore
	storage StorageService
	logger  *slog.Logger
	now     func() time.Time
}

// NewProfileService creates a profile service.
func NewProfileService(store repository.ProfileStore, storage StorageService, logger *slog.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		store:   store,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// load returns userID's profile, creating it on first access.
func (s *ProfileServiceImpl) load(ctx context.Context, userID string) (*model.UserProfile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to load profile")
	}

	now := s.now().UTC()
	p = &model.UserProfile{
		UserID:      userID,
		Preferences: map[string]interface{}{},
		Plan:        plans.Free,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to create profile")
	}
	return p, nil
}

// mutate loads the caller's profile, applies fn and saves it.
func (s *ProfileServiceImpl) mutate(ctx context.Context, fn func(*model.UserProfile)) (*model.UserProfile, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	fn(p)
	p.UpdatedAt = s.now().UTC()
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, errors.WrapError(err, errors.KindInternal, "Failed to save profile")
	}
	return p, nil
}

// GetProfile returns the caller's profile.
func (s *ProfileServiceImpl) GetProfile(ctx context.Context) (*model.UserProfile, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, userID)
}

// UpdateProfile applies the non-nil fields of req.
func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*model.UserProfile, error) {
	update := req.ToUpdate()
	return s.mutate(ctx, update.Apply)
}

// UpdatePreferences replaces the preferences object.
func (s *ProfileServiceImpl) UpdatePreferences(ctx context.Context, prefs map[string]interface{}) (*model.UserProfile, error) {
	if prefs == nil {
		prefs = map[string]interface{}{}
	}
	return s.mutate(ctx, func(p *model.UserProfile) { p.Preferences = prefs })
}

// CompleteOnboarding marks onboarding done and resets the step.
func (s *ProfileServiceImpl) CompleteOnboarding(ctx context.Context) (*model.UserProfile, error) {
	return s.mutate(ctx, func(p *model.UserProfile) {
		p.OnboardingCompleted = true
		p.OnboardingStep = 0
	})
}

// SetOnboardingStep records the onboarding position.
func (s *ProfileServiceImpl) SetOnboardingStep(ctx context.Context, step int) (*model.UserProfile, error) {
	if step < 0 {
		return nil, errors.NewValidationError("Invalid onboarding step", map[string]string{"step": "must not be negative"})
	}
	return s.mutate(ctx, func(p *model.UserProfile) { p.OnboardingStep = step })
}

// UploadAvatar stores the image as avatars/<user>/<unix-ms>.<ext> and
// points the profile at it. The previous avatar is removed best-effort.
func (s *ProfileServiceImpl) UploadAvatar(ctx context.Context, data []byte) (*model.UserProfile, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	contentType, ext, err := files.ValidateAvatar(data)
	if err != nil {
		return nil, errors.NewValidationError(err.Error(), map[string]string{"avatar": err.Error()})
	}

	key := fmt.Sprintf("avatars/%s/%d%s", userID, s.now().UnixMilli(), ext)
	uploaded, err := s.storage.PutObject(ctx, key, data, contentType)
	if err != nil {
		return nil, errors.WrapError(err, errors.KindServiceUnavailable, "Falha ao enviar avatar")
	}

	var previous string
	p, err := s.mutate(ctx, func(p *model.UserProfile) {
		previous = p.AvatarURL
		p.AvatarURL = uploaded.URL
	})
	if err != nil {
		return nil, err
	}
	if previous != "" && previous != uploaded.URL {
		s.removeObject(ctx, previous)
	}
	return p, nil
}

// DeleteAvatar removes the stored image and clears the URL.
func (s *ProfileServiceImpl) DeleteAvatar(ctx context.Context) (*model.UserProfile, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.AvatarURL == "" {
		return p, nil
	}

	key, ok := s.storage.KeyFromURL(p.AvatarURL)
	if !ok {
		return nil, errors.NewBadRequestError("URL inválida")
	}
	if err := s.storage.DeleteFile(ctx, key); err != nil {
		return nil, errors.WrapError(err, errors.KindServiceUnavailable, "Falha ao remover avatar")
	}
	return s.mutate(ctx, func(p *model.UserProfile) { p.AvatarURL = "" })
}

// PlanOf returns userID's plan, or free when the profile cannot be read.
// Profiles are not created here.
func (s *ProfileServiceImpl) PlanOf(ctx context.Context, userID string) string {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if !stderrors.Is(err, repository.ErrNotFound) {
			s.logger.WarnContext(ctx, "plan lookup failed", "user_id", userID, "error", err)
		}
		return plans.Free
	}
	if strings.TrimSpace(p.Plan) == "" {
		return plans.Free
	}
	return p.Plan
}

func (s *ProfileServiceImpl) removeObject(ctx context.Context, url string) {
	key, ok := s.storage.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.storage.DeleteFile(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "failed to remove previous avatar", "key", key, "error", err)
	}
}
