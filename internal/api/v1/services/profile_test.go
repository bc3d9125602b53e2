package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/app/plans"
	"voxscribe/internal/app/testutil"
)

func newProfileService(t *testing.T) (*ProfileServiceImpl, *MockStorageService) {
	storage := NewMockStorageService()
	svc := NewProfileService(testutil.SetupTestSQLite(t), storage, testutil.NewDiscardLogger())
	return svc, storage
}

func TestProfileService_CreatesOnFirstAccess(t *testing.T) {
	svc, _ := newProfileService(t)
	ctx := userCtx("user-1", "")

	p, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, plans.Free, p.Plan)
	assert.NotNil(t, p.Preferences)

	assert.Equal(t, plans.Free, svc.PlanOf(context.Background(), "user-1"))
	assert.Equal(t, plans.Free, svc.PlanOf(context.Background(), "nobody"))

	_, err = svc.GetProfile(context.Background())
	requireKind(t, err, errors.KindUnauthorized)
}

func TestProfileService_Updates(t *testing.T) {
	svc, _ := newProfileService(t)
	ctx := userCtx("user-1", "")

	name, plan := "Ana", plans.Pro
	p, err := svc.UpdateProfile(ctx, &dto.UpdateProfileRequest{DisplayName: &name, Plan: &plan})
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.DisplayName)
	assert.Equal(t, plans.Pro, svc.PlanOf(context.Background(), "user-1"))

	p, err = svc.UpdatePreferences(ctx, map[string]interface{}{"theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, "dark", p.Preferences["theme"])
	assert.Equal(t, "Ana", p.DisplayName)

	p, err = svc.SetOnboardingStep(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.OnboardingStep)

	_, err = svc.SetOnboardingStep(ctx, -1)
	requireKind(t, err, errors.KindValidation)

	p, err = svc.CompleteOnboarding(ctx)
	require.NoError(t, err)
	assert.True(t, p.OnboardingCompleted)
	assert.Zero(t, p.OnboardingStep)
}

func TestProfileService_Avatar(t *testing.T) {
	svc, storage := newProfileService(t)
	ctx := userCtx("user-1", "")
	clock := time.UnixMilli(1700000000000)
	svc.now = func() time.Time { return clock }

	p, err := svc.UploadAvatar(ctx, testutil.PNGImage)
	require.NoError(t, err)
	firstKey := "avatars/user-1/1700000000000.png"
	assert.True(t, storage.Has(firstKey))
	assert.True(t, strings.HasSuffix(p.AvatarURL, firstKey))

	clock = clock.Add(time.Second)
	p, err = svc.UploadAvatar(ctx, testutil.PNGImage)
	require.NoError(t, err)
	assert.False(t, storage.Has(firstKey), "previous avatar should be removed")
	secondKey := fmt.Sprintf("avatars/user-1/%d.png", clock.UnixMilli())
	assert.True(t, storage.Has(secondKey))

	p, err = svc.DeleteAvatar(ctx)
	require.NoError(t, err)
	assert.Empty(t, p.AvatarURL)
	assert.False(t, storage.Has(secondKey))

	_, err = svc.UploadAvatar(ctx, []byte("not an image"))
	requireKind(t, err, errors.KindValidation)
}
