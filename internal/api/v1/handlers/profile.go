package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/middleware"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/api/v1/services"
	"voxscribe/internal/app/util/files"
)

// ProfileHandler handles the caller's profile
type ProfileHandler struct {
	service services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Get handles GET /api/v1/profile
//
// @Summary Get profile
// @Description Returns the caller's profile, creating it on first access
// @Tags profile
// @Produce json
// @Success 200 {object} model.UserProfile "Profile"
// @Failure 401 {object} errors.APIError "Not authenticated"
// @Router /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.service.GetProfile(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update handles PATCH /api/v1/profile
//
// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} model.UserProfile "Profile"
// @Failure 422 {object} errors.APIError "Validation error"
// @Router /profile [patch]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdatePreferences handles PUT /api/v1/profile/preferences
//
// @Summary Replace preferences
// @Tags profile
// @Accept json
// @Produce json
// @Param preferences body dto.PreferencesRequest true "Preferences"
// @Success 200 {object} model.UserProfile "Profile"
// @Failure 422 {object} errors.APIError "Validation error"
// @Router /profile/preferences [put]
func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	var req dto.PreferencesRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	p, err := h.service.UpdatePreferences(c.Request.Context(), req.Preferences)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CompleteOnboarding handles POST /api/v1/profile/onboarding/complete
//
// @Summary Finish onboarding
// @Tags profile
// @Produce json
// @Success 200 {object} model.UserProfile "Profile"
// @Router /profile/onboarding/complete [post]
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	p, err := h.service.CompleteOnboarding(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SetOnboardingStep handles PUT /api/v1/profile/onboarding/step
//
// @Summary Move the onboarding cursor
// @Tags profile
// @Accept json
// @Produce json
// @Param step body dto.OnboardingStepRequest true "Step"
// @Success 200 {object} model.UserProfile "Profile"
// @Failure 422 {object} errors.APIError "Validation error"
// @Router /profile/onboarding/step [put]
func (h *ProfileHandler) SetOnboardingStep(c *gin.Context) {
	var req dto.OnboardingStepRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	p, err := h.service.SetOnboardingStep(c.Request.Context(), *req.Step)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UploadAvatar handles POST /api/v1/profile/avatar
//
// @Summary Upload avatar
// @Description JPEG, PNG, GIF or WebP up to 2MB
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Image"
// @Success 200 {object} model.UserProfile "Profile"
// @Failure 400 {object} errors.APIError "No file"
// @Failure 413 {object} errors.APIError "File too large"
// @Failure 422 {object} errors.APIError "Not an image"
// @Router /profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile("avatar")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Selecione um arquivo primeiro"))
		return
	}
	if header.Size > files.MaxAvatarSize {
		middleware.HandleError(c, errors.NewPayloadTooLargeError("Imagem muito grande. Tamanho máximo: 2MB"))
		return
	}

	file, err := header.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Selecione um arquivo primeiro"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, files.MaxAvatarSize+1))
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Falha ao ler a imagem"))
		return
	}

	p, err := h.service.UploadAvatar(c.Request.Context(), data)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteAvatar handles DELETE /api/v1/profile/avatar
//
// @Summary Remove avatar
// @Tags profile
// @Produce json
// @Success 200 {object} model.UserProfile "Profile"
// @Router /profile/avatar [delete]
func (h *ProfileHandler) DeleteAvatar(c *gin.Context) {
	p, err := h.service.DeleteAvatar(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
