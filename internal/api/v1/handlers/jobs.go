package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/middleware"
	"voxscribe/internal/api/v1/services"
)

// JobHandler handles background transcription jobs
type JobHandler struct {
	service services.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(service services.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// Submit handles POST /api/v1/jobs
//
// @Summary Start a background transcription
// @Description Accepts the same multipart body as the proxy and returns immediately with a job id
// @Tags jobs
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio file"
// @Param language formData string false "Language hint" default(pt)
// @Param diarization formData string false "Identify speakers" Enums(true,false)
// @Param timestamps formData string false "Return timed segments" Enums(true,false)
// @Success 202 {object} dto.JobAccepted "Job accepted"
// @Failure 400 {object} errors.APIError "Bad request - no file"
// @Failure 403 {object} errors.APIError "Plan limit reached"
// @Failure 413 {object} errors.APIError "File too large"
// @Router /jobs [post]
func (h *JobHandler) Submit(c *gin.Context) {
	req, closeFile, err := bindTranscribeRequest(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer closeFile()

	accepted, err := h.service.SubmitJob(c.Request.Context(), req)
	if err != nil {
		middleware.HandleError(c, errors.FromTranscriptionError(err))
		return
	}
	c.Header("Location", "/api/v1/jobs/"+accepted.ID)
	c.JSON(http.StatusAccepted, accepted)
}

// Get handles GET /api/v1/jobs/:id
//
// @Summary Get a job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse "Job snapshot"
// @Failure 404 {object} errors.APIError "Job not found"
// @Router /jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	snap, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Cancel handles DELETE /api/v1/jobs/:id
//
// @Summary Cancel a job
// @Description Stops the polling loop of a running job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse "Canceled job"
// @Failure 404 {object} errors.APIError "Job not found"
// @Failure 409 {object} errors.APIError "Job already finished"
// @Router /jobs/{id} [delete]
func (h *JobHandler) Cancel(c *gin.Context) {
	snap, err := h.service.CancelJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
