package handlers

import (
	"bytes"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/middleware"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/api/v1/services"
	"voxscribe/internal/app/export"
)

// HistoryHandler handles the caller's transcription history
type HistoryHandler struct {
	history services.HistoryService
	export  services.ExportService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history services.HistoryService, export services.ExportService) *HistoryHandler {
	return &HistoryHandler{history: history, export: export}
}

// List handles GET /api/v1/history
//
// @Summary List history
// @Description Returns the caller's transcriptions, newest first
// @Tags history
// @Produce json
// @Param limit query int false "Items per page" default(20) minimum(1) maximum(100)
// @Param offset query int false "Items to skip" default(0) minimum(0)
// @Success 200 {object} dto.HistoryListResponse "One page of history"
// @Failure 401 {object} errors.APIError "Not authenticated"
// @Header 200 {string} X-Total-Count "Total number of records"
// @Router /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var query dto.ListHistoryQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.history.ListRecords(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(resp.Total))
	c.JSON(http.StatusOK, resp)
}

// Save handles POST /api/v1/history
//
// @Summary Save a transcription
// @Description Stores a client-built record. Sending an existing id replaces it.
// @Tags history
// @Accept json
// @Produce json
// @Param record body dto.SaveHistoryRequest true "Record"
// @Success 201 {object} model.TranscriptionRecord "Saved record"
// @Failure 401 {object} errors.APIError "Not authenticated"
// @Failure 422 {object} errors.APIError "Validation error"
// @Router /history [post]
func (h *HistoryHandler) Save(c *gin.Context) {
	var req dto.SaveHistoryRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	rec, err := h.history.SaveRecord(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Get handles GET /api/v1/history/:id
//
// @Summary Get a transcription
// @Tags history
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} model.TranscriptionRecord "Record"
// @Failure 404 {object} errors.APIError "Record not found"
// @Router /history/{id} [get]
func (h *HistoryHandler) Get(c *gin.Context) {
	rec, err := h.history.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdateText handles PATCH /api/v1/history/:id
//
// @Summary Edit a transcript
// @Description Replaces the text and recomputes word and character counts
// @Tags history
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param body body dto.UpdateTextRequest true "New text"
// @Success 200 {object} model.TranscriptionRecord "Updated record"
// @Failure 404 {object} errors.APIError "Record not found"
// @Failure 422 {object} errors.APIError "Validation error"
// @Router /history/{id} [patch]
func (h *HistoryHandler) UpdateText(c *gin.Context) {
	var req dto.UpdateTextRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	rec, err := h.history.UpdateText(c.Request.Context(), c.Param("id"), req.Transcription)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /api/v1/history/:id
//
// @Summary Delete a transcription
// @Tags history
// @Param id path string true "Record ID"
// @Success 204 "Deleted"
// @Failure 404 {object} errors.APIError "Record not found"
// @Router /history/{id} [delete]
func (h *HistoryHandler) Delete(c *gin.Context) {
	if err := h.history.DeleteRecord(c.Request.Context(), c.Param("id")); err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAll handles DELETE /api/v1/history
//
// @Summary Clear history
// @Tags history
// @Success 204 "Cleared"
// @Failure 401 {object} errors.APIError "Not authenticated"
// @Router /history [delete]
func (h *HistoryHandler) DeleteAll(c *gin.Context) {
	if err := h.history.DeleteAll(c.Request.Context()); err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search handles GET /api/v1/history/search
//
// @Summary Search history
// @Description Case-insensitive match on file name and transcript
// @Tags history
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} dto.SearchResponse "Matches"
// @Failure 400 {object} errors.APIError "Missing term"
// @Router /history/search [get]
func (h *HistoryHandler) Search(c *gin.Context) {
	var query dto.SearchHistoryQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.history.Search(c.Request.Context(), query.Q)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats handles GET /api/v1/stats
//
// @Summary History statistics
// @Tags history
// @Produce json
// @Success 200 {object} dto.StatsResponse "Totals"
// @Failure 401 {object} errors.APIError "Not authenticated"
// @Router /stats [get]
func (h *HistoryHandler) Stats(c *gin.Context) {
	stats, err := h.history.Stats(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{UserStats: *stats})
}

// Export handles GET /api/v1/history/export
//
// @Summary Export history
// @Description Downloads the whole history. xlsx requires a paid plan.
// @Tags history
// @Produce application/json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/plain
// @Param format query string false "File format" Enums(json,txt,xlsx) default(json)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} errors.APIError "Unsupported format"
// @Failure 403 {object} errors.APIError "Plan does not allow the format"
// @Router /history/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	format, ok := exportFormat(c, export.FormatJSON)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.export.ExportHistory(c.Request.Context(), format, &buf); err != nil {
		middleware.HandleError(c, exportError(err))
		return
	}
	sendFile(c, export.FileName("historico", format), format, buf.Bytes())
}

// ExportRecord handles GET /api/v1/history/:id/export
//
// @Summary Export a transcription
// @Tags history
// @Produce text/plain
// @Produce application/json
// @Produce application/x-subrip
// @Param id path string true "Record ID"
// @Param format query string false "File format" Enums(txt,json,srt,xlsx) default(txt)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} errors.APIError "Unsupported format"
// @Failure 404 {object} errors.APIError "Record not found"
// @Router /history/{id}/export [get]
func (h *HistoryHandler) ExportRecord(c *gin.Context) {
	format, ok := exportFormat(c, export.FormatTXT)
	if !ok {
		return
	}

	var buf bytes.Buffer
	rec, err := h.export.ExportRecord(c.Request.Context(), c.Param("id"), format, &buf)
	if err != nil {
		middleware.HandleError(c, exportError(err))
		return
	}
	sendFile(c, export.FileName(rec.FileName, format), format, buf.Bytes())
}

func exportFormat(c *gin.Context, fallback export.Format) (export.Format, bool) {
	var query dto.ExportQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return "", false
	}
	if query.Format == "" {
		return fallback, true
	}
	format, err := export.ParseFormat(query.Format)
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError(err.Error()))
		return "", false
	}
	return format, true
}

// exportError turns renderer failures into API errors.
func exportError(err error) error {
	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	var unsupported export.ErrUnsupportedFormat
	if stderrors.As(err, &unsupported) {
		return errors.NewBadRequestError(unsupported.Error())
	}
	return errors.WrapError(err, errors.KindInternal, "Failed to export")
}

func sendFile(c *gin.Context, name string, format export.Format, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, format.ContentType(), data)
}
