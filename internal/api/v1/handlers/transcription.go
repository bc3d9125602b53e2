package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/api/v1/services"
	"voxscribe/internal/app/transcribe"
)

// TranscriptionHandler serves the synchronous transcription proxy
type TranscriptionHandler struct {
	service services.TranscriptionService
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(service services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{
		service: service,
	}
}

// Transcribe handles POST /functions/v1/transcribe and POST /api/v1/transcribe
//
// Every failure is answered with 500 and {success:false, error} so browser
// clients can read the message.
//
// @Summary Transcribe an audio file
// @Description Uploads the audio to the configured vendor, waits for the transcript and returns it
// @Tags transcribe
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio file"
// @Param language formData string false "Language hint" default(pt)
// @Param diarization formData string false "Identify speakers" Enums(true,false)
// @Param timestamps formData string false "Return timed segments" Enums(true,false)
// @Success 200 {object} dto.TranscribeResponse "Transcript"
// @Failure 500 {object} dto.ProxyFailure "Transcription failed"
// @Router /transcribe [post]
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	req, closeFile, err := bindTranscribeRequest(c)
	if err != nil {
		proxyFailure(c, err)
		return
	}
	defer closeFile()

	resp, err := h.service.Transcribe(c.Request.Context(), req)
	if err != nil {
		proxyFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func proxyFailure(c *gin.Context, err error) {
	_ = c.Error(err)
	message := errors.FromTranscriptionError(err).Message
	if strings.TrimSpace(message) == "" {
		message = "Erro desconhecido na transcrição"
	}
	c.JSON(http.StatusInternalServerError, dto.ProxyFailure{Success: false, Error: message})
}

// bindTranscribeRequest reads the multipart body shared by the proxy and
// the job endpoint. The returned func closes the uploaded file.
func bindTranscribeRequest(c *gin.Context) (*dto.TranscribeRequest, func(), error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, nil, errors.NewBadRequestError("Nenhum arquivo foi enviado")
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, errors.NewBadRequestError("Nenhum arquivo foi enviado")
	}

	language := c.PostForm("language")
	if strings.TrimSpace(language) == "" {
		language = transcribe.DefaultLanguage
	}

	req := &dto.TranscribeRequest{
		File:        file,
		FileName:    header.Filename,
		FileSize:    header.Size,
		ContentType: partContentType(header),
		Language:    language,
		Diarization: formFlag(c, "diarization"),
		Timestamps:  formFlag(c, "timestamps"),
	}
	return req, func() { _ = file.Close() }, nil
}

func partContentType(header *multipart.FileHeader) string {
	ct := header.Header.Get("Content-Type")
	if ct == "application/octet-stream" {
		return ""
	}
	return ct
}

func formFlag(c *gin.Context, name string) bool {
	return strings.EqualFold(strings.TrimSpace(c.PostForm(name)), "true")
}
