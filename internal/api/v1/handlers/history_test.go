package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/api/v1/handlers"
	"voxscribe/internal/app/export"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/session"
	"voxscribe/internal/app/testutil"
)

func historyRouter(t *testing.T) (*gin.Engine, *testutil.MockServices) {
	router, ms := setupTestRouter(t, session.Session{UserID: "user-1", Plan: "free"})
	h := handlers.NewHistoryHandler(ms.HistoryService, ms.ExportService)
	router.GET("/api/v1/history", h.List)
	router.POST("/api/v1/history", h.Save)
	router.DELETE("/api/v1/history", h.DeleteAll)
	router.GET("/api/v1/history/search", h.Search)
	router.GET("/api/v1/history/export", h.Export)
	router.GET("/api/v1/history/:id", h.Get)
	router.PATCH("/api/v1/history/:id", h.UpdateText)
	router.DELETE("/api/v1/history/:id", h.Delete)
	router.GET("/api/v1/history/:id/export", h.ExportRecord)
	router.GET("/api/v1/stats", h.Stats)
	return router, ms
}

func TestHistoryHandler_List(t *testing.T) {
	router, ms := historyRouter(t)
	records := testutil.SampleRecords("user-1", 2, time.Now())
	ms.HistoryService.On("ListRecords", mock.Anything, dto.ListHistoryQuery{Limit: 2, Offset: 0}).
		Return(&dto.HistoryListResponse{Items: records, Total: 7, Limit: 2}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Header().Get("X-Total-Count"))
	assert.Len(t, decode(t, rec)["items"], 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=500", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	ms.AssertExpectations(t)
}

func TestHistoryHandler_Save(t *testing.T) {
	tests := []struct {
		name           string
		payload        map[string]interface{}
		setupMocks     func(*testutil.MockServices)
		expectedStatus int
		expectedKind   string
	}{
		{
			name:    "saved",
			payload: map[string]interface{}{"file_name": "a.mp3", "transcription": "olá mundo"},
			setupMocks: func(ms *testutil.MockServices) {
				ms.HistoryService.On("SaveRecord", mock.Anything, mock.MatchedBy(func(r *dto.SaveHistoryRequest) bool {
					return r.Transcription == "olá mundo"
				})).Return(&model.TranscriptionRecord{ID: "rec-1", Transcription: "olá mundo", WordCount: 2}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing transcription",
			payload:        map[string]interface{}{"file_name": "a.mp3"},
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedKind:   "validation",
		},
		{
			name:           "blank transcription",
			payload:        map[string]interface{}{"transcription": "   "},
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedKind:   "validation",
		},
		{
			name:           "id must be a uuid",
			payload:        map[string]interface{}{"id": "nope", "transcription": "x"},
			setupMocks:     func(ms *testutil.MockServices) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedKind:   "validation",
		},
		{
			name:    "anonymous caller",
			payload: map[string]interface{}{"transcription": "x"},
			setupMocks: func(ms *testutil.MockServices) {
				ms.HistoryService.On("SaveRecord", mock.Anything, mock.Anything).
					Return(nil, errors.NewUnauthorizedError("Usuário não autenticado"))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedKind:   "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, ms := historyRouter(t)
			tt.setupMocks(ms)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/api/v1/history", tt.payload))

			require.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedKind != "" {
				assert.Equal(t, tt.expectedKind, decode(t, rec)["kind"])
			}
			ms.AssertExpectations(t)
		})
	}
}

func TestHistoryHandler_RecordRoutes(t *testing.T) {
	router, ms := historyRouter(t)
	ms.HistoryService.On("GetRecord", mock.Anything, "rec-1").
		Return(&model.TranscriptionRecord{ID: "rec-1"}, nil)
	ms.HistoryService.On("GetRecord", mock.Anything, "missing").
		Return(nil, errors.NewNotFoundError("Transcription"))
	ms.HistoryService.On("UpdateText", mock.Anything, "rec-1", "novo texto").
		Return(&model.TranscriptionRecord{ID: "rec-1", Transcription: "novo texto", WordCount: 2}, nil)
	ms.HistoryService.On("DeleteRecord", mock.Anything, "rec-1").Return(nil)
	ms.HistoryService.On("DeleteAll", mock.Anything).Return(nil)
	ms.HistoryService.On("Search", mock.Anything, "reuniao").
		Return(&dto.SearchResponse{Items: []model.TranscriptionRecord{{ID: "rec-1"}}, Count: 1}, nil)
	ms.HistoryService.On("Stats", mock.Anything).
		Return(&model.UserStats{TotalTranscriptions: 3, TotalWords: 120, TotalMinutes: 4}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/rec-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(t, http.MethodPatch, "/api/v1/history/rec-1", map[string]string{"transcription": "novo texto"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["word_count"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/history/rec-1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/history", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/search?q=reuniao", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/search", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decode(t, rec)["total_transcriptions"])

	ms.AssertExpectations(t)
}

func TestHistoryHandler_Export(t *testing.T) {
	t.Run("history defaults to json", func(t *testing.T) {
		router, ms := historyRouter(t)
		ms.ExportService.Payload = []byte(`[]`)
		ms.ExportService.On("ExportHistory", mock.Anything, export.FormatJSON).Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/export", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment;")
		assert.Equal(t, "[]", rec.Body.String())
	})

	t.Run("plan refusal", func(t *testing.T) {
		router, ms := historyRouter(t)
		ms.ExportService.On("ExportHistory", mock.Anything, export.FormatXLSX).
			Return(errors.NewForbiddenError("Seu plano não inclui exportação XLSX"))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/export?format=xlsx", nil))

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Seu plano não inclui exportação XLSX", decode(t, rec)["message"])
	})

	t.Run("unknown format", func(t *testing.T) {
		router, _ := historyRouter(t)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/export?format=pdf", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("single record as srt", func(t *testing.T) {
		router, ms := historyRouter(t)
		ms.ExportService.Payload = []byte("1\n00:00:00,000 --> 00:00:01,000\noi\n\n")
		ms.ExportService.On("ExportRecord", mock.Anything, "rec-1", export.FormatSRT).
			Return(&model.TranscriptionRecord{ID: "rec-1", FileName: "entrevista.mp3"}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/rec-1/export?format=srt", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/x-subrip", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "entrevista")
		assert.Contains(t, rec.Body.String(), "-->")
		ms.AssertExpectations(t)
	})
}
