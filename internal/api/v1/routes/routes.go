package routes

import (
	"github.com/gin-gonic/gin"

	"voxscribe/internal/api/middleware"
	"voxscribe/internal/api/v1/handlers"
	"voxscribe/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	TranscriptionService services.TranscriptionService
	JobService           services.JobService
	HistoryService       services.HistoryService
	ExportService        services.ExportService
	ProfileService       services.ProfileService
	PlanService          services.PlanService
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	transcriptionHandler := handlers.NewTranscriptionHandler(container.TranscriptionService)
	router.POST("/transcribe", transcriptionHandler.Transcribe)

	// Jobs accept anonymous callers; a job is then visible to whoever
	// holds its id.
	if container.JobService != nil {
		jobHandler := handlers.NewJobHandler(container.JobService)
		jobs := router.Group("/jobs")
		{
			jobs.POST("", jobHandler.Submit)
			jobs.GET("/:id", jobHandler.Get)
			jobs.DELETE("/:id", jobHandler.Cancel)
		}
	}

	planHandler := handlers.NewPlanHandler(container.PlanService)
	plans := router.Group("/plans")
	{
		plans.GET("", planHandler.List)
		plans.GET("/:id", planHandler.Get)
	}

	authed := router.Group("", middleware.RequireSession())

	historyHandler := handlers.NewHistoryHandler(container.HistoryService, container.ExportService)
	history := authed.Group("/history")
	{
		history.GET("", historyHandler.List)
		history.POST("", historyHandler.Save)
		history.DELETE("", historyHandler.DeleteAll)
		history.GET("/search", historyHandler.Search)
		history.GET("/export", historyHandler.Export)
		history.GET("/:id", historyHandler.Get)
		history.PATCH("/:id", historyHandler.UpdateText)
		history.DELETE("/:id", historyHandler.Delete)
		history.GET("/:id/export", historyHandler.ExportRecord)
	}
	authed.GET("/stats", historyHandler.Stats)
	authed.GET("/usage", planHandler.Usage)

	profileHandler := handlers.NewProfileHandler(container.ProfileService)
	profile := authed.Group("/profile")
	{
		profile.GET("", profileHandler.Get)
		profile.PATCH("", profileHandler.Update)
		profile.PUT("/preferences", profileHandler.UpdatePreferences)
		profile.POST("/onboarding/complete", profileHandler.CompleteOnboarding)
		profile.PUT("/onboarding/step", profileHandler.SetOnboardingStep)
		profile.POST("/avatar", profileHandler.UploadAvatar)
		profile.DELETE("/avatar", profileHandler.DeleteAvatar)
	}
}
