package routes

import (
	"github.com/gin-gonic/gin"

	"voxscribe/internal/api/v1/handlers"
	"voxscribe/internal/api/v1/services"
)

// ProxyPrefix is where the edge-function compatible endpoint lives.
const ProxyPrefix = "/functions/v1"

// RegisterProxyRoutes mounts the transcription proxy at the path browser
// clients of the hosted function already call.
func RegisterProxyRoutes(router *gin.Engine, service services.TranscriptionService) {
	handler := handlers.NewTranscriptionHandler(service)
	proxy := router.Group(ProxyPrefix)
	{
		proxy.POST("/transcribe", handler.Transcribe)
	}
}
