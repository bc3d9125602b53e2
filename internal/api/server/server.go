package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "voxscribe/docs" // Generated swagger docs
	"voxscribe/internal/api/middleware"
	"voxscribe/internal/api/v1/handlers"
	v1routes "voxscribe/internal/api/v1/routes"
	"voxscribe/internal/app/metrics"
	"voxscribe/internal/config"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Services *v1routes.ServiceContainer
	Session  middleware.SessionConfig
	Metrics  *metrics.Metrics
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Health   *handlers.HealthHandler
}

// Server represents the API server
type Server struct {
	config     config.ServerConfig
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, deps Dependencies, debug bool, logger *slog.Logger) *Server {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORSByPath(middleware.DefaultCORSConfig(cfg.AllowedOrigins), map[string]middleware.CORSConfig{
		v1routes.ProxyPrefix:  middleware.ProxyCORSConfig(),
		"/api/v1/transcribe": middleware.ProxyCORSConfig(),
	}))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	router.Use(middleware.Session(deps.Session, logger))

	if deps.Health != nil {
		router.GET("/health", deps.Health.Health)
	}
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1routes.RegisterProxyRoutes(router, deps.Services.TranscriptionService)

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		v1routes.RegisterRoutes(v1, deps.Services)
	}

	// Swagger documentation routes
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":       "voxscribe API",
			"version":       "1.0",
			"documentation": "/swagger/index.html",
			"endpoints": gin.H{
				"health":     "/health",
				"transcribe": v1routes.ProxyPrefix + "/transcribe",
				"jobs":       "/api/v1/jobs",
				"history":    "/api/v1/history",
				"profile":    "/api/v1/profile",
				"plans":      "/api/v1/plans",
			},
		})
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		config:     cfg,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}
}

// Run serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Run() error {
	s.logger.Info("Starting API server", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
