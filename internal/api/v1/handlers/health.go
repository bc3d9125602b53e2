package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status" example:"healthy"`
	Version string            `json:"version" example:"1.0.0"`
	Vendor  string            `json:"vendor" example:"assemblyai"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthHandler reports service health
type HealthHandler struct {
	version string
	vendor  string
	checks  map[string]HealthCheck
}

// NewHealthHandler creates a health handler. checks are run on every call.
func NewHealthHandler(version, vendor string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{version: version, vendor: vendor, checks: checks}
}

// Health handles GET /health
//
// A failing check marks the service degraded but still answers 200 when
// only optional dependencies are down; the vendor check is required.
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse "Service is up"
// @Failure 503 {object} handlers.HealthResponse "Vendor unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Version: h.version, Vendor: h.vendor}
	code := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			if name == "vendor" {
				resp.Status = "unhealthy"
				code = http.StatusServiceUnavailable
			} else if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
			continue
		}
		resp.Checks[name] = "ok"
	}
	c.JSON(code, resp)
}
