package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voxscribe/internal/api/middleware"
	"voxscribe/internal/api/v1/services"
)

// PlanHandler serves the plan catalogue
type PlanHandler struct {
	service services.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(service services.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

// List handles GET /api/v1/plans
//
// @Summary List plans
// @Tags plans
// @Produce json
// @Success 200 {array} plans.Plan "Catalogue"
// @Router /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListPlans(c.Request.Context()))
}

// Get handles GET /api/v1/plans/:id
//
// @Summary Get a plan
// @Tags plans
// @Produce json
// @Param id path string true "Plan ID" Enums(free,pro,enterprise)
// @Success 200 {object} plans.Plan "Plan"
// @Failure 404 {object} errors.APIError "Unknown plan"
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(c *gin.Context) {
	p, err := h.service.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Usage handles GET /api/v1/usage
//
// @Summary Current plan usage
// @Description The caller's plan with this month's consumption
// @Tags plans
// @Produce json
// @Success 200 {object} dto.PlanUsageResponse "Usage"
// @Failure 401 {object} errors.APIError "Not authenticated"
// @Router /usage [get]
func (h *PlanHandler) Usage(c *gin.Context) {
	usage, err := h.service.Usage(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}
