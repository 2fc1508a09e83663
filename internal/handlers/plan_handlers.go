package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netvista/netvista-api/internal/metrics"
	"github.com/netvista/netvista-api/internal/types/business"
)

// PlanHandler serves plan lookup and upgrade recommendation endpoints
type PlanHandler struct {
	common *CommonServices
}

// NewPlanHandler creates a plan handler
func NewPlanHandler(common *CommonServices) *PlanHandler {
	return &PlanHandler{common: common}
}

// GetCustomerPlan handles GET /api/v1/customers/:customer_id/plan
func (h *PlanHandler) GetCustomerPlan(c *gin.Context) {
	portal, ok := h.common.portalOrAbort(c)
	if !ok {
		return
	}

	engines, err := h.common.factory.CreateEngines(portal)
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}

	plan, err := engines.Plan.GetCustomerPlan(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// EvaluateUpgrade handles GET /api/v1/customers/:customer_id/upgrade-recommendation
func (h *PlanHandler) EvaluateUpgrade(c *gin.Context) {
	portal, ok := h.common.portalOrAbort(c)
	if !ok {
		return
	}

	period, ok := periodFromQuery(c)
	if !ok {
		return
	}

	engines, err := h.common.factory.CreateEngines(portal)
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}

	start := time.Now()
	recommendation, err := engines.Plan.EvaluateUpgrade(c.Request.Context(), c.Param("customer_id"), period)
	metrics.ObserveCalculation("upgrade_recommendation", start, err)
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, recommendation)
}

// periodFromQuery parses start_date and end_date query params as RFC 3339
func periodFromQuery(c *gin.Context) (business.DateRange, bool) {
	start, err := time.Parse(time.RFC3339, c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "start_date must be RFC 3339"})
		return business.DateRange{}, false
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "end_date must be RFC 3339"})
		return business.DateRange{}, false
	}
	return business.DateRange{StartDate: start, EndDate: end}, true
}
