package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NetworkHandler serves usage analytics endpoints
type NetworkHandler struct {
	common *CommonServices
}

// NewNetworkHandler creates a network handler
func NewNetworkHandler(common *CommonServices) *NetworkHandler {
	return &NetworkHandler{common: common}
}

// GetUsageSummary handles GET /api/v1/customers/:customer_id/usage-summary
func (h *NetworkHandler) GetUsageSummary(c *gin.Context) {
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

	summary, err := engines.Network.SummarizeUsage(c.Request.Context(), c.Param("customer_id"), period)
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
