package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netvista/netvista-api/internal/metrics"
	"github.com/netvista/netvista-api/internal/types/api/params"
	"github.com/netvista/netvista-api/internal/types/api/requests"
	"github.com/netvista/netvista-api/internal/types/api/responses"
	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// RevenueHandler serves the revenue calculation endpoints
type RevenueHandler struct {
	common *CommonServices
}

// NewRevenueHandler creates a revenue handler
func NewRevenueHandler(common *CommonServices) *RevenueHandler {
	return &RevenueHandler{common: common}
}

// CalculateCustomerRevenue handles POST /api/v1/revenue/customer
func (h *RevenueHandler) CalculateCustomerRevenue(c *gin.Context) {
	portal, ok := h.common.portalOrAbort(c)
	if !ok {
		return
	}

	var req requests.CustomerRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	engines, err := h.common.factory.CreateEngines(portal)
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}

	period := business.DateRange{StartDate: req.PeriodStart, EndDate: req.PeriodEnd}
	p := params.CustomerRevenueParams{
		CustomerID:       req.CustomerID,
		Period:           period,
		IncludeUsage:     lo.FromPtrOr(req.IncludeUsage, true),
		IncludeOverages:  lo.FromPtrOr(req.IncludeOverages, true),
		IncludeTaxes:     lo.FromPtrOr(req.IncludeTaxes, true),
		IncludeDiscounts: lo.FromPtrOr(req.IncludeDiscounts, true),
	}

	start := time.Now()
	total, err := engines.Revenue.CalculateCustomerRevenue(c.Request.Context(), p)
	metrics.ObserveCalculation("customer_revenue", start, err)
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.CustomerRevenueResponse{
		CustomerID:   req.CustomerID,
		Period:       responses.NewPeriodResponse(period),
		Total:        total,
		CalculatedAt: time.Now(),
	})
}

// CalculatePartnerCommissions handles POST /api/v1/revenue/commissions
func (h *RevenueHandler) CalculatePartnerCommissions(c *gin.Context) {
	portal, ok := h.common.portalOrAbort(c)
	if !ok {
		return
	}

	var req requests.PartnerCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	engines, err := h.common.factory.CreateEngines(portal)
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}

	period := business.DateRange{StartDate: req.PeriodStart, EndDate: req.PeriodEnd}
	p := params.PartnerCommissionParams{
		PartnerID:           req.PartnerID,
		Period:              period,
		IncludeNewCustomers: lo.FromPtrOr(req.IncludeNewCustomers, true),
		IncludeRenewals:     lo.FromPtrOr(req.IncludeRenewals, true),
		IncludeUpgrades:     lo.FromPtrOr(req.IncludeUpgrades, true),
		CommissionTier:      req.CommissionTier,
	}

	start := time.Now()
	commissions, err := engines.Revenue.CalculatePartnerCommissions(c.Request.Context(), p)
	metrics.ObserveCalculation("partner_commissions", start, err)
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}
	metrics.ObserveCommissions(len(commissions))

	if len(commissions) > 0 {
		if err := h.common.publisher.PublishCommissionsCalculated(c.Request.Context(), req.PartnerID, commissions); err != nil {
			// the calculation result is still valid without the event
			h.common.logger.Error("Failed to publish commission event",
				zap.String("partner_id", req.PartnerID),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, responses.PartnerCommissionResponse{
		PartnerID:   req.PartnerID,
		Period:      responses.NewPeriodResponse(period),
		Commissions: commissions,
		TotalAmount: totalCommissionAmount(commissions),
	})
}

// CalculatePlatformRevenue handles POST /api/v1/revenue/platform
func (h *RevenueHandler) CalculatePlatformRevenue(c *gin.Context) {
	portal, ok := h.common.portalOrAbort(c)
	if !ok {
		return
	}

	var req requests.PlatformRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	engines, err := h.common.factory.CreateEngines(portal)
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}

	period := business.DateRange{StartDate: req.PeriodStart, EndDate: req.PeriodEnd}
	p := params.PlatformRevenueParams{
		TenantID:           req.TenantID,
		Period:             period,
		IncludeProjections: lo.FromPtrOr(req.IncludeProjections, false),
		IncludeCosts:       lo.FromPtrOr(req.IncludeCosts, true),
		IncludeMetrics:     lo.FromPtrOr(req.IncludeMetrics, true),
	}

	start := time.Now()
	platform, err := engines.Revenue.CalculatePlatformRevenue(c.Request.Context(), p)
	metrics.ObserveCalculation("platform_revenue", start, err)
	if err != nil {
		h.common.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.PlatformRevenueResponse{Platform: *platform})
}

func totalCommissionAmount(commissions []business.Commission) business.Money {
	if len(commissions) == 0 {
		return business.ZeroMoney("USD")
	}
	total := business.ZeroMoney(commissions[0].CommissionAmount.Currency)
	for _, c := range commissions {
		total = total.Add(c.CommissionAmount)
	}
	return total
}
