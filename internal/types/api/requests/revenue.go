package requests

import (
	"time"
)

// CustomerRevenueRequest is the body of POST /revenue/customer.
// Inclusion flags default to true when omitted.
type CustomerRevenueRequest struct {
	CustomerID       string    `json:"customer_id" binding:"required"`
	PeriodStart      time.Time `json:"period_start" binding:"required"`
	PeriodEnd        time.Time `json:"period_end" binding:"required"`
	IncludeUsage     *bool     `json:"include_usage,omitempty"`
	IncludeOverages  *bool     `json:"include_overages,omitempty"`
	IncludeTaxes     *bool     `json:"include_taxes,omitempty"`
	IncludeDiscounts *bool     `json:"include_discounts,omitempty"`
}

// PartnerCommissionRequest is the body of POST /revenue/commissions
type PartnerCommissionRequest struct {
	PartnerID           string    `json:"partner_id" binding:"required"`
	PeriodStart         time.Time `json:"period_start" binding:"required"`
	PeriodEnd           time.Time `json:"period_end" binding:"required"`
	IncludeNewCustomers *bool     `json:"include_new_customers,omitempty"`
	IncludeRenewals     *bool     `json:"include_renewals,omitempty"`
	IncludeUpgrades     *bool     `json:"include_upgrades,omitempty"`
	CommissionTier      string    `json:"commission_tier,omitempty"`
}

// PlatformRevenueRequest is the body of POST /revenue/platform
type PlatformRevenueRequest struct {
	TenantID           string    `json:"tenant_id" binding:"required"`
	PeriodStart        time.Time `json:"period_start" binding:"required"`
	PeriodEnd          time.Time `json:"period_end" binding:"required"`
	IncludeProjections *bool     `json:"include_projections,omitempty"`
	IncludeCosts       *bool     `json:"include_costs,omitempty"`
	IncludeMetrics     *bool     `json:"include_metrics,omitempty"`
}
