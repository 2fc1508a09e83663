package params

import (
	"github.com/netvista/netvista-api/internal/types/business"
)

// CustomerRevenueParams are the inputs to a customer revenue calculation
type CustomerRevenueParams struct {
	CustomerID       string
	Period           business.DateRange
	IncludeUsage     bool
	IncludeOverages  bool
	IncludeTaxes     bool
	IncludeDiscounts bool
}

// NewCustomerRevenueParams returns params with every inclusion flag on,
// which is the default behavior.
func NewCustomerRevenueParams(customerID string, period business.DateRange) CustomerRevenueParams {
	return CustomerRevenueParams{
		CustomerID:       customerID,
		Period:           period,
		IncludeUsage:     true,
		IncludeOverages:  true,
		IncludeTaxes:     true,
		IncludeDiscounts: true,
	}
}

// PartnerCommissionParams are the inputs to a partner commission run
type PartnerCommissionParams struct {
	PartnerID           string
	Period              business.DateRange
	IncludeNewCustomers bool
	IncludeRenewals     bool
	IncludeUpgrades     bool
	CommissionTier      string
}

// NewPartnerCommissionParams returns params including every customer type
func NewPartnerCommissionParams(partnerID string, period business.DateRange) PartnerCommissionParams {
	return PartnerCommissionParams{
		PartnerID:           partnerID,
		Period:              period,
		IncludeNewCustomers: true,
		IncludeRenewals:     true,
		IncludeUpgrades:     true,
		CommissionTier:      business.CommissionTierStandard,
	}
}

// PlatformRevenueParams are the inputs to a platform revenue aggregation
type PlatformRevenueParams struct {
	TenantID           string
	Period             business.DateRange
	IncludeProjections bool
	IncludeCosts       bool
	IncludeMetrics     bool
}

// NewPlatformRevenueParams returns params with costs and metrics included
// and projections off.
func NewPlatformRevenueParams(tenantID string, period business.DateRange) PlatformRevenueParams {
	return PlatformRevenueParams{
		TenantID:       tenantID,
		Period:         period,
		IncludeCosts:   true,
		IncludeMetrics: true,
	}
}
