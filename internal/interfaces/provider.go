package interfaces

import (
	"context"

	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/shopspring/decimal"
)

// BillingDataProvider is the external data collaborator the engines read
// from. Implementations exist for the billing REST API, Postgres, and test
// doubles; the engines have no knowledge of the transport behind it.
type BillingDataProvider interface {
	// Customer revenue dependencies
	GetCustomerServicePlan(ctx context.Context, customerID string) (*business.PricingPlan, error)
	GetUsageData(ctx context.Context, customerID string, period business.DateRange) (*business.UsageData, error)
	GetCustomerDiscounts(ctx context.Context, customerID string, period business.DateRange) ([]business.Discount, error)
	GetTaxRate(ctx context.Context, customerID string) (decimal.Decimal, error)

	// Partner commission dependencies
	GetPartnerConfiguration(ctx context.Context, partnerID string) (*business.PartnerConfiguration, error)
	GetCommissionRates(ctx context.Context, partnerID, tier string) (*business.CommissionRateTable, error)
	GetPartnerCustomerRevenues(ctx context.Context, partnerID string, period business.DateRange) ([]business.CustomerRevenue, error)

	// Platform revenue dependencies
	GetTenantCustomerRevenues(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error)
	GetTenantSubscriptionRevenue(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error)
	GetTenantUsageRevenue(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error)
	GetTenantOperationalCosts(ctx context.Context, tenantID string, period business.DateRange) (*business.CostBreakdown, error)
	GetTenantCustomerMetrics(ctx context.Context, tenantID string, period business.DateRange) (*business.TenantCustomerMetrics, error)
}
