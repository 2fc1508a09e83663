package business

import (
	"time"
)

// RevenueBreakdown groups tenant revenue by category
type RevenueBreakdown struct {
	CustomerRevenue     Money `json:"customer_revenue"`
	SubscriptionRevenue Money `json:"subscription_revenue"`
	UsageRevenue        Money `json:"usage_revenue"`
	TotalRevenue        Money `json:"total_revenue"`
}

// CostBreakdown groups tenant operational costs
type CostBreakdown struct {
	Operational    Money `json:"operational"`
	Infrastructure Money `json:"infrastructure"`
	Support        Money `json:"support"`
	Total          Money `json:"total"`
}

// TenantCustomerMetrics is the customer-lifecycle snapshot reported by the
// external analytics collaborator.
type TenantCustomerMetrics struct {
	TotalCustomers        int   `json:"total_customers"`
	NewCustomers          int   `json:"new_customers"`
	ChurnedCustomers      int   `json:"churned_customers"`
	CustomerLifetimeValue Money `json:"customer_lifetime_value"`
}

// CustomerMetrics is the computed metrics block of a platform revenue
// aggregate. ARPU is derived here; LTV passes through from the collaborator.
type CustomerMetrics struct {
	TotalCustomers            int   `json:"total_customers"`
	NewCustomers              int   `json:"new_customers"`
	ChurnedCustomers          int   `json:"churned_customers"`
	AverageRevenuePerCustomer Money `json:"average_revenue_per_customer"`
	CustomerLifetimeValue     Money `json:"customer_lifetime_value"`
}

// RevenueProjection is a next-period run-rate forecast
type RevenueProjection struct {
	NextPeriod       DateRange `json:"next_period"`
	DailyRunRate     Money     `json:"daily_run_rate"`
	ProjectedRevenue Money     `json:"projected_revenue"`
}

// PlatformRevenue is the per-tenant-per-period revenue aggregate. It is
// computed fresh on every call and never persisted by this service.
type PlatformRevenue struct {
	TenantID     string             `json:"tenant_id"`
	Period       DateRange          `json:"period"`
	Revenue      RevenueBreakdown   `json:"revenue"`
	Costs        CostBreakdown      `json:"costs"`
	NetRevenue   Money              `json:"net_revenue"`
	Metrics      *CustomerMetrics   `json:"metrics,omitempty"`
	Projections  *RevenueProjection `json:"projections,omitempty"`
	CalculatedAt time.Time          `json:"calculated_at"`
}
