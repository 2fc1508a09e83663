package interfaces

import (
	"context"

	"github.com/netvista/netvista-api/internal/types/api/params"
	"github.com/netvista/netvista-api/internal/types/business"
)

// RevenueService computes revenue, commissions, and platform aggregates
type RevenueService interface {
	CalculateCustomerRevenue(ctx context.Context, params params.CustomerRevenueParams) (business.Money, error)
	CalculatePartnerCommissions(ctx context.Context, params params.PartnerCommissionParams) ([]business.Commission, error)
	CalculatePlatformRevenue(ctx context.Context, params params.PlatformRevenueParams) (*business.PlatformRevenue, error)
}

// PlanService answers plan lookup and upgrade-eligibility questions
type PlanService interface {
	GetCustomerPlan(ctx context.Context, customerID string) (*business.PricingPlan, error)
	EvaluateUpgrade(ctx context.Context, customerID string, period business.DateRange) (*business.PlanRecommendation, error)
}

// NetworkService aggregates bandwidth utilisation for a customer
type NetworkService interface {
	SummarizeUsage(ctx context.Context, customerID string, period business.DateRange) (*business.UsageSummary, error)
}

// CommissionEventPublisher emits commission lifecycle events to the
// message broker after a commission run.
type CommissionEventPublisher interface {
	PublishCommissionsCalculated(ctx context.Context, partnerID string, commissions []business.Commission) error
}
