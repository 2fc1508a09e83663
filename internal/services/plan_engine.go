package services

import (
	"context"
	"fmt"

	"github.com/netvista/netvista-api/internal/interfaces"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// upgradeChargeRatio is the share of the base price that tiered usage
// charges must exceed before an upgrade is recommended.
var upgradeChargeRatio = decimal.RequireFromString("0.3")

// PlanEngine answers plan lookup and upgrade-eligibility questions for a
// portal session.
type PlanEngine struct {
	config   business.BusinessLogicConfig
	portal   business.PortalContext
	provider interfaces.BillingDataProvider
	logger   *zap.Logger
}

// NewPlanEngine creates a plan engine bound to a portal context
func NewPlanEngine(config business.BusinessLogicConfig, portal business.PortalContext, provider interfaces.BillingDataProvider) *PlanEngine {
	return &PlanEngine{
		config:   config,
		portal:   portal,
		provider: provider,
		logger:   logger.Log,
	}
}

// GetCustomerPlan fetches the customer's current service plan
func (e *PlanEngine) GetCustomerPlan(ctx context.Context, customerID string) (*business.PricingPlan, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customer id is required")
	}

	plan, err := e.provider.GetCustomerServicePlan(ctx, customerID)
	if err != nil {
		return nil, dependencyFailure("get customer plan", err)
	}
	return plan, nil
}

// EvaluateUpgrade recommends a plan upgrade when a customer's tiered usage
// charges are a large enough share of the base price that a higher flat
// allowance would cost less.
func (e *PlanEngine) EvaluateUpgrade(ctx context.Context, customerID string, period business.DateRange) (*business.PlanRecommendation, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customer id is required")
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if !e.config.Features.PlanRecommendations {
		return nil, fmt.Errorf("plan recommendations are disabled for this portal")
	}

	var (
		plan  *business.PricingPlan
		usage *business.UsageData
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plan, err = e.provider.GetCustomerServicePlan(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		usage, err = e.provider.GetUsageData(gctx, customerID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dependencyFailure("evaluate plan upgrade", err)
	}

	usageGB := decimal.NewFromInt(usage.TotalBytes).Div(bytesPerGB)
	recommendation := &business.PlanRecommendation{
		CustomerID:           customerID,
		CurrentPlan:          *plan,
		UsageGB:              usageGB,
		ProjectedMonthlyCost: plan.BasePrice,
		Reason:               "current plan covers observed usage",
	}

	if !plan.HasTiers() {
		return recommendation, nil
	}

	usageCharge := tieredUsageCharge(usage, plan.Tiers)
	projected := plan.BasePrice.Amount.Add(usageCharge)
	recommendation.ProjectedMonthlyCost = business.NewMoney(projected, plan.BasePrice.Currency)

	if usageCharge.GreaterThan(plan.BasePrice.Amount.Mul(upgradeChargeRatio)) {
		recommendation.UpgradeRecommended = true
		recommendation.Reason = "tiered usage charges exceed upgrade threshold"
		e.logger.Info("Plan upgrade recommended",
			zap.String("customer_id", customerID),
			zap.String("usage_charge", usageCharge.String()),
			zap.String("base_price", plan.BasePrice.Amount.String()))
	}

	return recommendation, nil
}
