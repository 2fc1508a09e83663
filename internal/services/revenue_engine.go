package services

import (
	"context"
	"fmt"
	"time"

	"github.com/netvista/netvista-api/internal/interfaces"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/types/api/params"
	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	bytesPerMB = decimal.NewFromInt(1 << 20)
	bytesPerGB = decimal.NewFromInt(1 << 30)
	bytesPerTB = decimal.NewFromInt(1 << 40)

	oneHundred = decimal.NewFromInt(100)

	// defaultCommissionRate is the last resort of the commission rate
	// fallback chain: specific rate, table default, then 10%.
	defaultCommissionRate = decimal.RequireFromString("0.1")
)

// defaultCurrency is used for aggregates computed from empty revenue lists
const defaultCurrency = "USD"

// RevenueEngine computes subscription, usage, and overage revenue, partner
// commissions, and tenant-level platform aggregates. The engine is
// stateless per call: every calculation runs against its own fetched
// snapshot from the injected data provider, and the portal context is
// fixed for the engine's lifetime.
type RevenueEngine struct {
	config   business.BusinessLogicConfig
	portal   business.PortalContext
	provider interfaces.BillingDataProvider
	logger   *zap.Logger
}

// NewRevenueEngine creates a revenue engine bound to a portal context
func NewRevenueEngine(config business.BusinessLogicConfig, portal business.PortalContext, provider interfaces.BillingDataProvider) *RevenueEngine {
	return &RevenueEngine{
		config:   config,
		portal:   portal,
		provider: provider,
		logger:   logger.Log,
	}
}

// CalculateCustomerRevenue computes a customer's total revenue for a
// billing period: prorated subscription revenue, tiered usage charges,
// overage charges, minus discounts, plus taxes. Any failed dependency
// fetch aborts the whole calculation; no partial result is returned.
func (e *RevenueEngine) CalculateCustomerRevenue(ctx context.Context, p params.CustomerRevenueParams) (business.Money, error) {
	if p.CustomerID == "" {
		return business.Money{}, fmt.Errorf("customer id is required")
	}
	if err := p.Period.Validate(); err != nil {
		return business.Money{}, err
	}
	if !e.canReadCustomerRevenue() {
		return business.Money{}, ErrInsufficientPermissions
	}

	e.logger.Info("Calculating customer revenue",
		zap.String("customer_id", p.CustomerID),
		zap.Time("period_start", p.Period.StartDate),
		zap.Time("period_end", p.Period.EndDate),
		zap.String("portal_type", string(e.portal.PortalType)))

	var (
		plan      *business.PricingPlan
		usage     *business.UsageData
		discounts []business.Discount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plan, err = e.provider.GetCustomerServicePlan(gctx, p.CustomerID)
		return err
	})
	if p.IncludeUsage {
		g.Go(func() error {
			var err error
			usage, err = e.provider.GetUsageData(gctx, p.CustomerID, p.Period)
			return err
		})
	}
	if p.IncludeDiscounts {
		g.Go(func() error {
			var err error
			discounts, err = e.provider.GetCustomerDiscounts(gctx, p.CustomerID, p.Period)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return business.Money{}, dependencyFailure("calculate customer revenue", err)
	}

	total := e.CalculateSubscriptionRevenue(plan.BasePrice, p.Period)

	if p.IncludeUsage && usage != nil && plan.HasTiers() {
		usageCharge := tieredUsageCharge(usage, plan.Tiers)
		total = total.Add(business.NewMoney(usageCharge, total.Currency))
	}

	if p.IncludeOverages && usage != nil && usage.Overage != nil {
		overage := e.CalculateOverageRevenue(usage.Overage)
		total = total.Add(business.NewMoney(overage, total.Currency))
	}

	if p.IncludeDiscounts && len(discounts) > 0 {
		total = business.NewMoney(applyDiscounts(total.Amount, discounts), total.Currency)
	}

	if p.IncludeTaxes && e.taxesApply() {
		taxRate, err := e.provider.GetTaxRate(ctx, p.CustomerID)
		if err != nil {
			return business.Money{}, dependencyFailure("calculate customer revenue", err)
		}
		total = total.Add(business.NewMoney(total.Amount.Mul(taxRate), total.Currency))
	}

	e.logger.Debug("Customer revenue calculated",
		zap.String("customer_id", p.CustomerID),
		zap.String("total", total.Amount.String()))

	return total, nil
}

// CalculateSubscriptionRevenue prorates a plan's base price over the
// billing period. The denominator is always the number of days in the
// month containing the period start, even when the period crosses a month
// boundary; changing that would silently change billing semantics.
func (e *RevenueEngine) CalculateSubscriptionRevenue(basePrice business.Money, period business.DateRange) business.Money {
	totalDays := period.Days()
	monthDays := business.DaysInMonth(period.StartDate)

	factor := decimal.NewFromInt(int64(totalDays)).Div(decimal.NewFromInt(int64(monthDays)))
	return business.NewMoney(basePrice.Amount.Mul(factor), basePrice.Currency)
}

// ApplyPricingTiers returns the plan's base price plus tiered usage
// charges. Flat-rate plans (no tiers) return the base price unchanged.
// Pure function, no I/O.
func (e *RevenueEngine) ApplyPricingTiers(usage *business.UsageData, plan *business.PricingPlan) decimal.Decimal {
	if plan == nil {
		return decimal.Zero
	}
	if usage == nil || !plan.HasTiers() {
		return plan.BasePrice.Amount
	}
	return plan.BasePrice.Amount.Add(tieredUsageCharge(usage, plan.Tiers))
}

// CalculateOverageRevenue converts overage bytes to GB and charges the
// per-GB rate
func (e *RevenueEngine) CalculateOverageRevenue(overage *business.OverageCharge) decimal.Decimal {
	if overage == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(overage.Bytes).Div(bytesPerGB).Mul(overage.ChargePerGB)
}

// CalculatePartnerCommissions derives one commission record per eligible
// customer revenue record attributed to the partner for the period.
// Commission ids are deterministic per (partner, customer, period month),
// so downstream recomputation upserts are idempotent.
func (e *RevenueEngine) CalculatePartnerCommissions(ctx context.Context, p params.PartnerCommissionParams) ([]business.Commission, error) {
	if p.PartnerID == "" {
		return nil, fmt.Errorf("partner id is required")
	}
	if err := p.Period.Validate(); err != nil {
		return nil, err
	}
	if !e.canReadPartnerCommissions(p.PartnerID) {
		return nil, ErrInsufficientPermissions
	}
	if !e.config.Features.CommissionTracking {
		return nil, ErrCommissionTrackingDisabled
	}

	tier := p.CommissionTier
	if tier == "" {
		tier = business.CommissionTierStandard
	}

	e.logger.Info("Calculating partner commissions",
		zap.String("partner_id", p.PartnerID),
		zap.String("commission_tier", tier),
		zap.Time("period_start", p.Period.StartDate))

	var (
		partner  *business.PartnerConfiguration
		rates    *business.CommissionRateTable
		revenues []business.CustomerRevenue
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		partner, err = e.provider.GetPartnerConfiguration(gctx, p.PartnerID)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = e.provider.GetCommissionRates(gctx, p.PartnerID, tier)
		return err
	})
	g.Go(func() error {
		var err error
		revenues, err = e.provider.GetPartnerCustomerRevenues(gctx, p.PartnerID, p.Period)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dependencyFailure("calculate partner commissions", err)
	}

	now := time.Now()
	commissions := make([]business.Commission, 0, len(revenues))
	for _, record := range revenues {
		// Classification passes through the upstream type field and
		// defaults to renewal when absent.
		customerType := record.CustomerType
		if customerType == "" {
			customerType = business.CustomerTypeRenewal
		}
		if !includesCustomerType(p, customerType) {
			continue
		}

		rate := rates.Lookup(record.ServiceType, customerType, defaultCommissionRate)
		amount := record.Revenue.Amount.Mul(rate)

		commissions = append(commissions, business.Commission{
			ID:               commissionID(p.PartnerID, record.CustomerID, p.Period.StartDate),
			PartnerID:        p.PartnerID,
			CustomerID:       record.CustomerID,
			Period:           p.Period,
			Revenue:          record.Revenue,
			CommissionRate:   rate,
			CommissionAmount: business.NewMoney(amount, record.Revenue.Currency),
			CustomerType:     customerType,
			ServiceType:      record.ServiceType,
			Status:           business.CommissionStatusCalculated,
			CalculatedAt:     now,
		})
	}

	e.logger.Info("Partner commissions calculated",
		zap.String("partner_id", p.PartnerID),
		zap.String("partner_name", partner.Name),
		zap.Int("eligible_customers", len(commissions)),
		zap.Int("revenue_records", len(revenues)))

	return commissions, nil
}

// CalculatePlatformRevenue aggregates a tenant's revenue by category,
// subtracts operational costs, and derives customer-lifecycle metrics.
func (e *RevenueEngine) CalculatePlatformRevenue(ctx context.Context, p params.PlatformRevenueParams) (*business.PlatformRevenue, error) {
	if p.TenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	if err := p.Period.Validate(); err != nil {
		return nil, err
	}
	if !e.canReadPlatformRevenue(p.TenantID) {
		return nil, ErrInsufficientPermissions
	}

	e.logger.Info("Calculating platform revenue",
		zap.String("tenant_id", p.TenantID),
		zap.Time("period_start", p.Period.StartDate),
		zap.Bool("include_costs", p.IncludeCosts),
		zap.Bool("include_metrics", p.IncludeMetrics))

	var (
		customerRevenues    []business.Money
		subscriptionRevenue []business.Money
		usageRevenue        []business.Money
		costs               *business.CostBreakdown
		metrics             *business.TenantCustomerMetrics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customerRevenues, err = e.provider.GetTenantCustomerRevenues(gctx, p.TenantID, p.Period)
		return err
	})
	g.Go(func() error {
		var err error
		subscriptionRevenue, err = e.provider.GetTenantSubscriptionRevenue(gctx, p.TenantID, p.Period)
		return err
	})
	g.Go(func() error {
		var err error
		usageRevenue, err = e.provider.GetTenantUsageRevenue(gctx, p.TenantID, p.Period)
		return err
	})
	if p.IncludeCosts {
		g.Go(func() error {
			var err error
			costs, err = e.provider.GetTenantOperationalCosts(gctx, p.TenantID, p.Period)
			return err
		})
	}
	if p.IncludeMetrics {
		g.Go(func() error {
			var err error
			metrics, err = e.provider.GetTenantCustomerMetrics(gctx, p.TenantID, p.Period)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dependencyFailure("calculate platform revenue", err)
	}

	currency := firstCurrency(customerRevenues, subscriptionRevenue, usageRevenue)

	customerTotal := sumMoney(customerRevenues, currency)
	subscriptionTotal := sumMoney(subscriptionRevenue, currency)
	usageTotal := sumMoney(usageRevenue, currency)
	totalRevenue := customerTotal.Add(subscriptionTotal).Add(usageTotal)

	costBreakdown := business.CostBreakdown{
		Operational:    business.ZeroMoney(currency),
		Infrastructure: business.ZeroMoney(currency),
		Support:        business.ZeroMoney(currency),
		Total:          business.ZeroMoney(currency),
	}
	if costs != nil {
		costBreakdown = *costs
	}

	result := &business.PlatformRevenue{
		TenantID: p.TenantID,
		Period:   p.Period,
		Revenue: business.RevenueBreakdown{
			CustomerRevenue:     customerTotal,
			SubscriptionRevenue: subscriptionTotal,
			UsageRevenue:        usageTotal,
			TotalRevenue:        totalRevenue,
		},
		Costs:        costBreakdown,
		NetRevenue:   totalRevenue.Sub(costBreakdown.Total),
		CalculatedAt: time.Now(),
	}

	if p.IncludeMetrics && metrics != nil {
		arpu := decimal.Zero
		if metrics.TotalCustomers > 0 {
			arpu = customerTotal.Amount.Div(decimal.NewFromInt(int64(metrics.TotalCustomers)))
		}
		result.Metrics = &business.CustomerMetrics{
			TotalCustomers:            metrics.TotalCustomers,
			NewCustomers:              metrics.NewCustomers,
			ChurnedCustomers:          metrics.ChurnedCustomers,
			AverageRevenuePerCustomer: business.NewMoney(arpu, currency),
			CustomerLifetimeValue:     metrics.CustomerLifetimeValue,
		}
	}

	if p.IncludeProjections {
		result.Projections = projectNextPeriod(totalRevenue, p.Period)
	}

	return result, nil
}

// Access rules

func (e *RevenueEngine) canReadCustomerRevenue() bool {
	if e.portal.PortalType == business.PortalManagementAdmin {
		return true
	}
	return e.portal.HasAnyPermission(business.PermissionRevenueRead, business.PermissionCustomerRead)
}

func (e *RevenueEngine) canReadPartnerCommissions(partnerID string) bool {
	if e.portal.PortalType == business.PortalManagementAdmin {
		return true
	}
	if e.portal.PortalType == business.PortalReseller && e.portal.UserID == partnerID {
		return true
	}
	return e.portal.HasAnyPermission(business.PermissionCommissionRead, business.PermissionPartnerRead)
}

func (e *RevenueEngine) canReadPlatformRevenue(tenantID string) bool {
	if e.portal.PortalType == business.PortalManagementAdmin {
		return true
	}
	if e.portal.HasPermission(business.PermissionPlatformRevenueRead) {
		return true
	}
	return e.portal.TenantID == tenantID && e.portal.HasPermission(business.PermissionTenantAnalyticsRead)
}

// taxesApply reports whether tax lookup runs for this portal. Management
// admin sees pre-tax platform numbers.
func (e *RevenueEngine) taxesApply() bool {
	return e.portal.PortalType != business.PortalManagementAdmin && e.config.Features.RevenueCalculation
}

// Pure calculation helpers

// tieredUsageCharge walks tiers in ascending threshold order, charging each
// tier's unit price for the portion of usage inside that tier's band.
func tieredUsageCharge(usage *business.UsageData, tiers []business.PricingTier) decimal.Decimal {
	if len(tiers) == 0 {
		return decimal.Zero
	}

	units := usageInUnit(usage, tiers[0].Unit)
	charge := decimal.Zero
	for i, tier := range tiers {
		if units.LessThanOrEqual(tier.Threshold) {
			break
		}
		upper := units
		if i+1 < len(tiers) && tiers[i+1].Threshold.LessThan(units) {
			upper = tiers[i+1].Threshold
		}
		band := upper.Sub(tier.Threshold)
		charge = charge.Add(tier.UnitPrice.Mul(band))
	}
	return charge
}

// usageInUnit converts a usage snapshot into a tier's unit
func usageInUnit(usage *business.UsageData, unit string) decimal.Decimal {
	totalBytes := decimal.NewFromInt(usage.TotalBytes)
	switch unit {
	case business.UnitMB:
		return totalBytes.Div(bytesPerMB)
	case business.UnitTB:
		return totalBytes.Div(bytesPerTB)
	case business.UnitMbps:
		return decimal.NewFromFloat(usage.BandwidthMbps)
	default:
		return totalBytes.Div(bytesPerGB)
	}
}

// applyDiscounts subtracts percentage and fixed discounts from the total.
// Every discount is computed against the pre-discount total, never
// iteratively re-based.
func applyDiscounts(preDiscount decimal.Decimal, discounts []business.Discount) decimal.Decimal {
	reduction := decimal.Zero
	for _, d := range discounts {
		switch d.Type {
		case business.DiscountTypePercentage:
			reduction = reduction.Add(preDiscount.Mul(d.Value).Div(oneHundred))
		case business.DiscountTypeFixedAmount:
			reduction = reduction.Add(d.Value)
		default:
			// unknown discount types have no effect
		}
	}
	return preDiscount.Sub(reduction)
}

func includesCustomerType(p params.PartnerCommissionParams, customerType string) bool {
	switch customerType {
	case business.CustomerTypeNew:
		return p.IncludeNewCustomers
	case business.CustomerTypeUpgrade:
		return p.IncludeUpgrades
	case business.CustomerTypeRenewal:
		return p.IncludeRenewals
	default:
		return p.IncludeRenewals
	}
}

func commissionID(partnerID, customerID string, periodStart time.Time) string {
	return fmt.Sprintf("comm_%s_%s_%04d-%02d", partnerID, customerID, periodStart.Year(), int(periodStart.Month()))
}

func sumMoney(amounts []business.Money, currency string) business.Money {
	total := business.ZeroMoney(currency)
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}

func firstCurrency(lists ...[]business.Money) string {
	for _, list := range lists {
		for _, m := range list {
			if m.Currency != "" {
				return m.Currency
			}
		}
	}
	return defaultCurrency
}

// projectNextPeriod extrapolates the period's daily run rate over the
// calendar month following the period end.
func projectNextPeriod(totalRevenue business.Money, period business.DateRange) *business.RevenueProjection {
	days := period.Days()
	if days == 0 {
		return nil
	}

	daily := totalRevenue.Amount.Div(decimal.NewFromInt(int64(days)))
	next := business.DateRange{
		StartDate: period.EndDate,
		EndDate:   period.EndDate.AddDate(0, 1, 0),
	}
	projected := daily.Mul(decimal.NewFromInt(int64(next.Days())))

	return &business.RevenueProjection{
		NextPeriod:       next,
		DailyRunRate:     business.NewMoney(daily, totalRevenue.Currency),
		ProjectedRevenue: business.NewMoney(projected, totalRevenue.Currency),
	}
}
