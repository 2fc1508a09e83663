package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/services"
	"github.com/netvista/netvista-api/internal/testutil"
	"github.com/netvista/netvista-api/internal/types/api/params"
	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

// june2024 is a 30-day month, convenient for exact proration factors
var june2024 = business.DateRange{
	StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	EndDate:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
}

func newEngine(provider *testutil.MockBillingDataProvider, portal business.PortalContext) *services.RevenueEngine {
	configs := services.DefaultConfigs("http://localhost:9000")
	config, ok := configs[portal.PortalType]
	if !ok {
		config = configs[business.PortalManagementAdmin]
	}
	return services.NewRevenueEngine(config, portal, provider)
}

func adminPortal() business.PortalContext {
	return business.PortalContext{
		PortalType: business.PortalManagementAdmin,
		UserID:     "admin-1",
	}
}

func flatPlan(amount int64) *business.PricingPlan {
	return &business.PricingPlan{
		ID:          "plan-flat",
		Name:        "Fiber 100",
		ServiceType: "fiber",
		BasePrice:   business.NewMoney(decimal.NewFromInt(amount), "USD"),
	}
}

func TestCalculateSubscriptionRevenue_FullMonth(t *testing.T) {
	engine := newEngine(nil, adminPortal())

	got := engine.CalculateSubscriptionRevenue(business.NewMoney(decimal.NewFromInt(50), "USD"), june2024)

	// 30 period days over a 30-day month: proration factor is exactly 1
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(50)), "got %s", got.Amount)
	assert.Equal(t, "USD", got.Currency)
}

func TestCalculateSubscriptionRevenue_HalfMonth(t *testing.T) {
	engine := newEngine(nil, adminPortal())
	period := business.DateRange{
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC),
	}

	got := engine.CalculateSubscriptionRevenue(business.NewMoney(decimal.NewFromInt(50), "USD"), period)

	// 15 of 30 days: exactly half the base price
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(25)), "got %s", got.Amount)
}

func TestCalculateSubscriptionRevenue_MultiMonthUsesStartMonth(t *testing.T) {
	engine := newEngine(nil, adminPortal())
	// Jan 20 - Feb 10 spans a month boundary; the denominator stays the
	// start month (31 days in January)
	period := business.DateRange{
		StartDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
	}

	got := engine.CalculateSubscriptionRevenue(business.NewMoney(decimal.NewFromInt(31), "USD"), period)

	// 21 days / 31 days * $31 = $21
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(21)), "got %s", got.Amount)
}

func TestApplyPricingTiers_FlatPlanReturnsBasePrice(t *testing.T) {
	engine := newEngine(nil, adminPortal())
	usage := &business.UsageData{TotalBytes: 500 << 30}

	got := engine.ApplyPricingTiers(usage, flatPlan(20))

	assert.True(t, got.Equal(decimal.NewFromInt(20)), "got %s", got)
}

func TestApplyPricingTiers_SingleTier(t *testing.T) {
	engine := newEngine(nil, adminPortal())
	plan := flatPlan(20)
	plan.Tiers = []business.PricingTier{
		{Threshold: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(1), Unit: business.UnitGB},
	}
	usage := &business.UsageData{TotalBytes: 15 << 30} // 15 GiB

	got := engine.ApplyPricingTiers(usage, plan)

	// $20 base + 5 GB above the 10 GB threshold at $1/GB
	assert.True(t, got.Equal(decimal.NewFromInt(25)), "got %s", got)
}

func TestApplyPricingTiers_MultipleTierBands(t *testing.T) {
	engine := newEngine(nil, adminPortal())
	plan := flatPlan(10)
	plan.Tiers = []business.PricingTier{
		{Threshold: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(2), Unit: business.UnitGB},
		{Threshold: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(1), Unit: business.UnitGB},
	}
	usage := &business.UsageData{TotalBytes: 25 << 30} // 25 GiB

	got := engine.ApplyPricingTiers(usage, plan)

	// $10 base + 10 GB at $2 (10-20 band) + 5 GB at $1 (above 20)
	assert.True(t, got.Equal(decimal.NewFromInt(35)), "got %s", got)
}

func TestApplyPricingTiers_UsageBelowFirstThreshold(t *testing.T) {
	engine := newEngine(nil, adminPortal())
	plan := flatPlan(20)
	plan.Tiers = []business.PricingTier{
		{Threshold: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(1), Unit: business.UnitGB},
	}
	usage := &business.UsageData{TotalBytes: 5 << 30}

	got := engine.ApplyPricingTiers(usage, plan)

	assert.True(t, got.Equal(decimal.NewFromInt(20)), "got %s", got)
}

func TestCalculateOverageRevenue_OneGiB(t *testing.T) {
	engine := newEngine(nil, adminPortal())
	overage := &business.OverageCharge{
		Bytes:       1 << 30,
		ChargePerGB: decimal.NewFromInt(2),
	}

	got := engine.CalculateOverageRevenue(overage)

	assert.True(t, got.Equal(decimal.NewFromInt(2)), "got %s", got)
}

func TestCalculateOverageRevenue_NilOverage(t *testing.T) {
	engine := newEngine(nil, adminPortal())

	assert.True(t, engine.CalculateOverageRevenue(nil).IsZero())
}

func TestCalculateCustomerRevenue_FlatPlanNoExtras(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	provider.On("GetCustomerServicePlan", mock.Anything, "cust-1").Return(flatPlan(100), nil)

	engine := newEngine(provider, adminPortal())
	p := params.CustomerRevenueParams{
		CustomerID: "cust-1",
		Period:     june2024,
	}

	got, err := engine.CalculateCustomerRevenue(context.Background(), p)

	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)), "got %s", got.Amount)
	provider.AssertExpectations(t)
}

func TestCalculateCustomerRevenue_PercentageDiscountAgainstPreDiscountTotal(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	provider.On("GetCustomerServicePlan", mock.Anything, "cust-1").Return(flatPlan(100), nil)
	provider.On("GetCustomerDiscounts", mock.Anything, "cust-1", june2024).Return([]business.Discount{
		{ID: "disc-1", Type: business.DiscountTypePercentage, Value: decimal.NewFromInt(10)},
	}, nil)

	engine := newEngine(provider, adminPortal())
	p := params.CustomerRevenueParams{
		CustomerID:       "cust-1",
		Period:           june2024,
		IncludeDiscounts: true,
	}

	got, err := engine.CalculateCustomerRevenue(context.Background(), p)

	require.NoError(t, err)
	// 10% of the $100 pre-discount total is exactly $10
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(90)), "got %s", got.Amount)
}

func TestCalculateCustomerRevenue_MixedDiscountsNotRebased(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	provider.On("GetCustomerServicePlan", mock.Anything, "cust-1").Return(flatPlan(100), nil)
	provider.On("GetCustomerDiscounts", mock.Anything, "cust-1", june2024).Return([]business.Discount{
		{ID: "disc-1", Type: business.DiscountTypePercentage, Value: decimal.NewFromInt(10)},
		{ID: "disc-2", Type: business.DiscountTypeFixedAmount, Value: decimal.NewFromInt(5)},
		{ID: "disc-3", Type: "mystery", Value: decimal.NewFromInt(50)},
	}, nil)

	engine := newEngine(provider, adminPortal())
	p := params.CustomerRevenueParams{
		CustomerID:       "cust-1",
		Period:           june2024,
		IncludeDiscounts: true,
	}

	got, err := engine.CalculateCustomerRevenue(context.Background(), p)

	require.NoError(t, err)
	// $100 - 10% of $100 - $5 fixed; unknown discount types have no effect
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(85)), "got %s", got.Amount)
}

func TestCalculateCustomerRevenue_UsageAndOverage(t *testing.T) {
	plan := flatPlan(20)
	plan.Tiers = []business.PricingTier{
		{Threshold: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(1), Unit: business.UnitGB},
	}
	usage := &business.UsageData{
		CustomerID: "cust-1",
		TotalBytes: 15 << 30,
		Overage: &business.OverageCharge{
			Bytes:       1 << 30,
			ChargePerGB: decimal.NewFromInt(2),
		},
	}

	provider := new(testutil.MockBillingDataProvider)
	provider.On("GetCustomerServicePlan", mock.Anything, "cust-1").Return(plan, nil)
	provider.On("GetUsageData", mock.Anything, "cust-1", june2024).Return(usage, nil)

	engine := newEngine(provider, adminPortal())
	p := params.CustomerRevenueParams{
		CustomerID:      "cust-1",
		Period:          june2024,
		IncludeUsage:    true,
		IncludeOverages: true,
	}

	got, err := engine.CalculateCustomerRevenue(context.Background(), p)

	require.NoError(t, err)
	// $20 base + $5 tier charge + $2 overage
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(27)), "got %s", got.Amount)
}

func TestCalculateCustomerRevenue_TaxAppliedForNonAdminPortal(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	provider.On("GetCustomerServicePlan", mock.Anything, "cust-1").Return(flatPlan(100), nil)
	provider.On("GetTaxRate", mock.Anything, "cust-1").Return(decimal.RequireFromString("0.08"), nil)

	portal := business.PortalContext{
		PortalType:  business.PortalISPAdmin,
		UserID:      "op-1",
		TenantID:    "tenant-1",
		Permissions: []string{business.PermissionRevenueRead},
	}
	engine := newEngine(provider, portal)
	p := params.CustomerRevenueParams{
		CustomerID:   "cust-1",
		Period:       june2024,
		IncludeTaxes: true,
	}

	got, err := engine.CalculateCustomerRevenue(context.Background(), p)

	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(108)), "got %s", got.Amount)
}

func TestCalculateCustomerRevenue_NoTaxForManagementAdmin(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	provider.On("GetCustomerServicePlan", mock.Anything, "cust-1").Return(flatPlan(100), nil)

	engine := newEngine(provider, adminPortal())
	p := params.CustomerRevenueParams{
		CustomerID:   "cust-1",
		Period:       june2024,
		IncludeTaxes: true,
	}

	got, err := engine.CalculateCustomerRevenue(context.Background(), p)

	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)), "got %s", got.Amount)
	provider.AssertNotCalled(t, "GetTaxRate", mock.Anything, mock.Anything)
}

func TestCalculateCustomerRevenue_InsufficientPermissionsBeforeAnyFetch(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)

	portal := business.PortalContext{
		PortalType:  business.PortalCustomer,
		UserID:      "cust-1",
		Permissions: []string{"profile:read"},
	}
	engine := newEngine(provider, portal)
	p := params.NewCustomerRevenueParams("cust-1", june2024)

	_, err := engine.CalculateCustomerRevenue(context.Background(), p)

	require.ErrorIs(t, err, services.ErrInsufficientPermissions)
	provider.AssertNotCalled(t, "GetCustomerServicePlan", mock.Anything, mock.Anything)
	provider.AssertNotCalled(t, "GetUsageData", mock.Anything, mock.Anything, mock.Anything)
	provider.AssertNotCalled(t, "GetCustomerDiscounts", mock.Anything, mock.Anything, mock.Anything)
}

func TestCalculateCustomerRevenue_DependencyFailureAbortsWholeCalculation(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	provider.On("GetCustomerServicePlan", mock.Anything, "cust-1").Return(nil, errors.New("upstream timeout"))
	provider.On("GetUsageData", mock.Anything, "cust-1", june2024).Return(&business.UsageData{}, nil).Maybe()
	provider.On("GetCustomerDiscounts", mock.Anything, "cust-1", june2024).Return([]business.Discount{}, nil).Maybe()

	engine := newEngine(provider, adminPortal())
	p := params.NewCustomerRevenueParams("cust-1", june2024)

	_, err := engine.CalculateCustomerRevenue(context.Background(), p)

	require.Error(t, err)
	var depErr *services.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Contains(t, err.Error(), "failed to calculate customer revenue")
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestCalculateCustomerRevenue_RejectsInvalidPeriod(t *testing.T) {
	engine := newEngine(new(testutil.MockBillingDataProvider), adminPortal())
	p := params.NewCustomerRevenueParams("cust-1", business.DateRange{
		StartDate: june2024.EndDate,
		EndDate:   june2024.StartDate,
	})

	_, err := engine.CalculateCustomerRevenue(context.Background(), p)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date range")
}

func standardRates() *business.CommissionRateTable {
	def := decimal.RequireFromString("0.05")
	return &business.CommissionRateTable{
		Tier: business.CommissionTierStandard,
		Rates: map[string]map[string]decimal.Decimal{
			"fiber": {
				business.CustomerTypeNew:     decimal.RequireFromString("0.15"),
				business.CustomerTypeRenewal: decimal.RequireFromString("0.08"),
			},
		},
		Default: &def,
	}
}

func resellerPortal(partnerID string) business.PortalContext {
	return business.PortalContext{
		PortalType: business.PortalReseller,
		UserID:     partnerID,
		TenantID:   "tenant-1",
	}
}

func partnerRevenues() []business.CustomerRevenue {
	return []business.CustomerRevenue{
		{CustomerID: "cust-1", CustomerType: business.CustomerTypeNew, ServiceType: "fiber", Revenue: business.NewMoney(decimal.NewFromInt(100), "USD")},
		{CustomerID: "cust-2", ServiceType: "fiber", Revenue: business.NewMoney(decimal.NewFromInt(200), "USD")},
		{CustomerID: "cust-3", CustomerType: business.CustomerTypeUpgrade, ServiceType: "wireless", Revenue: business.NewMoney(decimal.NewFromInt(50), "USD")},
	}
}

func setupCommissionMocks(provider *testutil.MockBillingDataProvider, partnerID string, period business.DateRange) {
	provider.On("GetPartnerConfiguration", mock.Anything, partnerID).Return(&business.PartnerConfiguration{
		PartnerID:      partnerID,
		Name:           "Northwind Communications",
		CommissionTier: business.CommissionTierStandard,
		Active:         true,
	}, nil)
	provider.On("GetCommissionRates", mock.Anything, partnerID, business.CommissionTierStandard).Return(standardRates(), nil)
	provider.On("GetPartnerCustomerRevenues", mock.Anything, partnerID, period).Return(partnerRevenues(), nil)
}

func TestCalculatePartnerCommissions_RatesAndFallbacks(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	setupCommissionMocks(provider, "partner-1", june2024)

	engine := newEngine(provider, resellerPortal("partner-1"))
	p := params.NewPartnerCommissionParams("partner-1", june2024)

	commissions, err := engine.CalculatePartnerCommissions(context.Background(), p)

	require.NoError(t, err)
	require.Len(t, commissions, 3)

	byCustomer := map[string]business.Commission{}
	for _, c := range commissions {
		byCustomer[c.CustomerID] = c
	}

	// specific (fiber, new) rate
	assert.True(t, byCustomer["cust-1"].CommissionAmount.Amount.Equal(decimal.NewFromInt(15)))
	// missing type defaults to renewal, hits the (fiber, renewal) rate
	assert.Equal(t, business.CustomerTypeRenewal, byCustomer["cust-2"].CustomerType)
	assert.True(t, byCustomer["cust-2"].CommissionAmount.Amount.Equal(decimal.NewFromInt(16)))
	// no wireless entry: falls back to the table default of 5%
	assert.True(t, byCustomer["cust-3"].CommissionAmount.Amount.Equal(decimal.RequireFromString("2.5")))

	for _, c := range commissions {
		assert.Equal(t, business.CommissionStatusCalculated, c.Status)
	}
}

func TestCalculatePartnerCommissions_DeterministicIDs(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	setupCommissionMocks(provider, "partner-1", june2024)

	engine := newEngine(provider, resellerPortal("partner-1"))
	p := params.NewPartnerCommissionParams("partner-1", june2024)

	first, err := engine.CalculatePartnerCommissions(context.Background(), p)
	require.NoError(t, err)
	second, err := engine.CalculatePartnerCommissions(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, first, len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	assert.Equal(t, "comm_partner-1_cust-1_2024-06", first[0].ID)

	ids := map[string]bool{}
	for _, c := range first {
		assert.False(t, ids[c.ID], "duplicate commission id %s", c.ID)
		ids[c.ID] = true
	}
}

func TestCalculatePartnerCommissions_DistinctIDsAcrossMonths(t *testing.T) {
	july2024 := business.DateRange{
		StartDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	provider := new(testutil.MockBillingDataProvider)
	setupCommissionMocks(provider, "partner-1", june2024)
	provider.On("GetPartnerCustomerRevenues", mock.Anything, "partner-1", july2024).Return(partnerRevenues(), nil)

	engine := newEngine(provider, resellerPortal("partner-1"))

	june, err := engine.CalculatePartnerCommissions(context.Background(), params.NewPartnerCommissionParams("partner-1", june2024))
	require.NoError(t, err)
	july, err := engine.CalculatePartnerCommissions(context.Background(), params.NewPartnerCommissionParams("partner-1", july2024))
	require.NoError(t, err)

	assert.NotEqual(t, june[0].ID, july[0].ID)
}

func TestCalculatePartnerCommissions_InclusionFlags(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	setupCommissionMocks(provider, "partner-1", june2024)

	engine := newEngine(provider, resellerPortal("partner-1"))
	p := params.NewPartnerCommissionParams("partner-1", june2024)
	p.IncludeNewCustomers = false
	p.IncludeUpgrades = false

	commissions, err := engine.CalculatePartnerCommissions(context.Background(), p)

	require.NoError(t, err)
	require.Len(t, commissions, 1)
	assert.Equal(t, "cust-2", commissions[0].CustomerID)
}

func TestCalculatePartnerCommissions_ResellerCannotReadOtherPartner(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)

	engine := newEngine(provider, resellerPortal("partner-1"))
	p := params.NewPartnerCommissionParams("partner-2", june2024)

	_, err := engine.CalculatePartnerCommissions(context.Background(), p)

	require.ErrorIs(t, err, services.ErrInsufficientPermissions)
	provider.AssertNotCalled(t, "GetPartnerConfiguration", mock.Anything, mock.Anything)
}

func TestCalculatePartnerCommissions_DisabledByFeatureFlag(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)

	portal := business.PortalContext{
		PortalType:  business.PortalISPAdmin,
		UserID:      "op-1",
		TenantID:    "tenant-1",
		Permissions: []string{business.PermissionCommissionRead},
	}
	engine := newEngine(provider, portal)
	p := params.NewPartnerCommissionParams("partner-1", june2024)

	_, err := engine.CalculatePartnerCommissions(context.Background(), p)

	require.ErrorIs(t, err, services.ErrCommissionTrackingDisabled)
}

func moneyList(currency string, amounts ...int64) []business.Money {
	list := make([]business.Money, 0, len(amounts))
	for _, a := range amounts {
		list = append(list, business.NewMoney(decimal.NewFromInt(a), currency))
	}
	return list
}

func setupPlatformMocks(provider *testutil.MockBillingDataProvider, tenantID string, period business.DateRange, metrics *business.TenantCustomerMetrics) {
	provider.On("GetTenantCustomerRevenues", mock.Anything, tenantID, period).Return(moneyList("USD", 100, 200), nil)
	provider.On("GetTenantSubscriptionRevenue", mock.Anything, tenantID, period).Return(moneyList("USD", 300), nil)
	provider.On("GetTenantUsageRevenue", mock.Anything, tenantID, period).Return(moneyList("USD", 50), nil)
	provider.On("GetTenantOperationalCosts", mock.Anything, tenantID, period).Return(&business.CostBreakdown{
		Operational:    business.NewMoney(decimal.NewFromInt(80), "USD"),
		Infrastructure: business.NewMoney(decimal.NewFromInt(20), "USD"),
		Support:        business.NewMoney(decimal.NewFromInt(10), "USD"),
		Total:          business.NewMoney(decimal.NewFromInt(110), "USD"),
	}, nil)
	provider.On("GetTenantCustomerMetrics", mock.Anything, tenantID, period).Return(metrics, nil)
}

func TestCalculatePlatformRevenue_Aggregation(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	setupPlatformMocks(provider, "tenant-1", june2024, &business.TenantCustomerMetrics{
		TotalCustomers:        3,
		NewCustomers:          1,
		ChurnedCustomers:      0,
		CustomerLifetimeValue: business.NewMoney(decimal.NewFromInt(1200), "USD"),
	})

	engine := newEngine(provider, adminPortal())
	p := params.NewPlatformRevenueParams("tenant-1", june2024)

	got, err := engine.CalculatePlatformRevenue(context.Background(), p)

	require.NoError(t, err)
	assert.True(t, got.Revenue.CustomerRevenue.Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, got.Revenue.SubscriptionRevenue.Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, got.Revenue.UsageRevenue.Amount.Equal(decimal.NewFromInt(50)))
	assert.True(t, got.Revenue.TotalRevenue.Amount.Equal(decimal.NewFromInt(650)))
	assert.True(t, got.NetRevenue.Amount.Equal(decimal.NewFromInt(540)))

	require.NotNil(t, got.Metrics)
	assert.Equal(t, 3, got.Metrics.TotalCustomers)
	// ARPU divides customer revenue by customer count: 300 / 3
	assert.True(t, got.Metrics.AverageRevenuePerCustomer.Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.Metrics.CustomerLifetimeValue.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Nil(t, got.Projections)
}

func TestCalculatePlatformRevenue_ZeroCustomersARPUGuard(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	setupPlatformMocks(provider, "tenant-1", june2024, &business.TenantCustomerMetrics{
		TotalCustomers: 0,
	})

	engine := newEngine(provider, adminPortal())
	p := params.NewPlatformRevenueParams("tenant-1", june2024)

	got, err := engine.CalculatePlatformRevenue(context.Background(), p)

	require.NoError(t, err)
	require.NotNil(t, got.Metrics)
	assert.True(t, got.Metrics.AverageRevenuePerCustomer.Amount.IsZero())
}

func TestCalculatePlatformRevenue_CostsExcluded(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	provider.On("GetTenantCustomerRevenues", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 100), nil)
	provider.On("GetTenantSubscriptionRevenue", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 200), nil)
	provider.On("GetTenantUsageRevenue", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 0), nil)

	engine := newEngine(provider, adminPortal())
	p := params.PlatformRevenueParams{TenantID: "tenant-1", Period: june2024}

	got, err := engine.CalculatePlatformRevenue(context.Background(), p)

	require.NoError(t, err)
	// costs default to zero when excluded: net equals total revenue
	assert.True(t, got.Costs.Total.Amount.IsZero())
	assert.True(t, got.NetRevenue.Amount.Equal(decimal.NewFromInt(300)))
	provider.AssertNotCalled(t, "GetTenantOperationalCosts", mock.Anything, mock.Anything, mock.Anything)
	provider.AssertNotCalled(t, "GetTenantCustomerMetrics", mock.Anything, mock.Anything, mock.Anything)
}

func TestCalculatePlatformRevenue_Projections(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	provider.On("GetTenantCustomerRevenues", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 150), nil)
	provider.On("GetTenantSubscriptionRevenue", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 150), nil)
	provider.On("GetTenantUsageRevenue", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 0), nil)

	engine := newEngine(provider, adminPortal())
	p := params.PlatformRevenueParams{
		TenantID:           "tenant-1",
		Period:             june2024,
		IncludeProjections: true,
	}

	got, err := engine.CalculatePlatformRevenue(context.Background(), p)

	require.NoError(t, err)
	require.NotNil(t, got.Projections)
	// $300 over 30 days: $10/day, projected over July's 31 days
	assert.True(t, got.Projections.DailyRunRate.Amount.Equal(decimal.NewFromInt(10)))
	assert.True(t, got.Projections.ProjectedRevenue.Amount.Equal(decimal.NewFromInt(310)))
}

func TestCalculatePlatformRevenue_TenantScopedAccess(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)

	portal := business.PortalContext{
		PortalType:  business.PortalISPAdmin,
		UserID:      "op-1",
		TenantID:    "tenant-1",
		Permissions: []string{business.PermissionTenantAnalyticsRead},
	}
	engine := newEngine(provider, portal)

	// Own tenant with analytics permission is allowed
	provider.On("GetTenantCustomerRevenues", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 10), nil)
	provider.On("GetTenantSubscriptionRevenue", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 0), nil)
	provider.On("GetTenantUsageRevenue", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 0), nil)

	_, err := engine.CalculatePlatformRevenue(context.Background(), params.PlatformRevenueParams{TenantID: "tenant-1", Period: june2024})
	require.NoError(t, err)

	// A different tenant is not
	_, err = engine.CalculatePlatformRevenue(context.Background(), params.PlatformRevenueParams{TenantID: "tenant-2", Period: june2024})
	require.ErrorIs(t, err, services.ErrInsufficientPermissions)
}

func TestCalculatePlatformRevenue_DependencyFailure(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	provider.On("GetTenantCustomerRevenues", mock.Anything, "tenant-1", june2024).Return(nil, fmt.Errorf("revenue store unavailable"))
	provider.On("GetTenantSubscriptionRevenue", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 0), nil).Maybe()
	provider.On("GetTenantUsageRevenue", mock.Anything, "tenant-1", june2024).Return(moneyList("USD", 0), nil).Maybe()

	engine := newEngine(provider, adminPortal())

	_, err := engine.CalculatePlatformRevenue(context.Background(), params.PlatformRevenueParams{TenantID: "tenant-1", Period: june2024})

	require.Error(t, err)
	var depErr *services.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Contains(t, err.Error(), "failed to calculate platform revenue")
}
