package testutil

import (
	"context"

	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockBillingDataProvider is a testify mock of the billing data provider
// used across engine and handler tests.
type MockBillingDataProvider struct {
	mock.Mock
}

func (m *MockBillingDataProvider) GetCustomerServicePlan(ctx context.Context, customerID string) (*business.PricingPlan, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.PricingPlan), args.Error(1)
}

func (m *MockBillingDataProvider) GetUsageData(ctx context.Context, customerID string, period business.DateRange) (*business.UsageData, error) {
	args := m.Called(ctx, customerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.UsageData), args.Error(1)
}

func (m *MockBillingDataProvider) GetCustomerDiscounts(ctx context.Context, customerID string, period business.DateRange) ([]business.Discount, error) {
	args := m.Called(ctx, customerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.Discount), args.Error(1)
}

func (m *MockBillingDataProvider) GetTaxRate(ctx context.Context, customerID string) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBillingDataProvider) GetPartnerConfiguration(ctx context.Context, partnerID string) (*business.PartnerConfiguration, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.PartnerConfiguration), args.Error(1)
}

func (m *MockBillingDataProvider) GetCommissionRates(ctx context.Context, partnerID, tier string) (*business.CommissionRateTable, error) {
	args := m.Called(ctx, partnerID, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.CommissionRateTable), args.Error(1)
}

func (m *MockBillingDataProvider) GetPartnerCustomerRevenues(ctx context.Context, partnerID string, period business.DateRange) ([]business.CustomerRevenue, error) {
	args := m.Called(ctx, partnerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.CustomerRevenue), args.Error(1)
}

func (m *MockBillingDataProvider) GetTenantCustomerRevenues(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.Money), args.Error(1)
}

func (m *MockBillingDataProvider) GetTenantSubscriptionRevenue(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.Money), args.Error(1)
}

func (m *MockBillingDataProvider) GetTenantUsageRevenue(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]business.Money), args.Error(1)
}

func (m *MockBillingDataProvider) GetTenantOperationalCosts(ctx context.Context, tenantID string, period business.DateRange) (*business.CostBreakdown, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.CostBreakdown), args.Error(1)
}

func (m *MockBillingDataProvider) GetTenantCustomerMetrics(ctx context.Context, tenantID string, period business.DateRange) (*business.TenantCustomerMetrics, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.TenantCustomerMetrics), args.Error(1)
}
