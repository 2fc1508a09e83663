package services_test

import (
	"context"
	"testing"

	"github.com/netvista/netvista-api/internal/services"
	"github.com/netvista/netvista-api/internal/testutil"
	"github.com/netvista/netvista-api/internal/types/api/params"
	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory() *services.BusinessLogicFactory {
	return services.NewBusinessLogicFactory(
		services.DefaultConfigs("http://localhost:9000"),
		new(testutil.MockBillingDataProvider),
	)
}

func TestCreateEngines_KnownPortals(t *testing.T) {
	factory := newFactory()

	for _, portalType := range business.KnownPortalTypes {
		engines, err := factory.CreateEngines(business.PortalContext{
			PortalType: portalType,
			UserID:     "user-1",
			TenantID:   "tenant-1",
		})
		require.NoError(t, err, "portal %s", portalType)
		require.NotNil(t, engines.Revenue)
		require.NotNil(t, engines.Plan)
		require.NotNil(t, engines.Network)
	}
}

func TestCreateEngines_UnknownPortalFailsClosed(t *testing.T) {
	factory := newFactory()

	engines, err := factory.CreateEngines(business.PortalContext{
		PortalType: business.PortalType("billing-admin"),
		UserID:     "user-1",
	})

	require.ErrorIs(t, err, services.ErrUnknownPortalType)
	assert.Nil(t, engines)
}

func TestCreateEngines_EmptyPortalTypeFailsClosed(t *testing.T) {
	factory := newFactory()

	_, err := factory.CreateEngines(business.PortalContext{UserID: "user-1"})

	require.ErrorIs(t, err, services.ErrUnknownPortalType)
}

func TestDefaultConfigs_PerPortalFeatures(t *testing.T) {
	configs := services.DefaultConfigs("http://localhost:9000")

	tests := []struct {
		portal   business.PortalType
		features business.FeatureFlags
	}{
		{business.PortalManagementAdmin, business.FeatureFlags{
			RevenueCalculation: true, CommissionTracking: true, PlanRecommendations: true, NetworkAnalytics: true,
		}},
		{business.PortalISPAdmin, business.FeatureFlags{
			RevenueCalculation: true, PlanRecommendations: true, NetworkAnalytics: true,
		}},
		{business.PortalCustomer, business.FeatureFlags{
			RevenueCalculation: true, PlanRecommendations: true,
		}},
		{business.PortalReseller, business.FeatureFlags{
			RevenueCalculation: true, CommissionTracking: true,
		}},
		{business.PortalTechnician, business.FeatureFlags{
			NetworkAnalytics: true,
		}},
	}

	for _, tc := range tests {
		t.Run(string(tc.portal), func(t *testing.T) {
			config, ok := configs[tc.portal]
			require.True(t, ok)
			assert.Equal(t, tc.features, config.Features)
		})
	}
}

func TestDefaultConfigs_CustomerCacheTimeout(t *testing.T) {
	configs := services.DefaultConfigs("http://localhost:9000")

	assert.Greater(t, configs[business.PortalCustomer].CacheTimeout, configs[business.PortalISPAdmin].CacheTimeout)
}

func TestForReseller_CommissionFlowEndToEnd(t *testing.T) {
	provider := new(testutil.MockBillingDataProvider)
	setupCommissionMocks(provider, "partner-1", june2024)

	factory := services.NewBusinessLogicFactory(services.DefaultConfigs("http://localhost:9000"), provider)
	engines, err := factory.ForReseller("partner-1", "tenant-1", nil)
	require.NoError(t, err)

	commissions, err := engines.Revenue.CalculatePartnerCommissions(context.Background(),
		params.NewPartnerCommissionParams("partner-1", june2024))

	require.NoError(t, err)
	assert.NotEmpty(t, commissions)
}
