package services

import (
	"fmt"
	"time"

	"github.com/netvista/netvista-api/internal/interfaces"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/types/business"
	"go.uber.org/zap"
)

// EngineSet bundles the three engines a portal works with. All share one
// config and portal context.
type EngineSet struct {
	Revenue *RevenueEngine
	Plan    *PlanEngine
	Network *NetworkEngine
}

// BusinessLogicFactory builds portal-scoped engine sets. Per-portal
// configuration is an explicit map supplied at construction, not a hidden
// package-level table.
type BusinessLogicFactory struct {
	configs  map[business.PortalType]business.BusinessLogicConfig
	provider interfaces.BillingDataProvider
	logger   *zap.Logger
}

// NewBusinessLogicFactory creates a factory over the given per-portal
// configuration map and data provider
func NewBusinessLogicFactory(configs map[business.PortalType]business.BusinessLogicConfig, provider interfaces.BillingDataProvider) *BusinessLogicFactory {
	return &BusinessLogicFactory{
		configs:  configs,
		provider: provider,
		logger:   logger.Log,
	}
}

// DefaultConfigs returns the standard per-portal configuration map.
// Commission tracking is off for the ISP admin and customer portals;
// customers additionally lose platform revenue calculation.
func DefaultConfigs(apiBaseURL string) map[business.PortalType]business.BusinessLogicConfig {
	base := business.BusinessLogicConfig{
		APIBaseURL:   apiBaseURL,
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		CacheTimeout: 5 * time.Minute,
	}

	managementAdmin := base
	managementAdmin.Features = business.FeatureFlags{
		RevenueCalculation:  true,
		CommissionTracking:  true,
		PlanRecommendations: true,
		NetworkAnalytics:    true,
	}

	ispAdmin := base
	ispAdmin.Features = business.FeatureFlags{
		RevenueCalculation:  true,
		CommissionTracking:  false,
		PlanRecommendations: true,
		NetworkAnalytics:    true,
	}

	customer := base
	customer.CacheTimeout = 15 * time.Minute
	customer.Features = business.FeatureFlags{
		RevenueCalculation:  true,
		CommissionTracking:  false,
		PlanRecommendations: true,
		NetworkAnalytics:    false,
	}

	reseller := base
	reseller.Features = business.FeatureFlags{
		RevenueCalculation:  true,
		CommissionTracking:  true,
		PlanRecommendations: false,
		NetworkAnalytics:    false,
	}

	technician := base
	technician.Features = business.FeatureFlags{
		RevenueCalculation:  false,
		CommissionTracking:  false,
		PlanRecommendations: false,
		NetworkAnalytics:    true,
	}

	return map[business.PortalType]business.BusinessLogicConfig{
		business.PortalManagementAdmin: managementAdmin,
		business.PortalISPAdmin:        ispAdmin,
		business.PortalCustomer:        customer,
		business.PortalReseller:        reseller,
		business.PortalTechnician:      technician,
	}
}

// CreateEngines builds an engine set for the given portal context.
// Unrecognised portal types fail closed rather than silently receiving a
// base configuration.
func (f *BusinessLogicFactory) CreateEngines(portal business.PortalContext) (*EngineSet, error) {
	config, ok := f.configs[portal.PortalType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPortalType, portal.PortalType)
	}

	f.logger.Debug("Creating engine set",
		zap.String("portal_type", string(portal.PortalType)),
		zap.String("user_id", portal.UserID),
		zap.String("tenant_id", portal.TenantID))

	return &EngineSet{
		Revenue: NewRevenueEngine(config, portal, f.provider),
		Plan:    NewPlanEngine(config, portal, f.provider),
		Network: NewNetworkEngine(config, portal, f.provider),
	}, nil
}

// ForManagementAdmin builds engines scoped to the management admin portal
func (f *BusinessLogicFactory) ForManagementAdmin(userID string, permissions []string) (*EngineSet, error) {
	return f.CreateEngines(business.PortalContext{
		PortalType:  business.PortalManagementAdmin,
		UserID:      userID,
		Permissions: permissions,
	})
}

// ForISPAdmin builds engines scoped to an ISP admin's tenant
func (f *BusinessLogicFactory) ForISPAdmin(userID, tenantID string, permissions []string) (*EngineSet, error) {
	return f.CreateEngines(business.PortalContext{
		PortalType:  business.PortalISPAdmin,
		UserID:      userID,
		TenantID:    tenantID,
		Permissions: permissions,
	})
}

// ForCustomer builds engines scoped to a customer portal session
func (f *BusinessLogicFactory) ForCustomer(userID, tenantID string, permissions []string) (*EngineSet, error) {
	return f.CreateEngines(business.PortalContext{
		PortalType:  business.PortalCustomer,
		UserID:      userID,
		TenantID:    tenantID,
		Permissions: permissions,
	})
}

// ForReseller builds engines scoped to a reseller partner
func (f *BusinessLogicFactory) ForReseller(userID, tenantID string, permissions []string) (*EngineSet, error) {
	return f.CreateEngines(business.PortalContext{
		PortalType:  business.PortalReseller,
		UserID:      userID,
		TenantID:    tenantID,
		Permissions: permissions,
	})
}

// ForTechnician builds engines scoped to a field technician session
func (f *BusinessLogicFactory) ForTechnician(userID, tenantID string, permissions []string) (*EngineSet, error) {
	return f.CreateEngines(business.PortalContext{
		PortalType:  business.PortalTechnician,
		UserID:      userID,
		TenantID:    tenantID,
		Permissions: permissions,
	})
}
