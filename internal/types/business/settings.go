package business

import (
	"time"
)

// FeatureFlags toggles engine capabilities per portal
type FeatureFlags struct {
	RevenueCalculation  bool `json:"revenue_calculation"`
	CommissionTracking  bool `json:"commission_tracking"`
	PlanRecommendations bool `json:"plan_recommendations"`
	NetworkAnalytics    bool `json:"network_analytics"`
}

// BusinessLogicConfig configures an engine for one portal type
type BusinessLogicConfig struct {
	APIBaseURL   string        `json:"api_base_url"`
	Timeout      time.Duration `json:"timeout"`
	MaxRetries   int           `json:"max_retries"`
	CacheTimeout time.Duration `json:"cache_timeout"`
	Features     FeatureFlags  `json:"features"`
}
