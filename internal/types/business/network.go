package business

import (
	"github.com/shopspring/decimal"
)

// PlanRecommendation is the plan engine's verdict on whether a customer's
// usage pattern justifies a different plan.
type PlanRecommendation struct {
	CustomerID           string          `json:"customer_id"`
	CurrentPlan          PricingPlan     `json:"current_plan"`
	UpgradeRecommended   bool            `json:"upgrade_recommended"`
	Reason               string          `json:"reason"`
	ProjectedMonthlyCost Money           `json:"projected_monthly_cost"`
	UsageGB              decimal.Decimal `json:"usage_gb"`
}

// UsageSummary is the network engine's bandwidth aggregate for a customer
type UsageSummary struct {
	CustomerID        string          `json:"customer_id"`
	Period            DateRange       `json:"period"`
	DownloadGB        decimal.Decimal `json:"download_gb"`
	UploadGB          decimal.Decimal `json:"upload_gb"`
	TotalGB           decimal.Decimal `json:"total_gb"`
	PeakBandwidthMbps float64         `json:"peak_bandwidth_mbps"`
	OverageGB         decimal.Decimal `json:"overage_gb"`
}
