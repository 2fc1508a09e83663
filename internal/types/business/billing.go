package business

import (
	"github.com/shopspring/decimal"
)

// Usage units recognised by pricing tiers
const (
	UnitMB   = "MB"
	UnitGB   = "GB"
	UnitTB   = "TB"
	UnitMbps = "Mbps"
)

// Discount types
const (
	DiscountTypePercentage  = "percentage"
	DiscountTypeFixedAmount = "fixed_amount"
)

// PricingTier defines marginal pricing above a usage threshold.
// Threshold and the band above it are expressed in Unit.
type PricingTier struct {
	Threshold decimal.Decimal `json:"threshold"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Unit      string          `json:"unit"`
}

// PricingPlan is a customer's current service plan. Tiers, when present,
// are ordered ascending by threshold.
type PricingPlan struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ServiceType string          `json:"service_type"`
	BasePrice   Money           `json:"base_price"`
	Tiers       []PricingTier   `json:"tiers,omitempty"`
	TaxRate     decimal.Decimal `json:"tax_rate,omitempty"`
}

// HasTiers reports whether the plan carries tiered usage pricing
func (p PricingPlan) HasTiers() bool {
	return len(p.Tiers) > 0
}

// OverageCharge describes metered usage beyond the plan allowance
type OverageCharge struct {
	Bytes       int64           `json:"bytes"`
	ChargePerGB decimal.Decimal `json:"charge_per_gb"`
}

// UsageData is an immutable per-customer usage snapshot for a billing period,
// produced by the external metering collaborator.
type UsageData struct {
	CustomerID    string         `json:"customer_id"`
	Period        DateRange      `json:"period"`
	DownloadBytes int64          `json:"download_bytes"`
	UploadBytes   int64          `json:"upload_bytes"`
	TotalBytes    int64          `json:"total_bytes"`
	BandwidthMbps float64        `json:"bandwidth_mbps"`
	Overage       *OverageCharge `json:"overage,omitempty"`
}

// Discount is an applicable discount record for a customer and period
type Discount struct {
	ID          string          `json:"id"`
	Code        string          `json:"code,omitempty"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description,omitempty"`
}
