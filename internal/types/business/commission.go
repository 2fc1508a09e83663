package business

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionStatus is the lifecycle state of a commission record. Records
// leave this service in StatusCalculated; the payment system transitions
// them to paid or disputed later.
type CommissionStatus string

const (
	CommissionStatusPending    CommissionStatus = "pending"
	CommissionStatusCalculated CommissionStatus = "calculated"
	CommissionStatusPaid       CommissionStatus = "paid"
	CommissionStatusDisputed   CommissionStatus = "disputed"
)

// Customer classification for commission eligibility
const (
	CustomerTypeNew     = "new"
	CustomerTypeUpgrade = "upgrade"
	CustomerTypeRenewal = "renewal"
)

// Commission tiers (named rate schedules)
const (
	CommissionTierStandard   = "standard"
	CommissionTierPremium    = "premium"
	CommissionTierEnterprise = "enterprise"
)

// Commission is one partner's earnings on one customer for one period.
// IDs are deterministic per (partner, customer, period month) so a
// downstream persistence layer can upsert recomputations idempotently.
type Commission struct {
	ID               string           `json:"id"`
	PartnerID        string           `json:"partner_id"`
	CustomerID       string           `json:"customer_id"`
	Period           DateRange        `json:"period"`
	Revenue          Money            `json:"revenue"`
	CommissionRate   decimal.Decimal  `json:"commission_rate"`
	CommissionAmount Money            `json:"commission_amount"`
	CustomerType     string           `json:"customer_type"`
	ServiceType      string           `json:"service_type,omitempty"`
	Status           CommissionStatus `json:"status"`
	CalculatedAt     time.Time        `json:"calculated_at"`
}

// PartnerConfiguration is a reseller's commission setup
type PartnerConfiguration struct {
	PartnerID      string `json:"partner_id"`
	Name           string `json:"name"`
	CommissionTier string `json:"commission_tier"`
	Active         bool   `json:"active"`
}

// CommissionRateTable maps (service type, customer type) to a commission
// rate fraction. Default, when present, applies to any pair without a
// specific entry.
type CommissionRateTable struct {
	Tier    string                                `json:"tier"`
	Rates   map[string]map[string]decimal.Decimal `json:"rates"`
	Default *decimal.Decimal                      `json:"default,omitempty"`
}

// Lookup resolves the rate for a (serviceType, customerType) pair with the
// fallback chain: specific rate, table default, then fallback.
func (t CommissionRateTable) Lookup(serviceType, customerType string, fallback decimal.Decimal) decimal.Decimal {
	if byService, ok := t.Rates[serviceType]; ok {
		if rate, ok := byService[customerType]; ok {
			return rate
		}
	}
	if t.Default != nil {
		return *t.Default
	}
	return fallback
}

// CustomerRevenue is one customer's revenue attributed to a partner for a
// period, as reported by the upstream revenue records.
type CustomerRevenue struct {
	CustomerID   string `json:"customer_id"`
	CustomerType string `json:"customer_type,omitempty"`
	ServiceType  string `json:"service_type,omitempty"`
	Revenue      Money  `json:"revenue"`
}
