package responses

import (
	"time"

	"github.com/netvista/netvista-api/internal/types/business"
)

// CustomerRevenueResponse is the result of a customer revenue calculation
type CustomerRevenueResponse struct {
	CustomerID   string         `json:"customer_id"`
	Period       PeriodResponse `json:"period"`
	Total        business.Money `json:"total"`
	CalculatedAt time.Time      `json:"calculated_at"`
}

// PartnerCommissionResponse is the result of a partner commission run
type PartnerCommissionResponse struct {
	PartnerID   string                `json:"partner_id"`
	Period      PeriodResponse        `json:"period"`
	Commissions []business.Commission `json:"commissions"`
	TotalAmount business.Money        `json:"total_amount"`
}

// PlatformRevenueResponse wraps the platform revenue aggregate
type PlatformRevenueResponse struct {
	Platform business.PlatformRevenue `json:"platform"`
}

// PeriodResponse echoes a billing period back to the caller
type PeriodResponse struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// NewPeriodResponse converts a business date range for API output
func NewPeriodResponse(period business.DateRange) PeriodResponse {
	return PeriodResponse{StartDate: period.StartDate, EndDate: period.EndDate}
}
