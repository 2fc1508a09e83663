package business

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount in a single currency. Amounts are
// decimal so accumulation never picks up binary floating-point error.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney creates a Money value in the given currency
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// ZeroMoney returns a zero amount in the given currency
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add returns the sum of two amounts. The receiver's currency wins; callers
// are expected to only combine amounts in the same currency.
func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

// Sub returns the difference of two amounts
func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

// IsZero reports whether the amount is exactly zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// String renders the amount with its currency code
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency)
}

// DateRange is a half-open billing interval [StartDate, EndDate)
type DateRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Validate checks the StartDate <= EndDate invariant
func (r DateRange) Validate() error {
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("invalid date range: start %s is after end %s",
			r.StartDate.Format(time.RFC3339), r.EndDate.Format(time.RFC3339))
	}
	return nil
}

// Days returns the number of whole days covered by the interval.
// Both endpoints are normalized to midnight for consistent calculation.
func (r DateRange) Days() int {
	start := time.Date(r.StartDate.Year(), r.StartDate.Month(), r.StartDate.Day(), 0, 0, 0, 0, r.StartDate.Location())
	end := time.Date(r.EndDate.Year(), r.EndDate.Month(), r.EndDate.Day(), 0, 0, 0, 0, r.EndDate.Location())
	return int(end.Sub(start).Hours() / 24)
}

// DaysInMonth returns the number of calendar days in the month containing t
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
