package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Provider is a postgres-backed billing data provider for deployments that
// own the billing schema directly instead of calling the billing API.
type Provider struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewProvider creates a provider over an existing connection pool
func NewProvider(pool *pgxpool.Pool) *Provider {
	return &Provider{
		pool:   pool,
		logger: logger.Log,
	}
}

// NewPool creates a pgx connection pool with the standard settings
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 20
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return pool, nil
}

const getCustomerServicePlanQuery = `
SELECT p.id, p.name, p.service_type, p.base_price::text, p.currency, p.tax_rate::text
FROM service_plans p
JOIN customer_plans cp ON cp.plan_id = p.id
WHERE cp.customer_id = $1 AND cp.active
`

const getPlanTiersQuery = `
SELECT threshold::text, unit_price::text, unit
FROM plan_tiers
WHERE plan_id = $1
ORDER BY threshold ASC
`

func (p *Provider) GetCustomerServicePlan(ctx context.Context, customerID string) (*business.PricingPlan, error) {
	var (
		plan      business.PricingPlan
		basePrice string
		currency  string
		taxRate   string
	)
	row := p.pool.QueryRow(ctx, getCustomerServicePlanQuery, customerID)
	if err := row.Scan(&plan.ID, &plan.Name, &plan.ServiceType, &basePrice, &currency, &taxRate); err != nil {
		return nil, fmt.Errorf("failed to get customer service plan: %w", err)
	}

	amount, err := decimal.NewFromString(basePrice)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base price: %w", err)
	}
	plan.BasePrice = business.NewMoney(amount, currency)

	if plan.TaxRate, err = decimal.NewFromString(taxRate); err != nil {
		return nil, fmt.Errorf("failed to parse tax rate: %w", err)
	}

	rows, err := p.pool.Query(ctx, getPlanTiersQuery, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan tiers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var threshold, unitPrice, unit string
		if err := rows.Scan(&threshold, &unitPrice, &unit); err != nil {
			return nil, fmt.Errorf("failed to scan plan tier: %w", err)
		}
		tier := business.PricingTier{Unit: unit}
		if tier.Threshold, err = decimal.NewFromString(threshold); err != nil {
			return nil, fmt.Errorf("failed to parse tier threshold: %w", err)
		}
		if tier.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("failed to parse tier unit price: %w", err)
		}
		plan.Tiers = append(plan.Tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read plan tiers: %w", err)
	}

	return &plan, nil
}

const getUsageDataQuery = `
SELECT download_bytes, upload_bytes, total_bytes, bandwidth_mbps,
       overage_bytes, overage_charge_per_gb::text
FROM usage_snapshots
WHERE customer_id = $1 AND period_start >= $2 AND period_end <= $3
ORDER BY period_start DESC
LIMIT 1
`

func (p *Provider) GetUsageData(ctx context.Context, customerID string, period business.DateRange) (*business.UsageData, error) {
	usage := business.UsageData{
		CustomerID: customerID,
		Period:     period,
	}
	var (
		overageBytes *int64
		overageRate  *string
	)
	row := p.pool.QueryRow(ctx, getUsageDataQuery, customerID, period.StartDate, period.EndDate)
	err := row.Scan(&usage.DownloadBytes, &usage.UploadBytes, &usage.TotalBytes,
		&usage.BandwidthMbps, &overageBytes, &overageRate)
	if err == pgx.ErrNoRows {
		// no metering in the period reads as zero usage
		return &usage, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get usage data: %w", err)
	}

	if overageBytes != nil && overageRate != nil {
		rate, err := decimal.NewFromString(*overageRate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse overage rate: %w", err)
		}
		usage.Overage = &business.OverageCharge{
			Bytes:       *overageBytes,
			ChargePerGB: rate,
		}
	}

	return &usage, nil
}

const getCustomerDiscountsQuery = `
SELECT id, code, discount_type, value::text, description
FROM customer_discounts
WHERE customer_id = $1
  AND valid_from <= $3 AND valid_until >= $2
`

func (p *Provider) GetCustomerDiscounts(ctx context.Context, customerID string, period business.DateRange) ([]business.Discount, error) {
	rows, err := p.pool.Query(ctx, getCustomerDiscountsQuery, customerID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer discounts: %w", err)
	}
	defer rows.Close()

	var discounts []business.Discount
	for rows.Next() {
		var (
			d     business.Discount
			value string
		)
		if err := rows.Scan(&d.ID, &d.Code, &d.Type, &value, &d.Description); err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		if d.Value, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("failed to parse discount value: %w", err)
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read discounts: %w", err)
	}
	return discounts, nil
}

const getTaxRateQuery = `
SELECT t.rate::text
FROM tax_rates t
JOIN customers c ON c.tax_region = t.region
WHERE c.id = $1
`

func (p *Provider) GetTaxRate(ctx context.Context, customerID string) (decimal.Decimal, error) {
	var rate string
	if err := p.pool.QueryRow(ctx, getTaxRateQuery, customerID).Scan(&rate); err != nil {
		if err == pgx.ErrNoRows {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get tax rate: %w", err)
	}
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse tax rate: %w", err)
	}
	return parsed, nil
}

const getPartnerConfigurationQuery = `
SELECT id, name, commission_tier, active
FROM partners
WHERE id = $1
`

func (p *Provider) GetPartnerConfiguration(ctx context.Context, partnerID string) (*business.PartnerConfiguration, error) {
	var partner business.PartnerConfiguration
	row := p.pool.QueryRow(ctx, getPartnerConfigurationQuery, partnerID)
	if err := row.Scan(&partner.PartnerID, &partner.Name, &partner.CommissionTier, &partner.Active); err != nil {
		return nil, fmt.Errorf("failed to get partner configuration: %w", err)
	}
	return &partner, nil
}

const getCommissionRatesQuery = `
SELECT service_type, customer_type, rate::text
FROM commission_rates
WHERE tier = $1
`

const getCommissionDefaultQuery = `
SELECT default_rate::text
FROM commission_tiers
WHERE tier = $1 AND default_rate IS NOT NULL
`

func (p *Provider) GetCommissionRates(ctx context.Context, partnerID, tier string) (*business.CommissionRateTable, error) {
	rows, err := p.pool.Query(ctx, getCommissionRatesQuery, tier)
	if err != nil {
		return nil, fmt.Errorf("failed to get commission rates: %w", err)
	}
	defer rows.Close()

	table := business.CommissionRateTable{
		Tier:  tier,
		Rates: map[string]map[string]decimal.Decimal{},
	}
	for rows.Next() {
		var serviceType, customerType, rate string
		if err := rows.Scan(&serviceType, &customerType, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan commission rate: %w", err)
		}
		parsed, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse commission rate: %w", err)
		}
		if table.Rates[serviceType] == nil {
			table.Rates[serviceType] = map[string]decimal.Decimal{}
		}
		table.Rates[serviceType][customerType] = parsed
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read commission rates: %w", err)
	}

	var defaultRate string
	err = p.pool.QueryRow(ctx, getCommissionDefaultQuery, tier).Scan(&defaultRate)
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get default commission rate: %w", err)
	}
	if err == nil {
		parsed, err := decimal.NewFromString(defaultRate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse default commission rate: %w", err)
		}
		table.Default = &parsed
	}

	return &table, nil
}

const getPartnerCustomerRevenuesQuery = `
SELECT customer_id, COALESCE(customer_type, ''), COALESCE(service_type, ''),
       revenue::text, currency
FROM partner_customer_revenues
WHERE partner_id = $1 AND period_start >= $2 AND period_end <= $3
ORDER BY customer_id
`

func (p *Provider) GetPartnerCustomerRevenues(ctx context.Context, partnerID string, period business.DateRange) ([]business.CustomerRevenue, error) {
	rows, err := p.pool.Query(ctx, getPartnerCustomerRevenuesQuery, partnerID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner customer revenues: %w", err)
	}
	defer rows.Close()

	var revenues []business.CustomerRevenue
	for rows.Next() {
		var (
			r        business.CustomerRevenue
			amount   string
			currency string
		)
		if err := rows.Scan(&r.CustomerID, &r.CustomerType, &r.ServiceType, &amount, &currency); err != nil {
			return nil, fmt.Errorf("failed to scan customer revenue: %w", err)
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse revenue amount: %w", err)
		}
		r.Revenue = business.NewMoney(parsed, currency)
		revenues = append(revenues, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customer revenues: %w", err)
	}
	return revenues, nil
}

func (p *Provider) GetTenantCustomerRevenues(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	return p.tenantAmounts(ctx, "customer", tenantID, period)
}

func (p *Provider) GetTenantSubscriptionRevenue(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	return p.tenantAmounts(ctx, "subscription", tenantID, period)
}

func (p *Provider) GetTenantUsageRevenue(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	return p.tenantAmounts(ctx, "usage", tenantID, period)
}

const tenantAmountsQuery = `
SELECT amount::text, currency
FROM tenant_revenues
WHERE tenant_id = $1 AND category = $2
  AND period_start >= $3 AND period_end <= $4
`

func (p *Provider) tenantAmounts(ctx context.Context, category, tenantID string, period business.DateRange) ([]business.Money, error) {
	rows, err := p.pool.Query(ctx, tenantAmountsQuery, tenantID, category, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant %s revenues: %w", category, err)
	}
	defer rows.Close()

	var amounts []business.Money
	for rows.Next() {
		var amount, currency string
		if err := rows.Scan(&amount, &currency); err != nil {
			return nil, fmt.Errorf("failed to scan tenant revenue: %w", err)
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tenant revenue: %w", err)
		}
		amounts = append(amounts, business.NewMoney(parsed, currency))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tenant revenues: %w", err)
	}
	return amounts, nil
}

const getTenantOperationalCostsQuery = `
SELECT operational::text, infrastructure::text, support::text, currency
FROM tenant_costs
WHERE tenant_id = $1 AND period_start >= $2 AND period_end <= $3
`

func (p *Provider) GetTenantOperationalCosts(ctx context.Context, tenantID string, period business.DateRange) (*business.CostBreakdown, error) {
	var operational, infrastructure, support, currency string
	row := p.pool.QueryRow(ctx, getTenantOperationalCostsQuery, tenantID, period.StartDate, period.EndDate)
	err := row.Scan(&operational, &infrastructure, &support, &currency)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant operational costs: %w", err)
	}

	costs := business.CostBreakdown{}
	fields := []struct {
		raw string
		dst *business.Money
	}{
		{operational, &costs.Operational},
		{infrastructure, &costs.Infrastructure},
		{support, &costs.Support},
	}
	total := decimal.Zero
	for _, f := range fields {
		amount, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cost amount: %w", err)
		}
		*f.dst = business.NewMoney(amount, currency)
		total = total.Add(amount)
	}
	costs.Total = business.NewMoney(total, currency)

	return &costs, nil
}

const getTenantCustomerMetricsQuery = `
SELECT total_customers, new_customers, churned_customers,
       lifetime_value::text, currency
FROM tenant_customer_metrics
WHERE tenant_id = $1 AND period_start >= $2 AND period_end <= $3
`

func (p *Provider) GetTenantCustomerMetrics(ctx context.Context, tenantID string, period business.DateRange) (*business.TenantCustomerMetrics, error) {
	var (
		metrics  business.TenantCustomerMetrics
		ltv      string
		currency string
	)
	row := p.pool.QueryRow(ctx, getTenantCustomerMetricsQuery, tenantID, period.StartDate, period.EndDate)
	err := row.Scan(&metrics.TotalCustomers, &metrics.NewCustomers, &metrics.ChurnedCustomers, &ltv, &currency)
	if err == pgx.ErrNoRows {
		return &business.TenantCustomerMetrics{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant customer metrics: %w", err)
	}

	amount, err := decimal.NewFromString(ltv)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lifetime value: %w", err)
	}
	metrics.CustomerLifetimeValue = business.NewMoney(amount, currency)

	p.logger.Debug("Loaded tenant customer metrics",
		zap.String("tenant_id", tenantID),
		zap.Int("total_customers", metrics.TotalCustomers))

	return &metrics, nil
}
