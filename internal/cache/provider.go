package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/netvista/netvista-api/internal/interfaces"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/metrics"
	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Provider decorates a billing data provider with a Redis read-through
// cache. Cache failures are logged and fall through to the underlying
// provider; a cold or unreachable cache never fails a calculation.
type Provider struct {
	next   interfaces.BillingDataProvider
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProvider wraps next with a Redis cache using the given TTL
func NewProvider(next interfaces.BillingDataProvider, client *redis.Client, ttl time.Duration) *Provider {
	return &Provider{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.Log,
	}
}

// NewClient creates a Redis client from a URL and verifies connectivity
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (p *Provider) GetCustomerServicePlan(ctx context.Context, customerID string) (*business.PricingPlan, error) {
	key := fmt.Sprintf("billing:plan:%s", customerID)
	var plan business.PricingPlan
	if p.getCached(ctx, key, &plan) {
		return &plan, nil
	}
	fresh, err := p.next.GetCustomerServicePlan(ctx, customerID)
	if err != nil {
		return nil, err
	}
	p.setCached(ctx, key, fresh)
	return fresh, nil
}

func (p *Provider) GetUsageData(ctx context.Context, customerID string, period business.DateRange) (*business.UsageData, error) {
	key := fmt.Sprintf("billing:usage:%s:%s", customerID, periodKey(period))
	var usage business.UsageData
	if p.getCached(ctx, key, &usage) {
		return &usage, nil
	}
	fresh, err := p.next.GetUsageData(ctx, customerID, period)
	if err != nil {
		return nil, err
	}
	p.setCached(ctx, key, fresh)
	return fresh, nil
}

func (p *Provider) GetCustomerDiscounts(ctx context.Context, customerID string, period business.DateRange) ([]business.Discount, error) {
	key := fmt.Sprintf("billing:discounts:%s:%s", customerID, periodKey(period))
	var discounts []business.Discount
	if p.getCached(ctx, key, &discounts) {
		return discounts, nil
	}
	fresh, err := p.next.GetCustomerDiscounts(ctx, customerID, period)
	if err != nil {
		return nil, err
	}
	p.setCached(ctx, key, fresh)
	return fresh, nil
}

func (p *Provider) GetTaxRate(ctx context.Context, customerID string) (decimal.Decimal, error) {
	key := fmt.Sprintf("billing:tax:%s", customerID)
	var rate decimal.Decimal
	if p.getCached(ctx, key, &rate) {
		return rate, nil
	}
	fresh, err := p.next.GetTaxRate(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	p.setCached(ctx, key, fresh)
	return fresh, nil
}

func (p *Provider) GetPartnerConfiguration(ctx context.Context, partnerID string) (*business.PartnerConfiguration, error) {
	key := fmt.Sprintf("billing:partner:%s", partnerID)
	var partner business.PartnerConfiguration
	if p.getCached(ctx, key, &partner) {
		return &partner, nil
	}
	fresh, err := p.next.GetPartnerConfiguration(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	p.setCached(ctx, key, fresh)
	return fresh, nil
}

func (p *Provider) GetCommissionRates(ctx context.Context, partnerID, tier string) (*business.CommissionRateTable, error) {
	key := fmt.Sprintf("billing:rates:%s:%s", partnerID, tier)
	var rates business.CommissionRateTable
	if p.getCached(ctx, key, &rates) {
		return &rates, nil
	}
	fresh, err := p.next.GetCommissionRates(ctx, partnerID, tier)
	if err != nil {
		return nil, err
	}
	p.setCached(ctx, key, fresh)
	return fresh, nil
}

// Revenue record reads are not cached: commission and platform runs must
// see the latest attributed revenue.

func (p *Provider) GetPartnerCustomerRevenues(ctx context.Context, partnerID string, period business.DateRange) ([]business.CustomerRevenue, error) {
	return p.next.GetPartnerCustomerRevenues(ctx, partnerID, period)
}

func (p *Provider) GetTenantCustomerRevenues(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	return p.next.GetTenantCustomerRevenues(ctx, tenantID, period)
}

func (p *Provider) GetTenantSubscriptionRevenue(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	return p.next.GetTenantSubscriptionRevenue(ctx, tenantID, period)
}

func (p *Provider) GetTenantUsageRevenue(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	return p.next.GetTenantUsageRevenue(ctx, tenantID, period)
}

func (p *Provider) GetTenantOperationalCosts(ctx context.Context, tenantID string, period business.DateRange) (*business.CostBreakdown, error) {
	return p.next.GetTenantOperationalCosts(ctx, tenantID, period)
}

func (p *Provider) GetTenantCustomerMetrics(ctx context.Context, tenantID string, period business.DateRange) (*business.TenantCustomerMetrics, error) {
	return p.next.GetTenantCustomerMetrics(ctx, tenantID, period)
}

func (p *Provider) getCached(ctx context.Context, key string, out interface{}) bool {
	payload, err := p.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.CacheMiss()
		return false
	}
	if err != nil {
		p.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		metrics.CacheMiss()
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		p.logger.Warn("Cache entry corrupted", zap.String("key", key), zap.Error(err))
		metrics.CacheMiss()
		return false
	}
	metrics.CacheHit()
	return true
}

func (p *Provider) setCached(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		p.logger.Warn("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := p.client.Set(ctx, key, payload, p.ttl).Err(); err != nil {
		p.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func periodKey(period business.DateRange) string {
	return fmt.Sprintf("%s_%s",
		period.StartDate.Format("2006-01-02"),
		period.EndDate.Format("2006-01-02"))
}
