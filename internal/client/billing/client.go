package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Intervals for the retry backoff. Kept short: the billing API sits in
// the same deployment and engine calls hold an open HTTP request.
const (
	retryInitialInterval = 200 * time.Millisecond
	retryMaxInterval     = 2 * time.Second
)

// Client is an HTTP implementation of the billing data provider backed by
// the upstream billing REST API. Transient failures (network errors and
// 5xx responses) are retried with exponential backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	logger     *zap.Logger
}

// NewClient creates a billing API client
func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		logger:     logger.Log,
	}
}

func (c *Client) GetCustomerServicePlan(ctx context.Context, customerID string) (*business.PricingPlan, error) {
	var plan business.PricingPlan
	path := fmt.Sprintf("/customers/%s/plan", url.PathEscape(customerID))
	if err := c.getJSON(ctx, path, nil, &plan); err != nil {
		return nil, errors.Wrap(err, "failed to get customer service plan")
	}
	return &plan, nil
}

func (c *Client) GetUsageData(ctx context.Context, customerID string, period business.DateRange) (*business.UsageData, error) {
	var usage business.UsageData
	path := fmt.Sprintf("/customers/%s/usage", url.PathEscape(customerID))
	if err := c.getJSON(ctx, path, periodQuery(period), &usage); err != nil {
		return nil, errors.Wrap(err, "failed to get usage data")
	}
	return &usage, nil
}

func (c *Client) GetCustomerDiscounts(ctx context.Context, customerID string, period business.DateRange) ([]business.Discount, error) {
	var discounts []business.Discount
	path := fmt.Sprintf("/customers/%s/discounts", url.PathEscape(customerID))
	if err := c.getJSON(ctx, path, periodQuery(period), &discounts); err != nil {
		return nil, errors.Wrap(err, "failed to get customer discounts")
	}
	return discounts, nil
}

func (c *Client) GetTaxRate(ctx context.Context, customerID string) (decimal.Decimal, error) {
	var payload struct {
		Rate decimal.Decimal `json:"rate"`
	}
	path := fmt.Sprintf("/customers/%s/tax-rate", url.PathEscape(customerID))
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to get tax rate")
	}
	return payload.Rate, nil
}

func (c *Client) GetPartnerConfiguration(ctx context.Context, partnerID string) (*business.PartnerConfiguration, error) {
	var partner business.PartnerConfiguration
	path := fmt.Sprintf("/partners/%s/configuration", url.PathEscape(partnerID))
	if err := c.getJSON(ctx, path, nil, &partner); err != nil {
		return nil, errors.Wrap(err, "failed to get partner configuration")
	}
	return &partner, nil
}

func (c *Client) GetCommissionRates(ctx context.Context, partnerID, tier string) (*business.CommissionRateTable, error) {
	var rates business.CommissionRateTable
	path := fmt.Sprintf("/partners/%s/commission-rates", url.PathEscape(partnerID))
	if err := c.getJSON(ctx, path, url.Values{"tier": {tier}}, &rates); err != nil {
		return nil, errors.Wrap(err, "failed to get commission rates")
	}
	return &rates, nil
}

func (c *Client) GetPartnerCustomerRevenues(ctx context.Context, partnerID string, period business.DateRange) ([]business.CustomerRevenue, error) {
	var revenues []business.CustomerRevenue
	path := fmt.Sprintf("/partners/%s/customer-revenues", url.PathEscape(partnerID))
	if err := c.getJSON(ctx, path, periodQuery(period), &revenues); err != nil {
		return nil, errors.Wrap(err, "failed to get partner customer revenues")
	}
	return revenues, nil
}

func (c *Client) GetTenantCustomerRevenues(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	return c.getTenantAmounts(ctx, tenantID, "customer-revenues", period)
}

func (c *Client) GetTenantSubscriptionRevenue(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	return c.getTenantAmounts(ctx, tenantID, "subscription-revenue", period)
}

func (c *Client) GetTenantUsageRevenue(ctx context.Context, tenantID string, period business.DateRange) ([]business.Money, error) {
	return c.getTenantAmounts(ctx, tenantID, "usage-revenue", period)
}

func (c *Client) GetTenantOperationalCosts(ctx context.Context, tenantID string, period business.DateRange) (*business.CostBreakdown, error) {
	var costs business.CostBreakdown
	path := fmt.Sprintf("/tenants/%s/operational-costs", url.PathEscape(tenantID))
	if err := c.getJSON(ctx, path, periodQuery(period), &costs); err != nil {
		return nil, errors.Wrap(err, "failed to get tenant operational costs")
	}
	return &costs, nil
}

func (c *Client) GetTenantCustomerMetrics(ctx context.Context, tenantID string, period business.DateRange) (*business.TenantCustomerMetrics, error) {
	var metrics business.TenantCustomerMetrics
	path := fmt.Sprintf("/tenants/%s/customer-metrics", url.PathEscape(tenantID))
	if err := c.getJSON(ctx, path, periodQuery(period), &metrics); err != nil {
		return nil, errors.Wrap(err, "failed to get tenant customer metrics")
	}
	return &metrics, nil
}

func (c *Client) getTenantAmounts(ctx context.Context, tenantID, resource string, period business.DateRange) ([]business.Money, error) {
	var amounts []business.Money
	path := fmt.Sprintf("/tenants/%s/%s", url.PathEscape(tenantID), resource)
	if err := c.getJSON(ctx, path, periodQuery(period), &amounts); err != nil {
		return nil, errors.Wrapf(err, "failed to get tenant %s", resource)
	}
	return amounts, nil
}

// getJSON issues a GET against the billing API and decodes the response
// into out, retrying transient failures up to maxRetries times.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	operation := func() error {
		return c.doRequest(ctx, endpoint, out)
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = retryInitialInterval
	expBackoff.MaxInterval = retryMaxInterval

	notify := func(err error, wait time.Duration) {
		c.logger.Debug("Retrying billing API request",
			zap.String("path", path),
			zap.Duration("backoff", wait),
			zap.Error(err))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(c.maxRetries)), ctx)
	return backoff.RetryNotify(operation, policy, notify)
}

// doRequest performs a single attempt. Failures that retrying cannot fix
// (request build errors, non-5xx statuses, decode errors) are wrapped with
// backoff.Permanent so the retry loop stops immediately.
func (c *Client) doRequest(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return backoff.Permanent(errors.Wrap(err, "failed to build request"))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("billing API returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return backoff.Permanent(fmt.Errorf("billing API returned status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(errors.Wrap(err, "failed to decode response"))
	}
	return nil
}

func periodQuery(period business.DateRange) url.Values {
	return url.Values{
		"start_date": {period.StartDate.Format(time.RFC3339)},
		"end_date":   {period.EndDate.Format(time.RFC3339)},
	}
}
