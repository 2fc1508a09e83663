package billing_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/netvista/netvista-api/internal/client/billing"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

var testPeriod = business.DateRange{
	StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	EndDate:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
}

func TestGetCustomerServicePlan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers/cust-1/plan", r.URL.Path)
		json.NewEncoder(w).Encode(business.PricingPlan{
			ID:        "plan-1",
			Name:      "Fiber 100",
			BasePrice: business.NewMoney(decimal.NewFromInt(50), "USD"),
		})
	}))
	defer server.Close()

	client := billing.NewClient(server.URL, 5*time.Second, 0)

	plan, err := client.GetCustomerServicePlan(context.Background(), "cust-1")

	require.NoError(t, err)
	assert.Equal(t, "plan-1", plan.ID)
	assert.True(t, plan.BasePrice.Amount.Equal(decimal.NewFromInt(50)))
}

func TestGetUsageData_PeriodQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testPeriod.StartDate.Format(time.RFC3339), r.URL.Query().Get("start_date"))
		assert.Equal(t, testPeriod.EndDate.Format(time.RFC3339), r.URL.Query().Get("end_date"))
		json.NewEncoder(w).Encode(business.UsageData{CustomerID: "cust-1", TotalBytes: 1 << 30})
	}))
	defer server.Close()

	client := billing.NewClient(server.URL, 5*time.Second, 0)

	usage, err := client.GetUsageData(context.Background(), "cust-1", testPeriod)

	require.NoError(t, err)
	assert.Equal(t, int64(1<<30), usage.TotalBytes)
}

func TestGetTaxRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rate":"0.08"}`))
	}))
	defer server.Close()

	client := billing.NewClient(server.URL, 5*time.Second, 0)

	rate, err := client.GetTaxRate(context.Background(), "cust-1")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.08")))
}

func TestGetJSON_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(business.PartnerConfiguration{PartnerID: "partner-1", Active: true})
	}))
	defer server.Close()

	client := billing.NewClient(server.URL, 5*time.Second, 3)

	partner, err := client.GetPartnerConfiguration(context.Background(), "partner-1")

	require.NoError(t, err)
	assert.True(t, partner.Active)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetJSON_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"unknown customer"}`))
	}))
	defer server.Close()

	client := billing.NewClient(server.URL, 5*time.Second, 3)

	_, err := client.GetCustomerServicePlan(context.Background(), "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetJSON_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := billing.NewClient(server.URL, 5*time.Second, 2)

	_, err := client.GetCustomerServicePlan(context.Background(), "cust-1")

	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetCommissionRates_TierQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "premium", r.URL.Query().Get("tier"))
		w.Write([]byte(`{"tier":"premium","rates":{"fiber":{"new":"0.2"}}}`))
	}))
	defer server.Close()

	client := billing.NewClient(server.URL, 5*time.Second, 0)

	rates, err := client.GetCommissionRates(context.Background(), "partner-1", "premium")

	require.NoError(t, err)
	assert.True(t, rates.Rates["fiber"]["new"].Equal(decimal.RequireFromString("0.2")))
}
