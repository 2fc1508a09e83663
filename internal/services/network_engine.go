package services

import (
	"context"
	"fmt"

	"github.com/netvista/netvista-api/internal/interfaces"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/types/business"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NetworkEngine aggregates bandwidth utilisation from metered usage
// snapshots.
type NetworkEngine struct {
	config   business.BusinessLogicConfig
	portal   business.PortalContext
	provider interfaces.BillingDataProvider
	logger   *zap.Logger
}

// NewNetworkEngine creates a network engine bound to a portal context
func NewNetworkEngine(config business.BusinessLogicConfig, portal business.PortalContext, provider interfaces.BillingDataProvider) *NetworkEngine {
	return &NetworkEngine{
		config:   config,
		portal:   portal,
		provider: provider,
		logger:   logger.Log,
	}
}

// SummarizeUsage converts a customer's usage snapshot into GB aggregates
func (e *NetworkEngine) SummarizeUsage(ctx context.Context, customerID string, period business.DateRange) (*business.UsageSummary, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customer id is required")
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if !e.config.Features.NetworkAnalytics {
		return nil, fmt.Errorf("network analytics are disabled for this portal")
	}

	usage, err := e.provider.GetUsageData(ctx, customerID, period)
	if err != nil {
		return nil, dependencyFailure("summarize usage", err)
	}

	summary := &business.UsageSummary{
		CustomerID:        customerID,
		Period:            period,
		DownloadGB:        decimal.NewFromInt(usage.DownloadBytes).Div(bytesPerGB),
		UploadGB:          decimal.NewFromInt(usage.UploadBytes).Div(bytesPerGB),
		TotalGB:           decimal.NewFromInt(usage.TotalBytes).Div(bytesPerGB),
		PeakBandwidthMbps: usage.BandwidthMbps,
		OverageGB:         decimal.Zero,
	}
	if usage.Overage != nil {
		summary.OverageGB = decimal.NewFromInt(usage.Overage.Bytes).Div(bytesPerGB)
	}

	e.logger.Debug("Usage summarized",
		zap.String("customer_id", customerID),
		zap.String("total_gb", summary.TotalGB.String()))

	return summary, nil
}
