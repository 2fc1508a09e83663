package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netvista_http_requests_total",
			Help: "Total HTTP requests handled, by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netvista_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netvista_revenue_calculations_total",
			Help: "Revenue engine calculations, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netvista_revenue_calculation_duration_seconds",
			Help:    "Revenue engine calculation latency, by kind.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	commissionsCalculated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "netvista_commissions_calculated_total",
			Help: "Commission records produced by commission runs.",
		},
	)

	cacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netvista_billing_cache_ops_total",
			Help: "Billing data cache lookups, by outcome.",
		},
		[]string{"outcome"},
	)
)

// ObserveCalculation records the outcome and latency of one engine
// calculation
func ObserveCalculation(kind string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	calculationsTotal.WithLabelValues(kind, outcome).Inc()
	calculationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// CacheHit records a billing cache hit
func CacheHit() { cacheOps.WithLabelValues("hit").Inc() }

// CacheMiss records a billing cache miss or unusable entry
func CacheMiss() { cacheOps.WithLabelValues("miss").Inc() }

// ObserveCommissions records the size of a commission run
func ObserveCommissions(count int) {
	commissionsCalculated.Add(float64(count))
}

// Middleware records per-request counters and latency
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
