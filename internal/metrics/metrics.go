package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoupi_session_transitions_total",
			Help: "Verification session state changes",
		},
		[]string{"from", "to"},
	)

	provisioningResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoupi_provisioning_total",
			Help: "Account provisioning attempts by result",
		},
		[]string{"result"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptoupi_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptoupi_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func ObserveTransition(from, to string) {
	sessionTransitions.WithLabelValues(from, to).Inc()
}

// TrackLiveSessions exports count as a gauge. Call once per process.
func TrackLiveSessions(count func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "cryptoupi_sessions_live",
			Help: "Sessions held by the registry",
		},
		func() float64 { return float64(count()) },
	)
}

func ObserveProvisioning(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	provisioningResults.WithLabelValues(result).Inc()
}

// GinMiddleware records count and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
