package service

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	vlRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veriledger_requests_total",
		Help: "Total HTTP requests by method, path, and response status.",
	}, []string{"method", "path", "status"})

	vlRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "veriledger_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	vlVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veriledger_verifications_total",
		Help: "Total revision verifications by outcome (verified, rejected, malformed).",
	}, []string{"outcome"})

	vlChainValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veriledger_chain_validations_total",
		Help: "Total chain validations by outcome (valid, chain_broken, block_hash_mismatch, malformed).",
	}, []string{"outcome"})
)

// PrometheusMiddleware returns a Gin middleware that records per-request metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		vlRequestsTotal.WithLabelValues(method, path, status).Inc()
		vlRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// MetricsHandler returns a Gin handler that serves Prometheus metrics.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func recordVerification(outcome string) {
	vlVerificationsTotal.WithLabelValues(outcome).Inc()
}

func recordChainValidation(outcome string) {
	vlChainValidationsTotal.WithLabelValues(outcome).Inc()
}
