// Package metrics exposes the console's prometheus instrumentation.
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
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hallsync_commands_total",
		Help: "Seating and layout commands by name and outcome.",
	}, []string{"command", "outcome"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hallsync_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	ConnectedConsoles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hallsync_connected_consoles",
		Help: "Currently connected console websocket clients.",
	})

	ReconciliationDrift = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hallsync_reconciliation_drift_total",
		Help: "Temporary seating ids that needed an authoritative refetch.",
	})
)

// RecordCommand counts one command execution.
func RecordCommand(command string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	CommandsTotal.WithLabelValues(command, outcome).Inc()
}

// Middleware times every request by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
