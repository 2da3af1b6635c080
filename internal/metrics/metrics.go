// Package metrics exposes Prometheus instruments for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application instruments and the registry serving them.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	downloads       *prometheus.CounterVec
	denied          *prometheus.CounterVec
}

// New creates the instruments on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesa_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orgdesa_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesa_document_downloads_total",
			Help: "Successful archive document downloads by visibility.",
		}, []string{"visibility"}),
		denied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgdesa_authorization_denied_total",
			Help: "Requests refused by the visibility or write policy.",
		}, []string{"route"}),
	}
	reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.downloads,
		m.denied,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware records one request count and latency sample per request.
// Unmatched routes are grouped under "unmatched".
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		if status == http.StatusForbidden {
			m.denied.WithLabelValues(route).Inc()
		}
	}
}

// RecordDownload counts a served document.
func (m *Metrics) RecordDownload(visibility string) {
	if m == nil {
		return
	}
	m.downloads.WithLabelValues(visibility).Inc()
}
