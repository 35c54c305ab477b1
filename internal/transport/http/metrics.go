package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	liveSessions    prometheus.Gauge
	finishedQuizzes *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quiz_live_sessions",
			Help: "Websocket quiz sessions currently connected",
		}),
		finishedQuizzes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_finished_total",
				Help: "Quiz sessions finished over websocket",
			},
			[]string{"category"},
		),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.liveSessions,
		m.finishedQuizzes,
		collectors.NewGoCollector(),
	)
	return m
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.liveSessions.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.liveSessions.Dec()
	}
}

func (m *Metrics) quizFinished(category string) {
	if m != nil {
		m.finishedQuizzes.WithLabelValues(category).Inc()
	}
}
