package metrics

import (
	"glucotrend/glucorisk/defs"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "glucorisk"

// Upload outcomes.
const (
	OutcomeStored   = "stored"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	UploadsTotal     *prometheus.CounterVec
	ReadingsKept     prometheus.Counter
	ReadingsDropped  prometheus.Counter
	AnalysesTotal    *prometheus.CounterVec
	CurrentReadings  prometheus.Gauge
	NotificationsErr prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status.",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP request handling in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploads by source and outcome.",
		}, []string{"source", "outcome"}),
		ReadingsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_kept_total",
			Help:      "Readings that survived normalization.",
		}),
		ReadingsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_dropped_total",
			Help:      "Rows dropped during normalization.",
		}),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Risk analyses by resulting level.",
		}, []string{"level"}),
		CurrentReadings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_series_readings",
			Help:      "Number of readings in the current series.",
		}),
		NotificationsErr: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_errors_total",
			Help:      "Notifications that failed to send.",
		}),
	}

	m.Registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.UploadsTotal,
		m.ReadingsKept,
		m.ReadingsDropped,
		m.AnalysesTotal,
		m.CurrentReadings,
		m.NotificationsErr,
	)
	return m
}

func (m *Metrics) ObserveUpload(u defs.Upload) {
	m.UploadsTotal.WithLabelValues(u.Source, OutcomeStored).Inc()
	m.ReadingsKept.Add(float64(u.Kept()))
	m.ReadingsDropped.Add(float64(u.Dropped))
	m.CurrentReadings.Set(float64(u.Kept()))
}

func (m *Metrics) ObserveUploadFailure(source, outcome string) {
	m.UploadsTotal.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) ObserveAnalysis(an defs.Analysis) {
	m.AnalysesTotal.WithLabelValues(an.Level.String()).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
