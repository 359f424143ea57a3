package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpDuration *prometheus.SummaryVec
	httpRequests *prometheus.CounterVec
	llmDuration  *prometheus.HistogramVec
	llmCalls     *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	verdicts     *prometheus.CounterVec
}

// New registers every collector on its own registry so tests can build as
// many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpDuration: f.NewSummaryVec(prometheus.SummaryOpts{
			Name:       "http_request_duration_seconds",
			Help:       "HTTP request duration in seconds",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"method", "path", "status_code"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		llmDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "llm_generate_duration_seconds",
			Help:    "Latency of generative text provider calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"provider"}),
		llmCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_generate_total",
			Help: "Generative text provider calls by outcome",
		}, []string{"provider", "outcome"}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "application_transitions_total",
			Help: "Application status transitions",
		}, []string{"from", "to"}),
		verdicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_verdicts_total",
			Help: "Concluded interviews by type and result",
		}, []string{"type", "result"}),
	}
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.httpRequests.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

func (m *Metrics) ObserveLLM(provider string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.llmDuration.WithLabelValues(provider).Observe(d.Seconds())
	m.llmCalls.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveTransition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ObserveVerdict(interviewType, result string) {
	m.verdicts.WithLabelValues(interviewType, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for assertions.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
