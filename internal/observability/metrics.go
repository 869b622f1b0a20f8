package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for analyses and HTTP traffic.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal       *prometheus.CounterVec
	AnalysisDuration    *prometheus.HistogramVec
	ATSScore            *prometheus.HistogramVec
	MatchScore          prometheus.Histogram
	ExtractionFailures  *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on a fresh registry,
// along with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_analyses_total",
				Help: "Total number of completed resume analyses",
			},
			[]string{"strategy"},
		),
		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resume_analysis_duration_seconds",
				Help:    "Resume analysis duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"strategy"},
		),
		ATSScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resume_ats_score",
				Help:    "Distribution of ATS scores ([0,100])",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
			[]string{"strategy"},
		),
		MatchScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "resume_job_match_percent",
				Help:    "Distribution of job description match percentages ([0,100])",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
		),
		ExtractionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_extraction_failures_total",
				Help: "Total number of documents whose text could not be extracted",
			},
			[]string{"format"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"route", "method"},
		),
	}

	m.registry.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.ATSScore,
		m.MatchScore,
		m.ExtractionFailures,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(strategy string, score int, elapsed time.Duration) {
	m.AnalysesTotal.WithLabelValues(strategy).Inc()
	m.AnalysisDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	m.ATSScore.WithLabelValues(strategy).Observe(float64(score))
}

// ObserveMatch records one job match percentage.
func (m *Metrics) ObserveMatch(percent int) {
	m.MatchScore.Observe(float64(percent))
}

// ExtractionFailed counts a document of the given format that yielded an error.
func (m *Metrics) ExtractionFailed(format string) {
	if format == "" {
		format = "unknown"
	}
	m.ExtractionFailures.WithLabelValues(format).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// HTTPMiddleware records request counts and durations per chi route pattern.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
