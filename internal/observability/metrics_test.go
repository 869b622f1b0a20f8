package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveAnalysis(t *testing.T) {
	m := NewMetrics()

	m.ObserveAnalysis("static", 40, 5*time.Millisecond)
	m.ObserveAnalysis("static", 60, 5*time.Millisecond)
	m.ObserveAnalysis("dynamic", 55, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("static")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("dynamic")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ATSScore))
}

func TestMetrics_MatchAndExtraction(t *testing.T) {
	m := NewMetrics()

	m.ObserveMatch(67)
	m.ExtractionFailed("application/pdf")
	m.ExtractionFailed("")

	assert.Equal(t, 1, testutil.CollectAndCount(m.MatchScore))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionFailures.WithLabelValues("application/pdf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionFailures.WithLabelValues("unknown")))
}

func TestMetrics_HTTPMiddlewareUsesRoutePattern(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.HTTPMiddleware)
	r.Get("/reports/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/reports/{id}", "GET", "404")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveAnalysis("static", 80, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `resume_analyses_total{strategy="static"} 1`)
}
