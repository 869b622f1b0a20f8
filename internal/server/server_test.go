package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/tone"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const sampleResume = "Jane Doe\njane@example.com\nPython and SQL developer with strong communication skills"

func newTestServer(t *testing.T, mutate func(*Config, *Dependencies)) (*Server, http.Handler) {
	t.Helper()

	metrics := observability.NewMetrics()
	analyzer, err := analysis.New(analysis.Options{
		Vocabulary: skills.NewVocabulary("python", "sql", "docker", "communication", "leadership"),
		Sentiment:  tone.Fixed(0.3),
		Recorder:   metrics,
	})
	require.NoError(t, err)

	cfg := DefaultConfig()
	deps := Dependencies{Analyzer: analyzer, Metrics: metrics}
	if mutate != nil {
		mutate(&cfg, &deps)
	}
	s, err := New(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(s.limiter.Stop)
	return s, s.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func multipartRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeAnalyze(t *testing.T, rec *httptest.ResponseRecorder) AnalyzeResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Report)
	return resp
}

func TestNew_RequiresAnalyzer(t *testing.T) {
	_, err := New(DefaultConfig(), Dependencies{})
	assert.Error(t, err)
}

func TestHandleHealth(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","vocabulary":5}`, rec.Body.String())
}

func TestHandleAnalyze_JSON(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/analyze", AnalyzeRequest{
		ResumeText:     sampleResume,
		JobDescription: "We need Python, SQL and Docker.",
	})
	resp := decodeAnalyze(t, rec)

	report := resp.Report
	assert.Equal(t, "Jane Doe", report.Candidate.Name)
	assert.Equal(t, "jane@example.com", report.Candidate.Email)
	assert.ElementsMatch(t, []string{"python", "sql", "communication"}, report.Skills)
	require.NotNil(t, report.Match)
	assert.ElementsMatch(t, []string{"python", "sql"}, report.Match.MatchedSkills)
	assert.Equal(t, []string{"docker"}, report.Match.MissingSkills)
	assert.Equal(t, "/reports/"+report.ID, resp.ReportURL)

	rec = doJSON(t, h, http.MethodGet, resp.ReportURL+"?format=json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stored types.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stored))
	assert.Equal(t, report.ID, stored.ID)
}

func TestHandleAnalyze_Multipart(t *testing.T) {
	_, h := newTestServer(t, nil)

	req := multipartRequest(t, "jane.txt", []byte(sampleResume), map[string]string{
		"strategy":        "dynamic",
		"job_description": "Python",
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	resp := decodeAnalyze(t, rec)
	assert.Equal(t, "jane.txt", resp.Report.Source)
	assert.Equal(t, "dynamic", resp.Report.ATS.Strategy)
	require.NotNil(t, resp.Report.Match)
	assert.Equal(t, 100, resp.Report.Match.ScorePercent)
	assert.True(t, resp.Report.Match.SingleSkillMatch)
}

func TestHandleAnalyze_MultipartEmptyTextStillReports(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, "blank.txt", []byte("   \n"), nil))

	resp := decodeAnalyze(t, rec)
	assert.Equal(t, "Not Found", resp.Report.Candidate.Name)
	assert.Empty(t, resp.Report.Skills)
	assert.Nil(t, resp.Report.Match)
}

func TestHandleAnalyze_JSONEmptyTextStillReports(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"resume_text":""}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	resp := decodeAnalyze(t, rec)
	assert.Equal(t, "Not Found", resp.Report.Candidate.Name)
	assert.Equal(t, "Not Found", resp.Report.Candidate.Email)
	assert.Empty(t, resp.Report.Skills)
	assert.Nil(t, resp.Report.Match)
}

func TestHandleAnalyze_Errors(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantError  string
	}{
		{
			name:       "unsupported upload",
			req:        func(t *testing.T) *http.Request { return multipartRequest(t, "photo.png", png, nil) },
			wantStatus: http.StatusUnsupportedMediaType,
			wantError:  "image/png",
		},
		{
			name:       "missing file",
			req:        func(t *testing.T) *http.Request { return multipartRequest(t, "", nil, map[string]string{"strategy": "static"}) },
			wantStatus: http.StatusBadRequest,
			wantError:  "resume",
		},
		{
			name: "bad strategy",
			req: func(t *testing.T) *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"resume_text":"x","strategy":"fuzzy"}`))
				r.Header.Set("Content-Type", "application/json")
				return r
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "strategy: must be one of static dynamic",
		},
		{
			name: "malformed json",
			req: func(t *testing.T) *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{`))
				r.Header.Set("Content-Type", "application/json")
				return r
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "validation error: body",
		},
		{
			name: "unsupported content type",
			req: func(t *testing.T) *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("resume"))
				r.Header.Set("Content-Type", "text/plain")
				return r
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Content-Type",
		},
		{
			name: "job url without fetcher",
			req: func(t *testing.T) *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"resume_text":"x","job_url":"https://example.com/job"}`))
				r.Header.Set("Content-Type", "application/json")
				return r
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "fetching job postings is disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := newTestServer(t, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.req(t))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Contains(t, body["error"], tt.wantError)
		})
	}
}

func TestHandleAnalyze_BodyTooLarge(t *testing.T) {
	_, h := newTestServer(t, func(cfg *Config, _ *Dependencies) { cfg.MaxUploadMB = 1 })

	rec := doJSON(t, h, http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: strings.Repeat("a", 2<<20)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleAnalyze_JobURL(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><nav>Home</nav><main><h1>Data Engineer</h1><p>Docker and SQL required.</p></main></body></html>`))
	}))
	defer posting.Close()

	_, h := newTestServer(t, func(_ *Config, deps *Dependencies) {
		deps.Jobs = &ingestion.JobSource{Fetcher: fetch.New(fetch.DefaultOptions(), nil, nil)}
	})

	rec := doJSON(t, h, http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: sampleResume, JobURL: posting.URL})
	resp := decodeAnalyze(t, rec)
	require.NotNil(t, resp.Report.Match)
	assert.ElementsMatch(t, []string{"docker", "sql"}, resp.Report.Match.JobSkills)
	assert.Equal(t, []string{"sql"}, resp.Report.Match.MatchedSkills)
}

func TestHandleAnalyzeStream(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/analyze/stream", AnalyzeRequest{ResumeText: sampleResume, JobDescription: "python"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Equal(t, 7, strings.Count(body, "event: step\n"))
	assert.Contains(t, body, `"step":"match_job"`)
	assert.Contains(t, body, "event: report\n")
	assert.Contains(t, body, "id: 8\n")
	assert.NotContains(t, body, "event: error")
}

func TestProgressStream_Fail(t *testing.T) {
	rec := httptest.NewRecorder()
	stream, err := newProgressStream(rec)
	require.NoError(t, err)

	require.NoError(t, stream.Fail(&ErrValidation{Field: "resume_text", Message: "is required"}))

	body := rec.Body.String()
	assert.Contains(t, body, "id: 1\nevent: error\n")
	assert.Contains(t, body, `"status":400`)
	assert.Contains(t, body, "resume_text")
}

func TestHandleAnalyzeStream_InvalidRequest(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/analyze/stream", AnalyzeRequest{Strategy: "magic"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHandleMatch(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/match", MatchRequest{
		ResumeText:     "python, docker",
		JobDescription: "python sql docker leadership",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp MatchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.ElementsMatch(t, []string{"python", "docker"}, resp.ResumeSkills)
	assert.Equal(t, 50, resp.Match.ScorePercent)
	assert.Equal(t, types.BandPartial, resp.Match.Band)
	assert.ElementsMatch(t, []string{"sql", "leadership"}, resp.Match.MissingSkills)
}

func TestHandleMatch_NoJobSkills(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/match", MatchRequest{ResumeText: "python", JobDescription: "juggling"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MatchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Match.NoJobSkills)
	assert.Empty(t, resp.Match.Band)
}

func TestHandleMatch_RequiresJob(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/match", MatchRequest{ResumeText: "python"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "job_description")
}

func TestHandleReport_Formats(t *testing.T) {
	_, h := newTestServer(t, nil)
	resp := decodeAnalyze(t, doJSON(t, h, http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: sampleResume}))

	t.Run("text", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, resp.ReportURL+"?format=text", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, rec.Body.String(), "== Candidate Details ==")
		assert.Contains(t, rec.Body.String(), "No job description supplied.")
	})

	t.Run("text sections", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, resp.ReportURL+"?format=text&sections=skills", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "== Extracted Skills ==")
		assert.NotContains(t, rec.Body.String(), "== Candidate Details ==")
	})

	t.Run("unknown section", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, resp.ReportURL+"?format=text&sections=radar", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pdf by default", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, resp.ReportURL, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), resp.Report.ID)
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, resp.ReportURL+"?format=docx", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleReport_NotFound(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/reports/6f1d0f7e-8a6c-4b8e-9d7a-2b4f0c1e3a5d", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/reports/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleVocabulary(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/vocabulary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int      `json:"count"`
		Terms []string `json:"terms"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 5, body.Count)
	assert.Contains(t, body.Terms, "python")
}

func TestRateLimit(t *testing.T) {
	_, h := newTestServer(t, func(_ *Config, deps *Dependencies) {
		deps.Limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	})

	rec := doJSON(t, h, http.MethodGet, "/vocabulary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = doJSON(t, h, http.MethodGet, "/vocabulary", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")

	rec = doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "health is never limited")
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t, nil)
	decodeAnalyze(t, doJSON(t, h, http.MethodPost, "/analyze", AnalyzeRequest{ResumeText: sampleResume}))

	rec := doJSON(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `resume_analyses_total{strategy="static"} 1`)
	assert.Contains(t, string(body), `http_requests_total{method="POST",route="/analyze",status="200"} 1`)
}

func TestHandleAnalyze_CorruptPDFCountsFailure(t *testing.T) {
	s, h := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, "broken.pdf", []byte("%PDF-1.4\n%%garbage"), nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ExtractionFailures.WithLabelValues(ingestion.MIMEPDF)))
}

func TestCORSPreflight(t *testing.T) {
	_, h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
