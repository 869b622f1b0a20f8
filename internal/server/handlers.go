package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/matching"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// AnalyzeRequest is the JSON body of POST /analyze. Multipart uploads carry
// the same fields as form values, with the resume in the "resume" file part.
type AnalyzeRequest struct {
	Source         string `json:"source,omitempty"`
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description,omitempty"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
	Strategy       string `json:"strategy,omitempty" validate:"omitempty,oneof=static dynamic"`
	NameStrategy   string `json:"name_strategy,omitempty" validate:"omitempty,oneof=strict loose"`
}

// AnalyzeResponse is returned by POST /analyze.
type AnalyzeResponse struct {
	Report    *types.Report `json:"report"`
	ReportURL string        `json:"report_url"`
}

// MatchRequest is the JSON body of POST /match.
type MatchRequest struct {
	ResumeText     string `json:"resume_text" validate:"required"`
	JobDescription string `json:"job_description" validate:"required_without=JobURL"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
}

// MatchResponse is returned by POST /match.
type MatchResponse struct {
	ResumeSkills []string          `json:"resume_skills"`
	Match        types.MatchResult `json:"match"`
}

// handleAnalyze analyzes one resume and keeps the report for download.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	in, err := s.readAnalyzeRequest(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	report, err := s.analyze(r.Context(), in)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, AnalyzeResponse{Report: report, ReportURL: reportURL(report.ID)})
}

// handleAnalyzeStream analyzes one resume and streams each step as an SSE
// "step" event, ending with a "report" or "error" event.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	in, err := s.readAnalyzeRequest(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	stream, err := newProgressStream(w)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	in.OnProgress = func(event analysis.ProgressEvent) {
		if err := stream.Step(event); err != nil {
			s.log.Warn("failed to write progress event", zap.Error(err))
		}
	}

	report, err := s.analyze(r.Context(), in)
	if err != nil {
		if err := stream.Fail(err); err != nil {
			s.log.Warn("failed to write error event", zap.Error(err))
		}
		return
	}
	if err := stream.Report(AnalyzeResponse{Report: report, ReportURL: reportURL(report.ID)}); err != nil {
		s.log.Warn("failed to write report event", zap.Error(err))
	}
}

func (s *Server) analyze(ctx context.Context, in analysis.Input) (*types.Report, error) {
	report, err := s.analyzer.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateReport(report); err != nil {
		return nil, fmt.Errorf("report failed schema validation: %w", err)
	}
	s.reports.Put(report)
	s.log.Info("report created",
		zap.String(logger.FieldReportID, report.ID),
		zap.String(logger.FieldSource, report.Source),
		zap.Int("ats_score", report.ATS.Score))
	return report, nil
}

// readAnalyzeRequest decodes a JSON or multipart analysis request into an Input.
func (s *Server) readAnalyzeRequest(w http.ResponseWriter, r *http.Request) (analysis.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.maxUploadBytes())

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	// Empty resume text is not an error; it yields a report of sentinels.
	var req AnalyzeRequest
	switch mediaType {
	case "multipart/form-data":
		if err := s.readMultipart(r, &req); err != nil {
			return analysis.Input{}, err
		}
		if err := s.validate.StructExcept(req, "ResumeText"); err != nil {
			return analysis.Input{}, err
		}
	case "application/json", "":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return analysis.Input{}, decodeError(err)
		}
		if err := s.validate.StructExcept(req, "ResumeText"); err != nil {
			return analysis.Input{}, err
		}
		req.ResumeText = ingestion.CleanText(req.ResumeText)
	default:
		return analysis.Input{}, &ErrValidation{Field: "Content-Type", Message: "must be application/json or multipart/form-data"}
	}

	jobText, err := s.jobText(r.Context(), req.JobDescription, req.JobURL)
	if err != nil {
		return analysis.Input{}, err
	}
	return analysis.Input{
		Source:       req.Source,
		ResumeText:   req.ResumeText,
		JobText:      jobText,
		Strategy:     req.Strategy,
		NameStrategy: req.NameStrategy,
	}, nil
}

func (s *Server) readMultipart(r *http.Request, req *AnalyzeRequest) error {
	if err := r.ParseMultipartForm(s.cfg.maxUploadBytes()); err != nil {
		return decodeError(err)
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		return &ErrValidation{Field: "resume", Message: "file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return decodeError(err)
	}
	kind := ingestion.DetectMIME(header.Filename, data)
	if !ingestion.Allowed(kind) {
		return &ingestion.UnsupportedFormatError{MIME: kind, Filename: header.Filename}
	}

	doc, err := ingestion.ResumeFromBytes(r.Context(), header.Filename, data, s.extractor)
	if err != nil {
		s.metrics.ExtractionFailed(kind)
		return err
	}
	req.Source = header.Filename
	req.ResumeText = doc.Text
	req.JobDescription = r.FormValue("job_description")
	req.JobURL = r.FormValue("job_url")
	req.Strategy = r.FormValue("strategy")
	req.NameStrategy = r.FormValue("name_strategy")
	return nil
}

// jobText returns the cleaned job description from text or, failing that, url.
func (s *Server) jobText(ctx context.Context, text, url string) (string, error) {
	if strings.TrimSpace(text) != "" {
		return ingestion.JobFromText(text).Text, nil
	}
	if url == "" {
		return "", nil
	}
	if s.jobs == nil {
		return "", &ErrValidation{Field: "job_url", Message: "fetching job postings is disabled"}
	}
	doc, err := s.jobs.FromURL(ctx, url)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// handleMatch compares resume skills to job description skills.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.maxUploadBytes())

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, decodeError(err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, err)
		return
	}

	jobText, err := s.jobText(r.Context(), req.JobDescription, req.JobURL)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	vocab := s.analyzer.Vocabulary()
	resumeSkills := skills.Match(req.ResumeText, vocab)
	s.jsonResponse(w, http.StatusOK, MatchResponse{
		ResumeSkills: resumeSkills,
		Match:        matching.Match(resumeSkills, skills.Match(jobText, vocab)),
	})
}

// handleReport returns a stored report as PDF (default), text or JSON.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	var buf bytes.Buffer
	switch format := r.URL.Query().Get("format"); format {
	case "json":
		s.jsonResponse(w, http.StatusOK, report)
		return
	case "text":
		sections, err := rendering.ParseSections(r.URL.Query()["sections"])
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		text, err := rendering.RenderText(report, sections...)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		buf.WriteString(text)
	case "", "pdf":
		if err := rendering.RenderPDF(&buf, report); err != nil {
			s.errorResponse(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.pdf"`, report.ID))
	default:
		s.errorResponse(w, &ErrValidation{Field: "format", Message: "must be one of pdf, text, json"})
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("failed to write report", zap.Error(err))
	}
}

// handleVocabulary lists the recognized skill terms.
func (s *Server) handleVocabulary(w http.ResponseWriter, _ *http.Request) {
	terms := s.analyzer.Vocabulary().Terms()
	s.jsonResponse(w, http.StatusOK, map[string]any{"count": len(terms), "terms": terms})
}

func reportURL(id string) string {
	return "/reports/" + id
}

// decodeError keeps body size errors intact and marks the rest as bad input.
func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return tooLarge
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
