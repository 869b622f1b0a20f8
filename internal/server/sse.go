package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// Stream event names.
const (
	eventStep   = "step"
	eventReport = "report"
	eventError  = "error"
)

var errStreamingUnsupported = errors.New("streaming not supported")

// progressStream writes analysis progress as Server-Sent Events. Writes are
// serialized since progress callbacks may run on other goroutines.
type progressStream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	seq     int
}

// newProgressStream commits a 200 event-stream response.
func newProgressStream(w http.ResponseWriter) (*progressStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &progressStream{w: w, flusher: flusher}, nil
}

// Step sends one analysis progress event.
func (p *progressStream) Step(event analysis.ProgressEvent) error {
	return p.send(eventStep, event)
}

// Report sends the finished report. It is the last event of a successful stream.
func (p *progressStream) Report(resp AnalyzeResponse) error {
	return p.send(eventReport, resp)
}

// Fail ends the stream with the status and message the JSON API would return.
func (p *progressStream) Fail(err error) error {
	return p.send(eventError, map[string]any{
		"error":  errorMessage(err),
		"status": HTTPStatus(err),
	})
}

func (p *progressStream) send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	if _, err := fmt.Fprintf(p.w, "id: %d\nevent: %s\ndata: %s\n\n", p.seq, event, payload); err != nil {
		return err
	}
	p.flusher.Flush()
	return nil
}
