package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// ReportStore keeps finished reports in memory for a limited time so they
// can be downloaded after analysis. Nothing is persisted.
type ReportStore struct {
	cache *expirable.LRU[string, *types.Report]
}

// NewReportStore creates a store. Non-positive ttl or max fall back to 30 minutes and 1000.
func NewReportStore(ttl time.Duration, max int) *ReportStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if max <= 0 {
		max = 1000
	}
	return &ReportStore{cache: expirable.NewLRU[string, *types.Report](max, nil, ttl)}
}

// Put stores report under its ID, assigning one when empty. When the store
// is full the least recently used report is dropped.
func (s *ReportStore) Put(report *types.Report) string {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	s.cache.Add(report.ID, report)
	return report.ID
}

// Get returns the report with id.
func (s *ReportStore) Get(id string) (*types.Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	report, ok := s.cache.Get(id)
	if !ok {
		return nil, &ErrReportNotFound{ID: id}
	}
	return report, nil
}

// Len returns the number of stored reports.
func (s *ReportStore) Len() int {
	return s.cache.Len()
}
