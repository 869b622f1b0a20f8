package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// DefaultConcurrency bounds the resumes analyzed at once by AnalyzeBatch.
const DefaultConcurrency = 4

// AnalyzeBatch analyzes inputs concurrently and returns reports in input order.
// The first error cancels the remaining work.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, inputs []Input) ([]*types.Report, error) {
	reports := make([]*types.Report, len(inputs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			report, err := a.Analyze(gCtx, in)
			if err != nil {
				return &BatchError{Index: i, Source: in.Source, Cause: err}
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
