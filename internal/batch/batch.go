// Package batch verifies many records concurrently against one analyzer.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
)

// Verifier analyzes a single record.
type Verifier interface {
	Verify(s entity.Snapshot) (*legality.Info, error)
}

// Summary counts verdicts of a run.
type Summary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Run verifies every record with at most parallel workers and returns the
// reports in input order. The first error cancels the remaining work; errors
// are table defects, so one poisons the whole run.
func Run(ctx context.Context, v Verifier, records []entity.Snapshot, parallel int) ([]legality.Report, error) {
	if parallel < 1 {
		parallel = 1
	}
	reports := make([]legality.Report, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info, err := v.Verify(rec)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			reports[i] = info.Report()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Summarize counts valid and invalid reports.
func Summarize(reports []legality.Report) Summary {
	s := Summary{Total: len(reports)}
	for _, r := range reports {
		if r.Valid {
			s.Valid++
		} else {
			s.Invalid++
		}
	}
	return s
}
