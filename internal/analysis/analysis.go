// Package analysis runs one verification pass: it walks the ranked encounter
// hypotheses, grades each against every check, and keeps the first one that
// survives. This is the only place that backtracks.
package analysis

import (
	"go.uber.org/zap"

	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/evolution"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
	"github.com/danielpatrickdp/legality/go-checker/internal/moves"
	"github.com/danielpatrickdp/legality/go-checker/internal/pidiv"
)

// #region tables

// Tables is the read-only rule context for a run.
type Tables interface {
	encounter.Catalog
	moves.Learnsets
	Evolutions() *evolution.Table
}

// #endregion tables

// #region analyzer

// Analyzer verifies records against one set of rule tables. It holds no
// per-run state and is safe for concurrent use.
type Analyzer struct {
	tables  Tables
	matcher *encounter.Matcher
	builder *evolution.Builder
	checker *moves.Checker
	logger  *zap.Logger
}

// New wires an Analyzer. conditions evaluates encounter constraints, a nil
// policy uses encounter.DefaultPolicy and a nil logger discards output.
func New(tables Tables, conditions encounter.Conditions, policy encounter.Policy, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		tables:  tables,
		matcher: encounter.NewMatcher(tables, conditions, policy, logger.Named("matcher")),
		builder: evolution.NewBuilder(tables.Evolutions()),
		checker: moves.NewChecker(tables),
		logger:  logger,
	}
}

// Policy returns the candidate ranking in use.
func (a *Analyzer) Policy() encounter.Policy { return a.matcher.Policy() }

// #endregion analyzer

// #region candidates

// candidate is one hypothesis together with its PRNG assessment. meta is the
// generation recorded on the aggregator while the candidate is active.
type candidate struct {
	enc    encounter.Encounter
	meta   entity.Generation
	assess pidiv.Assessment
}

func (c candidate) frameExact() bool {
	if _, wild := c.enc.(*encounter.Wild); wild {
		return c.assess.Frame
	}
	return true
}

// searchGenerations lists the generations whose catalogs may hold the match.
// Records in the generation 1/2 formats do not store their origin, so both
// are tried, the format's own first.
func searchGenerations(s entity.Snapshot) []entity.Generation {
	origin := s.Generation()
	if origin.Valid() {
		return []entity.Generation{origin}
	}
	switch s.Format() {
	case 1:
		return []entity.Generation{1, 2}
	case 2:
		return []entity.Generation{2, 1}
	}
	return nil
}

// gbTransfer reports whether s is a generation 1/2 record in a generation 7+
// format, matched against the synthetic transfer encounters.
func gbTransfer(s entity.Snapshot) bool {
	return s.Generation().IsGB() && s.Format() >= 7
}

func isTransfer(enc encounter.Encounter) bool {
	st, ok := enc.(*encounter.Static)
	return ok && st.Transfer
}

func (a *Analyzer) lineage(s entity.Snapshot, gen entity.Generation) []entity.Species {
	if s.Format() > gen {
		gen = s.Format()
	}
	return a.tables.Evolutions().Lineage(s.Species(), s.Form(), gen)
}

// candidates collects every gated hypothesis across the search generations,
// in generation order then policy order. wantTransfer selects the synthetic
// transfer statics instead of regular entries.
func (a *Analyzer) candidates(info *legality.Info, s entity.Snapshot, gens []entity.Generation, meta func(entity.Generation) entity.Generation, wantTransfer bool) ([]candidate, error) {
	var out []candidate
	for _, g := range gens {
		info.StoreMetadata(meta(g))
		encs, err := a.matcher.Candidates(s, g, a.lineage(s, g))
		if err != nil {
			return nil, legality.Invariant("match", err)
		}
		for _, enc := range encs {
			if isTransfer(enc) != wantTransfer {
				continue
			}
			out = append(out, candidate{enc: enc, meta: meta(g), assess: pidiv.Assess(s, enc)})
		}
	}
	return out, nil
}

// #endregion candidates
