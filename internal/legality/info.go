// Package legality holds the verdict of one verification run: the accepted
// encounter hypothesis, everything derived from it, and the graded results.
package legality

import (
	"github.com/google/uuid"

	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/evolution"
	"github.com/danielpatrickdp/legality/go-checker/internal/pidiv"
)

// #region invalidation

// Invalidation is what committing a new hypothesis discards.
type Invalidation struct {
	ClearEvolution bool
	ClearChecks    bool
}

// DecideCommit computes the invalidation for replacing prev with next. Chains
// depend on the match's species and minimum level, so they survive a commit
// that keeps both. Checks are scoped to one hypothesis and never survive.
func DecideCommit(prev, next encounter.Encounter) Invalidation {
	inv := Invalidation{ClearChecks: true}
	if prev == nil {
		return inv
	}
	if next == nil {
		inv.ClearEvolution = true
		return inv
	}
	p, n := prev.Head(), next.Head()
	inv.ClearEvolution = p.Species != n.Species || p.LevelMin != n.LevelMin
	return inv
}

// #endregion invalidation

// #region info

// Info is the aggregator for one run. It is owned by the run until Verify
// returns and read-only afterwards.
type Info struct {
	runID    string
	entity   entity.Snapshot
	builder  *evolution.Builder
	gen      entity.Generation
	match    encounter.Encounter
	original encounter.Encounter

	origin    pidiv.Origin
	pidParsed bool
	narrowing pidiv.Narrowing

	chains      evolution.Chains
	chainsBuilt bool

	moves   [4]MoveResult
	relearn [4]MoveResult
	parse   []CheckResult
}

// New starts a run over s. builder may be nil, in which case chains are empty.
func New(s entity.Snapshot, builder *evolution.Builder) *Info {
	info := &Info{
		runID:   uuid.New().String(),
		entity:  s,
		builder: builder,
	}
	info.StoreMetadata(s.Generation())
	info.moves = defaultMoves(CheckMoves)
	info.relearn = defaultMoves(CheckRelearn)
	return info
}

func defaultMoves(check Check) [4]MoveResult {
	var out [4]MoveResult
	for i := range out {
		out[i] = MoveResult{CheckResult: Result(Valid, check, "ok")}
	}
	return out
}

func (i *Info) RunID() string              { return i.runID }
func (i *Info) Entity() entity.Snapshot    { return i.entity }
func (i *Info) Match() encounter.Encounter { return i.match }

// Commit makes enc the active hypothesis and applies DecideCommit.
func (i *Info) Commit(enc encounter.Encounter) Invalidation {
	inv := DecideCommit(i.match, enc)
	i.match = enc
	if inv.ClearEvolution {
		i.chains = nil
		i.chainsBuilt = false
	}
	if inv.ClearChecks {
		i.parse = nil
	}
	return inv
}

// Original returns the retained pre-transfer match when one was recorded,
// otherwise the active match.
func (i *Info) Original() encounter.Encounter {
	if i.original != nil {
		return i.original
	}
	return i.match
}

// SetOriginal retains the best-known original encounter of a generation 1/2
// record that now lives in a modern format.
func (i *Info) SetOriginal(enc encounter.Encounter) { i.original = enc }

// StoreMetadata records which generation's rules produced the analysis.
func (i *Info) StoreMetadata(gen entity.Generation) {
	if gen != i.gen {
		i.chains = nil
		i.chainsBuilt = false
	}
	i.gen = gen
}

// Generation is the generation recorded by StoreMetadata.
func (i *Info) Generation() entity.Generation { return i.gen }

// EvoChains returns the evolution chains for the active match, building them
// on first use after an invalidation.
func (i *Info) EvoChains() evolution.Chains {
	if i.chainsBuilt {
		return i.chains
	}
	if i.builder == nil {
		i.chains = evolution.Chains{}
	} else {
		gens := evolution.Generations(i.gen, i.entity.Format())
		i.chains = i.builder.Build(i.entity, i.match, gens)
	}
	i.chainsBuilt = true
	return i.chains
}

// #endregion info

// #region pidiv

// SetOrigin records the reconstructed PRNG origin. The parsed flag is set on
// the first call and never cleared.
func (i *Info) SetOrigin(o pidiv.Origin) {
	i.origin = o
	i.pidParsed = true
}

func (i *Info) Origin() pidiv.Origin { return i.origin }
func (i *Info) PIDParsed() bool      { return i.pidParsed }

// Narrowing returns the run's plausibility flags.
func (i *Info) Narrowing() pidiv.Narrowing { return i.narrowing }

// Narrow folds n into the run's flags. Flags already cleared stay cleared.
func (i *Info) Narrow(n pidiv.Narrowing) { i.narrowing = i.narrowing.Merge(n) }

// #endregion pidiv

// #region results

// Moves returns the current-move slot results.
func (i *Info) Moves() [4]MoveResult { return i.moves }

// Relearn returns the relearn slot results.
func (i *Info) Relearn() [4]MoveResult { return i.relearn }

// SetMoves replaces both slot arrays.
func (i *Info) SetMoves(current, relearn [4]MoveResult) {
	i.moves = current
	i.relearn = relearn
}

// Add appends a top-level result.
func (i *Info) Add(r CheckResult) { i.parse = append(i.parse, r) }

// Results returns a copy of the top-level results in the order they were added.
func (i *Info) Results() []CheckResult {
	return append([]CheckResult(nil), i.parse...)
}

// InvalidCount counts Invalid results across the top-level list and both slot arrays.
func (i *Info) InvalidCount() int {
	n := 0
	for _, r := range i.parse {
		if !r.Valid() {
			n++
		}
	}
	for k := range i.moves {
		if !i.moves[k].Valid() {
			n++
		}
		if !i.relearn[k].Valid() {
			n++
		}
	}
	return n
}

// Valid reports whether a match was committed and nothing is Invalid.
func (i *Info) Valid() bool {
	return i.match != nil && i.InvalidCount() == 0
}

// #endregion results
