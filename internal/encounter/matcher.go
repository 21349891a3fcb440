package encounter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/legality/go-checker/internal/condition"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

// #region interfaces

// Catalog supplies the encounter table entries for one generation and species.
type Catalog interface {
	Encounters(gen entity.Generation, species entity.Species) ([]Encounter, error)
}

// Conditions evaluates encounter constraint expressions.
type Conditions interface {
	Eval(expr string, vars map[string]any) (bool, error)
}

// #endregion interfaces

// #region matcher

// Matcher gates catalog entries against a record and ranks the survivors.
type Matcher struct {
	catalog    Catalog
	conditions Conditions
	policy     Policy
	logger     *zap.Logger
}

// NewMatcher builds a Matcher. A nil policy uses DefaultPolicy; a nil
// conditions evaluator rejects every entry that carries a condition.
func NewMatcher(catalog Catalog, conditions Conditions, policy Policy, logger *zap.Logger) *Matcher {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{catalog: catalog, conditions: conditions, policy: policy, logger: logger}
}

// Policy returns the ranking order in use.
func (m *Matcher) Policy() Policy { return m.policy }

// Candidates returns the encounters of generation gen that could have produced
// s, ranked by policy. lineage lists s's species and every pre-evolution.
// Errors are table defects, never a property of the record.
func (m *Matcher) Candidates(s entity.Snapshot, gen entity.Generation, lineage []entity.Species) ([]Encounter, error) {
	if !gen.Valid() {
		return nil, fmt.Errorf("candidates: invalid generation %d", gen)
	}
	var vars map[string]any
	var out []Encounter
	for _, sp := range lineage {
		encs, err := m.catalog.Encounters(gen, sp)
		if err != nil {
			return nil, fmt.Errorf("catalog %s species %d: %w", gen, sp, err)
		}
		for _, enc := range encs {
			if enc == nil {
				return nil, fmt.Errorf("catalog %s species %d: nil entry", gen, sp)
			}
			h := enc.Head()
			if h.Gen != gen {
				return nil, fmt.Errorf("catalog %s: entry %s tagged %s", gen, h.ID, h.Gen)
			}
			if _, known := kindNames[enc.Kind()]; !known {
				return nil, fmt.Errorf("catalog %s: entry %s has unknown kind", gen, h.ID)
			}
			if !gate(s, enc, lineage) {
				continue
			}
			if h.Condition != "" {
				if m.conditions == nil {
					return nil, fmt.Errorf("entry %s: condition without evaluator", h.ID)
				}
				if vars == nil {
					vars = condition.Vars(s)
				}
				ok, err := m.conditions.Eval(h.Condition, vars)
				if err != nil {
					return nil, fmt.Errorf("entry %s: %w", h.ID, err)
				}
				if !ok {
					continue
				}
			}
			out = append(out, enc)
		}
	}
	m.policy.Sort(out)
	m.logger.Debug("candidates ranked",
		zap.Stringer("gen", gen),
		zap.Uint16("species", uint16(s.Species())),
		zap.Int("count", len(out)),
	)
	return out, nil
}

// #endregion matcher

// #region gates

func gate(s entity.Snapshot, enc Encounter, lineage []entity.Species) bool {
	h := enc.Head()
	if !inLineage(h.Species, lineage) {
		return false
	}
	if h.Species == s.Species() && !h.FormAny && h.Form != s.Form() {
		return false
	}
	if _, isEgg := enc.(*Egg); s.IsEgg() && !isEgg {
		return false
	}
	if !gateLevel(s, enc) {
		return false
	}
	if tid, sid, _, fixed := Trainer(enc); fixed {
		if s.TID() != tid {
			return false
		}
		if h.Gen >= 3 && s.SID() != sid {
			return false
		}
	}
	return true
}

// relaxedMetData reports whether met data no longer reflects the encounter:
// after a transfer, or in the generation 1/2 formats that do not keep it.
func relaxedMetData(s entity.Snapshot) bool {
	return entity.IsTransferred(s) || s.Format() <= 2
}

func gateLevel(s entity.Snapshot, enc Encounter) bool {
	h := enc.Head()
	if relaxedMetData(s) {
		return h.LevelMin <= s.CurrentLevel()
	}
	if _, isEgg := enc.(*Egg); isEgg {
		if s.IsEgg() {
			return true
		}
		if s.MetLevel() != HatchLevel(h.Gen) {
			return false
		}
		return h.Gen < 4 || s.EggLocation() != 0
	}
	if s.MetLevel() < h.LevelMin || s.MetLevel() > h.LevelMax {
		return false
	}
	if h.Location != 0 && h.Location != s.MetLocation() {
		return false
	}
	return s.CurrentLevel() >= s.MetLevel()
}

// HatchLevel is the met level recorded for a hatched egg in gen.
func HatchLevel(gen entity.Generation) uint8 {
	if gen == 3 {
		return 0
	}
	return 1
}

func inLineage(sp entity.Species, lineage []entity.Species) bool {
	for _, l := range lineage {
		if l == sp {
			return true
		}
	}
	return false
}

// #endregion gates
