// Package moves grades the four current move slots and the four relearn slots
// of a record against the learnsets of every stage in its evolution chains.
package moves

import (
	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/evolution"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
)

// #region learnsets

// LevelMove is a move learned on reaching Level.
type LevelMove struct {
	Move  entity.Move
	Level uint8
}

// Learnsets is the read-only move data per generation, species and form.
type Learnsets interface {
	LevelUp(gen entity.Generation, sp entity.Species, form uint8) []LevelMove
	Machine(gen entity.Generation, sp entity.Species, form uint8) []entity.Move
	Tutor(gen entity.Generation, sp entity.Species, form uint8) []entity.Move
	Egg(gen entity.Generation, sp entity.Species, form uint8) []entity.Move
}

// #endregion learnsets

// #region checker

// Result keys.
const (
	KeyOK             = "ok"
	KeyEmpty          = "empty"
	KeyGap            = "slot_gap"
	KeyImpossible     = "impossible"
	KeySourceMismatch = "source_mismatch"

	KeyRelearnBeforeGen6 = "relearn_before_gen6"
	KeyRelearnMismatch   = "relearn_mismatch"
	KeyRelearnNotEgg     = "relearn_not_egg"
	KeyRelearnUnexpected = "relearn_unexpected"
)

// relearnGeneration is the first generation that stores relearn moves.
const relearnGeneration = 6

// Checker grades move slots.
type Checker struct {
	sets Learnsets
}

// NewChecker returns a Checker over sets.
func NewChecker(sets Learnsets) *Checker {
	return &Checker{sets: sets}
}

// Check grades every slot of s independently. gen is the generation whose
// rules produced the match; chains come from the same match.
func (c *Checker) Check(s entity.Snapshot, enc encounter.Encounter, chains evolution.Chains, gen entity.Generation) (current, relearn [4]legality.MoveResult) {
	relearn = c.checkRelearn(s, enc, gen)

	moves := s.Moves()
	claimed := s.MoveSources()
	empty := false
	for k, mv := range moves {
		switch {
		case mv == entity.MoveNone:
			empty = true
			current[k] = slot(legality.Valid, legality.CheckMoves, KeyEmpty, entity.SourceUnknown)
		case empty:
			current[k] = slot(legality.Invalid, legality.CheckMoves, KeyGap, entity.SourceUnknown)
		default:
			current[k] = c.grade(s, enc, chains, mv, claimed[k], relearn)
		}
	}
	return current, relearn
}

func (c *Checker) grade(s entity.Snapshot, enc encounter.Encounter, chains evolution.Chains, mv entity.Move, claim entity.LearnSource, relearn [4]legality.MoveResult) legality.MoveResult {
	sources := c.sources(s, enc, chains, mv, relearn)
	if len(sources) == 0 {
		return slot(legality.Invalid, legality.CheckMoves, KeyImpossible, entity.SourceImpossible)
	}
	if claim != entity.SourceUnknown && !contains(sources, claim) {
		return slot(legality.Fishy, legality.CheckMoves, KeySourceMismatch, sources[0])
	}
	return slot(legality.Valid, legality.CheckMoves, KeyOK, sources[0])
}

// sources lists every way mv could have been learned: the encounter's own
// moves, level-up, machine, tutor, egg, then relearn.
func (c *Checker) sources(s entity.Snapshot, enc encounter.Encounter, chains evolution.Chains, mv entity.Move, relearn [4]legality.MoveResult) []entity.LearnSource {
	var out []entity.LearnSource
	if enc != nil && containsMove(enc.Head().Moves[:], mv) {
		out = append(out, entity.SourceInitial)
	}
	if c.learnsByLevel(chains, mv) {
		out = append(out, entity.SourceLevelUp)
	}
	if c.inChains(chains, c.sets.Machine, mv) {
		out = append(out, entity.SourceMachine)
	}
	if c.inChains(chains, c.sets.Tutor, mv) {
		out = append(out, entity.SourceTutor)
	}
	if egg, ok := enc.(*encounter.Egg); ok && containsMove(c.sets.Egg(egg.Gen, egg.Species, egg.Form), mv) {
		out = append(out, entity.SourceEgg)
	}
	if s.Format() >= relearnGeneration {
		rel := s.RelearnMoves()
		for k, r := range rel {
			if r == mv && relearn[k].Valid() {
				out = append(out, entity.SourceRelearn)
				break
			}
		}
	}
	return out
}

func (c *Checker) learnsByLevel(chains evolution.Chains, mv entity.Move) bool {
	for g := range chains {
		for _, st := range chains.Steps(g) {
			for _, lm := range c.sets.LevelUp(g, st.Species, st.Form) {
				if lm.Move == mv && lm.Level <= st.LevelMax {
					return true
				}
			}
		}
	}
	return false
}

func (c *Checker) inChains(chains evolution.Chains, list func(entity.Generation, entity.Species, uint8) []entity.Move, mv entity.Move) bool {
	for g := range chains {
		for _, st := range chains.Steps(g) {
			if containsMove(list(g, st.Species, st.Form), mv) {
				return true
			}
		}
	}
	return false
}

// #endregion checker

// #region relearn

func (c *Checker) checkRelearn(s entity.Snapshot, enc encounter.Encounter, gen entity.Generation) [4]legality.MoveResult {
	var out [4]legality.MoveResult
	rel := s.RelearnMoves()
	fixed, hasFixed := encounter.Relearn(enc)
	egg, isEgg := enc.(*encounter.Egg)

	empty := false
	for k, mv := range rel {
		switch {
		case hasFixed && gen >= relearnGeneration:
			if mv != fixed[k] {
				out[k] = slot(legality.Invalid, legality.CheckRelearn, KeyRelearnMismatch, entity.SourceUnknown)
			} else {
				out[k] = slot(legality.Valid, legality.CheckRelearn, KeyOK, entity.SourceInitial)
			}
			continue
		case mv == entity.MoveNone:
			empty = true
			out[k] = slot(legality.Valid, legality.CheckRelearn, KeyEmpty, entity.SourceUnknown)
		case empty:
			out[k] = slot(legality.Invalid, legality.CheckRelearn, KeyGap, entity.SourceUnknown)
		case gen < relearnGeneration:
			out[k] = slot(legality.Invalid, legality.CheckRelearn, KeyRelearnBeforeGen6, entity.SourceUnknown)
		case isEgg:
			if src, ok := c.eggRelearn(egg, mv); ok {
				out[k] = slot(legality.Valid, legality.CheckRelearn, KeyOK, src)
			} else {
				out[k] = slot(legality.Invalid, legality.CheckRelearn, KeyRelearnNotEgg, entity.SourceUnknown)
			}
		default:
			out[k] = slot(legality.Invalid, legality.CheckRelearn, KeyRelearnUnexpected, entity.SourceUnknown)
		}
	}
	return out
}

// eggRelearn accepts egg moves and level 1 moves of the hatched species.
func (c *Checker) eggRelearn(egg *encounter.Egg, mv entity.Move) (entity.LearnSource, bool) {
	if containsMove(c.sets.Egg(egg.Gen, egg.Species, egg.Form), mv) {
		return entity.SourceEgg, true
	}
	for _, lm := range c.sets.LevelUp(egg.Gen, egg.Species, egg.Form) {
		if lm.Move == mv && lm.Level <= 1 {
			return entity.SourceLevelUp, true
		}
	}
	return entity.SourceUnknown, false
}

// #endregion relearn

// #region helpers

// Duplicates returns the slot indexes holding a move already present in an
// earlier slot.
func Duplicates(slots [4]entity.Move) []int {
	var out []int
	for k := 1; k < len(slots); k++ {
		if slots[k] == entity.MoveNone {
			continue
		}
		for j := 0; j < k; j++ {
			if slots[j] == slots[k] {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

func slot(sev legality.Severity, check legality.Check, key string, src entity.LearnSource) legality.MoveResult {
	return legality.MoveResult{CheckResult: legality.Result(sev, check, key), Source: src}
}

func containsMove(list []entity.Move, mv entity.Move) bool {
	for _, m := range list {
		if m == mv {
			return true
		}
	}
	return false
}

func contains(list []entity.LearnSource, src entity.LearnSource) bool {
	for _, s := range list {
		if s == src {
			return true
		}
	}
	return false
}

// #endregion helpers
