package analysis

import (
	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
	"github.com/danielpatrickdp/legality/go-checker/internal/moves"
	"github.com/danielpatrickdp/legality/go-checker/internal/shiny"
)

// #region grade

// grade commits c and runs every check against it. Checks never short-circuit:
// the verdict always carries all of them. fallback marks the commit as a best
// guess, which is itself Invalid.
func (a *Analyzer) grade(info *legality.Info, s entity.Snapshot, c candidate, pre []legality.CheckResult, fallback bool) {
	info.StoreMetadata(c.meta)
	info.Commit(c.enc)
	for _, r := range pre {
		info.Add(r)
	}

	switch {
	case c.enc == nil:
		info.Add(legality.Result(legality.Invalid, legality.CheckEncounter, KeyNoEncounter))
	case fallback:
		info.Add(legality.Result(legality.Invalid, legality.CheckEncounter, KeyBestGuess))
	default:
		info.Add(legality.Result(legality.Valid, legality.CheckEncounter, KeyMatched))
	}

	if c.enc != nil {
		info.SetOrigin(c.assess.Origin)
		info.Add(checkPIDIV(c))
		if r, ok := checkFrame(c); ok {
			info.Add(r)
		}
		info.Add(checkShiny(s, c.enc))
		if r, ok := checkTrainer(s, c.enc); ok {
			info.Add(r)
		}
	}

	chains := info.EvoChains()
	if c.enc != nil {
		if len(chains[info.Generation()]) == 0 {
			info.Add(legality.Result(legality.Invalid, legality.CheckEvolution, KeyNoChain))
		} else {
			info.Add(legality.Result(legality.Valid, legality.CheckEvolution, "ok"))
		}
	}

	if dups := moves.Duplicates(s.Moves()); len(dups) > 0 {
		info.Add(legality.Result(legality.Fishy, legality.CheckMoves, KeyDuplicateMoves))
	}
	current, relearn := a.checker.Check(s, c.enc, chains, info.Generation())
	info.SetMoves(current, relearn)
}

// #endregion grade

// #region checks

func checkPIDIV(c candidate) legality.CheckResult {
	if !c.assess.PIDIV {
		return legality.Result(legality.Invalid, legality.CheckPIDIV, KeyPIDIVMismatch)
	}
	return legality.Result(legality.Valid, legality.CheckPIDIV, c.assess.Origin.Method.String())
}

// checkFrame reports a Fishy result for wild hypotheses whose method matched
// but whose preceding frames do not.
func checkFrame(c candidate) (legality.CheckResult, bool) {
	if c.assess.PIDIV && !c.frameExact() {
		return legality.Result(legality.Fishy, legality.CheckFrame, KeyFrameMismatch), true
	}
	return legality.CheckResult{}, false
}

func checkShiny(s entity.Snapshot, enc encounter.Encounter) legality.CheckResult {
	h := enc.Head()
	if h.Shiny == shiny.FixedValue {
		if s.Format() > 2 && s.PID() != h.FixedPID {
			return legality.Result(legality.Invalid, legality.CheckShiny, KeyFixedPID)
		}
		return legality.Result(legality.Valid, legality.CheckShiny, "ok")
	}
	if !shiny.IsValid(h.Shiny, shiny.Of(s)) {
		return legality.Result(legality.Invalid, legality.CheckShiny, KeyShinyMismatch)
	}
	return legality.Result(legality.Valid, legality.CheckShiny, "ok")
}

// checkTrainer compares the original trainer name of trades and events with
// fixed trainer data. Ids are already matched while gating.
func checkTrainer(s entity.Snapshot, enc encounter.Encounter) (legality.CheckResult, bool) {
	_, _, ot, fixed := encounter.Trainer(enc)
	if !fixed {
		return legality.CheckResult{}, false
	}
	if ot != "" && ot != s.OTName() {
		return legality.Result(legality.Invalid, legality.CheckTrainer, KeyOTMismatch), true
	}
	return legality.Result(legality.Valid, legality.CheckTrainer, "ok"), true
}

// #endregion checks
