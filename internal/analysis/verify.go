package analysis

import (
	"go.uber.org/zap"

	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
	"github.com/danielpatrickdp/legality/go-checker/internal/pidiv"
)

// #region keys

// Top-level result keys.
const (
	KeyMatched           = "matched"
	KeyNoEncounter       = "no_encounter"
	KeyBestGuess         = "no_valid_encounter"
	KeyNoOriginal        = "no_original_encounter"
	KeyUnknownGeneration = "unknown_generation"
	KeyOriginAfterFormat = "origin_after_format"
	KeyIVRange           = "iv_out_of_range"
	KeyPIDIVMismatch     = "pidiv_mismatch"
	KeyFrameMismatch     = "frame_mismatch"
	KeyShinyMismatch     = "shiny_mismatch"
	KeyFixedPID          = "fixed_pid_mismatch"
	KeyOTMismatch        = "ot_mismatch"
	KeyNoChain           = "no_evolution_path"
	KeyDuplicateMoves    = "duplicate_moves"
)

// #endregion keys

// #region verify

// Verify analyzes s. A record that cannot be explained yields an Invalid
// verdict, not an error; errors are reserved for rule-table defects and are
// always *legality.InvariantError.
func (a *Analyzer) Verify(s entity.Snapshot) (*legality.Info, error) {
	info := legality.New(s, a.builder)

	if key, ok := checkGenerations(s); !ok {
		info.Add(legality.Result(legality.Invalid, legality.CheckFormat, key))
		return info, nil
	}
	var pre []legality.CheckResult
	if !s.IVs().Valid() {
		pre = append(pre, legality.Result(legality.Invalid, legality.CheckFormat, KeyIVRange))
	}

	var cands []candidate
	var err error
	if gbTransfer(s) {
		origin := s.Generation()
		var original []candidate
		original, err = a.candidates(info, s, []entity.Generation{origin}, same, false)
		if err != nil {
			return nil, err
		}
		if len(original) > 0 {
			info.SetOriginal(original[0].enc)
		} else {
			pre = append(pre, legality.Result(legality.Invalid, legality.CheckEncounter, KeyNoOriginal))
		}
		cands, err = a.candidates(info, s, []entity.Generation{s.Format()}, func(entity.Generation) entity.Generation { return origin }, true)
		if err != nil {
			return nil, err
		}
	} else {
		cands, err = a.candidates(info, s, searchGenerations(s), same, false)
		if err != nil {
			return nil, err
		}
	}

	if a.search(info, s, cands, pre) {
		return info, nil
	}
	a.fallback(info, s, cands, pre)
	return info, nil
}

func same(g entity.Generation) entity.Generation { return g }

// checkGenerations rejects records whose generation tags cannot describe any
// real record. This is a property of the record, so it grades, not errors.
func checkGenerations(s entity.Snapshot) (string, bool) {
	format, origin := s.Format(), s.Generation()
	if !format.Valid() {
		return KeyUnknownGeneration, false
	}
	if origin == entity.GenUnknown {
		if format > 2 {
			return KeyUnknownGeneration, false
		}
		return "", true
	}
	if !origin.Valid() {
		return KeyUnknownGeneration, false
	}
	if origin > format && !(origin == 2 && format == 1) {
		return KeyOriginAfterFormat, false
	}
	return "", true
}

// search tries candidates in three phases: method and frame exact, then wild
// candidates that only fail the frame pass, then candidates no method explains.
// Entering a non-empty deferred phase clears the matching narrowing flag.
func (a *Analyzer) search(info *legality.Info, s entity.Snapshot, cands []candidate, pre []legality.CheckResult) bool {
	var primary, frameDeferred, pidivDeferred []candidate
	for _, c := range cands {
		switch {
		case !c.assess.PIDIV:
			pidivDeferred = append(pidivDeferred, c)
		case !c.frameExact():
			frameDeferred = append(frameDeferred, c)
		default:
			primary = append(primary, c)
		}
	}

	phases := []struct {
		name   string
		cands  []candidate
		narrow func(pidiv.Narrowing) pidiv.Narrowing
	}{
		{"primary", primary, nil},
		{"frame_deferred", frameDeferred, pidiv.Narrowing.ClearFrame},
		{"pidiv_deferred", pidivDeferred, pidiv.Narrowing.ClearPIDIV},
	}
	for _, phase := range phases {
		if len(phase.cands) == 0 {
			continue
		}
		if phase.narrow != nil {
			info.Narrow(phase.narrow(info.Narrowing()))
		}
		for _, c := range phase.cands {
			a.grade(info, s, c, pre, false)
			invalid := info.InvalidCount()
			if invalid == 0 {
				a.logger.Debug("hypothesis accepted",
					zap.String("encounter", encounter.Name(c.enc)),
					zap.String("phase", phase.name),
				)
				return true
			}
			a.logger.Debug("backtrack",
				zap.String("encounter", encounter.Name(c.enc)),
				zap.String("phase", phase.name),
				zap.Int("invalid", invalid),
			)
		}
	}
	return false
}

// fallback commits the hypothesis with the fewest Invalid results, the first
// on ties, and marks the match itself Invalid. With no hypotheses at all the
// match stays empty and the remaining checks run against no encounter.
func (a *Analyzer) fallback(info *legality.Info, s entity.Snapshot, cands []candidate, pre []legality.CheckResult) {
	if len(cands) == 0 {
		meta := s.Generation()
		if !meta.Valid() {
			meta = s.Format()
		}
		a.grade(info, s, candidate{meta: meta}, pre, true)
		a.logger.Debug("no hypotheses", zap.Uint16("species", uint16(s.Species())))
		return
	}
	best, bestInvalid := 0, -1
	for i, c := range cands {
		a.grade(info, s, c, pre, true)
		if n := info.InvalidCount(); bestInvalid < 0 || n < bestInvalid {
			best, bestInvalid = i, n
		}
	}
	a.grade(info, s, cands[best], pre, true)
	a.logger.Debug("best guess",
		zap.String("encounter", encounter.Name(cands[best].enc)),
		zap.Int("invalid", bestInvalid),
	)
}

// #endregion verify
