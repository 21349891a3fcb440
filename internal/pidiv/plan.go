package pidiv

import (
	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

// #region plan

// methodPlan picks the methods to try for a hypothesis, most falsifiable first.
type methodPlan struct{}

var _ encounter.Visitor[[]Method] = methodPlan{}

func (methodPlan) VisitWild(w *encounter.Wild) []Method {
	switch w.Gen {
	case 3:
		return []Method{Method1, Method4, Method2}
	case 4:
		return []Method{Method1}
	}
	return nil
}

func (methodPlan) VisitStatic(s *encounter.Static) []Method {
	switch {
	case s.Gen == 3 && s.GameCube:
		return []Method{CXD}
	case s.Gen == 3 || s.Gen == 4:
		return []Method{Method1}
	}
	return nil
}

func (methodPlan) VisitEgg(*encounter.Egg) []Method { return nil }

func (methodPlan) VisitTrade(t *encounter.Trade) []Method {
	if t.Gen == 3 || t.Gen == 4 {
		return []Method{Method1}
	}
	return nil
}

func (methodPlan) VisitEvent(e *encounter.Event) []Method {
	if e.Gen != 3 {
		return nil
	}
	if e.RestrictedSeed {
		return []Method{Restricted, Method1}
	}
	return []Method{Method1}
}

// MethodsFor returns the derivation methods to test for enc, in priority
// order. An empty result means the hypothesis is not PRNG-correlated.
func MethodsFor(enc encounter.Encounter) []Method {
	return encounter.Dispatch[[]Method](enc, methodPlan{})
}

// #endregion plan

// #region assess

// Assessment is the reconstructor's verdict on one hypothesis.
type Assessment struct {
	Origin Origin
	// PIDIV is false when no method reproduces the PID/IV pair.
	PIDIV bool
	// Frame is false when a wild hypothesis fails the frame-exact pass.
	Frame bool
}

// Assess reconstructs the origin of s under enc. Records without a PID (the
// generation 1/2 formats) are uncorrelated.
func Assess(s entity.Snapshot, enc encounter.Encounter) Assessment {
	if s.Format() <= 2 || enc.Head().Gen <= 2 {
		return Assessment{Origin: Origin{Method: Uncorrelated}, PIDIV: true, Frame: true}
	}
	origins := ReconstructAll(s.PID(), s.IVs(), MethodsFor(enc))
	if len(origins) == 0 {
		return Assessment{Origin: Origin{Method: MethodNone}}
	}
	a := Assessment{Origin: origins[0], PIDIV: true, Frame: true}
	if w, isWild := enc.(*encounter.Wild); isWild && a.Origin.Method != Uncorrelated {
		// Any seed that satisfies the slot and nature window explains the frame.
		if o, ok := FirstFrameMatch(origins, s.PID(), w.SlotMin, w.SlotMax); ok {
			a.Origin = o
		} else {
			a.Frame = false
		}
	}
	return a
}

// #endregion assess
