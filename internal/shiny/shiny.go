// Package shiny classifies a record's shininess and validates it against an
// encounter's shininess specification.
package shiny

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

// #region spec

// Spec is an encounter's shininess specification.
type Spec uint8

const (
	// Random: PID is purely random; shiny or not.
	Random Spec = iota
	// Never: PID is forced to be not shiny.
	Never
	// Always: PID is forced to be shiny.
	Always
	// AlwaysStar: PID is forced to be a star shiny.
	AlwaysStar
	// AlwaysSquare: PID is forced to be a square shiny.
	AlwaysSquare
	// FixedValue: PID is a specific value, compared by equality elsewhere.
	FixedValue
)

var specNames = [...]string{"random", "never", "always", "always_star", "always_square", "fixed"}

func (s Spec) String() string {
	if int(s) < len(specNames) {
		return specNames[s]
	}
	return fmt.Sprintf("shiny(%d)", uint8(s))
}

// ParseSpec maps a table name to a Spec. Empty input is Random.
func ParseSpec(name string) (Spec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Random, nil
	}
	for i, n := range specNames {
		if n == name {
			return Spec(i), nil
		}
	}
	return Random, fmt.Errorf("unknown shiny spec %q", name)
}

// IsShiny reports whether the spec forces a shiny PID.
func (s Spec) IsShiny() bool {
	switch s {
	case Always, AlwaysStar, AlwaysSquare:
		return true
	default:
		return false
	}
}

// #endregion spec

// #region classification

// Type is a record's computed shiny classification.
type Type uint8

const (
	NotShiny Type = iota
	Star
	Square
)

func (t Type) String() string {
	switch t {
	case Star:
		return "star"
	case Square:
		return "square"
	default:
		return "not_shiny"
	}
}

// IsShiny reports whether t is either shiny subtype.
func (t Type) IsShiny() bool { return t != NotShiny }

// Xor returns the exclusive-or distance between the PID halves and the trainer ids.
func Xor(pid uint32, tid, sid uint16) uint32 {
	return (pid >> 16) ^ (pid & 0xFFFF) ^ uint32(tid) ^ uint32(sid)
}

// Classify computes the shiny type from the PID and trainer ids: distance 0 is
// a square, distance 1 a star, anything else is not shiny.
func Classify(pid uint32, tid, sid uint16) Type {
	switch Xor(pid, tid, sid) {
	case 0:
		return Square
	case 1:
		return Star
	default:
		return NotShiny
	}
}

// gbAttack lists the attack DVs that produce a shiny in the generation 1/2 formats.
var gbAttack = map[uint8]bool{2: true, 3: true, 6: true, 7: true, 10: true, 11: true, 14: true, 15: true}

// ClassifyGB applies the DV rule used by the generation 1/2 formats, where
// shininess is a property of the DVs rather than of a PID.
func ClassifyGB(ivs entity.IVs) Type {
	if ivs[entity.StatDef] == 10 && ivs[entity.StatSpe] == 10 && ivs[entity.StatSpA] == 10 && gbAttack[ivs[entity.StatAtk]] {
		return Square
	}
	return NotShiny
}

// Of classifies a snapshot according to its storage format.
func Of(s entity.Snapshot) Type {
	if s.Format() <= 2 {
		return ClassifyGB(s.IVs())
	}
	return Classify(s.PID(), s.TID(), s.SID())
}

// #endregion classification

// #region validate

// IsValid reports whether a record with classification t can come from an
// encounter with spec s. FixedValue is accepted here; the PID equality check
// is performed against the encounter directly.
func IsValid(s Spec, t Type) bool {
	switch s {
	case Never:
		return !t.IsShiny()
	case Always:
		return t.IsShiny()
	case AlwaysStar:
		return t == Star
	case AlwaysSquare:
		return t == Square
	default:
		return true
	}
}

// #endregion validate
