package entity

import (
	"fmt"
	"strings"
)

// #region generation

// Generation identifies a game generation (1-9). Zero means the origin is not
// recorded, which only happens for records stored in the generation 1/2 formats.
type Generation uint8

const (
	GenUnknown    Generation = 0
	MaxGeneration Generation = 9
)

// Valid reports whether g is a recognized generation tag.
func (g Generation) Valid() bool {
	return g >= 1 && g <= MaxGeneration
}

// IsGB reports whether g is one of the two handheld-era generations that do not
// store origin metadata.
func (g Generation) IsGB() bool {
	return g == 1 || g == 2
}

func (g Generation) String() string {
	if g == GenUnknown {
		return "gen?"
	}
	return fmt.Sprintf("gen%d", g)
}

// maxSpecies is the highest national dex number present in each generation.
var maxSpecies = [...]Species{0, 151, 251, 386, 493, 649, 721, 809, 905, 1025}

// MaxSpecies returns the highest species id that exists in g, or 0 for an
// unrecognized generation.
func MaxSpecies(g Generation) Species {
	if !g.Valid() {
		return 0
	}
	return maxSpecies[g]
}

// #endregion generation

// #region ids

// Species is a national dex number.
type Species uint16

// Move is a move id. MoveNone marks an empty slot.
type Move uint16

const MoveNone Move = 0

// #endregion ids

// #region ivs

// Stat indexes into an IVs set.
const (
	StatHP = iota
	StatAtk
	StatDef
	StatSpe
	StatSpA
	StatSpD
)

// MaxIV is the upper bound of a single individual value.
const MaxIV = 31

// IVs holds the six individual values in HP/Atk/Def/Spe/SpA/SpD order.
type IVs [6]uint8

// Valid reports whether every value is within 0-31.
func (iv IVs) Valid() bool {
	for _, v := range iv {
		if v > MaxIV {
			return false
		}
	}
	return true
}

// #endregion ivs

// #region learn-source

// LearnSource classifies how a move was acquired. Values are ordered from the
// narrowest explanation to the broadest; SourceImpossible means none applies.
type LearnSource uint8

const (
	SourceUnknown LearnSource = iota
	SourceInitial
	SourceLevelUp
	SourceEgg
	SourceTutor
	SourceMachine
	SourceRelearn
	SourceImpossible
)

var learnSourceNames = [...]string{"unknown", "initial", "level_up", "egg", "tutor", "machine", "relearn", "impossible"}

func (s LearnSource) String() string {
	if int(s) < len(learnSourceNames) {
		return learnSourceNames[s]
	}
	return fmt.Sprintf("source(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s LearnSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text decodes to SourceUnknown.
func (s *LearnSource) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	if name == "" {
		*s = SourceUnknown
		return nil
	}
	for i, n := range learnSourceNames {
		if n == name {
			*s = LearnSource(i)
			return nil
		}
	}
	return fmt.Errorf("unknown learn source %q", text)
}

// #endregion learn-source
