package pidiv

import (
	"fmt"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

// #region method

// Method tags a PID/IV derivation.
type Method uint8

const (
	MethodNone Method = iota
	Method1
	Method2
	Method4
	Restricted
	CXD
	Uncorrelated
)

var methodNames = [...]string{"none", "method_1", "method_2", "method_4", "restricted", "cxd", "uncorrelated"}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("method(%d)", uint8(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	for i, n := range methodNames {
		if n == string(text) {
			*m = Method(i)
			return nil
		}
	}
	return fmt.Errorf("unknown method %q", text)
}

// Origin is a reconstructed derivation. Seed is the generator state before the
// first PID call; it is zero for MethodNone and Uncorrelated.
type Origin struct {
	Method Method `json:"method"`
	Seed   uint32 `json:"seed"`
}

// Matched reports whether the origin explains the PID/IV pair.
func (o Origin) Matched() bool { return o.Method != MethodNone }

// #endregion method

// #region generate

// Generate replays method m from seed and returns the PID and IVs it produces.
// Uncorrelated and MethodNone produce nothing.
func Generate(m Method, seed uint32) (uint32, entity.IVs, bool) {
	switch m {
	case Method1, Method2, Method4, Restricted:
		r1 := LCRNG.Next(seed)
		r2 := LCRNG.Next(r1)
		pid := (r2>>16)<<16 | r1>>16
		r3 := LCRNG.Next(r2)
		r4 := LCRNG.Next(r3)
		r5 := LCRNG.Next(r4)
		var iv1, iv2 uint32
		switch m {
		case Method2:
			iv1, iv2 = r4>>16, r5>>16
		case Method4:
			iv1, iv2 = r3>>16, r5>>16
		default:
			iv1, iv2 = r3>>16, r4>>16
		}
		return pid, entity.IVs(ivs15(iv1, iv2)), true
	case CXD:
		r1 := XDRNG.Next(seed)
		r2 := XDRNG.Next(r1)
		r3 := XDRNG.Next(r2) // ability
		r4 := XDRNG.Next(r3)
		r5 := XDRNG.Next(r4)
		pid := (r4>>16)<<16 | r5>>16
		return pid, entity.IVs(ivs15(r1>>16, r2>>16)), true
	}
	return 0, entity.IVs{}, false
}

// #endregion generate

// #region reconstruct

// Reconstruct tries methods in order and returns the first whose replay from
// some admissible seed reproduces pid and ivs exactly. No methods means the
// pair is not PRNG-correlated for the hypothesis, which counts as a match.
func Reconstruct(pid uint32, ivs entity.IVs, methods []Method) (Origin, bool) {
	origins := ReconstructAll(pid, ivs, methods)
	if len(origins) == 0 {
		return Origin{Method: MethodNone}, false
	}
	return origins[0], true
}

// ReconstructAll returns every method and seed that reproduces pid and ivs, in
// method order then seed search order. No methods yields a single Uncorrelated
// origin.
func ReconstructAll(pid uint32, ivs entity.IVs, methods []Method) []Origin {
	if len(methods) == 0 {
		return []Origin{{Method: Uncorrelated}}
	}
	var out []Origin
	for _, m := range methods {
		for _, seed := range search(m, pid, ivs) {
			out = append(out, Origin{Method: m, Seed: seed})
		}
	}
	return out
}

func search(m Method, pid uint32, ivs entity.IVs) []uint32 {
	switch m {
	case Method1, Method2, Method4, Restricted:
		return searchLCRNG(m, pid, ivs)
	case CXD:
		return searchCXD(pid, ivs)
	}
	return nil
}

// searchLCRNG fixes the upper half of the first call to the PID's low word and
// walks the 2^16 unknown low bits.
func searchLCRNG(m Method, pid uint32, ivs entity.IVs) []uint32 {
	var seeds []uint32
	want1, want2 := packIVs(ivs)
	pidLow, pidHigh := pid&0xFFFF, pid>>16
	for x := uint32(0); x <= 0xFFFF; x++ {
		r1 := pidLow<<16 | x
		r2 := LCRNG.Next(r1)
		if r2>>16 != pidHigh {
			continue
		}
		r3 := LCRNG.Next(r2)
		r4 := LCRNG.Next(r3)
		r5 := LCRNG.Next(r4)
		var iv1, iv2 uint32
		switch m {
		case Method2:
			iv1, iv2 = r4>>16, r5>>16
		case Method4:
			iv1, iv2 = r3>>16, r5>>16
		default:
			iv1, iv2 = r3>>16, r4>>16
		}
		if iv1&0x7FFF != want1 || iv2&0x7FFF != want2 {
			continue
		}
		seed := LCRNG.Prev(r1)
		if m == Restricted && seed > 0xFFFF {
			continue
		}
		seeds = append(seeds, seed)
	}
	return seeds
}

// searchCXD fixes 15 bits of the first call from the IVs and walks the top bit
// plus the 16 low bits.
func searchCXD(pid uint32, ivs entity.IVs) []uint32 {
	var seeds []uint32
	want1, want2 := packIVs(ivs)
	for hi := uint32(0); hi < 2; hi++ {
		for x := uint32(0); x <= 0xFFFF; x++ {
			r1 := hi<<31 | want1<<16 | x
			r2 := XDRNG.Next(r1)
			if (r2>>16)&0x7FFF != want2 {
				continue
			}
			r4 := XDRNG.Next(XDRNG.Next(r2))
			r5 := XDRNG.Next(r4)
			if (r4>>16)<<16|r5>>16 != pid {
				continue
			}
			seeds = append(seeds, XDRNG.Prev(r1))
		}
	}
	return seeds
}

// #endregion reconstruct

// #region frame

// FrameMatches checks the calls that precede the PID for a wild slot roll:
// slot, level, then nature, which must agree with PID%25. The slot roll must
// fall in [slotMin, slotMax); slotMax of zero leaves the slot unconstrained.
func FrameMatches(o Origin, pid uint32, slotMin, slotMax uint8) bool {
	switch o.Method {
	case Method1, Method2, Method4:
	default:
		return false
	}
	nature := o.Seed
	if (nature>>16)%25 != pid%25 {
		return false
	}
	if slotMax == 0 {
		return true
	}
	slot := LCRNG.Prev(LCRNG.Prev(nature))
	roll := (slot >> 16) % 100
	return roll >= uint32(slotMin) && roll < uint32(slotMax)
}

// FirstFrameMatch returns the first origin that passes FrameMatches.
func FirstFrameMatch(origins []Origin, pid uint32, slotMin, slotMax uint8) (Origin, bool) {
	for _, o := range origins {
		if FrameMatches(o, pid, slotMin, slotMax) {
			return o, true
		}
	}
	return Origin{}, false
}

// #endregion frame
