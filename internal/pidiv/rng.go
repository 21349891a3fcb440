// Package pidiv reconstructs the PRNG origin of a record's PID and IVs.
package pidiv

// #region rng

// RNG is a 32-bit linear congruential generator with its inverse.
type RNG struct {
	Mult, Add   uint32
	RMult, RAdd uint32
}

var (
	// LCRNG is the handheld generator.
	LCRNG = RNG{Mult: 0x41C64E6D, Add: 0x00006073, RMult: 0xEEB9EB65, RAdd: 0x0A3561A1}
	// XDRNG is the GameCube generator.
	XDRNG = RNG{Mult: 0x000343FD, Add: 0x00269EC3, RMult: 0xB9B33155, RAdd: 0xA170F641}
)

// Next advances seed by one frame.
func (r RNG) Next(seed uint32) uint32 { return seed*r.Mult + r.Add }

// Prev steps seed back by one frame.
func (r RNG) Prev(seed uint32) uint32 { return seed*r.RMult + r.RAdd }

// Advance applies Next n times.
func (r RNG) Advance(seed uint32, n int) uint32 {
	for i := 0; i < n; i++ {
		seed = r.Next(seed)
	}
	return seed
}

// Reverse applies Prev n times.
func (r RNG) Reverse(seed uint32, n int) uint32 {
	for i := 0; i < n; i++ {
		seed = r.Prev(seed)
	}
	return seed
}

// #endregion rng

// #region ivs

// ivs15 unpacks a pair of 15-bit IV words into HP/Atk/Def/Spe/SpA/SpD order.
func ivs15(iv1, iv2 uint32) [6]uint8 {
	return [6]uint8{
		uint8(iv1 & 31), uint8((iv1 >> 5) & 31), uint8((iv1 >> 10) & 31),
		uint8(iv2 & 31), uint8((iv2 >> 5) & 31), uint8((iv2 >> 10) & 31),
	}
}

// packIVs is the inverse of ivs15.
func packIVs(ivs [6]uint8) (iv1, iv2 uint32) {
	iv1 = uint32(ivs[0]) | uint32(ivs[1])<<5 | uint32(ivs[2])<<10
	iv2 = uint32(ivs[3]) | uint32(ivs[4])<<5 | uint32(ivs[5])<<10
	return iv1, iv2
}

// #endregion ivs
