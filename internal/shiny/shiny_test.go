package shiny

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

func TestIsValidTable(t *testing.T) {
	cases := []struct {
		spec Spec
		typ  Type
		want bool
	}{
		{Never, NotShiny, true},
		{Never, Square, false},
		{Never, Star, false},
		{Always, Star, true},
		{Always, Square, true},
		{Always, NotShiny, false},
		{AlwaysSquare, Star, false},
		{AlwaysSquare, Square, true},
		{AlwaysStar, Star, true},
		{AlwaysStar, Square, false},
		{FixedValue, Square, true},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, IsValid(c.spec, c.typ), "IsValid(%s, %s)", c.spec, c.typ)
	}
}

func TestRandomAcceptsEverything(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Random accepts every classification", prop.ForAll(
		func(pid uint32, tid, sid uint16) bool {
			return IsValid(Random, Classify(pid, tid, sid))
		},
		gen.UInt32(),
		gen.UInt16(),
		gen.UInt16(),
	))

	properties.Property("Never and Always partition every classification", prop.ForAll(
		func(pid uint32, tid, sid uint16) bool {
			typ := Classify(pid, tid, sid)
			return IsValid(Never, typ) != IsValid(Always, typ)
		},
		gen.UInt32(),
		gen.UInt16(),
		gen.UInt16(),
	))

	properties.TestingRun(t)
}

func TestClassifyDistances(t *testing.T) {
	// tid ^ sid == 0, so the xor is just the PID halves.
	assert.Equal(t, Square, Classify(0x12341234, 0, 0))
	assert.Equal(t, Star, Classify(0x12341235, 0, 0))
	for _, d := range []uint32{2, 5, 7, 8, 15} {
		assert.Equalf(t, NotShiny, Classify(0x12341234^d, 0, 0), "distance %d", d)
	}
	assert.Equal(t, NotShiny, Classify(0xFFFF0000, 0, 0))
	assert.Equal(t, Star, Classify(0x00010000, 12, 12))
}

func TestDistantXorIsNotShiny(t *testing.T) {
	typ := Classify(0x12341234^5, 0, 0)
	assert.Equal(t, NotShiny, typ)
	assert.False(t, IsValid(AlwaysStar, typ))
	assert.True(t, IsValid(Never, typ))
}

func TestClassifyGB(t *testing.T) {
	assert.Equal(t, Square, ClassifyGB(entity.IVs{0, 10, 10, 10, 10, 10}))
	assert.Equal(t, NotShiny, ClassifyGB(entity.IVs{0, 9, 10, 10, 10, 10}))
	assert.Equal(t, NotShiny, ClassifyGB(entity.IVs{0, 10, 11, 10, 10, 10}))
}

func TestParseSpec(t *testing.T) {
	s, err := ParseSpec("always_square")
	require.NoError(t, err)
	assert.Equal(t, AlwaysSquare, s)

	s, err = ParseSpec("")
	require.NoError(t, err)
	assert.Equal(t, Random, s)

	_, err = ParseSpec("sparkly")
	assert.Error(t, err)
}

func TestSpecIsShiny(t *testing.T) {
	assert.True(t, AlwaysStar.IsShiny())
	assert.False(t, Never.IsShiny())
	assert.False(t, FixedValue.IsShiny())
}
