package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationValid(t *testing.T) {
	assert.False(t, GenUnknown.Valid())
	assert.True(t, Generation(1).Valid())
	assert.True(t, MaxGeneration.Valid())
	assert.False(t, Generation(10).Valid())
	assert.True(t, Generation(2).IsGB())
	assert.False(t, Generation(3).IsGB())
}

func TestMaxSpecies(t *testing.T) {
	assert.Equal(t, Species(151), MaxSpecies(1))
	assert.Equal(t, Species(386), MaxSpecies(3))
	assert.Equal(t, Species(1025), MaxSpecies(9))
	assert.Equal(t, Species(0), MaxSpecies(12))
}

func TestIVsValid(t *testing.T) {
	assert.True(t, IVs{31, 31, 31, 31, 31, 31}.Valid())
	assert.False(t, IVs{0, 0, 32, 0, 0, 0}.Valid())
}

func TestRecordJSONSources(t *testing.T) {
	raw := `{"species":25,"format":4,"generation":4,"moves":[84,0,0,0],"move_sources":["level_up","","",""]}`
	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, Species(25), r.Species())
	assert.Equal(t, SourceLevelUp, r.MoveSources()[0])
	assert.Equal(t, SourceUnknown, r.MoveSources()[1])

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"level_up"`)
}

func TestLearnSourceUnknownName(t *testing.T) {
	var s LearnSource
	assert.Error(t, s.UnmarshalText([]byte("hacked")))
}

func TestIsTransferred(t *testing.T) {
	assert.True(t, IsTransferred(Record{OriginGen: 3, FormatGen: 4}))
	assert.False(t, IsTransferred(Record{OriginGen: 4, FormatGen: 4}))
	assert.False(t, IsTransferred(Record{OriginGen: GenUnknown, FormatGen: 2}))
}
