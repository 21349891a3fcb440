package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

func TestEvalAgainstRecord(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	rec := entity.Record{SpeciesID: 25, Level: 12, GameVersion: "E", TrainerID: 12345, Trainer: "ASH"}
	vars := Vars(rec)

	ok, err := e.Eval(`entity.species == 25 && entity.level >= 10`, vars)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Eval(`entity.version in ["R", "S"]`, vars)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.Eval(`entity.ot_name == "ASH" && entity.tid == 12345`, vars)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEmptyExpressionHolds(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	ok, err := e.Eval("", nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompileErrors(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	assert.Error(t, e.Compile(`entity.level >=`))
	assert.Error(t, e.Compile(`"not a bool"`))
	assert.NoError(t, e.Compile(`entity.met_level == 5`))
}

func TestProgramsAreCached(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)
	expr := `entity.form == 0`
	require.NoError(t, e.Compile(expr))
	require.NoError(t, e.Compile(expr))
	assert.Len(t, e.cache, 1)
}
