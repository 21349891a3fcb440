package legality

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/evolution"
	"github.com/danielpatrickdp/legality/go-checker/internal/pidiv"
)

// #region helpers

func static(id string, sp entity.Species, min uint8) *encounter.Static {
	return &encounter.Static{Header: encounter.Header{ID: id, Gen: 3, Species: sp, LevelMin: min, LevelMax: min}}
}

// newInfo starts a run over a level 20 species 2 that evolves from species 1 at 16.
func newInfo() *Info {
	tbl := evolution.NewTable([]evolution.Edge{{From: 1, To: 2, Method: evolution.LevelUp, Level: 16, Generation: 1}})
	rec := entity.Record{SpeciesID: 2, FormatGen: 3, OriginGen: 3, Level: 20, MetLvl: 5}
	return New(rec, evolution.NewBuilder(tbl))
}

// #endregion helpers

// #region commit-tests

func TestDecideCommit(t *testing.T) {
	h1 := static("h1", 1, 5)
	h2 := static("h2", 1, 5)
	h3 := static("h3", 2, 5)
	h4 := static("h4", 1, 7)

	assert.Equal(t, Invalidation{ClearEvolution: false, ClearChecks: true}, DecideCommit(nil, h1))
	assert.Equal(t, Invalidation{ClearEvolution: false, ClearChecks: true}, DecideCommit(h1, h2))
	assert.Equal(t, Invalidation{ClearEvolution: true, ClearChecks: true}, DecideCommit(h1, h3))
	assert.Equal(t, Invalidation{ClearEvolution: true, ClearChecks: true}, DecideCommit(h1, h4))
	assert.Equal(t, Invalidation{ClearEvolution: true, ClearChecks: true}, DecideCommit(h1, nil))
}

func TestCommitKeepsChainsForSameSpeciesAndLevel(t *testing.T) {
	info := newInfo()
	info.Commit(static("h1", 1, 5))
	first := info.EvoChains()
	require.NotEmpty(t, first[3])

	info.Add(Result(Valid, CheckShiny, "ok"))
	inv := info.Commit(static("h2", 1, 5))
	assert.False(t, inv.ClearEvolution)
	assert.True(t, info.chainsBuilt, "chains must survive a same-species same-level commit")
	assert.Empty(t, info.Results(), "checks never survive a commit")

	inv = info.Commit(static("h3", 2, 5))
	assert.True(t, inv.ClearEvolution)
	assert.False(t, info.chainsBuilt)

	rebuilt := info.EvoChains()
	assert.Len(t, rebuilt[3], 1, "match at the evolved species drops the pre-evolution")
}

// #endregion commit-tests

// #region info-tests

func TestNewDefaults(t *testing.T) {
	info := newInfo()
	assert.NotEmpty(t, info.RunID())
	assert.Nil(t, info.Match())
	assert.Nil(t, info.Original())
	assert.Equal(t, entity.Generation(3), info.Generation())
	for k := 0; k < 4; k++ {
		assert.Equal(t, Valid, info.Moves()[k].Severity)
		assert.Equal(t, Valid, info.Relearn()[k].Severity)
	}
	assert.True(t, info.Narrowing().PIDIVMatches())
	assert.True(t, info.Narrowing().FrameMatches())
	assert.False(t, info.PIDParsed())
	assert.False(t, info.Valid(), "no match means not valid")
}

func TestOriginalFallsBackToMatch(t *testing.T) {
	info := newInfo()
	m := static("vc", 1, 5)
	info.Commit(m)
	assert.Equal(t, encounter.Encounter(m), info.Original())

	gb := static("gb-original", 1, 3)
	info.SetOriginal(gb)
	assert.Equal(t, encounter.Encounter(gb), info.Original())
	assert.Equal(t, encounter.Encounter(m), info.Match())
}

func TestReportOriginalFallsBackToMatch(t *testing.T) {
	info := newInfo()
	assert.Nil(t, info.Report().Original)

	info.Commit(static("vc", 1, 5))
	rep := info.Report()
	require.NotNil(t, rep.Original)
	assert.Equal(t, "vc", rep.Original.ID)

	info.SetOriginal(static("gb-original", 1, 3))
	rep = info.Report()
	assert.Equal(t, "gb-original", rep.Original.ID)
	assert.Equal(t, "vc", rep.Match.ID)
}

func TestPIDParsedNeverResets(t *testing.T) {
	info := newInfo()
	info.SetOrigin(pidiv.Origin{Method: pidiv.Method1, Seed: 7})
	info.SetOrigin(pidiv.Origin{Method: pidiv.MethodNone})
	assert.True(t, info.PIDParsed())
	assert.Equal(t, pidiv.MethodNone, info.Origin().Method)
}

func TestNarrowIsMonotonic(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("narrowing never flips back", prop.ForAll(
		func(clears []bool) bool {
			info := newInfo()
			cleared := false
			for _, c := range clears {
				var n pidiv.Narrowing
				if c {
					n = n.ClearPIDIV()
				}
				info.Narrow(n)
				info.Commit(static("h", 1, 5))
				cleared = cleared || c
				if cleared && info.Narrowing().PIDIVMatches() {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))
	properties.TestingRun(t)
}

func TestValidityCountsSlots(t *testing.T) {
	info := newInfo()
	info.Commit(static("h1", 1, 5))
	assert.True(t, info.Valid())

	cur := info.Moves()
	cur[2] = MoveResult{CheckResult: Result(Invalid, CheckMoves, "slot_gap"), Source: entity.SourceUnknown}
	info.SetMoves(cur, info.Relearn())
	assert.False(t, info.Valid())
	assert.Equal(t, 1, info.InvalidCount())

	rep := info.Report()
	require.Len(t, rep.Failures(), 1)
	assert.Equal(t, "slot_gap", rep.Failures()[0].Key)
}

// #endregion info-tests

// #region report-tests

func TestReportJSON(t *testing.T) {
	info := newInfo()
	info.Commit(static("h1", 1, 5))
	info.SetOrigin(pidiv.Origin{Method: pidiv.Method1, Seed: 0x1234})
	info.Add(Result(Fishy, CheckFrame, "frame_mismatch"))

	data, err := json.Marshal(info.Report())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["valid"])
	assert.Equal(t, "method_1", decoded["pidiv"].(map[string]any)["method"])
	checks := decoded["checks"].([]any)
	require.Len(t, checks, 1)
	assert.Equal(t, "fishy", checks[0].(map[string]any)["severity"])
	assert.Equal(t, "static", decoded["match"].(map[string]any)["kind"])
	assert.Contains(t, decoded["evo_chains"], "3")
}

func TestSeverityText(t *testing.T) {
	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("invalid")))
	assert.Equal(t, Invalid, s)
	assert.Error(t, s.UnmarshalText([]byte("bogus")))
}

// #endregion report-tests

// #region error-tests

func TestInvariantError(t *testing.T) {
	cause := errors.New("bad kind tag")
	err := fmt.Errorf("verify: %w", Invariant("catalog", cause))

	assert.True(t, errors.Is(err, ErrInvariant))
	assert.True(t, errors.Is(err, cause))

	var ie *InvariantError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "catalog", ie.Op)
	assert.Contains(t, err.Error(), "bad kind tag")

	assert.True(t, errors.Is(Invariantf("rules", "revision %s", "9.0.0"), ErrInvariant))
}

// #endregion error-tests
