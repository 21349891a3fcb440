package rules

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/legality/go-checker/internal/condition"
	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
	"github.com/danielpatrickdp/legality/go-checker/internal/shiny"
)

// #region helpers

const sampleYAML = `
revision: 1.2.0
encounters:
  - id: route1-pichu
    kind: wild
    generation: 3
    species: 172
    level_min: 3
    level_max: 5
    location: 16
    slot_min: 0
    slot_max: 20
  - id: gift-pikachu
    kind: static
    generation: 3
    species: 25
    level_min: 5
    shiny: never
    moves: [84, 45]
  - id: fan-trade
    kind: trade
    generation: 3
    species: 25
    level_min: 10
    tid: 1234
    sid: 0
    ot_name: KIM
  - id: emerald-event
    kind: event
    generation: 3
    species: 25
    level_min: 10
    restricted_seed: true
    condition: entity.version == "E"
evolutions:
  - from: 172
    to: 25
    method: friendship
    generation: 2
  - from: 25
    to: 26
    method: item
    generation: 1
learnsets:
  - generation: 3
    species: 25
    level_up:
      - {move: 84, level: 1}
      - {move: 45, level: 1}
    machine: [87]
  - generation: 3
    species: 172
    level_up:
      - {move: 84, level: 1}
    egg: [273]
`

func sampleSet(t *testing.T) Set {
	t.Helper()
	set, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	return set
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "rules.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// #endregion helpers

// #region compile-tests

func TestCompileIndexesEveryTable(t *testing.T) {
	engine, err := condition.NewEngine()
	require.NoError(t, err)
	tbl, err := Compile(sampleSet(t), Options{Conditions: engine})
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", tbl.Revision())
	assert.Equal(t, 4, tbl.Len())

	encs, err := tbl.Encounters(3, 25)
	require.NoError(t, err)
	require.Len(t, encs, 3)
	gift, ok := encs[0].(*encounter.Static)
	require.True(t, ok)
	assert.Equal(t, shiny.Never, gift.Shiny)
	assert.Equal(t, uint8(5), gift.LevelMax, "missing level_max defaults to level_min")
	assert.Equal(t, [4]entity.Move{84, 45}, gift.Moves)

	ev := encs[2].(*encounter.Event)
	assert.True(t, ev.RestrictedSeed)

	wild, _ := tbl.Encounters(3, 172)
	require.Len(t, wild, 1)
	assert.Equal(t, uint8(20), wild[0].(*encounter.Wild).SlotMax)

	assert.Equal(t, []entity.Species{26, 25, 172}, tbl.Evolutions().Lineage(26, 0, 3))
	assert.Len(t, tbl.LevelUp(3, 25, 0), 2)
	assert.Equal(t, []entity.Move{87}, tbl.Machine(3, 25, 0))
	assert.Equal(t, []entity.Move{273}, tbl.Egg(3, 172, 0))
	assert.Len(t, tbl.LevelUp(3, 25, 1), 2, "unknown forms fall back to form 0")
	assert.Empty(t, tbl.Tutor(3, 25, 0))
}

func TestCompileDefectsAreInvariants(t *testing.T) {
	cases := map[string]func(*Set){
		"unknown kind":      func(s *Set) { s.Encounters[0].Kind = "raid" },
		"bad generation":    func(s *Set) { s.Encounters[0].Generation = 12 },
		"bad shiny":         func(s *Set) { s.Encounters[1].Shiny = "sparkly" },
		"duplicate id":      func(s *Set) { s.Encounters[1].ID = s.Encounters[0].ID },
		"inverted levels":   func(s *Set) { s.Encounters[0].LevelMax = 1 },
		"bad evolution":     func(s *Set) { s.Evolutions[0].Method = "moon" },
		"bad learnset gen":  func(s *Set) { s.Learnsets[0].Generation = 0 },
		"broken condition":  func(s *Set) { s.Encounters[3].Condition = "entity.version ==" },
		"future revision":   func(s *Set) { s.Revision = "2.0.0" },
		"malformed version": func(s *Set) { s.Revision = "latest" },
	}
	engine, err := condition.NewEngine()
	require.NoError(t, err)
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			set := sampleSet(t)
			mutate(&set)
			_, err := Compile(set, Options{Conditions: engine})
			require.Error(t, err)
			assert.True(t, errors.Is(err, legality.ErrInvariant), "got %v", err)
		})
	}
}

func TestCheckRevision(t *testing.T) {
	assert.NoError(t, CheckRevision("1.9.3", ""))
	assert.NoError(t, CheckRevision("2.1.0", ">=2.0.0, <3.0.0"))
	assert.Error(t, CheckRevision("0.9.0", ""))
	assert.Error(t, CheckRevision("1.0.0", "not a constraint"))
}

// #endregion compile-tests

// #region store-tests

func TestStoreImportAndLoad(t *testing.T) {
	s := tempStore(t)
	_, err := s.Active()
	assert.ErrorIs(t, err, ErrNoActiveSet)

	set := sampleSet(t)
	rec, err := s.Import(set, "sample.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.SetID)
	assert.Equal(t, "1.2.0", rec.Revision)

	active, err := s.Active()
	require.NoError(t, err)
	assert.Equal(t, rec.SetID, active.SetID)
	assert.Equal(t, "sample.yaml", active.Source)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, set, loaded)

	st, err := s.Stats(rec.SetID)
	require.NoError(t, err)
	assert.Equal(t, Stats{Encounters: 4, Evolutions: 2, Learnsets: 2}, st)
}

func TestStoreActivateEarlierSet(t *testing.T) {
	s := tempStore(t)
	first, err := s.Import(sampleSet(t), "")
	require.NoError(t, err)

	second := sampleSet(t)
	second.Revision = "1.3.0"
	_, err = s.Import(second, "")
	require.NoError(t, err)

	sets, err := s.ListSets(10)
	require.NoError(t, err)
	assert.Len(t, sets, 2)

	require.NoError(t, s.Activate(first.SetID))
	active, err := s.Active()
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", active.Revision)

	assert.Error(t, s.Activate("missing"))
}

func TestStoreRejectsInvalidSets(t *testing.T) {
	s := tempStore(t)
	set := sampleSet(t)
	set.Revision = "3.0.0"
	_, err := s.Import(set, "")
	assert.ErrorIs(t, err, legality.ErrInvariant)

	_, err = s.Active()
	assert.ErrorIs(t, err, ErrNoActiveSet, "a rejected import leaves nothing active")
}

func TestLoadYAMLMissingFile(t *testing.T) {
	_, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// #endregion store-tests

func TestStoreCarriesVerdictLog(t *testing.T) {
	s := tempStore(t)
	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM verdict_log`).Scan(&n))
	assert.Zero(t, n)
}
