// Package rules loads the per-generation encounter, evolution and learnset
// tables the engine verifies against. Tables are authored as YAML, stored in
// SQLite, and compiled into read-only in-memory indexes.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region set

// Set is the authored form of a rule-table bundle.
type Set struct {
	Revision   string         `yaml:"revision" json:"revision"`
	Encounters []EncounterRow `yaml:"encounters" json:"encounters"`
	Evolutions []EvolutionRow `yaml:"evolutions" json:"evolutions"`
	Learnsets  []LearnsetRow  `yaml:"learnsets" json:"learnsets"`
}

// EncounterRow is one encounter table entry. Kind selects which of the
// variant-specific fields apply.
type EncounterRow struct {
	ID         string   `yaml:"id" json:"id"`
	Kind       string   `yaml:"kind" json:"kind"`
	Generation uint8    `yaml:"generation" json:"generation"`
	Version    string   `yaml:"version,omitempty" json:"version,omitempty"`
	Species    uint16   `yaml:"species" json:"species"`
	Form       uint8    `yaml:"form,omitempty" json:"form,omitempty"`
	FormAny    bool     `yaml:"form_any,omitempty" json:"form_any,omitempty"`
	LevelMin   uint8    `yaml:"level_min" json:"level_min"`
	LevelMax   uint8    `yaml:"level_max,omitempty" json:"level_max,omitempty"`
	Location   uint16   `yaml:"location,omitempty" json:"location,omitempty"`
	Shiny      string   `yaml:"shiny,omitempty" json:"shiny,omitempty"`
	FixedPID   uint32   `yaml:"fixed_pid,omitempty" json:"fixed_pid,omitempty"`
	Moves      []uint16 `yaml:"moves,omitempty" json:"moves,omitempty"`
	Relearn    []uint16 `yaml:"relearn,omitempty" json:"relearn,omitempty"`
	Condition  string   `yaml:"condition,omitempty" json:"condition,omitempty"`

	SlotMin        uint8  `yaml:"slot_min,omitempty" json:"slot_min,omitempty"`
	SlotMax        uint8  `yaml:"slot_max,omitempty" json:"slot_max,omitempty"`
	GameCube       bool   `yaml:"gamecube,omitempty" json:"gamecube,omitempty"`
	Transfer       bool   `yaml:"transfer,omitempty" json:"transfer,omitempty"`
	TID            uint16 `yaml:"tid,omitempty" json:"tid,omitempty"`
	SID            uint16 `yaml:"sid,omitempty" json:"sid,omitempty"`
	OTName         string `yaml:"ot_name,omitempty" json:"ot_name,omitempty"`
	RestrictedSeed bool   `yaml:"restricted_seed,omitempty" json:"restricted_seed,omitempty"`
}

// EvolutionRow is one evolution edge.
type EvolutionRow struct {
	From       uint16 `yaml:"from" json:"from"`
	FromForm   uint8  `yaml:"from_form,omitempty" json:"from_form,omitempty"`
	To         uint16 `yaml:"to" json:"to"`
	ToForm     uint8  `yaml:"to_form,omitempty" json:"to_form,omitempty"`
	Method     string `yaml:"method" json:"method"`
	Level      uint8  `yaml:"level,omitempty" json:"level,omitempty"`
	Generation uint8  `yaml:"generation" json:"generation"`
}

// LevelMoveRow is a move learned at a level.
type LevelMoveRow struct {
	Move  uint16 `yaml:"move" json:"move"`
	Level uint8  `yaml:"level" json:"level"`
}

// LearnsetRow is the move data of one species/form in one generation.
type LearnsetRow struct {
	Generation uint8          `yaml:"generation" json:"generation"`
	Species    uint16         `yaml:"species" json:"species"`
	Form       uint8          `yaml:"form,omitempty" json:"form,omitempty"`
	LevelUp    []LevelMoveRow `yaml:"level_up,omitempty" json:"level_up,omitempty"`
	Machine    []uint16       `yaml:"machine,omitempty" json:"machine,omitempty"`
	Tutor      []uint16       `yaml:"tutor,omitempty" json:"tutor,omitempty"`
	Egg        []uint16       `yaml:"egg,omitempty" json:"egg,omitempty"`
}

// #endregion set

// #region yaml

// ParseYAML decodes a Set.
func ParseYAML(data []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return Set{}, fmt.Errorf("parse rules: %w", err)
	}
	return set, nil
}

// LoadYAML reads and decodes a Set from path.
func LoadYAML(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("load rules %q: %w", path, err)
	}
	set, err := ParseYAML(data)
	if err != nil {
		return Set{}, fmt.Errorf("load rules %q: %w", path, err)
	}
	return set, nil
}

// #endregion yaml
