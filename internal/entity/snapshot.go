// Package entity defines the read-only view of a decoded creature record that
// the legality engine analyzes. Decoding the binary formats happens elsewhere;
// this package only carries the attributes the checks consume.
package entity

// #region snapshot

// Snapshot is the read-only accessor contract for one decoded record.
// Implementations must return the same values for the lifetime of a run.
type Snapshot interface {
	Species() Species
	Form() uint8
	// Format is the generation whose record layout the data was read from.
	Format() Generation
	// Generation is the origin generation, GenUnknown for generation 1/2 formats.
	Generation() Generation
	Version() string

	PID() uint32
	IVs() IVs

	CurrentLevel() uint8
	MetLevel() uint8
	MetLocation() uint16
	EggLocation() uint16
	IsEgg() bool

	Moves() [4]Move
	MoveSources() [4]LearnSource
	RelearnMoves() [4]Move

	TID() uint16
	SID() uint16
	OTName() string
}

// IsTransferred reports whether the record now lives in a newer format than
// the one it originated in.
func IsTransferred(s Snapshot) bool {
	return s.Generation().Valid() && s.Format() > s.Generation()
}

// #endregion snapshot

// #region record

// Record is a plain value implementation of Snapshot. It is the shape used by
// fixtures and by the decoder transport.
type Record struct {
	Ref         string         `json:"ref,omitempty" yaml:"ref,omitempty"`
	SpeciesID   Species        `json:"species" yaml:"species"`
	FormID      uint8          `json:"form" yaml:"form"`
	FormatGen   Generation     `json:"format" yaml:"format"`
	OriginGen   Generation     `json:"generation" yaml:"generation"`
	GameVersion string         `json:"version,omitempty" yaml:"version,omitempty"`
	PIDValue    uint32         `json:"pid" yaml:"pid"`
	IVValues    IVs            `json:"ivs" yaml:"ivs"`
	Level       uint8          `json:"level" yaml:"level"`
	MetLvl      uint8          `json:"met_level" yaml:"met_level"`
	MetLoc      uint16         `json:"met_location" yaml:"met_location"`
	EggLoc      uint16         `json:"egg_location,omitempty" yaml:"egg_location,omitempty"`
	Egg         bool           `json:"is_egg,omitempty" yaml:"is_egg,omitempty"`
	MoveIDs     [4]Move        `json:"moves" yaml:"moves"`
	Sources     [4]LearnSource `json:"move_sources" yaml:"move_sources"`
	Relearn     [4]Move        `json:"relearn_moves" yaml:"relearn_moves"`
	TrainerID   uint16         `json:"tid" yaml:"tid"`
	SecretID    uint16         `json:"sid" yaml:"sid"`
	Trainer     string         `json:"ot_name,omitempty" yaml:"ot_name,omitempty"`
}

var _ Snapshot = Record{}

func (r Record) Species() Species            { return r.SpeciesID }
func (r Record) Form() uint8                 { return r.FormID }
func (r Record) Format() Generation          { return r.FormatGen }
func (r Record) Generation() Generation      { return r.OriginGen }
func (r Record) Version() string             { return r.GameVersion }
func (r Record) PID() uint32                 { return r.PIDValue }
func (r Record) IVs() IVs                    { return r.IVValues }
func (r Record) CurrentLevel() uint8         { return r.Level }
func (r Record) MetLevel() uint8             { return r.MetLvl }
func (r Record) MetLocation() uint16         { return r.MetLoc }
func (r Record) EggLocation() uint16         { return r.EggLoc }
func (r Record) IsEgg() bool                 { return r.Egg }
func (r Record) Moves() [4]Move              { return r.MoveIDs }
func (r Record) MoveSources() [4]LearnSource { return r.Sources }
func (r Record) RelearnMoves() [4]Move       { return r.Relearn }
func (r Record) TID() uint16                 { return r.TrainerID }
func (r Record) SID() uint16                 { return r.SecretID }
func (r Record) OTName() string              { return r.Trainer }

// #endregion record
