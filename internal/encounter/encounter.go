// Package encounter models the origin events a record can be matched against
// and ranks the plausible ones for a record.
package encounter

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/shiny"
)

// #region kind

// Kind tags an encounter variant.
type Kind uint8

const (
	KindWild Kind = iota + 1
	KindStatic
	KindEgg
	KindTrade
	KindEvent
)

var kindNames = map[Kind]string{
	KindWild:   "wild",
	KindStatic: "static",
	KindEgg:    "egg",
	KindTrade:  "trade",
	KindEvent:  "event",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a table tag to a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown encounter kind %q", name)
}

// #endregion kind

// #region header

// Header holds the attributes every encounter variant shares.
type Header struct {
	ID        string
	Gen       entity.Generation
	Version   string
	Species   entity.Species
	Form      uint8
	FormAny   bool
	LevelMin  uint8
	LevelMax  uint8
	Location  uint16 // 0 matches any met location
	Shiny     shiny.Spec
	FixedPID  uint32 // only meaningful when Shiny is shiny.FixedValue
	Moves     [4]entity.Move
	Condition string // CEL over the "entity" map, empty when unconstrained
}

// Head returns the shared attributes.
func (h *Header) Head() *Header { return h }

// FixedMoves reports whether the encounter comes with a predetermined moveset.
func (h *Header) FixedMoves() bool {
	return h.Moves[0] != entity.MoveNone
}

// #endregion header

// #region variants

// Encounter is the closed set of origin hypotheses: *Wild, *Static, *Egg,
// *Trade and *Event. A nil Encounter means no match.
type Encounter interface {
	Head() *Header
	Kind() Kind
	isEncounter()
}

// Wild is a random spawn from an area's slot table. The slot window is the
// half-open range [SlotMin, SlotMax) of the 0-99 slot roll.
type Wild struct {
	Header
	SlotMin uint8
	SlotMax uint8
}

// Static is a fixed gift or overworld encounter. GameCube marks the console
// games that use the XD generator. Transfer marks the synthetic encounter a
// generation 1/2 record is reinterpreted as after transfer to a modern format.
type Static struct {
	Header
	GameCube bool
	Transfer bool
	Relearn  [4]entity.Move
}

// Egg is a hatched egg of the base species.
type Egg struct {
	Header
}

// Trade is an in-game trade with a fixed original trainer.
type Trade struct {
	Header
	TID    uint16
	SID    uint16
	OTName string
}

// Event is a distribution gift. Empty OTName means the receiving player's own
// trainer data. RestrictedSeed marks gifts generated from a 16-bit seed.
type Event struct {
	Header
	TID            uint16
	SID            uint16
	OTName         string
	RestrictedSeed bool
	Relearn        [4]entity.Move
}

func (*Wild) Kind() Kind   { return KindWild }
func (*Static) Kind() Kind { return KindStatic }
func (*Egg) Kind() Kind    { return KindEgg }
func (*Trade) Kind() Kind  { return KindTrade }
func (*Event) Kind() Kind  { return KindEvent }

func (*Wild) isEncounter()   {}
func (*Static) isEncounter() {}
func (*Egg) isEncounter()    {}
func (*Trade) isEncounter()  {}
func (*Event) isEncounter()  {}

// Name renders an encounter for reports and logs.
func Name(e Encounter) string {
	if e == nil {
		return "none"
	}
	h := e.Head()
	return fmt.Sprintf("%s:%s", e.Kind(), h.ID)
}

// #endregion variants

// #region visitor

// Visitor handles each encounter variant. Adding a variant adds a method here,
// so every implementation stops compiling until it handles the new case.
type Visitor[T any] interface {
	VisitWild(*Wild) T
	VisitStatic(*Static) T
	VisitEgg(*Egg) T
	VisitTrade(*Trade) T
	VisitEvent(*Event) T
}

// Dispatch calls the visitor method for e's variant.
func Dispatch[T any](e Encounter, v Visitor[T]) T {
	switch enc := e.(type) {
	case *Wild:
		return v.VisitWild(enc)
	case *Static:
		return v.VisitStatic(enc)
	case *Egg:
		return v.VisitEgg(enc)
	case *Trade:
		return v.VisitTrade(enc)
	case *Event:
		return v.VisitEvent(enc)
	}
	// isEncounter is unexported, so no other type can reach this point.
	panic(fmt.Sprintf("encounter: unhandled variant %T", e))
}

// Trainer returns the fixed trainer fields of trades and events.
// ok is false for variants that take the player's trainer data.
func Trainer(e Encounter) (tid, sid uint16, ot string, ok bool) {
	switch enc := e.(type) {
	case *Trade:
		return enc.TID, enc.SID, enc.OTName, true
	case *Event:
		if enc.OTName == "" {
			return 0, 0, "", false
		}
		return enc.TID, enc.SID, enc.OTName, true
	}
	return 0, 0, "", false
}

// Relearn returns the fixed relearn moves of statics and events.
func Relearn(e Encounter) ([4]entity.Move, bool) {
	switch enc := e.(type) {
	case *Static:
		return enc.Relearn, enc.Relearn[0] != entity.MoveNone
	case *Event:
		return enc.Relearn, enc.Relearn[0] != entity.MoveNone
	}
	return [4]entity.Move{}, false
}

// #endregion visitor
