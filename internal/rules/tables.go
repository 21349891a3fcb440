package rules

import (
	"fmt"

	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/evolution"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
	"github.com/danielpatrickdp/legality/go-checker/internal/moves"
	"github.com/danielpatrickdp/legality/go-checker/internal/shiny"
)

// #region tables

// Compiler validates condition expressions at load time.
type Compiler interface {
	Compile(expr string) error
}

type speciesKey struct {
	gen     entity.Generation
	species entity.Species
}

type learnKey struct {
	gen     entity.Generation
	species entity.Species
	form    uint8
}

type learnset struct {
	levelUp []moves.LevelMove
	machine []entity.Move
	tutor   []entity.Move
	egg     []entity.Move
}

// Tables is the compiled, read-only rule context. Safe for concurrent use.
type Tables struct {
	revision   string
	encounters map[speciesKey][]encounter.Encounter
	evolutions *evolution.Table
	learnsets  map[learnKey]learnset
	count      int
}

// Options tune Compile.
type Options struct {
	// RevisionConstraint is a semver range; empty uses DefaultRevisionConstraint.
	RevisionConstraint string
	// Conditions, when set, compiles every encounter condition up front.
	Conditions Compiler
}

// Compile validates set and indexes it. Every defect is reported as a
// *legality.InvariantError.
func Compile(set Set, opts Options) (*Tables, error) {
	if err := CheckRevision(set.Revision, opts.RevisionConstraint); err != nil {
		return nil, err
	}
	t := &Tables{
		revision:   set.Revision,
		encounters: make(map[speciesKey][]encounter.Encounter),
		learnsets:  make(map[learnKey]learnset),
	}

	seen := make(map[string]bool, len(set.Encounters))
	for i, row := range set.Encounters {
		enc, err := row.Encounter()
		if err != nil {
			return nil, legality.Invariant("rules encounters", fmt.Errorf("row %d: %w", i, err))
		}
		h := enc.Head()
		if seen[h.ID] {
			return nil, legality.Invariantf("rules encounters", "row %d: duplicate id %q", i, h.ID)
		}
		seen[h.ID] = true
		if h.Condition != "" && opts.Conditions != nil {
			if err := opts.Conditions.Compile(h.Condition); err != nil {
				return nil, legality.Invariant("rules encounters", fmt.Errorf("entry %s: %w", h.ID, err))
			}
		}
		k := speciesKey{h.Gen, h.Species}
		t.encounters[k] = append(t.encounters[k], enc)
		t.count++
	}

	edges := make([]evolution.Edge, 0, len(set.Evolutions))
	for i, row := range set.Evolutions {
		e, err := row.Edge()
		if err != nil {
			return nil, legality.Invariant("rules evolutions", fmt.Errorf("row %d: %w", i, err))
		}
		edges = append(edges, e)
	}
	t.evolutions = evolution.NewTable(edges)

	for i, row := range set.Learnsets {
		gen := entity.Generation(row.Generation)
		if !gen.Valid() {
			return nil, legality.Invariantf("rules learnsets", "row %d: generation %d", i, row.Generation)
		}
		k := learnKey{gen, entity.Species(row.Species), row.Form}
		ls := t.learnsets[k]
		for _, lm := range row.LevelUp {
			ls.levelUp = append(ls.levelUp, moves.LevelMove{Move: entity.Move(lm.Move), Level: lm.Level})
		}
		ls.machine = append(ls.machine, toMoves(row.Machine)...)
		ls.tutor = append(ls.tutor, toMoves(row.Tutor)...)
		ls.egg = append(ls.egg, toMoves(row.Egg)...)
		t.learnsets[k] = ls
	}
	return t, nil
}

// Revision returns the table revision.
func (t *Tables) Revision() string { return t.revision }

// Len returns the number of encounter entries.
func (t *Tables) Len() int { return t.count }

// Encounters implements encounter.Catalog.
func (t *Tables) Encounters(gen entity.Generation, sp entity.Species) ([]encounter.Encounter, error) {
	return t.encounters[speciesKey{gen, sp}], nil
}

// Evolutions returns the evolution edge table.
func (t *Tables) Evolutions() *evolution.Table { return t.evolutions }

func (t *Tables) learnset(gen entity.Generation, sp entity.Species, form uint8) learnset {
	if ls, ok := t.learnsets[learnKey{gen, sp, form}]; ok {
		return ls
	}
	return t.learnsets[learnKey{gen, sp, 0}]
}

func (t *Tables) LevelUp(gen entity.Generation, sp entity.Species, form uint8) []moves.LevelMove {
	return t.learnset(gen, sp, form).levelUp
}

func (t *Tables) Machine(gen entity.Generation, sp entity.Species, form uint8) []entity.Move {
	return t.learnset(gen, sp, form).machine
}

func (t *Tables) Tutor(gen entity.Generation, sp entity.Species, form uint8) []entity.Move {
	return t.learnset(gen, sp, form).tutor
}

func (t *Tables) Egg(gen entity.Generation, sp entity.Species, form uint8) []entity.Move {
	return t.learnset(gen, sp, form).egg
}

// #endregion tables

// #region rows

// Encounter converts the row into its variant.
func (r EncounterRow) Encounter() (encounter.Encounter, error) {
	kind, err := encounter.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	gen := entity.Generation(r.Generation)
	if !gen.Valid() {
		return nil, fmt.Errorf("entry %q: generation %d", r.ID, r.Generation)
	}
	if r.ID == "" {
		return nil, fmt.Errorf("entry without id")
	}
	spec, err := shiny.ParseSpec(r.Shiny)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", r.ID, err)
	}
	if len(r.Moves) > 4 || len(r.Relearn) > 4 {
		return nil, fmt.Errorf("entry %q: more than 4 moves", r.ID)
	}
	levelMax := r.LevelMax
	if levelMax == 0 {
		levelMax = r.LevelMin
	}
	if levelMax < r.LevelMin {
		return nil, fmt.Errorf("entry %q: level range %d-%d", r.ID, r.LevelMin, levelMax)
	}
	h := encounter.Header{
		ID:        r.ID,
		Gen:       gen,
		Version:   r.Version,
		Species:   entity.Species(r.Species),
		Form:      r.Form,
		FormAny:   r.FormAny,
		LevelMin:  r.LevelMin,
		LevelMax:  levelMax,
		Location:  r.Location,
		Shiny:     spec,
		FixedPID:  r.FixedPID,
		Moves:     fixedMoves(r.Moves),
		Condition: r.Condition,
	}
	switch kind {
	case encounter.KindWild:
		return &encounter.Wild{Header: h, SlotMin: r.SlotMin, SlotMax: r.SlotMax}, nil
	case encounter.KindStatic:
		return &encounter.Static{Header: h, GameCube: r.GameCube, Transfer: r.Transfer, Relearn: fixedMoves(r.Relearn)}, nil
	case encounter.KindEgg:
		return &encounter.Egg{Header: h}, nil
	case encounter.KindTrade:
		return &encounter.Trade{Header: h, TID: r.TID, SID: r.SID, OTName: r.OTName}, nil
	case encounter.KindEvent:
		return &encounter.Event{Header: h, TID: r.TID, SID: r.SID, OTName: r.OTName,
			RestrictedSeed: r.RestrictedSeed, Relearn: fixedMoves(r.Relearn)}, nil
	}
	return nil, fmt.Errorf("entry %q: unhandled kind %s", r.ID, kind)
}

// Edge converts the row into an evolution edge.
func (r EvolutionRow) Edge() (evolution.Edge, error) {
	method, err := evolution.ParseMethod(r.Method)
	if err != nil {
		return evolution.Edge{}, err
	}
	gen := entity.Generation(r.Generation)
	if !gen.Valid() {
		return evolution.Edge{}, fmt.Errorf("edge %d->%d: generation %d", r.From, r.To, r.Generation)
	}
	return evolution.Edge{
		From:       entity.Species(r.From),
		FromForm:   r.FromForm,
		To:         entity.Species(r.To),
		ToForm:     r.ToForm,
		Method:     method,
		Level:      r.Level,
		Generation: gen,
	}, nil
}

func fixedMoves(ids []uint16) [4]entity.Move {
	var out [4]entity.Move
	for i, id := range ids {
		if i == len(out) {
			break
		}
		out[i] = entity.Move(id)
	}
	return out
}

func toMoves(ids []uint16) []entity.Move {
	out := make([]entity.Move, len(ids))
	for i, id := range ids {
		out[i] = entity.Move(id)
	}
	return out
}

// #endregion rows
