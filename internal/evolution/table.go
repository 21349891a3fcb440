// Package evolution derives, per generation, the evolutionary stages a record
// may have passed through together with the level window of each stage.
package evolution

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

// #region method

// Method is how an evolution is triggered.
type Method uint8

const (
	LevelUp Method = iota + 1
	Trade
	Item
	Friendship
)

var methodNames = map[Method]string{LevelUp: "level_up", Trade: "trade", Item: "item", Friendship: "friendship"}

func (m Method) String() string {
	if n, ok := methodNames[m]; ok {
		return n
	}
	return fmt.Sprintf("evo(%d)", uint8(m))
}

// ParseMethod maps a table tag to a Method.
func ParseMethod(name string) (Method, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown evolution method %q", name)
}

// NeedsLevel reports whether the evolution happens on a level up, which means
// the evolved stage is at least one level above its pre-evolution.
func (m Method) NeedsLevel() bool {
	return m == LevelUp || m == Friendship
}

// #endregion method

// #region table

// Edge is one evolution From -> To, available from Generation onward. ToForm
// zero matches any form of To.
type Edge struct {
	From       entity.Species
	FromForm   uint8
	To         entity.Species
	ToForm     uint8
	Method     Method
	Level      uint8
	Generation entity.Generation
}

// Table indexes evolution edges by their evolved species.
type Table struct {
	into map[entity.Species][]Edge
}

// NewTable indexes edges. Edge order is kept for each target species.
func NewTable(edges []Edge) *Table {
	t := &Table{into: make(map[entity.Species][]Edge)}
	for _, e := range edges {
		t.into[e.To] = append(t.into[e.To], e)
	}
	return t
}

// PreEvolutions returns the edges leading into (sp, form) that exist in gen.
func (t *Table) PreEvolutions(sp entity.Species, form uint8, gen entity.Generation) []Edge {
	var out []Edge
	for _, e := range t.into[sp] {
		if !e.existsIn(gen) {
			continue
		}
		if e.ToForm != 0 && e.ToForm != form {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Lineage returns sp followed by every species it can have evolved from in gen.
func (t *Table) Lineage(sp entity.Species, form uint8, gen entity.Generation) []entity.Species {
	seen := map[entity.Species]bool{sp: true}
	out := []entity.Species{sp}
	type node struct {
		sp   entity.Species
		form uint8
	}
	queue := []node{{sp, form}}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range t.PreEvolutions(n.sp, n.form, gen) {
			if seen[e.From] {
				continue
			}
			seen[e.From] = true
			out = append(out, e.From)
			queue = append(queue, node{e.From, e.FromForm})
		}
	}
	return out
}

// Base returns the species at the roots of sp's lineage in gen.
func (t *Table) Base(sp entity.Species, form uint8, gen entity.Generation) []entity.Species {
	var out []entity.Species
	for _, l := range t.Lineage(sp, form, gen) {
		root := true
		for _, e := range t.into[l] {
			if e.existsIn(gen) {
				root = false
				break
			}
		}
		if root {
			out = append(out, l)
		}
	}
	return out
}

func (e Edge) existsIn(gen entity.Generation) bool {
	limit := entity.MaxSpecies(gen)
	return e.Generation <= gen && e.From <= limit && e.To <= limit
}

// #endregion table
