package evolution

import (
	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

// #region types

// Step is one admissible stage: a species/form and the level window in which
// the record could have been that stage.
type Step struct {
	Species  entity.Species `json:"species"`
	Form     uint8          `json:"form"`
	LevelMin uint8          `json:"level_min"`
	LevelMax uint8          `json:"level_max"`
}

// Chain lists positions from the current stage (index 0) back to the origin
// stage. A position holds several steps when branches converge on it.
type Chain [][]Step

// Chains holds one Chain per generation the record passed through. A
// generation with no admissible path maps to an empty chain.
type Chains map[entity.Generation]Chain

// Has reports whether sp appears anywhere in gen's chain.
func (c Chains) Has(gen entity.Generation, sp entity.Species) bool {
	_, ok := c.Find(gen, sp)
	return ok
}

// Find returns the first step for sp in gen's chain.
func (c Chains) Find(gen entity.Generation, sp entity.Species) (Step, bool) {
	for _, pos := range c[gen] {
		for _, st := range pos {
			if st.Species == sp {
				return st, true
			}
		}
	}
	return Step{}, false
}

// Steps flattens gen's chain.
func (c Chains) Steps(gen entity.Generation) []Step {
	var out []Step
	for _, pos := range c[gen] {
		out = append(out, pos...)
	}
	return out
}

// #endregion types

// #region generations

// Generations lists the generations a record lived in, from origin to format.
// Generation 1/2 records moved into generation 7+ skip 3 through 6, and a
// record traded back from generation 2 to 1 lists both.
func Generations(origin, format entity.Generation) []entity.Generation {
	if !format.Valid() {
		return nil
	}
	if !origin.Valid() {
		origin = format
	}
	if format < origin {
		return []entity.Generation{origin, format}
	}
	var out []entity.Generation
	for g := origin; g <= format; g++ {
		if origin.IsGB() && format >= 7 && g >= 3 && g <= 6 {
			continue
		}
		out = append(out, g)
	}
	return out
}

// #endregion generations

// #region builder

// Builder derives evolution chains from a Table.
type Builder struct {
	table *Table
}

// NewBuilder returns a Builder over t.
func NewBuilder(t *Table) *Builder {
	return &Builder{table: t}
}

// Table returns the underlying edge table.
func (b *Builder) Table() *Table { return b.table }

// link is one node of a backward path. edge leads from this node into the
// previous (more evolved) node and is zero for the head.
type link struct {
	species entity.Species
	form    uint8
	edge    Edge
}

// Build returns the chains for every generation in gens. With a match, only
// paths ending at the matched species are kept and the root's minimum level
// is the encounter's; without one, every root is admissible.
func (b *Builder) Build(s entity.Snapshot, enc encounter.Encounter, gens []entity.Generation) Chains {
	chains := make(Chains, len(gens))
	if len(gens) == 0 {
		return chains
	}
	latest := gens[0]
	for _, g := range gens {
		if g > latest {
			latest = g
		}
	}

	var target *encounter.Header
	if enc != nil {
		target = enc.Head()
	}

	var paths [][]Step
	var links [][]link
	b.walk([]link{{species: s.Species(), form: s.Form()}}, latest, func(path []link, root bool) {
		if target != nil {
			if path[len(path)-1].species != target.Species {
				return
			}
		} else if !root {
			return
		}
		if steps, ok := bound(path, s.CurrentLevel(), target); ok {
			paths = append(paths, steps)
			links = append(links, append([]link(nil), path...))
		}
	})

	for _, g := range gens {
		var trimmed [][]Step
		for i, steps := range paths {
			if head := trimHead(links[i], g); head < len(steps) {
				trimmed = append(trimmed, steps[head:])
			}
		}
		chains[g] = merge(trimmed)
	}
	return chains
}

// walk visits path and every extension of it toward the roots. root is true
// when the last node has no pre-evolution in gen.
func (b *Builder) walk(path []link, gen entity.Generation, visit func(path []link, root bool)) {
	last := path[len(path)-1]
	pre := b.table.PreEvolutions(last.species, last.form, gen)
	extended := false
	for _, e := range pre {
		if onPath(path, e.From) {
			continue
		}
		extended = true
		b.walk(append(path[:len(path):len(path)], link{species: e.From, form: e.FromForm, edge: e}), gen, visit)
	}
	visit(path, !extended)
}

func onPath(path []link, sp entity.Species) bool {
	for _, l := range path {
		if l.species == sp {
			return true
		}
	}
	return false
}

// bound propagates level windows along a path: the head is capped by the
// current level, each level-up pre-evolution is one level lower, and each
// evolved stage starts no earlier than its evolution level.
func bound(path []link, current uint8, target *encounter.Header) ([]Step, bool) {
	n := len(path)
	steps := make([]Step, n)
	for i, l := range path {
		steps[i] = Step{Species: l.species, Form: l.form}
	}

	steps[0].LevelMax = current
	for i := 1; i < n; i++ {
		hi := steps[i-1].LevelMax
		if path[i].edge.Method.NeedsLevel() {
			if hi <= 1 {
				return nil, false
			}
			hi--
		}
		steps[i].LevelMax = hi
	}

	rootMin := uint8(1)
	if target != nil && target.LevelMin > rootMin {
		rootMin = target.LevelMin
	}
	steps[n-1].LevelMin = rootMin
	for i := n - 2; i >= 0; i-- {
		e := path[i+1].edge
		lo := steps[i+1].LevelMin
		if e.Method.NeedsLevel() {
			lo++
		}
		if e.Level > lo {
			lo = e.Level
		}
		steps[i].LevelMin = lo
	}

	for _, st := range steps {
		if st.LevelMin > st.LevelMax {
			return nil, false
		}
	}
	return steps, true
}

// trimHead returns how many leading stages did not exist in gen: the species
// was introduced later, or the evolution into it was.
func trimHead(path []link, gen entity.Generation) int {
	limit := entity.MaxSpecies(gen)
	head := 0
	for head < len(path) {
		if path[head].species <= limit && (head == len(path)-1 || path[head+1].edge.existsIn(gen)) {
			break
		}
		head++
	}
	return head
}

// merge aligns paths by position, keeping each distinct species/form once with
// the union of its level windows.
func merge(paths [][]Step) Chain {
	var chain Chain
	for _, steps := range paths {
		for i, st := range steps {
			if i == len(chain) {
				chain = append(chain, nil)
			}
			found := false
			for j := range chain[i] {
				cur := &chain[i][j]
				if cur.Species != st.Species || cur.Form != st.Form {
					continue
				}
				if st.LevelMin < cur.LevelMin {
					cur.LevelMin = st.LevelMin
				}
				if st.LevelMax > cur.LevelMax {
					cur.LevelMax = st.LevelMax
				}
				found = true
				break
			}
			if !found {
				chain[i] = append(chain[i], st)
			}
		}
	}
	return chain
}

// #endregion builder
