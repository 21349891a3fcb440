package legality

import (
	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/evolution"
	"github.com/danielpatrickdp/legality/go-checker/internal/pidiv"
)

// #region report

// EncounterSummary is the serializable view of a hypothesis.
type EncounterSummary struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	Generation entity.Generation `json:"generation"`
	Species    entity.Species    `json:"species"`
	LevelMin   uint8             `json:"level_min"`
	LevelMax   uint8             `json:"level_max"`
	Shiny      string            `json:"shiny"`
}

// PIDIVSummary carries the PRNG origin and both plausibility flags.
type PIDIVSummary struct {
	Method       pidiv.Method `json:"method"`
	Seed         uint32       `json:"seed"`
	Parsed       bool         `json:"parsed"`
	PIDIVMatches bool         `json:"pidiv_matches"`
	FrameMatches bool         `json:"frame_matches"`
}

// Report is the flat, ordered verdict of one run.
type Report struct {
	RunID      string            `json:"run_id"`
	Ref        string            `json:"ref,omitempty"`
	Species    entity.Species    `json:"species"`
	Format     entity.Generation `json:"format"`
	Generation entity.Generation `json:"generation"`
	Valid      bool              `json:"valid"`
	Match      *EncounterSummary `json:"match,omitempty"`
	Original   *EncounterSummary `json:"original,omitempty"`
	PIDIV      PIDIVSummary      `json:"pidiv"`
	EvoChains  evolution.Chains  `json:"evo_chains,omitempty"`
	Moves      [4]MoveResult     `json:"moves"`
	Relearn    [4]MoveResult     `json:"relearn"`
	Checks     []CheckResult     `json:"checks"`
}

// Summarize converts an encounter for reporting. nil stays nil.
func Summarize(enc encounter.Encounter) *EncounterSummary {
	if enc == nil {
		return nil
	}
	h := enc.Head()
	return &EncounterSummary{
		ID:         h.ID,
		Kind:       enc.Kind().String(),
		Generation: h.Gen,
		Species:    h.Species,
		LevelMin:   h.LevelMin,
		LevelMax:   h.LevelMax,
		Shiny:      h.Shiny.String(),
	}
}

// Report flattens the run. Chains are only included when a match exists.
func (i *Info) Report() Report {
	r := Report{
		RunID:      i.runID,
		Species:    i.entity.Species(),
		Format:     i.entity.Format(),
		Generation: i.gen,
		Valid:      i.Valid(),
		Match:      Summarize(i.match),
		Original:   Summarize(i.Original()),
		PIDIV: PIDIVSummary{
			Method:       i.origin.Method,
			Seed:         i.origin.Seed,
			Parsed:       i.pidParsed,
			PIDIVMatches: i.narrowing.PIDIVMatches(),
			FrameMatches: i.narrowing.FrameMatches(),
		},
		Moves:   i.moves,
		Relearn: i.relearn,
		Checks:  i.Results(),
	}
	if rec, ok := i.entity.(entity.Record); ok {
		r.Ref = rec.Ref
	}
	if i.match != nil {
		r.EvoChains = i.EvoChains()
	}
	return r
}

// Failures returns every Invalid result in report order: top-level checks,
// then move slots, then relearn slots.
func (r Report) Failures() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Valid() {
			out = append(out, c)
		}
	}
	for _, m := range r.Moves {
		if !m.Valid() {
			out = append(out, m.CheckResult)
		}
	}
	for _, m := range r.Relearn {
		if !m.Valid() {
			out = append(out, m.CheckResult)
		}
	}
	return out
}

// #endregion report
