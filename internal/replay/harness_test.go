package replay

import (
	"testing"

	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
	"github.com/danielpatrickdp/legality/go-checker/internal/logging"
	"github.com/danielpatrickdp/legality/go-checker/internal/rules"
)

// stubVerifier matches species 1 to a fixed static, fails on species 99 and
// leaves everything else unmatched.
type stubVerifier struct{}

func (stubVerifier) Verify(s entity.Snapshot) (*legality.Info, error) {
	if s.Species() == 99 {
		return nil, legality.Invariantf("match", "corrupt entry")
	}
	info := legality.New(s, nil)
	if s.Species() == 1 {
		info.Commit(&encounter.Static{Header: encounter.Header{ID: "gift", Gen: 3, Species: 1}})
	}
	return info, nil
}

func rec(ref string, sp entity.Species) entity.Snapshot {
	return entity.Record{Ref: ref, SpeciesID: sp, FormatGen: 3, OriginGen: 3}
}

// 1. Verdict equal to the expectation → pass.
func TestReplay_Pass(t *testing.T) {
	results := Replay(stubVerifier{}, []entity.Snapshot{rec("a", 1)},
		[]FixtureExpectedResult{{Ref: "a", Valid: true, Match: "gift"}})
	if results[0].Action != "pass" {
		t.Errorf("expected pass, got %s (%s)", results[0].Action, results[0].Reason)
	}
}

// 2. Wrong validity, wrong match or wrong failures → mismatch.
func TestReplay_Mismatch(t *testing.T) {
	records := []entity.Snapshot{rec("a", 1), rec("b", 1), rec("c", 2)}
	expected := []FixtureExpectedResult{
		{Ref: "a", Valid: false},
		{Ref: "b", Valid: true, Match: "wild"},
		{Ref: "c", Valid: false, Failures: []string{"shiny/shiny_mismatch"}},
	}
	for i, r := range Replay(stubVerifier{}, records, expected) {
		if r.Action != "mismatch" {
			t.Errorf("record %d: expected mismatch, got %s", i, r.Action)
		}
	}
}

// 3. Table defects and records without expectations are counted apart.
func TestReplay_DefectsAndUnchecked(t *testing.T) {
	results := Replay(stubVerifier{}, []entity.Snapshot{rec("x", 99), rec("y", 2)}, nil)
	if results[0].Action != "defect" || results[0].Report != nil {
		t.Errorf("expected defect without report, got %+v", results[0])
	}
	if results[1].Action != "unchecked" {
		t.Errorf("expected unchecked, got %s", results[1].Action)
	}
	s := Summarize(results)
	want := ReplaySummary{TotalRecords: 2, Defects: 1, Unchecked: 1, Invalid: 1}
	if s != want {
		t.Errorf("summary = %+v, want %+v", s, want)
	}
}

// 4. Logged verdicts export into a fixture that replays clean.
func TestFromVerdicts_RoundTrip(t *testing.T) {
	var entries []logging.VerdictEntry
	for _, r := range []entity.Snapshot{rec("a", 1), rec("b", 2)} {
		info, _ := stubVerifier{}.Verify(r)
		e, err := logging.EntryFromReport(info.Report(), r, "set-1")
		if err != nil {
			t.Fatalf("entry: %v", err)
		}
		entries = append([]logging.VerdictEntry{e}, entries...) // newest first
	}
	entries = append(entries, logging.VerdictEntry{RunID: "no-record"})

	f, err := FromVerdicts("exported", rules.Set{Revision: "1.0.0"}, entries)
	if err != nil {
		t.Fatalf("FromVerdicts: %v", err)
	}
	if len(f.Records) != 2 || f.Records[0].Ref != "a" {
		t.Fatalf("unexpected records %+v", f.Records)
	}
	for i, r := range Replay(stubVerifier{}, f.Snapshots(), f.ExpectedResults) {
		if r.Action != "pass" {
			t.Errorf("record %d: %s (%s)", i, r.Action, r.Reason)
		}
	}
}
