// Package replay runs recorded snapshots through the analyzer and compares the
// verdicts with the ones recorded alongside them. It is the regression harness
// for rule-table and engine changes.
package replay

import (
	"errors"
	"slices"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
)

// #region types

// Verifier analyzes a single record.
type Verifier interface {
	Verify(s entity.Snapshot) (*legality.Info, error)
}

// ReplayResult captures the outcome of replaying one record.
type ReplayResult struct {
	Ref    string
	Action string // "pass" | "mismatch" | "defect" | "unchecked"
	Reason string

	Report *legality.Report
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalRecords int
	Passes       int
	Mismatches   int
	Defects      int
	Unchecked    int
	Valid        int
	Invalid      int
}

// #endregion types

// #region replay

// Replay verifies every record in order and compares each verdict with the
// expectation at the same index. Records past the end of expected are reported
// as unchecked.
func Replay(v Verifier, records []entity.Snapshot, expected []FixtureExpectedResult) []ReplayResult {
	results := make([]ReplayResult, 0, len(records))
	for i, rec := range records {
		ref := ""
		if r, ok := rec.(entity.Record); ok {
			ref = r.Ref
		}

		info, err := v.Verify(rec)
		if err != nil {
			reason := err.Error()
			if errors.Is(err, legality.ErrInvariant) {
				reason = "table defect: " + reason
			}
			results = append(results, ReplayResult{Ref: ref, Action: "defect", Reason: reason})
			continue
		}
		report := info.Report()

		if i >= len(expected) {
			results = append(results, ReplayResult{Ref: ref, Action: "unchecked", Report: &report})
			continue
		}
		action, reason := compare(report, expected[i])
		results = append(results, ReplayResult{Ref: ref, Action: action, Reason: reason, Report: &report})
	}
	return results
}

func compare(r legality.Report, want FixtureExpectedResult) (string, string) {
	if r.Valid != want.Valid {
		return "mismatch", "valid differs"
	}
	if want.Match != "" {
		got := ""
		if r.Match != nil {
			got = r.Match.ID
		}
		if got != want.Match {
			return "mismatch", "match " + got + ", want " + want.Match
		}
	}
	if len(want.Failures) > 0 {
		got := FailureKeys(r)
		if !slices.Equal(got, want.Failures) {
			return "mismatch", "failures differ"
		}
	}
	return "pass", ""
}

// FailureKeys lists the Invalid results of r as "check/key".
func FailureKeys(r legality.Report) []string {
	var keys []string
	for _, f := range r.Failures() {
		keys = append(keys, string(f.Check)+"/"+f.Key)
	}
	return keys
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{TotalRecords: len(results)}
	for _, r := range results {
		switch r.Action {
		case "pass":
			s.Passes++
		case "mismatch":
			s.Mismatches++
		case "defect":
			s.Defects++
		case "unchecked":
			s.Unchecked++
		}
		if r.Report == nil {
			continue
		}
		if r.Report.Valid {
			s.Valid++
		} else {
			s.Invalid++
		}
	}
	return s
}

// #endregion replay
