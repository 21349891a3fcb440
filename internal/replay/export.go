package replay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/logging"
	"github.com/danielpatrickdp/legality/go-checker/internal/rules"
)

// #region export

// FromVerdicts turns logged verdicts into a fixture over set, oldest first.
// Entries logged without their record are skipped.
func FromVerdicts(description string, set rules.Set, entries []logging.VerdictEntry) (*Fixture, error) {
	f := &Fixture{Description: description, Rules: set}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.RecordJSON == "" {
			continue
		}
		var rec entity.Record
		if err := json.Unmarshal([]byte(e.RecordJSON), &rec); err != nil {
			return nil, fmt.Errorf("verdict %s: %w", e.RunID, err)
		}
		if rec.Ref == "" {
			rec.Ref = e.RunID
		}
		want := FixtureExpectedResult{Ref: rec.Ref, Valid: e.Valid, Match: e.MatchID}
		if e.Failures != "" {
			want.Failures = strings.Split(e.Failures, ",")
		}
		f.Records = append(f.Records, rec)
		f.ExpectedResults = append(f.ExpectedResults, want)
	}
	return f, nil
}

// #endregion export
