package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
)

// #region verdict-schema

// Schema creates the verdict_log table. Stores that share a database with the
// log run it alongside their own migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS verdict_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	ref          TEXT,
	rule_set_id  TEXT,
	species      INTEGER NOT NULL,
	valid        INTEGER NOT NULL,
	match_id     TEXT,
	failures     TEXT,
	record_json  TEXT,
	report_json  TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
`

// #endregion verdict-schema

// #region entry-from-report

// EntryFromReport flattens a report into a log row. rec, when not nil, is kept
// so the row can later be exported as a replay fixture.
func EntryFromReport(r legality.Report, rec entity.Snapshot, ruleSetID string) (VerdictEntry, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return VerdictEntry{}, fmt.Errorf("marshal report: %w", err)
	}
	var recJSON []byte
	if rec != nil {
		if recJSON, err = json.Marshal(rec); err != nil {
			return VerdictEntry{}, fmt.Errorf("marshal record: %w", err)
		}
	}
	var failures []string
	for _, f := range r.Failures() {
		failures = append(failures, string(f.Check)+"/"+f.Key)
	}
	entry := VerdictEntry{
		RunID:      r.RunID,
		Ref:        r.Ref,
		RuleSetID:  ruleSetID,
		Species:    uint16(r.Species),
		Valid:      r.Valid,
		Failures:   strings.Join(failures, ","),
		RecordJSON: string(recJSON),
		ReportJSON: string(raw),
	}
	if r.Match != nil {
		entry.MatchID = r.Match.ID
	}
	return entry, nil
}

// #endregion entry-from-report

// #region log-verdict
// LogVerdict writes a verdict entry to the verdict_log table.
func LogVerdict(db *sql.DB, entry VerdictEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO verdict_log (run_id, ref, rule_set_id, species, valid, match_id, failures, record_json, report_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		nullIfEmpty(entry.Ref),
		nullIfEmpty(entry.RuleSetID),
		entry.Species,
		entry.Valid,
		nullIfEmpty(entry.MatchID),
		nullIfEmpty(entry.Failures),
		nullIfEmpty(entry.RecordJSON),
		entry.ReportJSON,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log verdict: %w", err)
	}
	return nil
}

// RecentVerdicts returns the newest entries, newest first.
func RecentVerdicts(db *sql.DB, limit int) ([]VerdictEntry, error) {
	rows, err := db.Query(
		`SELECT run_id, ref, rule_set_id, species, valid, match_id, failures, record_json, report_json, created_at
		 FROM verdict_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	var out []VerdictEntry
	for rows.Next() {
		var e VerdictEntry
		var ref, setID, matchID, failures, record sql.NullString
		var created string
		if err := rows.Scan(&e.RunID, &ref, &setID, &e.Species, &e.Valid, &matchID, &failures, &record, &e.ReportJSON, &created); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		e.Ref, e.RuleSetID, e.MatchID = ref.String, setID.String, matchID.String
		e.Failures, e.RecordJSON = failures.String, record.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion log-verdict

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
