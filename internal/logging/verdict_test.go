package logging

import (
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func invalidReport() legality.Report {
	return legality.Report{
		RunID:   "run-1",
		Ref:     "box1/slot1",
		Species: 25,
		Format:  3,
		Valid:   false,
		Match:   &legality.EncounterSummary{ID: "r3-pikachu", Kind: "wild"},
		Checks: []legality.CheckResult{
			legality.Result(legality.Valid, legality.CheckEncounter, "matched"),
			legality.Result(legality.Invalid, legality.CheckShiny, "shiny_mismatch"),
		},
	}
}

// #endregion helpers

// #region log-verdict-tests
func TestLogVerdict_RoundTrip(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	entry, err := EntryFromReport(invalidReport(), entity.Record{Ref: "box1/slot1", SpeciesID: 25}, "set-1")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if !strings.Contains(entry.RecordJSON, `"species":25`) {
		t.Errorf("record json = %s", entry.RecordJSON)
	}
	if entry.Failures != "shiny/shiny_mismatch" {
		t.Errorf("failures = %q", entry.Failures)
	}
	entry.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := LogVerdict(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := RecentVerdicts(db, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if !got[0].CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("created_at = %s", got[0].CreatedAt)
	}
	got[0].CreatedAt = entry.CreatedAt
	if got[0] != entry {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got[0], entry)
	}

	var decoded legality.Report
	if err := json.Unmarshal([]byte(got[0].ReportJSON), &decoded); err != nil {
		t.Fatalf("report json: %v", err)
	}
	if decoded.Match == nil || decoded.Match.ID != "r3-pikachu" {
		t.Errorf("report json lost the match: %+v", decoded.Match)
	}
}

func TestLogVerdict_NullableColumns(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	if err := LogVerdict(db, VerdictEntry{RunID: "run-2", Species: 1, Valid: true, ReportJSON: "{}"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ref sql.NullString
	var created string
	db.QueryRow("SELECT ref, created_at FROM verdict_log").Scan(&ref, &created)
	if ref.Valid {
		t.Error("expected NULL ref")
	}
	if created == "" {
		t.Error("expected created_at to default to now")
	}
}

func TestLogVerdict_MissingTable(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := LogVerdict(db, VerdictEntry{RunID: "x", ReportJSON: "{}"}); err == nil {
		t.Fatal("expected error without verdict_log table")
	}
}

// #endregion log-verdict-tests

// #region logger-tests
func TestLogReport_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	LogReport(logger, invalidReport())
	valid := invalidReport()
	valid.Valid = true
	valid.Checks = valid.Checks[:1]
	LogReport(logger, valid)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel || entries[1].Level != zapcore.InfoLevel {
		t.Errorf("levels = %s, %s", entries[0].Level, entries[1].Level)
	}
	fields := entries[0].ContextMap()
	if fields["match"] != "r3-pikachu" {
		t.Errorf("match field = %v", fields["match"])
	}
	failures, _ := fields["failures"].([]interface{})
	if len(failures) != 1 || !strings.Contains(failures[0].(string), "shiny_mismatch") {
		t.Errorf("failures field = %v", fields["failures"])
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	logger, err := New("warn")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn")
	}
}

// #endregion logger-tests
