package logging

import "time"

// #region verdict-entry
// VerdictEntry is a single row in the verdict_log table.
type VerdictEntry struct {
	RunID      string
	Ref        string
	RuleSetID  string
	Species    uint16
	Valid      bool
	MatchID    string
	Failures   string // comma separated check/key pairs
	RecordJSON string
	ReportJSON string
	CreatedAt  time.Time
}

// #endregion verdict-entry
