package legality

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
)

// #region severity

// Severity grades a check result.
type Severity uint8

const (
	Valid Severity = iota
	Fishy
	Invalid
)

var severityNames = [...]string{"valid", "fishy", "invalid"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range severityNames {
		if n == name {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", text)
}

// #endregion severity

// #region check

// Check identifies which part of the analysis produced a result.
type Check string

const (
	CheckEncounter Check = "encounter"
	CheckFormat    Check = "format"
	CheckLevel     Check = "level"
	CheckPIDIV     Check = "pidiv"
	CheckFrame     Check = "frame"
	CheckShiny     Check = "shiny"
	CheckTrainer   Check = "trainer"
	CheckEvolution Check = "evolution"
	CheckMoves     Check = "moves"
	CheckRelearn   Check = "relearn"
)

// CheckResult is one graded finding with a stable explanation key.
type CheckResult struct {
	Severity Severity `json:"severity"`
	Check    Check    `json:"check"`
	Key      string   `json:"key"`
}

// Result is shorthand for building a CheckResult.
func Result(sev Severity, check Check, key string) CheckResult {
	return CheckResult{Severity: sev, Check: check, Key: key}
}

// Valid reports whether the result is not Invalid. Fishy results pass.
func (r CheckResult) Valid() bool { return r.Severity != Invalid }

func (r CheckResult) String() string {
	return fmt.Sprintf("%s %s: %s", r.Severity, r.Check, r.Key)
}

// MoveResult is a per-slot result carrying the learn source it settled on.
type MoveResult struct {
	CheckResult
	Source entity.LearnSource `json:"source"`
}

// #endregion check
