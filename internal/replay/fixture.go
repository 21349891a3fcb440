package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/legality/go-checker/internal/analysis"
	"github.com/danielpatrickdp/legality/go-checker/internal/condition"
	"github.com/danielpatrickdp/legality/go-checker/internal/encounter"
	"github.com/danielpatrickdp/legality/go-checker/internal/entity"
	"github.com/danielpatrickdp/legality/go-checker/internal/rules"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a rule set,
// the records to verify against it, and the verdict expected for each.
type Fixture struct {
	Description     string                  `json:"description"`
	Policy          []string                `json:"policy,omitempty"`
	Rules           rules.Set               `json:"rules"`
	Records         []entity.Record         `json:"records"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureExpectedResult captures the expected verdict per record. Match and
// Failures are only compared when set.
type FixtureExpectedResult struct {
	Ref      string   `json:"ref"`
	Valid    bool     `json:"valid"`
	Match    string   `json:"match,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Analyzer compiles the fixture's rule set and wires an analyzer over it.
func (f *Fixture) Analyzer(logger *zap.Logger) (*analysis.Analyzer, error) {
	engine, err := condition.NewEngine()
	if err != nil {
		return nil, err
	}
	tables, err := rules.Compile(f.Rules, rules.Options{Conditions: engine})
	if err != nil {
		return nil, err
	}
	policy, err := encounter.ParsePolicy(f.Policy)
	if err != nil {
		return nil, err
	}
	return analysis.New(tables, engine, policy, logger), nil
}

// Snapshots converts the fixture records for Replay.
func (f *Fixture) Snapshots() []entity.Snapshot {
	out := make([]entity.Snapshot, len(f.Records))
	for i, r := range f.Records {
		out[i] = r
	}
	return out
}

// #endregion fixture-loader
