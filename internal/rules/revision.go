package rules

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/danielpatrickdp/legality/go-checker/internal/legality"
)

// DefaultRevisionConstraint is the range of table revisions this engine reads.
const DefaultRevisionConstraint = "^1.0.0"

// CheckRevision verifies that revision satisfies constraint. An unsupported
// or malformed revision is a table defect.
func CheckRevision(revision, constraint string) error {
	if constraint == "" {
		constraint = DefaultRevisionConstraint
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return legality.Invariant("rules revision", fmt.Errorf("constraint %q: %w", constraint, err))
	}
	v, err := semver.NewVersion(revision)
	if err != nil {
		return legality.Invariant("rules revision", fmt.Errorf("revision %q: %w", revision, err))
	}
	if !c.Check(v) {
		return legality.Invariantf("rules revision", "revision %s does not satisfy %s", v, constraint)
	}
	return nil
}
