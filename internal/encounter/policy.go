package encounter

import (
	"fmt"
	"sort"
)

// #region policy

// Policy is the total order over encounter kinds used to rank candidates that
// satisfy the same gates. Earlier kinds are tried first.
type Policy []Kind

// DefaultPolicy prefers the specific variants, whose shininess and PRNG
// restrictions are stricter, over generic wild and egg matches.
func DefaultPolicy() Policy {
	return Policy{KindEvent, KindStatic, KindTrade, KindWild, KindEgg}
}

// ParsePolicy builds a Policy from kind names. Every kind must appear exactly once.
func ParsePolicy(names []string) (Policy, error) {
	if len(names) == 0 {
		return DefaultPolicy(), nil
	}
	p := make(Policy, 0, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, fmt.Errorf("parse policy: %w", err)
		}
		p = append(p, k)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that p orders every kind exactly once.
func (p Policy) Validate() error {
	seen := make(map[Kind]bool, len(p))
	for _, k := range p {
		if _, known := kindNames[k]; !known {
			return fmt.Errorf("policy: unknown kind %s", k)
		}
		if seen[k] {
			return fmt.Errorf("policy: kind %s listed twice", k)
		}
		seen[k] = true
	}
	if len(seen) != len(kindNames) {
		return fmt.Errorf("policy: %d of %d kinds ordered", len(seen), len(kindNames))
	}
	return nil
}

// Rank returns k's position in the order; unknown kinds sort last.
func (p Policy) Rank(k Kind) int {
	for i, pk := range p {
		if pk == k {
			return i
		}
	}
	return len(p)
}

// Sort orders encounters by kind rank, keeping catalog order within a kind.
func (p Policy) Sort(encs []Encounter) {
	sort.SliceStable(encs, func(i, j int) bool {
		return p.Rank(encs[i].Kind()) < p.Rank(encs[j].Kind())
	})
}

// Strings renders the policy for config files.
func (p Policy) Strings() []string {
	out := make([]string, len(p))
	for i, k := range p {
		out[i] = k.String()
	}
	return out
}

// #endregion policy
