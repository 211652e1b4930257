// Package matching implements the structural comparator described in spec
// sections 4.B through 4.E: matcher selection, rule evaluation, and the
// JSON/XML body and HTTP request/response matchers built on top of them.
package matching

import (
	"strconv"

	"github.com/pact-go/pact/pact"
	"github.com/pact-go/pact/pact/pathexp"
)

// weight scores how specifically a parsed path expression matches a
// concrete path (spec section 4.B). A zero weight means "does not match
// at all"; ties are broken by the caller.
func weight(expr pathexp.Expression, concrete []string) int {
	if expr.Len() > len(concrete) {
		return 0
	}
	total := 1
	for i := 1; i < expr.Len(); i++ {
		tok := expr.Tokens[i]
		seg := concrete[i]
		var score int
		switch tok.Kind {
		case pathexp.Root:
			if seg == "$" {
				score = 2
			}
		case pathexp.Field:
			if tok.Name == seg {
				score = 2
			}
		case pathexp.Index:
			if n, err := strconv.Atoi(seg); err == nil && n == tok.Idx {
				score = 2
			}
		case pathexp.StarIndex:
			if _, err := strconv.Atoi(seg); err == nil {
				score = 1
			}
		case pathexp.Star:
			score = 1
		}
		if score == 0 {
			return 0
		}
		total *= score
	}
	return total
}

// Select picks, among the rules in a RuleSet, the RuleList whose path
// expression has maximum weight against concrete (spec section 4.B,
// including the "body" special case of 4.B which uses the same algorithm).
// Ties are broken by first-inserted-wins, matching the teacher's general
// preference for stable, insertion-order semantics (see SPEC_FULL.md
// section 4.B). A nil RuleSet (category has no rules at all) always misses.
func Select(rs *pact.RuleSet, concrete []string) (pact.RuleList, bool) {
	if rs == nil {
		return nil, false
	}
	rules := rs.Rules()
	bestWeight := 0
	bestIdx := -1
	var best pact.RuleList
	for i, k := range rs.Order() {
		r, ok := rules[k]
		if !ok {
			continue
		}
		expr, err := pathexp.Parse(k)
		if err != nil {
			continue
		}
		w := weight(expr, concrete)
		if w > bestWeight {
			bestWeight = w
			bestIdx = i
			best = r
		}
	}
	if bestIdx == -1 {
		return nil, false
	}
	return best, true
}
