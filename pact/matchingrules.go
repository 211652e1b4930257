package pact

import "fmt"

// RuleKind discriminates the members of the MatchingRule sum type described
// in spec section 3.
type RuleKind int

const (
	// Equality requires the two values to compare equal at their native type.
	Equality RuleKind = iota
	// Regex requires the actual value's string form to match a pattern.
	Regex
	// Type requires the actual value to have the same JSON type as expected.
	Type
	// MinType is Type plus a minimum array length.
	MinType
	// MaxType is Type plus a maximum array length.
	MaxType
	// MinMaxType is Type plus both a minimum and maximum array length.
	MinMaxType
)

func (k RuleKind) String() string {
	switch k {
	case Equality:
		return "equality"
	case Regex:
		return "regex"
	case Type:
		return "type"
	case MinType:
		return "min"
	case MaxType:
		return "max"
	case MinMaxType:
		return "minmax"
	default:
		return fmt.Sprintf("RuleKind(%d)", int(k))
	}
}

// MatchingRule is one rule in a RuleList: Equality, Regex(pattern), Type,
// MinType(n), MaxType(n), or MinMaxType(min,max).
type MatchingRule struct {
	Kind    RuleKind
	Pattern string // Regex
	Min     int    // MinType, MinMaxType
	Max     int    // MaxType, MinMaxType
}

// EqualityRule builds an Equality rule.
func EqualityRule() MatchingRule { return MatchingRule{Kind: Equality} }

// RegexRule builds a Regex rule with the given pattern.
func RegexRule(pattern string) MatchingRule { return MatchingRule{Kind: Regex, Pattern: pattern} }

// TypeRule builds a Type rule.
func TypeRule() MatchingRule { return MatchingRule{Kind: Type} }

// MinTypeRule builds a MinType rule.
func MinTypeRule(n int) MatchingRule { return MatchingRule{Kind: MinType, Min: n} }

// MaxTypeRule builds a MaxType rule.
func MaxTypeRule(n int) MatchingRule { return MatchingRule{Kind: MaxType, Max: n} }

// MinMaxTypeRule builds a MinMaxType rule.
func MinMaxTypeRule(minN, maxN int) MatchingRule {
	return MatchingRule{Kind: MinMaxType, Min: minN, Max: maxN}
}

// RuleList is an ordered, non-empty sequence of MatchingRule. A RuleList
// passes iff every rule in it passes (spec section 4.C).
type RuleList []MatchingRule

// Category names the matching-rule category a RuleList is keyed under.
type Category string

// The matching-rule categories named in spec section 3.
const (
	CategoryBody   Category = "body"
	CategoryHeader Category = "header"
	CategoryQuery  Category = "query"
	CategoryPath   Category = "path"
	CategoryStatus Category = "status"
)

// RuleSet is a mapping from path expression to RuleList, one per category,
// that additionally remembers the order paths were first added in. Matcher
// selection (spec section 4.B) breaks weight ties by earliest insertion, so
// the order has to survive independently of Go's unordered maps.
type RuleSet struct {
	rules map[string]RuleList
	order []string
}

func newRuleSet() *RuleSet {
	return &RuleSet{rules: map[string]RuleList{}}
}

// Set registers rules for path, appending path to the insertion order the
// first time it is seen.
func (rs *RuleSet) Set(path string, rules RuleList) {
	if _, exists := rs.rules[path]; !exists {
		rs.order = append(rs.order, path)
	}
	rs.rules[path] = rules
}

// Rules returns the path-to-RuleList mapping.
func (rs *RuleSet) Rules() map[string]RuleList { return rs.rules }

// Order returns the paths in insertion order.
func (rs *RuleSet) Order() []string { return rs.order }

// Len returns the number of distinct paths registered.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// MatchingRules is a mapping from category to a RuleSet of path expression
// to RuleList.
type MatchingRules map[Category]*RuleSet

// NewMatchingRules returns an empty, ready-to-populate MatchingRules value.
func NewMatchingRules() MatchingRules {
	return MatchingRules{}
}

// Add registers rules for a path expression within a category, creating the
// category's RuleSet on first use.
func (m MatchingRules) Add(cat Category, path string, rules RuleList) {
	if m[cat] == nil {
		m[cat] = newRuleSet()
	}
	m[cat].Set(path, rules)
}

// Category returns the RuleSet for a category, or nil if the category has
// no rules at all.
func (m MatchingRules) Category(cat Category) *RuleSet {
	return m[cat]
}
