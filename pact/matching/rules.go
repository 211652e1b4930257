package matching

import (
	"fmt"
	"regexp"

	"github.com/pact-go/pact/pact"
)

// EvalRule applies a single MatchingRule to a pair of decoded JSON values
// (spec section 4.C). ok is false when the rule fails; msg then carries a
// human-readable explanation, and err is non-nil only when the rule itself
// is malformed (e.g. an uncompilable regex), which spec section 7
// classifies as a parse error to be surfaced as a mismatch rather than
// propagated.
func EvalRule(rule pact.MatchingRule, expected, actual interface{}) (ok bool, msg string, err error) {
	switch rule.Kind {
	case pact.Equality:
		if jsonEqual(expected, actual) {
			return true, "", nil
		}
		return false, fmt.Sprintf("expected %s to equal %s", jsonStringify(expected), jsonStringify(actual)), nil

	case pact.Regex:
		re, compileErr := regexp.Compile(rule.Pattern)
		if compileErr != nil {
			return false, "", fmt.Errorf("invalid regex %q: %w", rule.Pattern, compileErr)
		}
		s := jsonStringify(actual)
		if re.MatchString(s) {
			return true, "", nil
		}
		return false, fmt.Sprintf("%q does not match pattern %q", s, rule.Pattern), nil

	case pact.Type:
		return evalType(expected, actual)

	case pact.MinType:
		if n, isArray := jsonArrayLen(actual); isArray {
			if n < rule.Min {
				return false, fmt.Sprintf("expected at least %d elements but received %d", rule.Min, n), nil
			}
			return true, "", nil
		}
		return evalType(expected, actual)

	case pact.MaxType:
		if n, isArray := jsonArrayLen(actual); isArray {
			if n > rule.Max {
				return false, fmt.Sprintf("expected at most %d elements but received %d", rule.Max, n), nil
			}
			return true, "", nil
		}
		return evalType(expected, actual)

	case pact.MinMaxType:
		if n, isArray := jsonArrayLen(actual); isArray {
			if n < rule.Min {
				return false, fmt.Sprintf("expected at least %d elements but received %d", rule.Min, n), nil
			}
			if n > rule.Max {
				return false, fmt.Sprintf("expected at most %d elements but received %d", rule.Max, n), nil
			}
			return true, "", nil
		}
		return evalType(expected, actual)

	default:
		return false, "", fmt.Errorf("unknown matching rule kind %v", rule.Kind)
	}
}

func evalType(expected, actual interface{}) (bool, string, error) {
	te, ta := jsonType(expected), jsonType(actual)
	if te == ta {
		return true, "", nil
	}
	return false, fmt.Sprintf("expected a %s but received a %s", te, ta), nil
}

// EvalRuleList applies every rule in list, in order, and passes only if all
// of them pass (spec section 4.C). The first failure's message is
// returned; a malformed rule (e.g. bad regex) also counts as a failure.
func EvalRuleList(list pact.RuleList, expected, actual interface{}) (ok bool, msg string) {
	for _, rule := range list {
		passed, detail, err := EvalRule(rule, expected, actual)
		if err != nil {
			return false, err.Error()
		}
		if !passed {
			return false, detail
		}
	}
	return true, ""
}

// relaxesLength reports whether list contains a Type-family rule that
// relaxes array length/element-by-element equality checks, per spec
// section 4.D step 1's "except for Type-family on arrays" carve-out and
// the each_like behavior in 4.D.4.
func relaxesLength(list pact.RuleList) bool {
	for _, r := range list {
		switch r.Kind {
		case pact.Type, pact.MinType, pact.MaxType, pact.MinMaxType:
			return true
		}
	}
	return false
}
