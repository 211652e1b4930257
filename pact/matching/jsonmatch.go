package matching

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pact-go/pact/pact"
)

// MatchJSONBody walks an expected and actual JSON body, honoring the
// matching rules registered under the "body" category, and returns every
// mismatch found (spec section 4.D). The presence matrix in 4.D is checked
// first; the recursive structural walk only happens when both bodies are
// genuinely present.
func MatchJSONBody(expected, actual pact.OptionalBody, config BodyConfig, rules *pact.RuleSet) []pact.Mismatch {
	switch {
	case expected.IsMissing():
		return nil
	case expected.IsNull():
		if actual.IsPresent() {
			return []pact.Mismatch{pact.BodyMismatch(rootPath, "null", describeBody(actual), "expected an empty body but received content")}
		}
		return nil
	case expected.IsPresent():
		switch {
		case actual.IsMissing():
			return []pact.Mismatch{pact.BodyMismatch(rootPath, describeBody(expected), "missing", "expected a body but none was received")}
		case actual.IsEmpty() || actual.IsNull():
			return []pact.Mismatch{pact.BodyMismatch(rootPath, describeBody(expected), describeBody(actual), "expected a body but received an empty one")}
		default:
			expVal, err := decodeJSON(expected.Content())
			if err != nil {
				return []pact.Mismatch{pact.BodyMismatch(rootPath, "", "", fmt.Sprintf("failed to parse expected body as JSON: %v", err))}
			}
			actVal, err := decodeJSON(actual.Content())
			if err != nil {
				return []pact.Mismatch{pact.BodyMismatch(rootPath, "", "", fmt.Sprintf("failed to parse actual body as JSON: %v", err))}
			}
			var out []pact.Mismatch
			compareJSONNode(bodyRoot(), expVal, actVal, config, rules, false, &out)
			return out
		}
	default:
		return nil
	}
}

const rootPath = "$"

func bodyRoot() []string { return []string{"$", "body"} }

func describeBody(b pact.OptionalBody) string {
	if b.IsPresent() {
		return string(b.Content())
	}
	return b.State().String()
}

func nodeKind(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return "primitive"
	}
}

// compareJSONNode walks one node of the expected/actual tree. lenient is set
// while descending through an each_like-tiled prototype subtree (spec 4.D.4):
// within that subtree, primitives fall back to a type comparison instead of
// equality wherever no more specific matcher overrides them, since the
// prototype's own values are illustrative, not literal, for every tiled
// element beyond the first.
func compareJSONNode(path []string, expected, actual interface{}, config BodyConfig, rules *pact.RuleSet, lenient bool, out *[]pact.Mismatch) {
	ruleList, found := Select(rules, path)
	if found {
		if ok, msg := EvalRuleList(ruleList, expected, actual); !ok {
			*out = append(*out, pact.BodyMismatch(pathString(path), jsonStringify(expected), jsonStringify(actual), msg))
		}
	}

	ek, ak := nodeKind(expected), nodeKind(actual)
	if ek != ak {
		*out = append(*out, pact.BodyMismatch(pathString(path), jsonTypeName(ek, expected), jsonTypeName(ak, actual), "type mismatch"))
		return
	}

	switch ek {
	case "object":
		compareMaps(path, expected.(map[string]interface{}), actual.(map[string]interface{}), config, rules, lenient, out)
	case "array":
		compareArrays(path, expected.([]interface{}), actual.([]interface{}), config, rules, out, found, ruleList, lenient)
	default:
		if found {
			return
		}
		if lenient {
			if te, ta := jsonType(expected), jsonType(actual); te != ta {
				*out = append(*out, pact.BodyMismatch(pathString(path), te, ta, "type mismatch"))
			}
			return
		}
		if !jsonEqual(expected, actual) {
			*out = append(*out, pact.BodyMismatch(pathString(path), jsonStringify(expected), jsonStringify(actual), "values are not equal"))
		}
	}
}

func jsonTypeName(kind string, v interface{}) string {
	if kind != "primitive" {
		return kind
	}
	return jsonType(v)
}

func compareMaps(path []string, expected, actual map[string]interface{}, config BodyConfig, rules *pact.RuleSet, lenient bool, out *[]pact.Mismatch) {
	if len(expected) == 0 && len(actual) != 0 {
		*out = append(*out, pact.BodyMismatch(pathString(path), "{}", jsonStringify(actual), "expected an empty map but received a populated one"))
		return
	}
	if config == NoUnexpectedKeys && len(expected) != len(actual) {
		*out = append(*out, pact.BodyMismatch(pathString(path), strconv.Itoa(len(expected)), strconv.Itoa(len(actual)),
			fmt.Sprintf("expected a map with %d entries but received %d", len(expected), len(actual))))
	} else if config == AllowUnexpectedKeys && len(expected) > len(actual) {
		*out = append(*out, pact.BodyMismatch(pathString(path), strconv.Itoa(len(expected)), strconv.Itoa(len(actual)),
			fmt.Sprintf("expected at least %d entries but received %d", len(expected), len(actual))))
	}
	for k, v := range expected {
		childPath := append(append([]string{}, path...), k)
		av, ok := actual[k]
		if !ok {
			*out = append(*out, pact.BodyMismatch(pathString(childPath), jsonStringify(v), "missing", fmt.Sprintf("missing entry for key %q", k)))
			continue
		}
		compareJSONNode(childPath, v, av, config, rules, lenient, out)
	}
}

func compareArrays(path []string, expected, actual []interface{}, config BodyConfig, rules *pact.RuleSet, out *[]pact.Mismatch, ruleFound bool, ruleList pact.RuleList, lenient bool) {
	if ruleFound && relaxesLength(ruleList) {
		if len(expected) == 0 {
			return
		}
		prototype := expected[0]
		for i, av := range actual {
			childPath := append(append([]string{}, path...), strconv.Itoa(i))
			compareJSONNode(childPath, prototype, av, config, rules, true, out)
		}
		return
	}
	if len(expected) == 0 && len(actual) != 0 {
		*out = append(*out, pact.BodyMismatch(pathString(path), "[]", jsonStringify(actual), "expected an empty list but received a populated one"))
		return
	}
	minLen := len(expected)
	if len(actual) < minLen {
		minLen = len(actual)
	}
	for i := 0; i < minLen; i++ {
		childPath := append(append([]string{}, path...), strconv.Itoa(i))
		compareJSONNode(childPath, expected[i], actual[i], config, rules, lenient, out)
	}
	if len(expected) != len(actual) {
		*out = append(*out, pact.BodyMismatch(pathString(path), strconv.Itoa(len(expected)), strconv.Itoa(len(actual)),
			fmt.Sprintf("%d elements vs %d elements", len(expected), len(actual))))
	}
}

// pathString renders a concrete path segment slice (as used for matcher
// selection and diagnostics) back to dotted path-expression notation, e.g.
// ["$", "body", "item1", "0"] -> "$.body.item1[0]".
func pathString(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i == 0 {
			b.WriteString(seg)
			continue
		}
		if n, err := strconv.Atoi(seg); err == nil {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(n))
			b.WriteByte(']')
			continue
		}
		b.WriteByte('.')
		b.WriteString(seg)
	}
	return b.String()
}
