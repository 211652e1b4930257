package matching

import (
	"mime"
	"sort"
	"strconv"
	"strings"

	"github.com/pact-go/pact/pact"
)

// MatchRequest compares an actual request against the one expected by an
// interaction, in the order spec section 4.E fixes: body, method, path,
// query, headers.
func MatchRequest(expected, actual *pact.Request) []pact.Mismatch {
	var out []pact.Mismatch
	out = append(out, matchBody(expected.Headers, expected.Body, actual.Headers, actual.Body, NoUnexpectedKeys, expected.MatchingRules.Category(pact.CategoryBody))...)
	out = append(out, matchMethod(expected.Method, actual.Method)...)
	out = append(out, matchPath(expected.Path, actual.Path, expected.MatchingRules.Category(pact.CategoryPath))...)
	out = append(out, matchQuery(expected.Query, actual.Query, expected.MatchingRules.Category(pact.CategoryQuery))...)
	out = append(out, matchHeaders(expected.Headers, actual.Headers, expected.MatchingRules.Category(pact.CategoryHeader))...)
	return out
}

// MatchResponse compares an actual response against the one expected by an
// interaction: body, status, headers (spec section 4.E). Response bodies
// tolerate unexpected keys; providers are allowed to return more than a
// consumer asked for.
func MatchResponse(expected, actual *pact.Response) []pact.Mismatch {
	var out []pact.Mismatch
	out = append(out, matchBody(expected.Headers, expected.Body, actual.Headers, actual.Body, AllowUnexpectedKeys, expected.MatchingRules.Category(pact.CategoryBody))...)
	out = append(out, matchStatus(expected.Status, actual.Status, expected.MatchingRules.Category(pact.CategoryStatus))...)
	out = append(out, matchHeaders(expected.Headers, actual.Headers, expected.MatchingRules.Category(pact.CategoryHeader))...)
	return out
}

func matchMethod(expected, actual string) []pact.Mismatch {
	if strings.EqualFold(expected, actual) {
		return nil
	}
	return []pact.Mismatch{pact.MethodMismatch(expected, actual)}
}

// keyedRule looks up a rule by exact name rather than by the weighted
// path-expression algorithm Select implements: header, query, path and
// status categories are keyed by plain names (the header/parameter name,
// or "$" for the single path/status rule), not by a dotted path expression
// (spec section 4.B's weighting is a "body" category special case — see
// rust/pact_matching/src/matchers.rs's select_best_matcher, which only
// recurses through path_exp for "body").
func keyedRule(rules *pact.RuleSet, key string) (pact.RuleList, bool) {
	if rules == nil {
		return nil, false
	}
	for k, v := range rules.Rules() {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func firstRule(rules *pact.RuleSet) (pact.RuleList, bool) {
	if rules == nil || rules.Len() == 0 {
		return nil, false
	}
	order := rules.Order()
	return rules.Rules()[order[0]], true
}

func matchPath(expected, actual string, rules *pact.RuleSet) []pact.Mismatch {
	if ruleList, found := firstRule(rules); found {
		if ok, msg := EvalRuleList(ruleList, expected, actual); !ok {
			return []pact.Mismatch{pact.PathMismatch(expected, actual, msg)}
		}
		return nil
	}
	if expected == actual {
		return nil
	}
	return []pact.Mismatch{pact.PathMismatch(expected, actual, "paths do not match")}
}

func matchStatus(expected, actual int, rules *pact.RuleSet) []pact.Mismatch {
	if ruleList, found := firstRule(rules); found {
		if ok, msg := EvalRuleList(ruleList, strconv.Itoa(expected), strconv.Itoa(actual)); !ok {
			_ = msg
			return []pact.Mismatch{pact.StatusMismatch(expected, actual)}
		}
		return nil
	}
	if expected == actual {
		return nil
	}
	return []pact.Mismatch{pact.StatusMismatch(expected, actual)}
}

func matchQuery(expected, actual pact.QueryValues, rules *pact.RuleSet) []pact.Mismatch {
	var out []pact.Mismatch
	for _, key := range sortedStringKeys(expected) {
		ev := expected[key]
		av, present := actual[key]
		if !present {
			out = append(out, pact.QueryMismatch(key, describeValues(ev), "", "expected query parameter but was missing"))
			continue
		}
		out = append(out, matchQueryValues(key, ev, av, rules)...)
	}
	for _, key := range sortedStringKeys(actual) {
		if _, present := expected[key]; !present {
			out = append(out, pact.QueryMismatch(key, "", describeValues(actual[key]), "unexpected query parameter received"))
		}
	}
	return out
}

func matchQueryValues(key string, expected, actual []string, rules *pact.RuleSet) []pact.Mismatch {
	var out []pact.Mismatch
	if len(expected) == 0 && len(actual) != 0 {
		return []pact.Mismatch{pact.QueryMismatch(key, "[]", describeValues(actual), "expected no values but received some")}
	}
	if len(expected) != len(actual) {
		out = append(out, pact.QueryMismatch(key, describeValues(expected), describeValues(actual),
			"expected a different number of values for query parameter"))
	}
	ruleList, found := keyedRule(rules, key)
	for i, ev := range expected {
		if i >= len(actual) {
			out = append(out, pact.QueryMismatch(key, ev, "", "expected a query parameter value but was missing"))
			continue
		}
		av := actual[i]
		if found {
			if ok, msg := EvalRuleList(ruleList, ev, av); !ok {
				out = append(out, pact.QueryMismatch(key, ev, av, msg))
			}
			continue
		}
		if ev != av {
			out = append(out, pact.QueryMismatch(key, ev, av, "values do not match"))
		}
	}
	return out
}

func matchHeaders(expected, actual pact.Headers, rules *pact.RuleSet) []pact.Mismatch {
	var out []pact.Mismatch
	for _, key := range expected.Keys() {
		ev, _ := expected.Get(key)
		av, present := actual.Get(key)
		if !present {
			out = append(out, pact.HeaderMismatch(key, ev, "", "expected header but was missing"))
			continue
		}
		out = append(out, matchHeaderValue(key, ev, av, rules)...)
	}
	return out
}

func matchHeaderValue(key, expected, actual string, rules *pact.RuleSet) []pact.Mismatch {
	if strings.EqualFold(key, "Content-Type") {
		return matchContentTypeHeader(expected, actual)
	}
	if ruleList, found := keyedRule(rules, key); found {
		if ok, msg := EvalRuleList(ruleList, expected, actual); !ok {
			return []pact.Mismatch{pact.HeaderMismatch(key, expected, actual, msg)}
		}
		return nil
	}
	if normalizeHeaderList(expected) == normalizeHeaderList(actual) {
		return nil
	}
	return []pact.Mismatch{pact.HeaderMismatch(key, expected, actual,
		"header values do not match")}
}

// normalizeHeaderList trims whitespace around each comma-separated value so
// "a, b" and "a,b" compare equal, matching the teacher-adjacent original's
// strip_whitespace-before-compare behavior for multi-value headers.
func normalizeHeaderList(v string) string {
	parts := strings.Split(v, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ",")
}

// matchContentTypeHeader compares MIME type and parameters independently of
// parameter order, via stdlib mime.ParseMediaType, rather than a literal
// string comparison (spec section 4.E).
func matchContentTypeHeader(expected, actual string) []pact.Mismatch {
	eType, eParams, eErr := mime.ParseMediaType(expected)
	aType, aParams, aErr := mime.ParseMediaType(actual)
	if eErr != nil || aErr != nil {
		if expected == actual {
			return nil
		}
		return []pact.Mismatch{pact.HeaderMismatch("Content-Type", expected, actual, "could not parse content type")}
	}
	if eType != aType {
		return []pact.Mismatch{pact.HeaderMismatch("Content-Type", expected, actual, "media types do not match")}
	}
	for k, v := range eParams {
		if aParams[k] != v {
			return []pact.Mismatch{pact.HeaderMismatch("Content-Type", expected, actual,
				"content type parameters do not match")}
		}
	}
	return nil
}

// matchBody dispatches to the JSON or XML structural matcher by the
// expected body's MIME type (preferring the Content-Type header over the
// body's own hint), falling back to byte-for-byte text comparison for
// anything else (spec section 4.D/4.E).
func matchBody(expectedHeaders pact.Headers, expectedBody pact.OptionalBody, actualHeaders pact.Headers, actualBody pact.OptionalBody, config BodyConfig, rules *pact.RuleSet) []pact.Mismatch {
	expectedMT := bodyMimeType(expectedHeaders, expectedBody)
	actualMT := bodyMimeType(actualHeaders, actualBody)
	if expectedMT != "" && actualMT != "" && expectedMT != actualMT && expectedBody.IsPresent() {
		return []pact.Mismatch{pact.BodyTypeMismatch(expectedMT, actualMT)}
	}
	switch {
	case strings.Contains(expectedMT, "json"):
		return MatchJSONBody(expectedBody, actualBody, config, rules)
	case strings.Contains(expectedMT, "xml"):
		return MatchXMLBody(expectedBody, actualBody, config, rules)
	default:
		return matchTextBody(expectedBody, actualBody)
	}
}

func bodyMimeType(headers pact.Headers, body pact.OptionalBody) string {
	if v, ok := headers.Get("Content-Type"); ok {
		if t, _, err := mime.ParseMediaType(v); err == nil {
			return t
		}
		return v
	}
	return body.ContentTypeHint()
}

func matchTextBody(expected, actual pact.OptionalBody) []pact.Mismatch {
	switch {
	case expected.IsMissing():
		return nil
	case expected.IsNull():
		if actual.IsPresent() {
			return []pact.Mismatch{pact.BodyMismatch(rootPath, "null", describeBody(actual), "expected an empty body but received content")}
		}
		return nil
	case expected.IsPresent():
		if actual.IsMissing() || actual.IsEmpty() || actual.IsNull() {
			return []pact.Mismatch{pact.BodyMismatch(rootPath, describeBody(expected), describeBody(actual), "expected a body but received none")}
		}
		if string(expected.Content()) != string(actual.Content()) {
			return []pact.Mismatch{pact.BodyMismatch(rootPath, describeBody(expected), describeBody(actual), "bodies do not match")}
		}
		return nil
	default:
		return nil
	}
}

func sortedStringKeys(m pact.QueryValues) []string {
	keys := m.Keys()
	sort.Strings(keys)
	return keys
}

func describeValues(v []string) string {
	return "[" + strings.Join(v, ", ") + "]"
}
