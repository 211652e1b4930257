package matching

import (
	"testing"

	"github.com/pact-go/pact/pact"
)

func body(s string) pact.OptionalBody {
	return pact.PresentBody([]byte(s), "application/json")
}

func TestMatchJSONBodyMissingExpectedNeverMismatches(t *testing.T) {
	mismatches := MatchJSONBody(pact.MissingBody(), body(`{"anything":"goes"}`), NoUnexpectedKeys, nil)
	if len(mismatches) != 0 {
		t.Errorf("expected no mismatches, got %v", mismatches)
	}
}

func TestMatchJSONBodyTypeWideningUnderRule(t *testing.T) {
	rules := pact.NewMatchingRules()
	rules.Add(pact.CategoryBody, "$.body.id", pact.RuleList{pact.RegexRule(`\d+`)})
	mismatches := MatchJSONBody(body(`{"id": 100}`), body(`{"id": "100"}`), AllowUnexpectedKeys, rules.Category(pact.CategoryBody))
	if len(mismatches) != 0 {
		t.Errorf("expected empty mismatch vector, got %v", mismatches)
	}
}

func TestMatchJSONBodyEachLikeTiling(t *testing.T) {
	rules := pact.NewMatchingRules()
	rules.Add(pact.CategoryBody, "$.body", pact.RuleList{pact.MinTypeRule(1)})
	mismatches := MatchJSONBody(body(`[{"a":1}]`), body(`[{"a":1},{"a":2},{"a":3}]`), AllowUnexpectedKeys, rules.Category(pact.CategoryBody))
	if len(mismatches) != 0 {
		t.Errorf("expected empty mismatch vector for each_like tiling, got %v", mismatches)
	}
}

func TestMatchJSONBodyEmptyExpectedArrayNonEmptyActual(t *testing.T) {
	mismatches := MatchJSONBody(body(`{"items": []}`), body(`{"items": [1,2]}`), NoUnexpectedKeys, nil)
	if len(mismatches) != 1 {
		t.Fatalf("expected exactly one mismatch, got %d: %v", len(mismatches), mismatches)
	}
}

func TestMatchJSONBodyNoUnexpectedKeysSizeEqualDifferentKeys(t *testing.T) {
	mismatches := MatchJSONBody(body(`{"a":1}`), body(`{"b":1}`), NoUnexpectedKeys, nil)
	// size match passes (both size 1); the per-key walk must still report
	// the missing "a" entry.
	found := false
	for _, m := range mismatches {
		if m.Kind == pact.BodyMismatchKind {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a per-key mismatch for missing %q, got %v", "a", mismatches)
	}
}

func TestMatchJSONBodyAllowUnexpectedKeysNeverReportsExtraKeys(t *testing.T) {
	mismatches := MatchJSONBody(body(`{"a":1}`), body(`{"a":1,"b":2}`), AllowUnexpectedKeys, nil)
	if len(mismatches) != 0 {
		t.Errorf("expected no mismatches for extra actual keys under AllowUnexpectedKeys, got %v", mismatches)
	}
}

func TestMatchJSONBodyExtraArrayElementsAlwaysReported(t *testing.T) {
	mismatches := MatchJSONBody(body(`[1]`), body(`[1,2]`), AllowUnexpectedKeys, nil)
	if len(mismatches) == 0 {
		t.Error("expected extra array elements to be reported even under AllowUnexpectedKeys")
	}
}

func TestMatchJSONBodyRequestExample(t *testing.T) {
	// Identical request bodies must never mismatch.
	mismatches := MatchJSONBody(body(`{"x":1,"y":[1,2,3]}`), body(`{"x":1,"y":[1,2,3]}`), NoUnexpectedKeys, nil)
	if len(mismatches) != 0 {
		t.Errorf("expected identical bodies to match, got %v", mismatches)
	}
}
