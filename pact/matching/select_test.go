package matching

import (
	"testing"

	"github.com/pact-go/pact/pact"
)

func TestSelectBestMatcherIsStable(t *testing.T) {
	rules := pact.NewMatchingRules()
	rules.Add(pact.CategoryBody, "$.body.item1.level[*].id", pact.RuleList{pact.TypeRule()})
	rules.Add(pact.CategoryBody, "$.body.*.level[*].id", pact.RuleList{pact.EqualityRule()})

	concrete := []string{"$", "body", "item1", "level", "0", "id"}
	rs := rules.Category(pact.CategoryBody)

	first, ok := Select(rs, concrete)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 5; i++ {
		got, ok := Select(rs, concrete)
		if !ok || got[0].Kind != first[0].Kind {
			t.Fatalf("Select is not stable across repeated calls")
		}
	}
	if first[0].Kind != pact.Type {
		t.Errorf("expected the more specific expression to win, got rule kind %v", first[0].Kind)
	}
}

func TestSelectNoMatch(t *testing.T) {
	rules := pact.NewMatchingRules()
	rules.Add(pact.CategoryBody, "$.body.other", pact.RuleList{pact.EqualityRule()})
	_, ok := Select(rules.Category(pact.CategoryBody), []string{"$", "body", "item1"})
	if ok {
		t.Error("expected no match")
	}
}

func TestSelectNilCategory(t *testing.T) {
	rules := pact.NewMatchingRules()
	_, ok := Select(rules.Category(pact.CategoryHeader), []string{"$", "header", "X"})
	if ok {
		t.Error("expected no match on an absent category")
	}
}

func TestSelectTieBreakFirstInserted(t *testing.T) {
	// "$.*" (Star) and "$[*]" (StarIndex) both score weight 1 against a
	// concrete segment that happens to parse as an integer, producing a
	// genuine tie between two distinct expressions.
	rules := pact.NewMatchingRules()
	rules.Add(pact.CategoryBody, "$.*", pact.RuleList{pact.TypeRule()})
	rules.Add(pact.CategoryBody, "$[*]", pact.RuleList{pact.EqualityRule()})
	got, ok := Select(rules.Category(pact.CategoryBody), []string{"$", "5"})
	if !ok {
		t.Fatal("expected a match")
	}
	if got[0].Kind != pact.Type {
		t.Errorf("expected first-inserted rule (Type) to win tie, got %v", got[0].Kind)
	}
}
