package matching

import (
	"testing"

	"github.com/pact-go/pact/pact"
)

func xmlBody(s string) pact.OptionalBody {
	return pact.PresentBody([]byte(s), "application/xml")
}

func TestMatchXMLBodyMissingExpectedNeverMismatches(t *testing.T) {
	mismatches := MatchXMLBody(pact.MissingBody(), xmlBody(`<a/>`), NoUnexpectedKeys, nil)
	if len(mismatches) != 0 {
		t.Errorf("expected no mismatches, got %v", mismatches)
	}
}

func TestMatchXMLBodyIdenticalDocumentsMatch(t *testing.T) {
	doc := `<order id="1"><item>widget</item></order>`
	mismatches := MatchXMLBody(xmlBody(doc), xmlBody(doc), NoUnexpectedKeys, nil)
	if len(mismatches) != 0 {
		t.Errorf("expected identical documents to match, got %v", mismatches)
	}
}

func TestMatchXMLBodyElementNameMismatch(t *testing.T) {
	mismatches := MatchXMLBody(xmlBody(`<a/>`), xmlBody(`<b/>`), NoUnexpectedKeys, nil)
	if len(mismatches) != 1 {
		t.Fatalf("expected exactly one mismatch, got %d: %v", len(mismatches), mismatches)
	}
}

func TestMatchXMLBodyMissingAttribute(t *testing.T) {
	mismatches := MatchXMLBody(xmlBody(`<a id="1"/>`), xmlBody(`<a/>`), NoUnexpectedKeys, nil)
	found := false
	for _, m := range mismatches {
		if m.Kind == pact.BodyMismatchKind {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a mismatch for the missing attribute, got %v", mismatches)
	}
}

func TestMatchXMLBodyAttributeValueMismatchUnderRegex(t *testing.T) {
	rules := pact.NewMatchingRules()
	rules.Add(pact.CategoryBody, "$.body.a['@id']", pact.RuleList{pact.RegexRule(`\d+`)})
	mismatches := MatchXMLBody(xmlBody(`<a id="1"/>`), xmlBody(`<a id="999"/>`), NoUnexpectedKeys, rules.Category(pact.CategoryBody))
	if len(mismatches) != 0 {
		t.Errorf("expected regex-governed attribute to match, got %v", mismatches)
	}
}

func TestMatchXMLBodyEachLikeTilesChildren(t *testing.T) {
	rules := pact.NewMatchingRules()
	rules.Add(pact.CategoryBody, "$.body.items", pact.RuleList{pact.MinTypeRule(1)})
	expected := `<items><item id="1">widget</item></items>`
	actual := `<items><item id="1">widget</item><item id="2">gadget</item><item id="3">gizmo</item></items>`
	mismatches := MatchXMLBody(xmlBody(expected), xmlBody(actual), AllowUnexpectedKeys, rules.Category(pact.CategoryBody))
	if len(mismatches) != 0 {
		t.Errorf("expected no mismatches for each_like-tiled children, got %v", mismatches)
	}
}

func TestMatchXMLBodyTextContentMismatch(t *testing.T) {
	mismatches := MatchXMLBody(xmlBody(`<a>hello</a>`), xmlBody(`<a>goodbye</a>`), NoUnexpectedKeys, nil)
	if len(mismatches) != 1 {
		t.Fatalf("expected exactly one mismatch, got %d: %v", len(mismatches), mismatches)
	}
}

func TestMatchXMLBodyTextContentWhitespaceTrimmed(t *testing.T) {
	mismatches := MatchXMLBody(xmlBody("<a>hello</a>"), xmlBody("<a>\n  hello  \n</a>"), NoUnexpectedKeys, nil)
	if len(mismatches) != 0 {
		t.Errorf("expected surrounding whitespace to be trimmed before comparison, got %v", mismatches)
	}
}

func TestMatchXMLBodyNoUnexpectedKeysChildCountMismatch(t *testing.T) {
	mismatches := MatchXMLBody(xmlBody(`<a><b/></a>`), xmlBody(`<a><b/><c/></a>`), NoUnexpectedKeys, nil)
	found := false
	for _, m := range mismatches {
		if m.Kind == pact.BodyMismatchKind {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a child-count mismatch, got %v", mismatches)
	}
}
