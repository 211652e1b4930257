package matching

import (
	"testing"

	"github.com/pact-go/pact/pact"
)

func dec(t *testing.T, s string) interface{} {
	t.Helper()
	v, err := decodeJSON([]byte(s))
	if err != nil {
		t.Fatalf("decodeJSON(%q): %v", s, err)
	}
	return v
}

func TestEvalRuleEquality(t *testing.T) {
	ok, _, err := EvalRule(pact.EqualityRule(), dec(t, `100`), dec(t, `100`))
	if err != nil || !ok {
		t.Fatalf("expected equal numbers to pass, ok=%v err=%v", ok, err)
	}
	ok, _, err = EvalRule(pact.EqualityRule(), dec(t, `100`), dec(t, `"100"`))
	if err != nil || ok {
		t.Fatalf("expected number vs string to fail equality, ok=%v err=%v", ok, err)
	}
}

func TestEvalRuleRegex(t *testing.T) {
	ok, _, err := EvalRule(pact.RegexRule(`\d+`), dec(t, `100`), dec(t, `"100"`))
	if err != nil || !ok {
		t.Fatalf("expected regex match, ok=%v err=%v", ok, err)
	}
	_, _, err = EvalRule(pact.RegexRule(`(`), dec(t, `100`), dec(t, `"100"`))
	if err == nil {
		t.Fatal("expected uncompilable regex to surface as an error")
	}
}

func TestEvalRuleType(t *testing.T) {
	ok, _, err := EvalRule(pact.TypeRule(), dec(t, `100`), dec(t, `200`))
	if err != nil || !ok {
		t.Fatalf("expected same type to pass, ok=%v err=%v", ok, err)
	}
	ok, _, err = EvalRule(pact.TypeRule(), dec(t, `100`), dec(t, `"200"`))
	if err != nil || ok {
		t.Fatalf("expected different types to fail, ok=%v err=%v", ok, err)
	}
}

func TestEvalRuleMinMaxType(t *testing.T) {
	actual := dec(t, `[1,2,3]`)
	expected := dec(t, `[1]`)
	ok, _, _ := EvalRule(pact.MinTypeRule(1), expected, actual)
	if !ok {
		t.Error("expected min type 1 to pass for 3 elements")
	}
	ok, _, _ = EvalRule(pact.MinTypeRule(5), expected, actual)
	if ok {
		t.Error("expected min type 5 to fail for 3 elements")
	}
	ok, _, _ = EvalRule(pact.MaxTypeRule(2), expected, actual)
	if ok {
		t.Error("expected max type 2 to fail for 3 elements")
	}
	ok, _, _ = EvalRule(pact.MinMaxTypeRule(1, 3), expected, actual)
	if !ok {
		t.Error("expected min/max 1..3 to pass for 3 elements")
	}
}

func TestEvalRuleListAllMustPass(t *testing.T) {
	list := pact.RuleList{pact.TypeRule(), pact.RegexRule(`\d+`)}
	ok, _ := EvalRuleList(list, dec(t, `100`), dec(t, `"abc"`))
	if ok {
		t.Error("expected type mismatch to fail the list")
	}
	ok, _ = EvalRuleList(list, dec(t, `100`), dec(t, `100`))
	if !ok {
		t.Error("expected a value matching both rules to pass")
	}
}
