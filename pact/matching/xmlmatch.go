package matching

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pact-go/pact/pact"
)

// xmlNode is a generic XML element: a tag name, its attributes, its
// element children in document order, and its concatenated text content.
// Comments and processing instructions are dropped during parsing; they
// carry no matching semantics in the original Pact XML matcher either.
type xmlNode struct {
	Name     string
	Attrs    map[string]string
	Children []*xmlNode
	Text     string
}

func parseXMLRoot(raw []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var root *xmlNode
	var stack []*xmlNode
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{Name: t.Name.Local, Attrs: map[string]string{}}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root element found")
	}
	return root, nil
}

// MatchXMLBody walks an expected and actual XML body the same way
// MatchJSONBody walks a JSON one: the presence matrix first, then a
// recursive structural comparison of the parsed element trees (spec
// section 4.D).
func MatchXMLBody(expected, actual pact.OptionalBody, config BodyConfig, rules *pact.RuleSet) []pact.Mismatch {
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
			expRoot, err := parseXMLRoot(expected.Content())
			if err != nil {
				return []pact.Mismatch{pact.BodyMismatch(rootPath, "", "", fmt.Sprintf("failed to parse expected body as XML: %v", err))}
			}
			actRoot, err := parseXMLRoot(actual.Content())
			if err != nil {
				return []pact.Mismatch{pact.BodyMismatch(rootPath, "", "", fmt.Sprintf("failed to parse actual body as XML: %v", err))}
			}
			var out []pact.Mismatch
			compareElement(bodyRoot(), expRoot, actRoot, config, rules, false, &out)
			return out
		}
	default:
		return nil
	}
}

// compareElement checks element-name identity at path (a matching rule
// there overrides the default Equality check), then descends into
// attributes, children and text under path+name. lenient mirrors the same
// flag in jsonmatch.go: true while walking an each_like-tiled prototype
// subtree, where attribute/text values are illustrative rather than
// literal for every position beyond the first.
func compareElement(path []string, expected, actual *xmlNode, config BodyConfig, rules *pact.RuleSet, lenient bool, out *[]pact.Mismatch) {
	ruleList, found := Select(rules, path)
	ok, msg := true, ""
	if found {
		ok, msg = EvalRuleList(ruleList, expected.Name, actual.Name)
	} else {
		ok = expected.Name == actual.Name
		msg = fmt.Sprintf("expected element %q but received %q", expected.Name, actual.Name)
	}
	if !ok {
		*out = append(*out, pact.BodyMismatch(pathString(path), expected.Name, actual.Name, msg))
		return
	}

	elemPath := append(append([]string{}, path...), actual.Name)
	compareXMLAttributes(elemPath, expected, actual, config, rules, lenient, out)
	compareXMLChildren(elemPath, expected, actual, config, rules, lenient, out)
	compareXMLText(elemPath, expected, actual, rules, lenient, out)
}

func compareXMLAttributes(path []string, expected, actual *xmlNode, config BodyConfig, rules *pact.RuleSet, lenient bool, out *[]pact.Mismatch) {
	if len(expected.Attrs) == 0 && len(actual.Attrs) != 0 && config == NoUnexpectedKeys {
		*out = append(*out, pact.BodyMismatch(pathString(path), "{}", describeAttrs(actual.Attrs), "did not expect any attributes but received some"))
		return
	}
	if config == NoUnexpectedKeys && len(expected.Attrs) != len(actual.Attrs) {
		*out = append(*out, pact.BodyMismatch(pathString(path), strconv.Itoa(len(expected.Attrs)), strconv.Itoa(len(actual.Attrs)),
			fmt.Sprintf("expected %d attribute(s) but received %d", len(expected.Attrs), len(actual.Attrs))))
	} else if config == AllowUnexpectedKeys && len(expected.Attrs) > len(actual.Attrs) {
		*out = append(*out, pact.BodyMismatch(pathString(path), strconv.Itoa(len(expected.Attrs)), strconv.Itoa(len(actual.Attrs)),
			fmt.Sprintf("expected at least %d attribute(s) but received %d", len(expected.Attrs), len(actual.Attrs))))
	}

	for _, key := range sortedKeys(expected.Attrs) {
		v := expected.Attrs[key]
		av, present := actual.Attrs[key]
		attrPath := append(append([]string{}, path...), "@"+key)
		if !present {
			*out = append(*out, pact.BodyMismatch(pathString(path), v, "missing", fmt.Sprintf("expected attribute %q=%q but was missing", key, v)))
			continue
		}
		compareXMLValue(attrPath, v, av, rules, lenient, out)
	}
}

func compareXMLChildren(path []string, expected, actual *xmlNode, config BodyConfig, rules *pact.RuleSet, lenient bool, out *[]pact.Mismatch) {
	expectedChildren := expected.Children
	actualChildren := actual.Children

	ruleList, found := Select(rules, path)
	if found && relaxesLength(ruleList) {
		if len(expectedChildren) == 0 {
			return
		}
		prototype := expectedChildren[0]
		for i, ac := range actualChildren {
			childPath := append(append([]string{}, path...), strconv.Itoa(i))
			compareElement(childPath, prototype, ac, config, rules, true, out)
		}
		return
	}

	if len(expectedChildren) == 0 && len(actualChildren) != 0 && config == NoUnexpectedKeys {
		*out = append(*out, pact.BodyMismatch(pathString(path), "[]", describeChildren(actualChildren), "expected no child elements but received some"))
	} else if len(expectedChildren) != len(actualChildren) {
		if config == AllowUnexpectedKeys && len(expectedChildren) > len(actualChildren) {
			*out = append(*out, pact.BodyMismatch(pathString(path), strconv.Itoa(len(expectedChildren)), strconv.Itoa(len(actualChildren)),
				fmt.Sprintf("expected at least %d child element(s) but received %d", len(expectedChildren), len(actualChildren))))
		} else if config == NoUnexpectedKeys {
			*out = append(*out, pact.BodyMismatch(pathString(path), strconv.Itoa(len(expectedChildren)), strconv.Itoa(len(actualChildren)),
				fmt.Sprintf("expected %d child element(s) but received %d", len(expectedChildren), len(actualChildren))))
		}
	}

	minLen := len(expectedChildren)
	if len(actualChildren) < minLen {
		minLen = len(actualChildren)
	}
	for i := 0; i < minLen; i++ {
		childPath := append(append([]string{}, path...), strconv.Itoa(i))
		compareElement(childPath, expectedChildren[i], actualChildren[i], config, rules, lenient, out)
	}
}

func compareXMLText(path []string, expected, actual *xmlNode, rules *pact.RuleSet, lenient bool, out *[]pact.Mismatch) {
	et := strings.TrimSpace(expected.Text)
	at := strings.TrimSpace(actual.Text)
	textPath := append(append([]string{}, path...), "#text")
	compareXMLValue(textPath, et, at, rules, lenient, out)
}

// compareXMLValue compares two plain strings (an attribute value or a
// trimmed text node) against the matching rule registered at path, or
// Equality if none exists. Under a lenient each_like subtree with no
// override rule, the check is skipped entirely: string content is
// illustrative, not literal, for tiled positions beyond the prototype.
func compareXMLValue(path []string, expected, actual string, rules *pact.RuleSet, lenient bool, out *[]pact.Mismatch) {
	ruleList, found := Select(rules, path)
	if found {
		if ok, msg := EvalRuleList(ruleList, expected, actual); !ok {
			*out = append(*out, pact.BodyMismatch(pathString(path), expected, actual, msg))
		}
		return
	}
	if lenient {
		return
	}
	if expected != actual {
		*out = append(*out, pact.BodyMismatch(pathString(path), expected, actual, "values are not equal"))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func describeAttrs(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, fmt.Sprintf("%s=%q", k, m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func describeChildren(children []*xmlNode) string {
	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}
