package pact

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DecodePact parses a pact document, tolerating the absences spec section
// 4.F allows: missing consumer/provider names default to "", missing
// method defaults to GET, missing path defaults to "/", missing response
// status defaults to 200. Spec version is read from metadata (via
// SpecVersion) and stored on the Pact; query strings and matching rules
// are decoded by the shape found in the document, not by that version.
func DecodePact(raw []byte) (*Pact, error) {
	var doc struct {
		Consumer struct {
			Name string `json:"name"`
		} `json:"consumer"`
		Provider struct {
			Name string `json:"name"`
		} `json:"provider"`
		Interactions []json.RawMessage      `json:"interactions"`
		Metadata     map[string]interface{} `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("pact: decode document: %w", err)
	}

	p := NewPact(doc.Consumer.Name, doc.Provider.Name)
	if doc.Metadata != nil {
		p.Metadata = doc.Metadata
	}
	spec := p.SpecVersion()

	for i, raw := range doc.Interactions {
		interaction, err := decodeInteraction(raw, spec)
		if err != nil {
			return nil, fmt.Errorf("pact: decode interaction %d: %w", i, err)
		}
		p.Interactions = append(p.Interactions, interaction)
	}
	return p, nil
}

func decodeInteraction(raw json.RawMessage, spec Specification) (*Interaction, error) {
	var doc struct {
		Description    string          `json:"description"`
		ProviderState  string          `json:"providerState"`
		ProviderState2 string          `json:"provider_state"`
		Request        json.RawMessage `json:"request"`
		Response       json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	i := &Interaction{Description: doc.Description}
	if doc.ProviderState != "" {
		i.ProviderState = doc.ProviderState
	} else {
		i.ProviderState = doc.ProviderState2
	}
	req, err := decodeRequest(doc.Request, spec)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	i.Request = req
	resp, err := decodeResponse(doc.Response, spec)
	if err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}
	i.Response = resp
	return i, nil
}

// bodyPathExpression rewrites a nested-form matchingRules body path (which
// is rooted at the body itself, e.g. "$.id") into the "$.body...." form the
// matcher selector expects every body rule to use (pact/matching/select.go,
// pact/matching/jsonmatch.go's bodyRoot), since concrete body paths always
// carry a leading "body" segment ahead of the document root.
func bodyPathExpression(path string) string {
	if !strings.HasPrefix(path, "$") {
		return path
	}
	return "$.body" + path[1:]
}

// bodyPathToNestedForm reverses bodyPathExpression for EncodePact's nested
// matchingRules output, which is rooted at the body itself rather than the
// document root.
func bodyPathToNestedForm(path string) string {
	if !strings.HasPrefix(path, "$.body") {
		return path
	}
	return "$" + path[len("$.body"):]
}

func decodeRequest(raw json.RawMessage, spec Specification) (*Request, error) {
	var doc struct {
		Method        string                 `json:"method"`
		Path          string                 `json:"path"`
		Query         json.RawMessage        `json:"query"`
		Headers       map[string]interface{} `json:"headers"`
		Body          json.RawMessage        `json:"body"`
		MatchingRules json.RawMessage        `json:"matchingRules"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
	}
	method := doc.Method
	if method == "" {
		method = "GET"
	}
	path := doc.Path
	if path == "" {
		path = "/"
	}
	r := NewRequest(method, path)
	r.Query = decodeQuery(doc.Query, spec)
	r.Headers = decodeHeaders(doc.Headers)
	r.Body = decodeBody(doc.Body, r.Headers)
	rules, err := decodeMatchingRules(doc.MatchingRules, spec)
	if err != nil {
		return nil, err
	}
	r.MatchingRules = rules
	return r, nil
}

func decodeResponse(raw json.RawMessage, spec Specification) (*Response, error) {
	var doc struct {
		Status        int                    `json:"status"`
		Headers       map[string]interface{} `json:"headers"`
		Body          json.RawMessage        `json:"body"`
		MatchingRules json.RawMessage        `json:"matchingRules"`
	}
	status := 200
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		if doc.Status != 0 {
			status = doc.Status
		}
	}
	resp := NewResponse(status)
	resp.Headers = decodeHeaders(doc.Headers)
	resp.Body = decodeBody(doc.Body, resp.Headers)
	rules, err := decodeMatchingRules(doc.MatchingRules, spec)
	if err != nil {
		return nil, err
	}
	resp.MatchingRules = rules
	return resp, nil
}

// decodeQuery accepts either form spec.md section 4.F names: a raw query
// string (V1/V1.1, e.g. "a=1&b=2") or a JSON object of string-to-array
// (V2+, e.g. {"a":["1"]}). Either form may appear regardless of the
// declared spec version in practice, so both are tried; an empty/absent
// field yields an empty QueryValues.
func decodeQuery(raw json.RawMessage, spec Specification) QueryValues {
	q := QueryValues{}
	if len(raw) == 0 {
		return q
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		values, err := url.ParseQuery(asString)
		if err != nil {
			return q
		}
		for k, v := range values {
			q[k] = v
		}
		return q
	}
	var asObject map[string]interface{}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		for k, v := range asObject {
			switch t := v.(type) {
			case string:
				q[k] = []string{t}
			case []interface{}:
				vals := make([]string, 0, len(t))
				for _, e := range t {
					vals = append(vals, fmt.Sprintf("%v", e))
				}
				q[k] = vals
			}
		}
	}
	return q
}

func decodeHeaders(raw map[string]interface{}) Headers {
	h := Headers{}
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			h.Set(k, t)
		case []interface{}:
			parts := make([]string, 0, len(t))
			for _, e := range t {
				parts = append(parts, fmt.Sprintf("%v", e))
			}
			h.Set(k, strings.Join(parts, ", "))
		default:
			h.Set(k, fmt.Sprintf("%v", t))
		}
	}
	return h
}

func decodeBody(raw json.RawMessage, headers Headers) OptionalBody {
	if len(raw) == 0 {
		return MissingBody()
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return NullBody()
	}
	contentType, _ := headers.Get("Content-Type")
	var unquoted string
	if err := json.Unmarshal(raw, &unquoted); err == nil {
		return PresentBody([]byte(unquoted), contentType)
	}
	return PresentBody(raw, contentType)
}

// decodeMatchingRules reads either the V1/V1.1 flat form
// ({"$.body.id": {"match": "regex", "regex": "..."}}) or the V2+ nested
// form ({"body": {"$.id": {"matchers": [{"match": "regex", ...}]}}}),
// dispatching on the shape actually present rather than trusting the
// declared spec version, since both shapes are seen in the wild
// regardless of the metadata header (spec section 4.F).
func decodeMatchingRules(raw json.RawMessage, spec Specification) (MatchingRules, error) {
	rules := NewMatchingRules()
	if len(raw) == 0 {
		return rules, nil
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return rules, nil
	}

	if looksLikeV2MatchingRules(generic) {
		for catName, catRaw := range generic {
			cat := Category(catName)
			var paths map[string]struct {
				Matchers []matcherJSON `json:"matchers"`
			}
			if err := json.Unmarshal(catRaw, &paths); err != nil {
				continue
			}
			for path, entry := range paths {
				list, err := decodeMatcherList(entry.Matchers)
				if err != nil {
					return nil, err
				}
				if cat == CategoryBody {
					path = bodyPathExpression(path)
				}
				rules.Add(cat, path, list)
			}
		}
		return rules, nil
	}

	// Flat V1/V1.1 form: every key is a "$.body...."-style path, implicitly
	// in the body category, each value a single matcher object.
	for path, entryRaw := range generic {
		var entry matcherJSON
		if err := json.Unmarshal(entryRaw, &entry); err != nil {
			continue
		}
		rule, err := decodeMatcher(entry)
		if err != nil {
			return nil, err
		}
		rules.Add(CategoryBody, path, RuleList{rule})
	}
	return rules, nil
}

// looksLikeV2MatchingRules reports whether the top-level keys name known
// categories (body/header/query/path/status) rather than path expressions,
// which is the only reliable way to tell the two matchingRules shapes
// apart without trusting the document's declared spec version.
func looksLikeV2MatchingRules(generic map[string]json.RawMessage) bool {
	known := map[string]bool{"body": true, "header": true, "query": true, "path": true, "status": true}
	for k := range generic {
		if !known[k] {
			return false
		}
	}
	return len(generic) > 0
}

type matcherJSON struct {
	Match string `json:"match"`
	Regex string `json:"regex"`
	Min   *int   `json:"min"`
	Max   *int   `json:"max"`
}

func decodeMatcherList(entries []matcherJSON) (RuleList, error) {
	list := make(RuleList, 0, len(entries))
	for _, e := range entries {
		rule, err := decodeMatcher(e)
		if err != nil {
			return nil, err
		}
		list = append(list, rule)
	}
	return list, nil
}

func decodeMatcher(e matcherJSON) (MatchingRule, error) {
	switch e.Match {
	case "", "equality":
		return EqualityRule(), nil
	case "regex":
		return RegexRule(e.Regex), nil
	case "type":
		switch {
		case e.Min != nil && e.Max != nil:
			return MinMaxTypeRule(*e.Min, *e.Max), nil
		case e.Min != nil:
			return MinTypeRule(*e.Min), nil
		case e.Max != nil:
			return MaxTypeRule(*e.Max), nil
		default:
			return TypeRule(), nil
		}
	case "min":
		if e.Min == nil {
			return MatchingRule{}, fmt.Errorf("min matcher missing \"min\"")
		}
		return MinTypeRule(*e.Min), nil
	case "max":
		if e.Max == nil {
			return MatchingRule{}, fmt.Errorf("max matcher missing \"max\"")
		}
		return MaxTypeRule(*e.Max), nil
	default:
		return MatchingRule{}, fmt.Errorf("unknown matcher type %q", e.Match)
	}
}

// EncodePact serializes p back to the canonical V2-style pact JSON shape:
// matchingRules nested by category, query as a string-array object. Spec
// version is taken from p.Metadata, defaulting to 3.0.0 when absent.
func EncodePact(p *Pact) ([]byte, error) {
	doc := map[string]interface{}{
		"consumer":     map[string]string{"name": p.Consumer},
		"provider":     map[string]string{"name": p.Provider},
		"interactions": encodeInteractions(p.Interactions),
		"metadata":     encodeMetadata(p.Metadata),
	}
	return json.MarshalIndent(doc, "", "  ")
}

func encodeMetadata(m map[string]interface{}) map[string]interface{} {
	if m != nil {
		if _, ok := m["pactSpecification"]; ok {
			return m
		}
		if _, ok := m["pact-specification"]; ok {
			return m
		}
	}
	return map[string]interface{}{
		"pactSpecification": map[string]string{"version": "3.0.0"},
	}
}

func encodeInteractions(interactions []*Interaction) []map[string]interface{} {
	out := make([]map[string]interface{}, len(interactions))
	for i, ia := range interactions {
		entry := map[string]interface{}{
			"description": ia.Description,
			"request":     encodeRequest(ia.Request),
			"response":    encodeResponse(ia.Response),
		}
		if ia.HasProviderState() {
			entry["providerState"] = ia.ProviderState
		}
		out[i] = entry
	}
	return out
}

func encodeRequest(r *Request) map[string]interface{} {
	out := map[string]interface{}{
		"method":  r.Method,
		"path":    r.Path,
		"query":   encodeQuery(r.Query),
		"headers": r.Headers.Map(),
	}
	if r.Body.IsPresent() {
		out["body"] = json.RawMessage(r.Body.Content())
	}
	if rules := encodeMatchingRules(r.MatchingRules); rules != nil {
		out["matchingRules"] = rules
	}
	return out
}

func encodeResponse(r *Response) map[string]interface{} {
	out := map[string]interface{}{
		"status":  r.Status,
		"headers": r.Headers.Map(),
	}
	if r.Body.IsPresent() {
		out["body"] = json.RawMessage(r.Body.Content())
	}
	if rules := encodeMatchingRules(r.MatchingRules); rules != nil {
		out["matchingRules"] = rules
	}
	return out
}

func encodeQuery(q QueryValues) map[string][]string {
	out := make(map[string][]string, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

func encodeMatchingRules(rules MatchingRules) map[string]interface{} {
	if len(rules) == 0 {
		return nil
	}
	out := map[string]interface{}{}
	categories := make([]string, 0, len(rules))
	for cat := range rules {
		categories = append(categories, string(cat))
	}
	sort.Strings(categories)
	for _, catName := range categories {
		rs := rules[Category(catName)]
		if rs == nil || rs.Len() == 0 {
			continue
		}
		paths := map[string]interface{}{}
		for _, path := range rs.Order() {
			list := rs.Rules()[path]
			encodedPath := path
			if catName == string(CategoryBody) {
				encodedPath = bodyPathToNestedForm(path)
			}
			paths[encodedPath] = map[string]interface{}{"matchers": encodeMatcherList(list)}
		}
		out[catName] = paths
	}
	return out
}

func encodeMatcherList(list RuleList) []map[string]interface{} {
	out := make([]map[string]interface{}, len(list))
	for i, r := range list {
		out[i] = encodeMatcher(r)
	}
	return out
}

func encodeMatcher(r MatchingRule) map[string]interface{} {
	switch r.Kind {
	case Equality:
		return map[string]interface{}{"match": "equality"}
	case Regex:
		return map[string]interface{}{"match": "regex", "regex": r.Pattern}
	case Type:
		return map[string]interface{}{"match": "type"}
	case MinType:
		return map[string]interface{}{"match": "type", "min": r.Min}
	case MaxType:
		return map[string]interface{}{"match": "type", "max": r.Max}
	case MinMaxType:
		return map[string]interface{}{"match": "type", "min": r.Min, "max": r.Max}
	default:
		return map[string]interface{}{"match": strconv.Itoa(int(r.Kind))}
	}
}
