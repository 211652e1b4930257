package pact

import "strings"

// Headers is a case-insensitive mapping from header name to raw value.
// Per spec section 9 ("do not lowercase at ingest"), the original casing
// supplied by the pact is retained so it can be emitted unchanged; lookups
// use a linear scan with EqualFold, which is fine given the small N typical
// of HTTP header sets.
type Headers struct {
	entries []headerEntry
}

type headerEntry struct {
	name  string
	value string
}

// NewHeaders builds a Headers value from a plain map, preserving the casing
// given.
func NewHeaders(m map[string]string) Headers {
	h := Headers{}
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

// Get returns the value for name (case-insensitive) and whether it was
// found.
func (h Headers) Get(name string) (string, bool) {
	for _, e := range h.entries {
		if strings.EqualFold(e.name, name) {
			return e.value, true
		}
	}
	return "", false
}

// Set adds or replaces the value for name. When a header with the same
// name (case-insensitively) already exists, its original casing is kept
// and only its value is replaced.
func (h *Headers) Set(name, value string) {
	for i, e := range h.entries {
		if strings.EqualFold(e.name, name) {
			h.entries[i].value = value
			return
		}
	}
	h.entries = append(h.entries, headerEntry{name: name, value: value})
}

// Keys returns the header names in insertion order, using their original
// casing.
func (h Headers) Keys() []string {
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.name
	}
	return out
}

// Len returns the number of distinct headers.
func (h Headers) Len() int { return len(h.entries) }

// Map renders the headers as a plain map, for JSON emission.
func (h Headers) Map() map[string]string {
	out := make(map[string]string, len(h.entries))
	for _, e := range h.entries {
		out[e.name] = e.value
	}
	return out
}

// QueryValues holds, per spec section 3, an ordered sequence of values for
// one query parameter. Order within a key is significant; order between
// keys is not.
type QueryValues map[string][]string

// Keys returns the parameter names, unordered (map iteration order between
// keys carries no meaning per the invariant in spec section 3).
func (q QueryValues) Keys() []string {
	out := make([]string, 0, len(q))
	for k := range q {
		out = append(out, k)
	}
	return out
}
