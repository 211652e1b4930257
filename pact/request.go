package pact

import "strings"

// Request models an HTTP request recorded in, or replayed against, a pact.
// Method is normalized to upper case on ingest; Query preserves per-key
// value order; Headers is case-insensitive (spec section 3).
type Request struct {
	Method        string
	Path          string
	Query         QueryValues
	Headers       Headers
	Body          OptionalBody
	MatchingRules MatchingRules
}

// NewRequest builds a Request, upper-casing Method as the data model
// requires.
func NewRequest(method, path string) *Request {
	return &Request{
		Method:        strings.ToUpper(method),
		Path:          path,
		Query:         QueryValues{},
		Headers:       Headers{},
		Body:          MissingBody(),
		MatchingRules: NewMatchingRules(),
	}
}
