package pact

import "encoding/json"

// ResultKind discriminates the members of the MatchResult sum type (spec
// section 3/4.H): a request matched an interaction, it matched one but with
// mismatches, it matched none at all, or an interaction in the pact was
// never exercised.
type ResultKind int

const (
	RequestMatch ResultKind = iota
	RequestMismatch
	RequestNotFound
	MissingRequest
)

// MatchKey returns the stable string surfaced via the X-Pact header and in
// the JSON projection (spec section 4.H).
func (k ResultKind) MatchKey() string {
	switch k {
	case RequestMatch:
		return "Request-Matched"
	case RequestMismatch:
		return "Request-Mismatch"
	case RequestNotFound:
		return "Unexpected-Request"
	case MissingRequest:
		return "Missing-Request"
	default:
		return "Unknown"
	}
}

func (k ResultKind) jsonType() string {
	switch k {
	case RequestMatch:
		return "request-match"
	case RequestMismatch:
		return "request-mismatch"
	case RequestNotFound:
		return "request-not-found"
	case MissingRequest:
		return "missing-request"
	default:
		return "unknown"
	}
}

// MatchResult is a tagged variant recording the outcome of matching one
// actual request against a pact's interactions.
type MatchResult struct {
	Kind        ResultKind
	Interaction *Interaction // set for RequestMatch, RequestMismatch, MissingRequest
	Actual      *Request     // set for RequestMismatch, RequestNotFound
	Mismatches  []Mismatch   // set for RequestMismatch
}

// NewRequestMatch builds a RequestMatch result.
func NewRequestMatch(i *Interaction) MatchResult {
	return MatchResult{Kind: RequestMatch, Interaction: i}
}

// NewRequestMismatch builds a RequestMismatch result.
func NewRequestMismatch(i *Interaction, actual *Request, mismatches []Mismatch) MatchResult {
	return MatchResult{Kind: RequestMismatch, Interaction: i, Actual: actual, Mismatches: mismatches}
}

// NewRequestNotFound builds a RequestNotFound result.
func NewRequestNotFound(actual *Request) MatchResult {
	return MatchResult{Kind: RequestNotFound, Actual: actual}
}

// NewMissingRequest builds a MissingRequest result for an interaction that
// was never exercised.
func NewMissingRequest(i *Interaction) MatchResult {
	return MatchResult{Kind: MissingRequest, Interaction: i}
}

// OK reports whether this result represents a clean match, with no
// mismatches of any kind.
func (r MatchResult) OK() bool {
	return r.Kind == RequestMatch
}

type matchResultJSON struct {
	Type       string         `json:"type"`
	Method     string         `json:"method,omitempty"`
	Path       string         `json:"path,omitempty"`
	Request    *requestJSON   `json:"request,omitempty"`
	Mismatches []mismatchJSON `json:"mismatches,omitempty"`
}

type requestJSON struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

type mismatchJSON struct {
	Type     string `json:"type"`
	Path     string `json:"path,omitempty"`
	Key      string `json:"key,omitempty"`
	Param    string `json:"parameter,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// MarshalJSON renders the projection described in spec section 6: a
// discriminated envelope keyed by "type", carrying method/path for
// diagnostics and a per-field mismatch array for RequestMismatch.
func (r MatchResult) MarshalJSON() ([]byte, error) {
	out := matchResultJSON{Type: r.Kind.jsonType()}
	switch r.Kind {
	case RequestMatch:
		// no extra fields
	case RequestMismatch:
		if r.Interaction != nil && r.Interaction.Request != nil {
			out.Method = r.Interaction.Request.Method
			out.Path = r.Interaction.Request.Path
		}
		out.Mismatches = make([]mismatchJSON, len(r.Mismatches))
		for i, m := range r.Mismatches {
			out.Mismatches[i] = mismatchJSON{
				Type: m.Kind.String(), Path: m.Path, Key: m.Key, Param: m.Parameter,
				Expected: m.Expected, Actual: m.Actual, Detail: m.Detail,
			}
		}
	case RequestNotFound:
		if r.Actual != nil {
			out.Method = r.Actual.Method
			out.Path = r.Actual.Path
			out.Request = &requestJSON{Method: r.Actual.Method, Path: r.Actual.Path}
		}
	case MissingRequest:
		if r.Interaction != nil && r.Interaction.Request != nil {
			out.Method = r.Interaction.Request.Method
			out.Path = r.Interaction.Request.Path
			out.Request = &requestJSON{Method: r.Interaction.Request.Method, Path: r.Interaction.Request.Path}
		}
	}
	return json.Marshal(out)
}
