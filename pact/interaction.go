package pact

// Interaction is one request/response pair, optionally scoped by a named
// provider state (spec section 3). An empty string and an explicit JSON
// null for providerState both collapse to "absent" at parse time.
type Interaction struct {
	Description   string
	ProviderState string // empty means absent
	Request       *Request
	Response      *Response
}

// HasProviderState reports whether the interaction carries a non-empty
// provider state.
func (i *Interaction) HasProviderState() bool {
	return i.ProviderState != ""
}
