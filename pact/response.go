package pact

// Response models an HTTP response recorded in, or replayed against, a
// pact (spec section 3).
type Response struct {
	Status        int
	Headers       Headers
	Body          OptionalBody
	MatchingRules MatchingRules
}

// NewResponse builds a Response with the given status.
func NewResponse(status int) *Response {
	return &Response{
		Status:        status,
		Headers:       Headers{},
		Body:          MissingBody(),
		MatchingRules: NewMatchingRules(),
	}
}
