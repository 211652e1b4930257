package matching

// BodyConfig controls how body matchers treat keys/elements present in the
// actual value but not named by the expected value (spec section 4.D).
type BodyConfig int

const (
	// NoUnexpectedKeys requires actual maps to carry exactly the keys named
	// in expected (size mismatches are reported). Used for requests.
	NoUnexpectedKeys BodyConfig = iota
	// AllowUnexpectedKeys permits actual maps to carry additional keys
	// beyond those named in expected. Used for responses. Per spec section
	// 4.D note and SPEC_FULL.md's Open Question (b), this propagates into
	// nested arrays inside objects as well.
	AllowUnexpectedKeys
)
