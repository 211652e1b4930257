package pact

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Specification enumerates the Pact specification versions a document may
// declare (spec section 3).
type Specification int

const (
	SpecUnknown Specification = iota
	SpecV1
	SpecV1_1
	SpecV2
	SpecV3
)

func (s Specification) String() string {
	switch s {
	case SpecV1:
		return "1.0.0"
	case SpecV1_1:
		return "1.1.0"
	case SpecV2:
		return "2.0.0"
	case SpecV3:
		return "3.0.0"
	default:
		return "unknown"
	}
}

// Pact is the immutable, parsed representation of a pact document: a
// consumer, a provider, an ordered sequence of interactions, and a
// metadata mapping that (among other things) records the spec version
// (spec section 3).
type Pact struct {
	Consumer     string
	Provider     string
	Interactions []*Interaction
	Metadata     map[string]interface{}
}

// NewPact builds an empty Pact between consumer and provider.
func NewPact(consumer, provider string) *Pact {
	return &Pact{
		Consumer: consumer,
		Provider: provider,
		Metadata: map[string]interface{}{},
	}
}

// SpecVersion determines the pact-specification version recorded in
// Metadata. Key lookup is case-insensitive to tolerate the camelCase
// variants ("pactSpecification") seen in the wild (spec section 3).
// Unparseable or absent versions yield SpecUnknown, per spec section 4.F.
func (p *Pact) SpecVersion() Specification {
	return specVersionFromMetadata(p.Metadata)
}

func specVersionFromMetadata(metadata map[string]interface{}) Specification {
	pactSpec, ok := lookupCaseInsensitive(metadata, "pact-specification")
	if !ok {
		pactSpec, ok = lookupCaseInsensitive(metadata, "pactSpecification")
		if !ok {
			return SpecUnknown
		}
	}
	asMap, ok := pactSpec.(map[string]interface{})
	if !ok {
		return SpecUnknown
	}
	versionAny, ok := lookupCaseInsensitive(asMap, "version")
	if !ok {
		return SpecUnknown
	}
	versionStr, ok := versionAny.(string)
	if !ok {
		return SpecUnknown
	}
	v, err := semver.NewVersion(strings.TrimSpace(versionStr))
	if err != nil {
		return SpecUnknown
	}
	switch {
	case v.Major() == 1 && v.Minor() == 0:
		return SpecV1
	case v.Major() == 1 && v.Minor() >= 1:
		return SpecV1_1
	case v.Major() == 2:
		return SpecV2
	case v.Major() == 3:
		return SpecV3
	default:
		return SpecUnknown
	}
}

func lookupCaseInsensitive(m map[string]interface{}, key string) (interface{}, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}
