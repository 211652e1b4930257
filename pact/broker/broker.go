// Package broker defines the client interface for fetching and publishing
// pacts against a Pact Broker. Out of scope per spec.md §1: only the Go
// shape is given here so the rest of the tree has something to compile
// and test against.
package broker

import "github.com/pact-go/pact/pact"

// Client fetches and publishes pacts against a Pact Broker's HAL API.
type Client interface {
	// FetchPact retrieves the latest pact between consumer and provider.
	FetchPact(consumer, provider string) (*pact.Pact, error)

	// PublishPact uploads p, tagged with consumerVersion.
	PublishPact(p *pact.Pact, consumerVersion string) error
}

// ErrNotImplemented is returned by the stub client below; a real HTTP/HAL
// implementation is out of scope.
type ErrNotImplemented struct {
	Op string
}

func (e *ErrNotImplemented) Error() string {
	return "pact broker: " + e.Op + " not implemented in this build"
}

// stubClient satisfies Client without performing any network I/O, so
// callers that only need the interface shape (CLI wiring, tests) have a
// concrete value to construct.
type stubClient struct{}

// NewStubClient returns a Client whose methods always return
// ErrNotImplemented.
func NewStubClient() Client {
	return &stubClient{}
}

func (*stubClient) FetchPact(consumer, provider string) (*pact.Pact, error) {
	return nil, &ErrNotImplemented{Op: "FetchPact"}
}

func (*stubClient) PublishPact(p *pact.Pact, consumerVersion string) error {
	return &ErrNotImplemented{Op: "PublishPact"}
}
