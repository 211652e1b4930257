// Package verifier replays a pact's recorded interactions against a live
// provider and reports how each one matched. Out of scope per spec.md §1
// beyond this thin shape: no provider-state setup protocol, no retry/
// polling policy beyond what Verifier.Verify itself does.
package verifier

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pact-go/pact/pact"
	"github.com/pact-go/pact/pact/matching"
)

// StateChanger notifies a provider that it should set up the named
// provider state. Verify calls it before replaying each interaction that
// has a provider state; it is never called after an interaction.
type StateChanger func(ctx context.Context, state string) error

// Verifier replays a Pact's interactions against a live provider base URL.
type Verifier interface {
	Verify(ctx context.Context, p *pact.Pact) ([]pact.MatchResult, error)
}

// HTTPVerifier is the default Verifier: one net/http.Client.Do per
// interaction, no connection pooling tuning or retry policy beyond the
// caller's own context deadline.
type HTTPVerifier struct {
	BaseURL      string
	Client       *http.Client
	StateChanger StateChanger

	// PollBase/PollMax hold backoff bounds. Verify does not read them: it
	// makes one request per interaction and does not wait for the provider
	// to start listening.
	PollBase time.Duration
	PollMax  time.Duration
}

// NewHTTPVerifier returns an HTTPVerifier with a default client and
// backoff bounds.
func NewHTTPVerifier(baseURL string) *HTTPVerifier {
	return &HTTPVerifier{
		BaseURL:  baseURL,
		Client:   &http.Client{Timeout: 10 * time.Second},
		PollBase: 50 * time.Millisecond,
		PollMax:  2 * time.Second,
	}
}

// Verify replays every interaction in p against v.BaseURL and returns one
// MatchResult per interaction.
func (v *HTTPVerifier) Verify(ctx context.Context, p *pact.Pact) ([]pact.MatchResult, error) {
	results := make([]pact.MatchResult, 0, len(p.Interactions))
	for _, ia := range p.Interactions {
		if ia.HasProviderState() && v.StateChanger != nil {
			if err := v.StateChanger(ctx, ia.ProviderState); err != nil {
				return results, fmt.Errorf("provider state %q: %w", ia.ProviderState, err)
			}
		}
		result, err := v.verifyOne(ctx, ia)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (v *HTTPVerifier) verifyOne(ctx context.Context, ia *pact.Interaction) (pact.MatchResult, error) {
	httpReq, err := v.buildHTTPRequest(ctx, ia.Request)
	if err != nil {
		return pact.MatchResult{}, err
	}

	httpResp, err := v.Client.Do(httpReq)
	if err != nil {
		return pact.MatchResult{}, fmt.Errorf("replaying %q: %w", ia.Description, err)
	}
	defer httpResp.Body.Close()

	actual, err := parseHTTPResponse(httpResp)
	if err != nil {
		return pact.MatchResult{}, err
	}

	mismatches := matching.MatchResponse(ia.Response, actual)
	if len(mismatches) == 0 {
		return pact.NewRequestMatch(ia), nil
	}
	return pact.MatchResult{
		Kind:        pact.RequestMismatch,
		Interaction: ia,
		Mismatches:  mismatches,
	}, nil
}

func (v *HTTPVerifier) buildHTTPRequest(ctx context.Context, req *pact.Request) (*http.Request, error) {
	u, err := url.Parse(v.BaseURL)
	if err != nil {
		return nil, err
	}
	u.Path = req.Path
	values := url.Values{}
	for k, vs := range req.Query {
		values[k] = vs
	}
	u.RawQuery = values.Encode()

	var body *bytes.Reader
	if req.Body.IsPresent() {
		body = bytes.NewReader(req.Body.Content())
	} else {
		body = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for _, k := range req.Headers.Keys() {
		val, _ := req.Headers.Get(k)
		httpReq.Header.Set(k, val)
	}
	return httpReq, nil
}

func parseHTTPResponse(resp *http.Response) (*pact.Response, error) {
	out := pact.NewResponse(resp.StatusCode)
	for k, vs := range resp.Header {
		out.Headers.Set(k, joinValues(vs))
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	if buf.Len() > 0 {
		contentType, _ := out.Headers.Get("Content-Type")
		out.Body = pact.PresentBody(buf.Bytes(), contentType)
	}
	return out, nil
}

func joinValues(vs []string) string {
	out := ""
	for i, v := range vs {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}
