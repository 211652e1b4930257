package verifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pact-go/pact/pact"
)

func widgetPact(ts *httptest.Server) *pact.Pact {
	p := pact.NewPact("consumer-a", "provider-b")
	req := pact.NewRequest("GET", "/widgets/1")
	resp := pact.NewResponse(200)
	resp.Headers.Set("Content-Type", "application/json")
	resp.Body = pact.PresentBody([]byte(`{"id":1}`), "application/json")
	p.Interactions = append(p.Interactions, &pact.Interaction{
		Description: "a request for widget 1",
		Request:     req,
		Response:    resp,
	})
	return p
}

func TestHTTPVerifierVerifyReportsMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer ts.Close()

	v := NewHTTPVerifier(ts.URL)
	results, err := v.Verify(context.Background(), widgetPact(ts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Kind != pact.RequestMatch {
		t.Fatalf("expected a single RequestMatch result, got %+v", results)
	}
}

func TestHTTPVerifierVerifyReportsMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	v := NewHTTPVerifier(ts.URL)
	results, err := v.Verify(context.Background(), widgetPact(ts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Kind != pact.RequestMismatch {
		t.Fatalf("expected a single RequestMismatch result, got %+v", results)
	}
}

func TestHTTPVerifierInvokesStateChanger(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer ts.Close()

	p := widgetPact(ts)
	p.Interactions[0].ProviderState = "widget 1 exists"

	var invoked string
	v := NewHTTPVerifier(ts.URL)
	v.StateChanger = func(ctx context.Context, state string) error {
		invoked = state
		return nil
	}

	if _, err := v.Verify(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invoked != "widget 1 exists" {
		t.Errorf("expected state changer to be invoked with %q, got %q", "widget 1 exists", invoked)
	}
}
