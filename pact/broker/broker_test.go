package broker

import "testing"

func TestStubClientFetchPactReturnsNotImplemented(t *testing.T) {
	c := NewStubClient()
	_, err := c.FetchPact("consumer-a", "provider-b")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if _, ok := err.(*ErrNotImplemented); !ok {
		t.Errorf("expected *ErrNotImplemented, got %T", err)
	}
}

func TestStubClientPublishPactReturnsNotImplemented(t *testing.T) {
	c := NewStubClient()
	err := c.PublishPact(nil, "1.0.0")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if _, ok := err.(*ErrNotImplemented); !ok {
		t.Errorf("expected *ErrNotImplemented, got %T", err)
	}
}
