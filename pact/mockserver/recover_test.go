package mockserver

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pact-go/pact/pact"
)

func TestServerRecoversFromHandlerPanic(t *testing.T) {
	s := NewServer().WithAddress("127.0.0.1:0").WithConsumer("consumer-a").WithProvider("provider-b")
	s.interactions = []*pact.Interaction{nil} // Dispatch will dereference this and panic
	loop, err := s.Listen(context.Background())
	if err != nil {
		t.Fatalf("unexpected error starting server: %v", err)
	}
	go loop()
	time.Sleep(10 * time.Millisecond)
	defer s.Shutdown(context.Background())

	resp, err := http.Get("http://" + s.Addr() + "/widgets/1")
	if err != nil {
		t.Fatalf("expected a response rather than a connection error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 after recovered panic, got %d", resp.StatusCode)
	}
}
