package mockserver

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pact-go/pact/metrics"
	"github.com/pact-go/pact/pact"
)

func TestServerExposesPrometheusMetricsWhenConfigured(t *testing.T) {
	gm := metrics.NewPrometheusMetrics(prometheus.NewRegistry())
	s := NewServer().WithAddress("127.0.0.1:0").WithConsumer("consumer-a").WithProvider("provider-b").
		WithGlobalMetrics(gm).WithInteractions([]*pact.Interaction{widgetInteraction()})
	loop, err := s.Listen(context.Background())
	if err != nil {
		t.Fatalf("unexpected error starting server: %v", err)
	}
	go loop()
	time.Sleep(10 * time.Millisecond)
	defer s.Shutdown(context.Background())

	if _, err := http.Get("http://" + s.Addr() + "/widgets/1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/_pact/metrics")
	if err != nil {
		t.Fatalf("unexpected error fetching metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 from /_pact/metrics, got %d", resp.StatusCode)
	}
}

func TestServerWithoutGlobalMetricsHasNoMetricsEndpoint(t *testing.T) {
	s, addr, stop := startTestServer(t, []*pact.Interaction{widgetInteraction()})
	defer stop()

	resp, err := http.Get("http://" + addr + "/_pact/metrics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == 200 {
		t.Errorf("expected /_pact/metrics to be unregistered without WithGlobalMetrics")
	}
	_ = s
}
