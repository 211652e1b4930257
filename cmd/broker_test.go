package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestBrokerCommandIsRegistered(t *testing.T) {
	root := &cobra.Command{Use: "pact-go"}
	initBroker(root)
	root.SetArgs([]string{"broker", "publish", "pact.json"})
	// Run calls exitError -> os.Exit on failure, so the command is never
	// executed here; this only checks that initBroker registers it. The
	// not-implemented behavior is covered by pact/broker's own tests.
	if root.Commands()[0].Name() != "broker" {
		t.Fatalf("expected broker command to be registered")
	}
}
