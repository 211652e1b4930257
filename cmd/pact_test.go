package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func TestValidateCommandAcceptsWellFormedPact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pact.json")
	raw := []byte(`{
		"consumer": {"name": "consumer-a"},
		"provider": {"name": "provider-b"},
		"interactions": [
			{"description": "a widget request", "request": {"method": "GET", "path": "/widgets/1"}, "response": {"status": 200}}
		]
	}`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	root := &cobra.Command{Use: "pact-go"}
	initPact(root)
	root.SetArgs([]string{"pact", "validate", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
