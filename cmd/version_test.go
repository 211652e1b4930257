package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCmdOutputIncludesVersion(t *testing.T) {
	var buf bytes.Buffer
	generateCmdOutput(&buf)
	out := buf.String()
	if !strings.Contains(out, "Version:") {
		t.Errorf("expected output to contain a Version line, got %q", out)
	}
	if !strings.Contains(out, "Go Version:") {
		t.Errorf("expected output to contain a Go Version line, got %q", out)
	}
}
