package cmd

import (
	"fmt"
	"os"
)

// exitError prints err to stderr and terminates the process with a
// non-zero status. Every subcommand's Run func funnels failures through
// here instead of returning an error cobra would print with a usage
// banner attached.
func exitError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
