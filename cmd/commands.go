package cmd

import (
	"github.com/spf13/cobra"
)

// RootCommand is the base pact-go CLI command that every subcommand below
// is registered against.
var RootCommand = &cobra.Command{
	Use:   "pact-go",
	Short: "pact-go: consumer-driven contract testing",
	Long:  "A Pact mock server, broker client and provider verifier for Go.",
}

func init() {
	initMock(RootCommand)
	initPact(RootCommand)
	initBroker(RootCommand)
	initVerify(RootCommand)
	initVersion(RootCommand)
}
