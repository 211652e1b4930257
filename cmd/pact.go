package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pact-go/pact/pact"
)

func initPact(rootCommand *cobra.Command) {
	pactCommand := &cobra.Command{
		Use:   "pact",
		Short: "Inspect and validate pact files",
	}

	validateCommand := &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse a pact file and report whether it decodes cleanly",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				exitError(err)
			}
			p, err := pact.DecodePact(raw)
			if err != nil {
				exitError(err)
			}
			fmt.Printf("%s / %s: %d interaction(s), spec %s\n",
				p.Consumer, p.Provider, len(p.Interactions), p.SpecVersion())
		},
	}

	pactCommand.AddCommand(validateCommand)
	rootCommand.AddCommand(pactCommand)
}
