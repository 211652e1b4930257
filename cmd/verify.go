package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pact-go/pact/pact"
	"github.com/pact-go/pact/pact/verifier"
)

func initVerify(rootCommand *cobra.Command) {
	var providerURL string

	verifyCommand := &cobra.Command{
		Use:   "verify <pact-file>",
		Short: "Replay a pact's interactions against a live provider",
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
			if providerURL == "" {
				exitError(fmt.Errorf("--provider-url is required"))
			}

			v := verifier.NewHTTPVerifier(providerURL)
			results, err := v.Verify(context.Background(), p)
			if err != nil {
				exitError(err)
			}

			failed := 0
			for _, r := range results {
				fmt.Printf("%s: %s\n", r.Interaction.Description, r.Kind.MatchKey())
				if !r.OK() {
					failed++
				}
			}
			if failed > 0 {
				exitError(fmt.Errorf("%d of %d interaction(s) failed verification", failed, len(results)))
			}
		},
	}

	verifyCommand.Flags().StringVarP(&providerURL, "provider-url", "u", "", "set the base URL of the running provider")
	rootCommand.AddCommand(verifyCommand)
}
