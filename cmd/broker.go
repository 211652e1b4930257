package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pact-go/pact/pact/broker"
)

func initBroker(rootCommand *cobra.Command) {
	brokerCommand := &cobra.Command{
		Use:   "broker",
		Short: "Publish and fetch pacts against a Pact Broker",
	}

	var url string

	publishCommand := &cobra.Command{
		Use:   "publish <file>",
		Short: "Publish a pact file to a broker",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			_ = broker.NewStubClient()
			exitError(&broker.ErrNotImplemented{Op: "publish"})
		},
	}
	publishCommand.Flags().StringVarP(&url, "broker-url", "", "", "set the pact broker base URL")

	fetchCommand := &cobra.Command{
		Use:   "fetch <consumer> <provider>",
		Short: "Fetch the latest pact between consumer and provider from a broker",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			exitError(&broker.ErrNotImplemented{Op: "fetch"})
		},
	}
	fetchCommand.Flags().StringVarP(&url, "broker-url", "", "", "set the pact broker base URL")

	brokerCommand.AddCommand(publishCommand, fetchCommand)
	rootCommand.AddCommand(brokerCommand)
}
