package cmd

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pact-go/pact/internal/log"
	"github.com/pact-go/pact/metrics"
	"github.com/pact-go/pact/pact/mockserver"
)

func initMock(rootCommand *cobra.Command) {
	mockCommand := &cobra.Command{
		Use:   "mock",
		Short: "Run and inspect pact mock servers",
	}

	var addr, pactDir, consumer, provider, logLevel string
	var tlsCertFile, tlsPrivateKeyFile, tlsCACertFile string
	var metricsEnabled bool

	runCommand := &cobra.Command{
		Use:   "run",
		Short: "Start a pact mock server",
		Long: `Start a pact mock server.

The mock server records every request it receives against the
interactions registered for consumer/provider, and will write a pact
file to --pact-dir once every interaction has been invoked and every
recorded result matched cleanly.`,
		Run: func(cmd *cobra.Command, args []string) {
			cert, err := loadCertificate(tlsCertFile, tlsPrivateKeyFile)
			if err != nil {
				exitError(err)
			}
			if tlsCACertFile != "" {
				if _, err := loadCertPool(tlsCACertFile); err != nil {
					exitError(err)
				}
			}

			logger := log.New()
			logger.SetLevel(parseLogLevel(logLevel))

			s := mockserver.NewServer().
				WithAddress(addr).
				WithConsumer(consumer).
				WithProvider(provider).
				WithPactDir(pactDir).
				WithLogger(logger)

			if cert != nil {
				s.WithTLS(cert)
			}
			if metricsEnabled {
				s.WithGlobalMetrics(metrics.NewPrometheusMetrics(prometheus.NewRegistry()))
			}

			runMockServer(s, logger)
		},
	}

	runCommand.Flags().StringVarP(&addr, "port", "p", "localhost:0", "set listening address of the mock server (host:port)")
	runCommand.Flags().StringVarP(&pactDir, "pact-dir", "d", "./pacts", "set directory pact files are written to")
	runCommand.Flags().StringVarP(&consumer, "consumer", "c", "", "set the consumer name for interactions registered on this server")
	runCommand.Flags().StringVarP(&provider, "provider", "", "", "set the provider name for interactions registered on this server")
	runCommand.Flags().StringVarP(&logLevel, "log-level", "l", "info", "set log level (debug, info, warn, error)")
	runCommand.Flags().StringVarP(&tlsCertFile, "tls-cert-file", "", "", "set path of TLS certificate file")
	runCommand.Flags().StringVarP(&tlsPrivateKeyFile, "tls-private-key-file", "", "", "set path of TLS private key file")
	runCommand.Flags().StringVarP(&tlsCACertFile, "tls-ca-cert-file", "", "", "set path of TLS CA cert file")
	runCommand.Flags().BoolVarP(&metricsEnabled, "metrics", "", false, "expose Prometheus metrics at /_pact/metrics")

	mockCommand.AddCommand(runCommand)
	rootCommand.AddCommand(mockCommand)
}

// runMockServer opens s's listener, serves until SIGINT/SIGTERM, then
// shuts down gracefully.
func runMockServer(s *mockserver.Server, logger log.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop, err := s.Listen(ctx)
	if err != nil {
		exitError(err)
	}

	logger.Info("mock server %s listening on %s", s.ID, s.Addr())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() { errc <- loop() }()

	select {
	case err := <-errc:
		if err != nil {
			exitError(err)
		}
	case <-sig:
		logger.Info("shutting down mock server %s", s.ID)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer shutdownCancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			exitError(err)
		}
		if err := s.WritePactFile(); err != nil {
			logger.Warn("not writing pact: %v", err)
		}
	}
}

func parseLogLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.Debug
	case "warn":
		return log.Warn
	case "error":
		return log.Error
	default:
		return log.Info
	}
}

func loadCertificate(tlsCertFile, tlsPrivateKeyFile string) (*tls.Certificate, error) {
	if tlsCertFile != "" && tlsPrivateKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(tlsCertFile, tlsPrivateKeyFile)
		if err != nil {
			return nil, err
		}
		return &cert, nil
	} else if tlsCertFile != "" || tlsPrivateKeyFile != "" {
		return nil, fmt.Errorf("--tls-cert-file and --tls-private-key-file must be specified together")
	}
	return nil, nil
}

func loadCertPool(tlsCACertFile string) (*x509.CertPool, error) {
	caCertPEM, err := os.ReadFile(tlsCACertFile)
	if err != nil {
		return nil, fmt.Errorf("read CA cert file: %v", err)
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(caCertPEM); !ok {
		return nil, fmt.Errorf("failed to parse CA cert %q", tlsCACertFile)
	}
	return pool, nil
}

const shutdownGracePeriod = 10 * time.Second
