package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/batchmint"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/rpc"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/shared"
)

type app struct {
	network string
	rpcURL  string
	verbose bool

	// dial connects to the cluster. Tests replace it.
	dial func(network, rpcURL string) (batchmint.Ledger, error)
}

func dialRPC(network, rpcURL string) (batchmint.Ledger, error) {
	return rpc.NewClient(rpc.Config{Network: network, BaseURL: rpcURL})
}

func newRootCommand() *cobra.Command {
	return newApp(dialRPC).rootCommand()
}

func newApp(dial func(network, rpcURL string) (batchmint.Ledger, error)) *app {
	return &app{dial: dial}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bubblegum-batch",
		Short:         "Build, validate and finalize Bubblegum batch mints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.network, "network", "", "cluster: mainnet-beta, devnet, testnet or localnet (default from SOLANA_NETWORK)")
	root.PersistentFlags().StringVar(&a.rpcURL, "rpc-url", "", "JSON-RPC endpoint (default from SOLANA_RPC_URL)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		a.buildCommand(),
		a.validateCommand(),
		a.prepareCommand(),
		a.planCommand(),
	)
	return root
}

func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// config resolves the cluster settings, letting flags override the
// environment.
func (a *app) config() (shared.Config, error) {
	config, err := shared.ConfigFromEnv()
	if err != nil {
		return shared.Config{}, err
	}
	if a.network != "" {
		network, err := shared.NormalizeNetwork(a.network)
		if err != nil {
			return shared.Config{}, err
		}
		if network != config.Network && a.rpcURL == "" {
			if config.RPCURL, err = shared.DefaultRPCURL(network); err != nil {
				return shared.Config{}, err
			}
		}
		config.Network = network
	}
	if a.rpcURL != "" {
		config.RPCURL = a.rpcURL
	}
	return config, nil
}

func (a *app) client(cmd *cobra.Command) (*batchmint.Client, error) {
	config, err := a.config()
	if err != nil {
		return nil, err
	}
	connection, err := a.dial(config.Network, config.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.RPCURL, err)
	}
	client, err := batchmint.NewClient(batchmint.ClientConfig{Ledger: connection, Logger: a.logger(cmd)})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func printf(out io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(out, format, args...)
}
