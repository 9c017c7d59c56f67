package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"colonyfeed/internal/chain"
	"colonyfeed/internal/colony"
	"colonyfeed/internal/config"
	"colonyfeed/internal/feed"
	"colonyfeed/internal/metrics"
)

func main() {
	root := &cobra.Command{
		Use:          "colonyfeed",
		Short:        "Colony event feed",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Build the colony event feed once and write it out",
		RunE:  runFeed,
	}

	addChainFlags(feedCmd)
	feedCmd.Flags().String("format", "json", "output format (json, jsonl, yaml, text)")
	feedCmd.Flags().String("out", "-", "output path, - for stdout")

	root.AddCommand(feedCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the colony event feed over HTTP",
		RunE:  runServe,
	}

	addChainFlags(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Bool("metrics", true, "expose /metrics")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "Ethereum RPC URL")
	cmd.Flags().String("network-address", config.DefaultNetworkAddress, "colony network contract address")
	cmd.Flags().String("colony-address", config.DefaultColonyAddress, "colony contract address")
	cmd.Flags().Bool("verify-colony", true, "check the colony is registered with the network before fetching")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

// connect dials the RPC endpoint and builds a pipeline for the configured colony.
func connect(ctx context.Context, cfg config.Config, m *metrics.Metrics, logger *zap.Logger) (*chain.Client, *feed.Pipeline, error) {
	if cfg.RPCURL == "" {
		return nil, nil, fmt.Errorf("rpc url is required")
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect rpc: %w", err)
	}

	if cfg.VerifyColony {
		if err := colony.VerifyColony(ctx, chainClient, cfg.NetworkAddress, cfg.ColonyAddress); err != nil {
			chainClient.Close()
			return nil, nil, err
		}
	}

	pipeline, err := feed.New(feed.Config{ColonyAddress: cfg.ColonyAddress}, chainClient, m, logger)
	if err != nil {
		chainClient.Close()
		return nil, nil, err
	}
	return chainClient, pipeline, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
