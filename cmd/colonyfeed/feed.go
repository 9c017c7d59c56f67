package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"colonyfeed/internal/config"
	"colonyfeed/internal/output"
)

func runFeed(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, pipeline, err := connect(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer chainClient.Close()

	logger.Info("feed start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("colony", cfg.ColonyAddress.Hex()),
		zap.String("format", string(format)),
		zap.String("out", cfg.Out),
	)

	start := time.Now()
	records, err := pipeline.Events(ctx)
	if err != nil {
		return err
	}

	if err := output.WriteFile(cfg.Out, format, records); err != nil {
		return err
	}

	logger.Info("feed done",
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
