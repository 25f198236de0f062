package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feeScope/internal/config"
	"feeScope/internal/hook"
	"feeScope/internal/replay"
	"feeScope/internal/storage"
	"feeScope/internal/storage/postgres"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if err := config.ValidateFees(cfg.BaseFee, cfg.MaxFee, hook.MaxLPFee); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink storage.DecisionSink
	var snapshots storage.SnapshotStore
	var stateStore replay.StateStore

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		sink = store
		snapshots = store
		stateStore = &replay.DBStateStore{Store: store, Name: "replay"}
	} else {
		if cfg.Out == "" {
			return fmt.Errorf("out path is required without pg-dsn")
		}
		sink = storage.NewJsonlSink(cfg.Out)
	}

	if cfg.StateFile != "" {
		stateStore = &replay.FileStateStore{Path: cfg.StateFile}
	}

	ctrl := hook.NewController(hook.Config{
		BaseFee: cfg.BaseFee,
		MaxFee:  cfg.MaxFee,
	}, logger)

	runner := replay.NewRunner(replay.Config{
		BatchSize:  cfg.BatchSize,
		StateStore: stateStore,
	}, ctrl, sink, snapshots, logger)

	logger.Info("replay start",
		zap.String("input", cfg.Input),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Uint32("base_fee", cfg.BaseFee),
		zap.Uint32("max_fee", cfg.MaxFee),
	)

	return runner.Run(ctx, cfg.Input)
}
