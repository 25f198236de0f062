package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "feescope",
		Short:        "Gas-responsive LP fee controller",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a recorded observation stream through the fee controller",
		RunE:  runReplay,
	}

	replayCmd.Flags().String("in", "", "input observations JSONL")
	replayCmd.Flags().String("out", "./data/decisions.jsonl", "output fee decisions JSONL")
	replayCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for decisions and snapshots")
	replayCmd.Flags().Int("batch-size", 1000, "batch size for sink writes")
	replayCmd.Flags().String("state-file", "", "optional local state file for progress tracking")
	replayCmd.Flags().Uint32("base-fee", 3000, "base fee in pips charged at the tracked average")
	replayCmd.Flags().Uint32("max-fee", 1_000_000, "maximum fee in pips after the premium doubling")
	replayCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(replayCmd)

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive one pool from a live RPC gas signal",
		RunE:  runSimulate,
	}

	simulateCmd.Flags().String("rpc", "", "RPC URL")
	simulateCmd.Flags().String("pool", "", "pool id (32-byte hex)")
	simulateCmd.Flags().Int("swaps", 10, "number of synthetic swaps")
	simulateCmd.Flags().Duration("interval", 3*time.Second, "delay between swaps")
	simulateCmd.Flags().String("gas-source", "suggest", "gas signal source (suggest, basefee)")
	simulateCmd.Flags().Uint32("base-fee", 3000, "base fee in pips charged at the tracked average")
	simulateCmd.Flags().Uint32("max-fee", 1_000_000, "maximum fee in pips after the premium doubling")
	simulateCmd.Flags().Int("max-retries", 5, "maximum RPC retry attempts")
	simulateCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial RPC retry backoff")
	simulateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(simulateCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
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

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
