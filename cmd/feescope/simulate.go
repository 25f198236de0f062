package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feeScope/internal/chain"
	"feeScope/internal/config"
	"feeScope/internal/hook"
	"feeScope/internal/replay"
	gassignal "feeScope/internal/signal"
)

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSimulate(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Pool == "" {
		return fmt.Errorf("pool id is required")
	}
	if cfg.Swaps <= 0 {
		return fmt.Errorf("swaps must be positive")
	}
	if err := config.ValidateFees(cfg.BaseFee, cfg.MaxFee, hook.MaxLPFee); err != nil {
		return err
	}

	pool, err := replay.ParsePoolID(cfg.Pool)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}

	source, err := gassignal.NewChainSource(chainClient, cfg.GasSource)
	if err != nil {
		return err
	}

	ctrl := hook.NewController(hook.Config{
		BaseFee: cfg.BaseFee,
		MaxFee:  cfg.MaxFee,
	}, logger)

	logger.Info("simulate start",
		zap.String("chain_id", chainID.String()),
		zap.String("pool", pool.Hex()),
		zap.Int("swaps", cfg.Swaps),
		zap.Duration("interval", cfg.Interval),
		zap.String("gas_source", cfg.GasSource),
		zap.Uint32("base_fee", cfg.BaseFee),
		zap.Uint32("max_fee", cfg.MaxFee),
	)

	return simulate(ctx, ctrl, source, pool, cfg, logger)
}

func simulate(ctx context.Context, ctrl *hook.Controller, source gassignal.Source, pool hook.PoolID, cfg config.SimulateConfig, logger *zap.Logger) error {
	seed, err := gassignal.ReadWithRetry(ctx, source, cfg.MaxRetries, cfg.RetryBackoff)
	if err != nil {
		return fmt.Errorf("read seed signal: %w", err)
	}
	if err := ctrl.OnInitialize(pool, seed); err != nil {
		return err
	}
	logger.Info("pool seeded", zap.Uint64("signal", seed))

	for i := 0; i < cfg.Swaps; i++ {
		before, err := gassignal.ReadWithRetry(ctx, source, cfg.MaxRetries, cfg.RetryBackoff)
		if err != nil {
			return fmt.Errorf("read signal: %w", err)
		}

		average, count, err := ctrl.Average(pool)
		if err != nil {
			return err
		}
		fee, err := ctrl.OnBeforeSwap(pool, before)
		if err != nil {
			return err
		}

		// The swap itself is synthetic; the signal is read again afterward so
		// the tracker sees whatever the chain reports at settlement time.
		after, err := gassignal.ReadWithRetry(ctx, source, cfg.MaxRetries, cfg.RetryBackoff)
		if err != nil {
			return fmt.Errorf("read settle signal: %w", err)
		}
		if err := ctrl.OnAfterSwap(pool, after); err != nil {
			return err
		}

		logger.Info("swap simulated",
			zap.Int("swap", i+1),
			zap.Uint64("signal", before),
			zap.Uint64("settle_signal", after),
			zap.Uint64("average", average),
			zap.Uint64("count", count),
			zap.Uint32("fee", fee),
			zap.String("branch", string(hook.Classify(before, average))),
		)

		if i+1 == cfg.Swaps {
			break
		}
		timer := time.NewTimer(cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	average, count, err := ctrl.Average(pool)
	if err != nil {
		return err
	}
	logger.Info("simulate complete", zap.Uint64("average", average), zap.Uint64("count", count))
	return nil
}
