package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"feeScope/internal/hook"
	"feeScope/internal/model"
	"feeScope/internal/storage"
)

// Config controls replay behavior.
type Config struct {
	BatchSize  int
	StateStore StateStore
}

// poolMark remembers per-pool context for snapshot and state flushes.
type poolMark struct {
	chainID   uint64
	lastBlock uint64
}

// Runner drives the fee controller from a recorded observation stream. It is
// the host side of the lifecycle contract: it serializes callbacks per pool
// (records are processed in order), emits one FeeDecision per swap, and
// persists tracker snapshots alongside each decision batch.
type Runner struct {
	cfg       Config
	ctrl      *hook.Controller
	sink      storage.DecisionSink
	snapshots storage.SnapshotStore
	logger    *zap.Logger

	// marks covers every pool seen (or restored) in this run; it is never
	// cleared, so each flush persists a complete tracker snapshot set.
	marks map[common.Hash]poolMark
}

// NewRunner builds a Runner. The snapshot store may be nil when no snapshot
// persistence is wanted.
func NewRunner(cfg Config, ctrl *hook.Controller, sink storage.DecisionSink, snapshots storage.SnapshotStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:       cfg,
		ctrl:      ctrl,
		sink:      sink,
		snapshots: snapshots,
		logger:    logger,
		marks:     make(map[common.Hash]poolMark),
	}
}

// Run replays an observation JSONL file through the controller.
func (r *Runner) Run(ctx context.Context, inputPath string) error {
	if r.ctrl == nil {
		return fmt.Errorf("controller is nil")
	}
	if r.sink == nil {
		return fmt.Errorf("decision sink is nil")
	}
	if r.cfg.BatchSize <= 0 {
		r.cfg.BatchSize = 1000
	}

	startOffset, err := r.restoreState(ctx)
	if err != nil {
		return err
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	batch := make([]model.FeeDecision, 0, r.cfg.BatchSize)
	var offset uint64
	var total, initialized, decided, skipped, failed int

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		offset++
		total++

		if offset <= startOffset {
			skipped++
			continue
		}

		var obs model.SwapObservation
		if err := json.Unmarshal(line, &obs); err != nil {
			failed++
			r.logger.Warn("decode observation", zap.Error(err), zap.Uint64("record", offset))
			continue
		}

		pool, err := ParsePoolID(obs.PoolID)
		if err != nil {
			failed++
			r.logger.Warn("parse pool id", zap.Error(err), zap.Uint64("record", offset))
			continue
		}

		switch obs.Kind {
		case model.KindInitialize:
			if err := r.ctrl.OnInitialize(pool, obs.GasPrice); err != nil {
				failed++
				r.logger.Warn("initialize pool", zap.Error(err), zap.Uint64("record", offset))
				continue
			}
			initialized++
			r.marks[pool] = poolMark{chainID: obs.ChainID, lastBlock: obs.BlockNumber}

		case model.KindSwap:
			decision, err := r.applySwap(pool, obs)
			if err != nil {
				failed++
				r.logger.Warn("apply swap", zap.Error(err), zap.Uint64("record", offset))
				continue
			}
			batch = append(batch, *decision)
			decided++

		default:
			failed++
			r.logger.Warn("unknown observation kind", zap.String("kind", obs.Kind), zap.Uint64("record", offset))
			continue
		}

		if len(batch) >= r.cfg.BatchSize {
			if err := r.flush(ctx, batch, offset); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if err := r.flush(ctx, batch, offset); err != nil {
		return err
	}

	r.logger.Info("replay complete",
		zap.Int("total", total),
		zap.Int("initialized", initialized),
		zap.Int("decided", decided),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return nil
}

// applySwap runs the before/after callback pair for one recorded swap. The
// fee is derived from the average as it stood before the swap; only the
// after callback advances it, using the settlement signal when one was
// recorded.
func (r *Runner) applySwap(pool common.Hash, obs model.SwapObservation) (*model.FeeDecision, error) {
	average, count, err := r.ctrl.Average(pool)
	if err != nil {
		return nil, err
	}

	fee, err := r.ctrl.OnBeforeSwap(pool, obs.GasPrice)
	if err != nil {
		return nil, err
	}

	settle := obs.GasPrice
	if obs.SettleGasPrice != nil {
		settle = *obs.SettleGasPrice
	}
	if err := r.ctrl.OnAfterSwap(pool, settle); err != nil {
		return nil, err
	}

	r.marks[pool] = poolMark{chainID: obs.ChainID, lastBlock: obs.BlockNumber}

	return &model.FeeDecision{
		ChainID:     obs.ChainID,
		PoolID:      pool.Hex(),
		BlockNumber: obs.BlockNumber,
		TxHash:      obs.TxHash,
		Timestamp:   obs.Timestamp,
		GasPrice:    obs.GasPrice,
		Average:     average,
		Count:       count,
		BaseFee:     r.ctrl.BaseFee(),
		Fee:         fee,
		Branch:      string(hook.Classify(obs.GasPrice, average)),
		DecidedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

func (r *Runner) flush(ctx context.Context, batch []model.FeeDecision, offset uint64) error {
	if len(batch) > 0 {
		if err := r.sink.PutDecisionBatch(ctx, batch); err != nil {
			return fmt.Errorf("store decisions: %w", err)
		}
	}

	averages, err := r.poolAverages()
	if err != nil {
		return err
	}

	if r.snapshots != nil && len(averages) > 0 {
		if err := r.snapshots.PutPoolAverages(ctx, averages); err != nil {
			return fmt.Errorf("store snapshots: %w", err)
		}
	}

	if r.cfg.StateStore != nil {
		if err := r.cfg.StateStore.Save(ctx, State{Offset: offset, Pools: averages}); err != nil {
			return err
		}
	}
	return nil
}

// poolAverages snapshots every pool this run has touched or restored.
func (r *Runner) poolAverages() ([]model.PoolAverage, error) {
	averages := make([]model.PoolAverage, 0, len(r.marks))
	for pool, mark := range r.marks {
		average, count, err := r.ctrl.Average(pool)
		if err != nil {
			return nil, err
		}
		averages = append(averages, model.PoolAverage{
			ChainID:   mark.chainID,
			PoolID:    pool.Hex(),
			Average:   average,
			Count:     count,
			LastBlock: mark.lastBlock,
		})
	}
	return averages, nil
}

// restoreState loads the saved offset and rehydrates the controller with the
// persisted tracker snapshots. Skipping already-processed records is only
// sound once every pool they built up has been reinstated.
func (r *Runner) restoreState(ctx context.Context) (uint64, error) {
	if r.cfg.StateStore == nil {
		return 0, nil
	}
	state, ok, err := r.cfg.StateStore.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	for _, snap := range state.Pools {
		pool, err := ParsePoolID(snap.PoolID)
		if err != nil {
			return 0, fmt.Errorf("restore pool: %w", err)
		}
		if err := r.ctrl.Restore(pool, snap.Average, snap.Count); err != nil {
			return 0, fmt.Errorf("restore pool: %w", err)
		}
		r.marks[pool] = poolMark{chainID: snap.ChainID, lastBlock: snap.LastBlock}
	}

	r.logger.Info("resume from state",
		zap.Uint64("last_processed", state.Offset),
		zap.Int("pools", len(state.Pools)),
	)
	return state.Offset, nil
}
