package hook

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// PoolID is the opaque 32-byte identifier of a pool.
type PoolID = common.Hash

// Config holds the fee policy constants supplied at deployment time.
type Config struct {
	// BaseFee is charged when the signal equals the tracked average.
	BaseFee uint32
	// MaxFee caps the doubled premium fee.
	MaxFee uint32
}

// Controller is the fee-adjustment state machine driven by the pool engine's
// lifecycle callbacks. It owns one MovingAverage per pool and derives the LP
// fee for each swap from the average as it stood before that swap.
//
// The host is expected to serialize the (OnBeforeSwap, swap, OnAfterSwap)
// triple per pool; the controller does not enforce that ordering. The
// internal lock only makes the pool map safe for concurrent use across
// unrelated pools.
type Controller struct {
	cfg    Config
	logger *zap.Logger

	mu    sync.RWMutex
	pools map[PoolID]*MovingAverage
}

// NewController builds a Controller with the given fee policy. Zero config
// values fall back to DefaultBaseFee and MaxLPFee.
func NewController(cfg Config, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseFee == 0 {
		cfg.BaseFee = DefaultBaseFee
	}
	if cfg.MaxFee == 0 {
		cfg.MaxFee = MaxLPFee
	}

	return &Controller{
		cfg:    cfg,
		logger: logger,
		pools:  make(map[PoolID]*MovingAverage),
	}
}

// BaseFee returns the configured base fee.
func (c *Controller) BaseFee() uint32 {
	return c.cfg.BaseFee
}

// OnInitialize seeds the pool's tracker with the first observed signal. It
// must run exactly once per pool, before any swap callback.
func (c *Controller) OnInitialize(pool PoolID, signal uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pools[pool]; ok {
		return fmt.Errorf("pool %s: %w", pool, ErrAlreadyInitialized)
	}
	c.pools[pool] = NewMovingAverage(signal)

	c.logger.Debug("pool initialized", zap.String("pool", pool.Hex()), zap.Uint64("signal", signal))
	return nil
}

// Restore reinstates a pool's tracker from a persisted snapshot. Like
// OnInitialize it must run before any swap callback for the pool; a count of
// zero denotes an uninitialized pool and is rejected.
func (c *Controller) Restore(pool PoolID, average, count uint64) error {
	if count == 0 {
		return fmt.Errorf("pool %s: restore requires count >= 1", pool)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pools[pool]; ok {
		return fmt.Errorf("pool %s: %w", pool, ErrAlreadyInitialized)
	}
	c.pools[pool] = RestoreMovingAverage(average, count)

	c.logger.Debug("pool restored", zap.String("pool", pool.Hex()), zap.Uint64("average", average), zap.Uint64("count", count))
	return nil
}

// OnBeforeSwap returns the fee to apply to the upcoming swap. It reads the
// pool's average as it stands, never including the swap's own signal, and
// mutates nothing.
func (c *Controller) OnBeforeSwap(pool PoolID, signal uint64) (uint32, error) {
	c.mu.RLock()
	tracker, ok := c.pools[pool]
	c.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("pool %s: %w", pool, ErrNotInitialized)
	}

	average, _ := tracker.Snapshot()
	fee := ComputeFee(signal, average, c.cfg.BaseFee, c.cfg.MaxFee)

	c.logger.Debug("fee decided",
		zap.String("pool", pool.Hex()),
		zap.Uint64("signal", signal),
		zap.Uint64("average", average),
		zap.Uint32("fee", fee),
	)
	return fee, nil
}

// OnAfterSwap folds the swap's observed signal into the pool's average. This
// is the only point where the statistic advances.
func (c *Controller) OnAfterSwap(pool PoolID, signal uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tracker, ok := c.pools[pool]
	if !ok {
		return fmt.Errorf("pool %s: %w", pool, ErrNotInitialized)
	}
	if err := tracker.Observe(signal); err != nil {
		return fmt.Errorf("pool %s: %w", pool, err)
	}
	return nil
}

// Average returns a read-only snapshot of the pool's tracker state.
func (c *Controller) Average(pool PoolID) (average uint64, count uint64, err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tracker, ok := c.pools[pool]
	if !ok {
		return 0, 0, fmt.Errorf("pool %s: %w", pool, ErrNotInitialized)
	}
	average, count = tracker.Snapshot()
	return average, count, nil
}
