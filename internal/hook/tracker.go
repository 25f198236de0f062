package hook

import (
	"errors"
	"math"
	"math/big"
)

// Tracker errors.
var (
	ErrAlreadyInitialized = errors.New("pool already initialized")
	ErrNotInitialized     = errors.New("pool not initialized")
	ErrCounterOverflow    = errors.New("observation counter overflow")
)

// MovingAverage tracks the cumulative mean of a gas-price signal. The mean is
// exact under truncating integer division applied at every step: replaying
// the same observation sequence always reproduces the same average.
type MovingAverage struct {
	average uint64
	count   uint64
}

// NewMovingAverage seeds the tracker with the first observation.
func NewMovingAverage(signal uint64) *MovingAverage {
	return &MovingAverage{average: signal, count: 1}
}

// RestoreMovingAverage reinstates a tracker from a persisted snapshot.
func RestoreMovingAverage(average, count uint64) *MovingAverage {
	return &MovingAverage{average: average, count: count}
}

// Observe folds one observation into the running mean using the incremental
// recurrence (average*count + signal) / (count+1). The product is computed
// with big.Int so it cannot overflow; the quotient is bounded by
// max(average, signal) and always fits uint64.
func (m *MovingAverage) Observe(signal uint64) error {
	if m.count == math.MaxUint64 {
		return ErrCounterOverflow
	}

	total := new(big.Int).SetUint64(m.average)
	total.Mul(total, new(big.Int).SetUint64(m.count))
	total.Add(total, new(big.Int).SetUint64(signal))
	total.Div(total, new(big.Int).SetUint64(m.count+1))

	m.average = total.Uint64()
	m.count++
	return nil
}

// Snapshot returns the current average and observation count.
func (m *MovingAverage) Snapshot() (average uint64, count uint64) {
	return m.average, m.count
}
