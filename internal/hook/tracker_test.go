package hook

import (
	"errors"
	"math"
	"testing"
)

func TestNewMovingAverageSeedsFirstObservation(t *testing.T) {
	m := NewMovingAverage(25)

	average, count := m.Snapshot()
	if average != 25 || count != 1 {
		t.Fatalf("snapshot mismatch: got (%d, %d), want (25, 1)", average, count)
	}
}

func TestObserveTruncatingRecurrence(t *testing.T) {
	m := NewMovingAverage(10)

	if err := m.Observe(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if average, count := m.Snapshot(); average != 7 || count != 2 {
		t.Fatalf("after 4: got (%d, %d), want (7, 2)", average, count)
	}

	if err := m.Observe(12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if average, count := m.Snapshot(); average != 8 || count != 3 {
		t.Fatalf("after 12: got (%d, %d), want (8, 3)", average, count)
	}
}

// The tracker must match the step-by-step truncated recurrence, not the
// direct floor of the true mean: truncation compounds at every update. The
// expected values are worked out by hand for the fixed sequence.
func TestObserveMatchesIterativeRecurrence(t *testing.T) {
	steps := []struct {
		signal  uint64
		average uint64
		count   uint64
	}{
		{signal: 7, average: 10, count: 2},                // (13*1+7)/2 = 10
		{signal: 7, average: 9, count: 3},                 // (10*2+7)/3 = 27/3
		{signal: 101, average: 32, count: 4},              // (9*3+101)/4 = 128/4
		{signal: 0, average: 25, count: 5},                // (32*4+0)/5 = 128/5
		{signal: 55, average: 30, count: 6},               // (25*5+55)/6 = 180/6
		{signal: 3, average: 26, count: 7},                // (30*6+3)/7 = 183/7
		{signal: 999999999, average: 125000022, count: 8}, // (26*7+999999999)/8
		{signal: 1, average: 111111130, count: 9},         // (125000022*8+1)/9
		{signal: 42, average: 100000021, count: 10},       // (111111130*9+42)/10
	}

	m := NewMovingAverage(13)
	for _, step := range steps {
		if err := m.Observe(step.signal); err != nil {
			t.Fatalf("observe %d: %v", step.signal, err)
		}
		average, count := m.Snapshot()
		if average != step.average || count != step.count {
			t.Fatalf("after %d: got (%d, %d), want (%d, %d)",
				step.signal, average, count, step.average, step.count)
		}
	}

	// The direct floor of the true mean of the full sequence is 100000022
	// (sum 1000000228 over 10); the compounding truncation lands one below.
	if average, _ := m.Snapshot(); average == 100000022 {
		t.Fatalf("iterative truncation should diverge from the direct mean")
	}
}

func TestObserveLargeValuesDoNotOverflow(t *testing.T) {
	m := NewMovingAverage(math.MaxUint64)

	if err := m.Observe(math.MaxUint64); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	average, count := m.Snapshot()
	if average != math.MaxUint64 || count != 2 {
		t.Fatalf("got (%d, %d), want (%d, 2)", average, count, uint64(math.MaxUint64))
	}
}

func TestObserveCounterOverflow(t *testing.T) {
	m := &MovingAverage{average: 10, count: math.MaxUint64}

	err := m.Observe(10)
	if !errors.Is(err, ErrCounterOverflow) {
		t.Fatalf("expected ErrCounterOverflow, got %v", err)
	}

	// State is untouched on failure.
	average, count := m.Snapshot()
	if average != 10 || count != math.MaxUint64 {
		t.Fatalf("state changed on overflow: (%d, %d)", average, count)
	}
}
