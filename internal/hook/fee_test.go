package hook

import "testing"

func TestComputeFeeBranches(t *testing.T) {
	tests := []struct {
		name    string
		signal  uint64
		average uint64
		baseFee uint32
		maxFee  uint32
		want    uint32
	}{
		{name: "above average discounts", signal: 120, average: 100, baseFee: 3000, maxFee: MaxLPFee, want: 1500},
		{name: "below average doubles", signal: 80, average: 100, baseFee: 3000, maxFee: MaxLPFee, want: 6000},
		{name: "equal keeps base", signal: 100, average: 100, baseFee: 3000, maxFee: MaxLPFee, want: 3000},
		{name: "one above average", signal: 101, average: 100, baseFee: 3000, maxFee: MaxLPFee, want: 1500},
		{name: "one below average", signal: 99, average: 100, baseFee: 3000, maxFee: MaxLPFee, want: 6000},
		{name: "odd base truncates discount", signal: 200, average: 100, baseFee: 3001, maxFee: MaxLPFee, want: 1500},
		{name: "premium clamped to max", signal: 1, average: 100, baseFee: 700_000, maxFee: MaxLPFee, want: MaxLPFee},
		{name: "premium clamped to custom max", signal: 1, average: 100, baseFee: 3000, maxFee: 5000, want: 5000},
		{name: "premium at exact max passes", signal: 1, average: 100, baseFee: 500_000, maxFee: MaxLPFee, want: 1_000_000},
		{name: "zero signal below average", signal: 0, average: 5, baseFee: 3000, maxFee: MaxLPFee, want: 6000},
		{name: "zero average zero signal", signal: 0, average: 0, baseFee: 3000, maxFee: MaxLPFee, want: 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFee(tt.signal, tt.average, tt.baseFee, tt.maxFee)
			if got != tt.want {
				t.Fatalf("ComputeFee(%d, %d, %d, %d) = %d, want %d",
					tt.signal, tt.average, tt.baseFee, tt.maxFee, got, tt.want)
			}
		})
	}
}

// Sweeping signals across the average must yield a non-increasing fee and hit
// each branch exactly once per region: premium below, base at, discount above.
func TestComputeFeePartitionAroundAverage(t *testing.T) {
	const average = 50
	const baseFee = 3000

	prev := uint32(0)
	for signal := uint64(45); signal <= 55; signal++ {
		fee := ComputeFee(signal, average, baseFee, MaxLPFee)

		switch {
		case signal < average:
			if fee != 2*baseFee {
				t.Fatalf("signal %d: got %d, want %d", signal, fee, 2*baseFee)
			}
		case signal == average:
			if fee != baseFee {
				t.Fatalf("signal %d: got %d, want %d", signal, fee, baseFee)
			}
		default:
			if fee != baseFee/2 {
				t.Fatalf("signal %d: got %d, want %d", signal, fee, baseFee/2)
			}
		}

		if prev != 0 && fee > prev {
			t.Fatalf("fee increased from %d to %d at signal %d", prev, fee, signal)
		}
		prev = fee
	}
}

func TestClassify(t *testing.T) {
	if got := Classify(10, 10); got != BranchBase {
		t.Fatalf("equal: got %q", got)
	}
	if got := Classify(11, 10); got != BranchDiscount {
		t.Fatalf("above: got %q", got)
	}
	if got := Classify(9, 10); got != BranchPremium {
		t.Fatalf("below: got %q", got)
	}
}
