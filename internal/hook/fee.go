package hook

// Fee values are expressed in pips (hundredths of a basis point), matching
// the convention used by pool fee tiers.
const (
	// DefaultBaseFee is the fee charged when the current signal equals the
	// tracked average (0.30%).
	DefaultBaseFee uint32 = 3000

	// MaxLPFee is the protocol ceiling for any derived fee (100%).
	MaxLPFee uint32 = 1_000_000
)

// Branch identifies which side of the average a signal landed on.
type Branch string

const (
	BranchDiscount Branch = "discount"
	BranchBase     Branch = "base"
	BranchPremium  Branch = "premium"
)

// Classify reports the fee branch for a signal against the tracked average.
// The three cases partition all values: equality is its own branch, never
// folded into either inequality.
func Classify(signal, average uint64) Branch {
	if signal == average {
		return BranchBase
	}
	if signal > average {
		return BranchDiscount
	}
	return BranchPremium
}

// ComputeFee derives the effective LP fee for a swap from the current signal
// and the tracked average. A signal above the average earns a discount
// (half the base fee), a signal below it pays a premium (double the base
// fee, clamped to maxFee), and a signal equal to it pays the base fee
// unchanged. Pure integer arithmetic; truncation on the discount division.
func ComputeFee(signal, average uint64, baseFee, maxFee uint32) uint32 {
	if signal == average {
		return baseFee
	}
	if signal > average {
		return baseFee / 2
	}

	premium := uint64(baseFee) * 2
	if premium > uint64(maxFee) {
		return maxFee
	}
	return uint32(premium)
}
