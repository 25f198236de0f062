package model

// Observation kinds in a recorded stream.
const (
	KindInitialize = "initialize"
	KindSwap       = "swap"
)

// SwapObservation is one lifecycle event in a recorded observation stream.
// For swap records, GasPrice is the signal seen before the swap executes and
// SettleGasPrice, when present, is the signal seen after it settles.
type SwapObservation struct {
	Kind           string  `json:"kind"`
	PoolID         string  `json:"pool_id"`
	ChainID        uint64  `json:"chain_id,omitempty"`
	BlockNumber    uint64  `json:"block_number,omitempty"`
	TxHash         string  `json:"tx_hash,omitempty"`
	Timestamp      uint64  `json:"timestamp,omitempty"`
	GasPrice       uint64  `json:"gas_price"`
	SettleGasPrice *uint64 `json:"settle_gas_price,omitempty"`
}
