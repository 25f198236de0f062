package model

// FeeDecision records the fee handed back for a single swap, together with
// the tracker snapshot it was derived from.
type FeeDecision struct {
	ChainID     uint64 `json:"chain_id,omitempty"`
	PoolID      string `json:"pool_id"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	TxHash      string `json:"tx_hash,omitempty"`
	Timestamp   uint64 `json:"timestamp,omitempty"`
	GasPrice    uint64 `json:"gas_price"`
	Average     uint64 `json:"average"`
	Count       uint64 `json:"count"`
	BaseFee     uint32 `json:"base_fee"`
	Fee         uint32 `json:"fee"`
	Branch      string `json:"branch"`
	DecidedAt   string `json:"decided_at"`
}
