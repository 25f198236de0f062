package model

// PoolAverage is a persisted snapshot of a pool's tracker state.
type PoolAverage struct {
	ChainID   uint64 `json:"chain_id,omitempty"`
	PoolID    string `json:"pool_id"`
	Average   uint64 `json:"average"`
	Count     uint64 `json:"count"`
	LastBlock uint64 `json:"last_block,omitempty"`
}
