package signal

import (
	"context"
	"fmt"

	"feeScope/internal/chain"
)

// Source supplies the current cost signal (a gas price, in wei). It is the
// capability the host injects so the controller can be driven without a live
// chain.
type Source interface {
	Read(ctx context.Context) (uint64, error)
}

// FixedSource always returns the same value.
type FixedSource struct {
	Value uint64
}

func (s FixedSource) Read(ctx context.Context) (uint64, error) {
	return s.Value, nil
}

// Chain signal modes.
const (
	ModeSuggest = "suggest"
	ModeBaseFee = "basefee"
)

// ChainSource reads the signal from a live RPC endpoint, either as the node's
// suggested gas price or as the latest block's basefee.
type ChainSource struct {
	client *chain.Client
	mode   string
}

func NewChainSource(client *chain.Client, mode string) (*ChainSource, error) {
	switch mode {
	case ModeSuggest, ModeBaseFee:
	default:
		return nil, fmt.Errorf("unknown gas source mode: %s", mode)
	}
	return &ChainSource{client: client, mode: mode}, nil
}

func (s *ChainSource) Read(ctx context.Context) (uint64, error) {
	if s.mode == ModeBaseFee {
		return s.client.LatestBaseFee(ctx)
	}
	return s.client.SuggestGasPrice(ctx)
}
