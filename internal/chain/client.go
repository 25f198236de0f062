package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps go-ethereum RPC and provides gas-signal helpers.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// GetChainID returns the chain ID.
func (c *Client) GetChainID(ctx context.Context) (*big.Int, error) {
	return c.ethClient.ChainID(ctx)
}

// SuggestGasPrice returns the node's suggested gas price in wei.
func (c *Client) SuggestGasPrice(ctx context.Context) (uint64, error) {
	price, err := c.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return 0, err
	}
	if !price.IsUint64() {
		return 0, fmt.Errorf("gas price does not fit in uint64: %s", price)
	}
	return price.Uint64(), nil
}

// LatestBaseFee returns the basefee of the latest block header in wei.
func (c *Client) LatestBaseFee(ctx context.Context) (uint64, error) {
	header, err := c.ethClient.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	if header.BaseFee == nil {
		return 0, fmt.Errorf("chain has no basefee")
	}
	if !header.BaseFee.IsUint64() {
		return 0, fmt.Errorf("basefee does not fit in uint64: %s", header.BaseFee)
	}
	return header.BaseFee.Uint64(), nil
}
