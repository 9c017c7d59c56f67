package chain

import (
	"context"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps go-ethereum RPC with the read-only calls the feed needs.
// It holds no state besides the connection and is safe for concurrent use.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	return dial(ctx, rpcURL)
}

// NewClientWithHTTP creates a chain client that sends requests through httpClient.
func NewClientWithHTTP(ctx context.Context, rpcURL string, httpClient *http.Client) (*Client, error) {
	return dial(ctx, rpcURL, rpc.WithHTTPClient(httpClient))
}

func dial(ctx context.Context, rpcURL string, options ...rpc.ClientOption) (*Client, error) {
	rpcClient, err := rpc.DialOptions(ctx, rpcURL, options...)
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

// HeaderByHash returns the block header for a block hash.
// A missing block is reported as ethereum.NotFound.
func (c *Client) HeaderByHash(ctx context.Context, hash common.Hash) (*types.Header, error) {
	return c.ethClient.HeaderByHash(ctx, hash)
}

// FilterLogs runs an eth_getLogs query. A nil FromBlock starts at genesis and a
// nil ToBlock ends at the latest block.
func (c *Client) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return c.ethClient.FilterLogs(ctx, query)
}

// CallContract performs an eth_call for a contract method.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.ethClient.CallContract(ctx, msg, blockNumber)
}
