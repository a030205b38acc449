package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"buybackScope/internal/model"
)

// Client wraps go-ethereum RPC and provides the read-only helpers the
// snapshot builder needs. It carries no request-scoped state and is safe
// for concurrent use.
type Client struct {
	endpoint  string
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// Dial connects to the RPC endpoint and probes liveness by fetching the
// current block height. The probe is retried with exponential backoff for a
// short bounded window; a probe that never succeeds yields a ConnectionError.
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, &model.ConnectionError{Endpoint: rpcURL, Err: err}
	}

	c := &Client{
		endpoint:  rpcURL,
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
	}

	probe := func() (uint64, error) {
		return c.ethClient.BlockNumber(ctx)
	}
	if _, err := backoff.Retry(ctx, probe,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(5*time.Second),
	); err != nil {
		rpcClient.Close()
		return nil, &model.ConnectionError{Endpoint: rpcURL, Err: err}
	}

	return c, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// Endpoint returns the RPC URL the client was dialed with.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ChainID returns the chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.ethClient.ChainID(ctx)
}

// LatestBlockNumber returns the latest block number.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return c.ethClient.BlockNumber(ctx)
}

// BalanceAt returns the native-asset balance held by an address.
func (c *Client) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	return c.ethClient.BalanceAt(ctx, addr, nil)
}

// CallContract performs an eth_call against current state.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	return c.ethClient.CallContract(ctx, msg, nil)
}
