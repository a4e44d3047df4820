package rpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ignorebtc/internal/metrics"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
)

var ErrNoTime = errors.New("node reports no time for transaction")

// node is the subset of rpcclient.Client used here.
type node interface {
	GetMempoolEntry(txHash string) (*btcjson.GetMempoolEntryResult, error)
	GetRawTransactionVerbose(txHash *chainhash.Hash) (*btcjson.TxRawResult, error)
	GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
	GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error)
	Shutdown()
}

type Client struct {
	client node
}

func NewClient(host, user, pass string) (*Client, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         host,
		User:         user,
		Pass:         pass,
		HTTPPostMode: true,
		DisableTLS:   true,
	}

	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() {
	c.client.Shutdown()
}

// TransactionTime returns when the node first saw the transaction in its
// mempool, or the block time once it is confirmed.
func (c *Client) TransactionTime(ctx context.Context, txID string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	started := time.Now()
	entry, err := c.client.GetMempoolEntry(txID)
	metrics.ObserveRPC("get_mempool_entry", err, started)
	if err == nil && entry.Time > 0 {
		return time.Unix(entry.Time, 0).UTC(), nil
	}

	hash, err := chainhash.NewHashFromStr(txID)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid transaction hash %s: %w", txID, err)
	}

	started = time.Now()
	raw, err := c.client.GetRawTransactionVerbose(hash)
	metrics.ObserveRPC("get_raw_transaction_verbose", err, started)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get transaction %s: %w", txID, err)
	}
	if raw.Time == 0 {
		return time.Time{}, fmt.Errorf("%s: %w", txID, ErrNoTime)
	}
	return time.Unix(raw.Time, 0).UTC(), nil
}

// CoinbaseASCII returns the printable characters of the coinbase input script
// of the block at height.
func (c *Client) CoinbaseASCII(ctx context.Context, height int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	started := time.Now()
	hash, err := c.client.GetBlockHash(height)
	metrics.ObserveRPC("get_block_hash", err, started)
	if err != nil {
		return "", fmt.Errorf("failed to get block hash for height %d: %w", height, err)
	}

	started = time.Now()
	block, err := c.client.GetBlock(hash)
	metrics.ObserveRPC("get_block", err, started)
	if err != nil {
		return "", fmt.Errorf("failed to get block %s: %w", hash, err)
	}

	if len(block.Transactions) == 0 || len(block.Transactions[0].TxIn) == 0 {
		return "", fmt.Errorf("block %d has no coinbase input", height)
	}
	return PrintableASCII(block.Transactions[0].TxIn[0].SignatureScript), nil
}

// PrintableASCII keeps the bytes in the printable ASCII range.
func PrintableASCII(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c >= 0x20 && c <= 0x7e {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
