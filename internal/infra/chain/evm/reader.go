// Package evm reads block data from Ethereum-compatible JSON-RPC nodes.
package evm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/blockpulse/internal/infra/rpc"
)

const (
	MethodBlockNumber      = "eth_blockNumber"
	MethodGetBlockByNumber = "eth_getBlockByNumber"
)

// Reader implements chain.Reader over eth_* methods.
type Reader struct {
	client rpc.Caller
	log    *slog.Logger
}

func NewReader(client rpc.Caller) *Reader {
	return &Reader{
		client: client,
		log:    slog.Default().With("component", "evm_reader"),
	}
}

func (r *Reader) LatestBlockNumber(ctx context.Context) (uint64, error) {
	result, err := r.client.Call(ctx, MethodBlockNumber, nil)
	if err != nil {
		return 0, fmt.Errorf("%s failed: %w", MethodBlockNumber, err)
	}

	return decodeField("block number", result)
}

// BlockTimestamp fetches the block header only (no transaction bodies) and decodes its timestamp.
func (r *Reader) BlockTimestamp(ctx context.Context, blockNumber uint64) (uint64, error) {
	params := []any{EncodeQuantity(blockNumber), false}
	result, err := r.client.Call(ctx, MethodGetBlockByNumber, params)
	if err != nil {
		return 0, fmt.Errorf("%s(%d) failed: %w", MethodGetBlockByNumber, blockNumber, err)
	}
	if result == nil {
		return 0, &MissingFieldError{Block: blockNumber, Field: "block"}
	}

	rawBlock, ok := result.(map[string]any)
	if !ok {
		return 0, &DecodeError{Field: "block", Value: result, Err: errors.New("not an object")}
	}

	rawTS, ok := rawBlock["timestamp"]
	if !ok || rawTS == nil {
		return 0, &MissingFieldError{Block: blockNumber, Field: "timestamp"}
	}

	ts, err := decodeField("timestamp", rawTS)
	if err != nil {
		return 0, err
	}

	r.log.Debug("block timestamp", "block", blockNumber, "timestamp", ts)
	return ts, nil
}

func decodeField(field string, v any) (uint64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, &DecodeError{Field: field, Value: v, Err: errors.New("not a string")}
	}

	n, err := DecodeQuantity(s)
	if err != nil {
		return 0, &DecodeError{Field: field, Value: s, Err: err}
	}
	return n, nil
}
