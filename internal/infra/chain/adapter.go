package chain

import (
	"context"
)

// Reader is the block-level view of a node used by the health computation.
type Reader interface {
	// LatestBlockNumber returns the latest block number on the chain
	LatestBlockNumber(ctx context.Context) (uint64, error)

	// BlockTimestamp returns the Unix timestamp (seconds) of a block
	BlockTimestamp(ctx context.Context, blockNumber uint64) (uint64, error)
}
