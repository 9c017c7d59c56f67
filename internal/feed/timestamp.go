package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"colonyfeed/internal/metrics"
)

// ErrBlockNotFound is returned when a log references a block the ledger does not know.
var ErrBlockNotFound = errors.New("block not found")

// HeaderReader loads block headers by hash.
type HeaderReader interface {
	HeaderByHash(ctx context.Context, hash common.Hash) (*types.Header, error)
}

// BlockTimeResolver resolves the production time of the block behind a log.
type BlockTimeResolver struct {
	headers HeaderReader
	metrics *metrics.Metrics
}

func NewBlockTimeResolver(headers HeaderReader, m *metrics.Metrics) *BlockTimeResolver {
	return &BlockTimeResolver{headers: headers, metrics: m}
}

// Resolve returns the block time of hash in UTC.
func (r *BlockTimeResolver) Resolve(ctx context.Context, hash common.Hash) (time.Time, error) {
	header, err := r.headers.HeaderByHash(ctx, hash)
	if err == nil && header == nil {
		err = ethereum.NotFound
	}
	r.metrics.ObserveLookup(metrics.LookupBlockTime, err)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return time.Time{}, fmt.Errorf("%w: %s", ErrBlockNotFound, hash.Hex())
		}
		return time.Time{}, fmt.Errorf("block header %s: %w", hash.Hex(), err)
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

// LogTime resolves the block time of log. A log without a block hash has no
// time; that is reported as nil without an error.
func (r *BlockTimeResolver) LogTime(ctx context.Context, log types.Log) (*time.Time, error) {
	if log.BlockHash == (common.Hash{}) {
		return nil, nil
	}
	ts, err := r.Resolve(ctx, log.BlockHash)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
