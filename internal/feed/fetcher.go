package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"colonyfeed/internal/colony"
	"colonyfeed/internal/metrics"
	"colonyfeed/internal/model"
)

// Fetcher retrieves the full log history of one event kind for a colony.
type Fetcher struct {
	ledger  Ledger
	colony  common.Address
	decoder *colony.Decoder
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewFetcher builds a Fetcher for the colony address.
func NewFetcher(ledger Ledger, colonyAddress common.Address, decoder *colony.Decoder, m *metrics.Metrics, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		ledger:  ledger,
		colony:  colonyAddress,
		decoder: decoder,
		metrics: m,
		logger:  logger,
	}
}

// FetchLogs returns every log of kind emitted by the colony, genesis to latest.
// Indexed arguments are left unrestricted.
func (f *Fetcher) FetchLogs(ctx context.Context, kind model.Kind) ([]types.Log, error) {
	topic0, err := f.decoder.Topic(kind)
	if err != nil {
		return nil, err
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{f.colony},
		Topics:    [][]common.Hash{{topic0}},
	}

	start := time.Now()
	logs, err := f.ledger.FilterLogs(ctx, query)
	if err != nil {
		f.logger.Warn("filter logs failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, fmt.Errorf("filter %s logs: %w", kind, err)
	}
	latency := time.Since(start)
	f.metrics.ObserveFetch(string(kind), latency, len(logs))

	f.logger.Debug("fetch logs",
		zap.String("kind", string(kind)),
		zap.Int("logs", len(logs)),
		zap.Duration("latency", latency),
	)
	return logs, nil
}
