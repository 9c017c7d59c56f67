// Package feed builds the colony event feed: it fetches the logs of each event
// kind, decodes and enriches them concurrently, and merges the result into one
// display-ordered sequence of records.
package feed

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"colonyfeed/internal/colony"
	"colonyfeed/internal/metrics"
)

// Ledger is the read-only chain access the pipeline needs. It must be safe
// for concurrent use.
type Ledger interface {
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
	HeaderByHash(ctx context.Context, hash common.Hash) (*types.Header, error)
	colony.ContractCaller
}

// Config binds the pipeline to one colony.
type Config struct {
	ColonyAddress common.Address
}

// Pipeline produces normalized colony records. It keeps no state between calls.
type Pipeline struct {
	decoder    *colony.Decoder
	fetcher    *Fetcher
	blockTimes *BlockTimeResolver
	recipients *RecipientResolver
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// New builds a Pipeline. m may be nil.
func New(cfg Config, ledger Ledger, m *metrics.Metrics, logger *zap.Logger) (*Pipeline, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	decoder, err := colony.NewDecoder()
	if err != nil {
		return nil, err
	}
	caller, err := colony.NewCaller(ledger, cfg.ColonyAddress)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		decoder:    decoder,
		fetcher:    NewFetcher(ledger, cfg.ColonyAddress, decoder, m, logger),
		blockTimes: NewBlockTimeResolver(ledger, m),
		recipients: NewRecipientResolver(caller, m),
		metrics:    m,
		logger:     logger,
	}, nil
}
