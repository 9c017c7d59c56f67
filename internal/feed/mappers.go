package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"colonyfeed/internal/colony"
	"colonyfeed/internal/model"
)

// ColonyInitialisedEvents returns the colony initialisation records in log order.
func (p *Pipeline) ColonyInitialisedEvents(ctx context.Context) ([]model.ColonyInitialised, error) {
	kind := model.KindColonyInitialised
	return mapKind(ctx, p, kind, func(ctx context.Context, log types.Log) (model.ColonyInitialised, error) {
		decoded, err := p.decoder.DecodeInitialised(log)
		if err != nil {
			return model.ColonyInitialised{}, err
		}
		logTime, err := p.blockTimes.LogTime(ctx, log)
		if err != nil {
			return model.ColonyInitialised{}, err
		}
		return model.ColonyInitialised{
			Base: newBase(log, logTime, decoded.ColonyNetwork),
		}, nil
	})
}

// ColonyRoleSetEvents returns the role assignment records in log order.
func (p *Pipeline) ColonyRoleSetEvents(ctx context.Context) ([]model.ColonyRoleSet, error) {
	kind := model.KindColonyRoleSet
	return mapKind(ctx, p, kind, func(ctx context.Context, log types.Log) (model.ColonyRoleSet, error) {
		decoded, err := p.decoder.DecodeRoleSet(log)
		if err != nil {
			return model.ColonyRoleSet{}, err
		}
		role, err := colony.RoleName(decoded.Role)
		if err != nil {
			return model.ColonyRoleSet{}, err
		}
		domainID, err := colony.FormatNumber(decoded.DomainID)
		if err != nil {
			return model.ColonyRoleSet{}, fmt.Errorf("domain id: %w", err)
		}
		logTime, err := p.blockTimes.LogTime(ctx, log)
		if err != nil {
			return model.ColonyRoleSet{}, err
		}
		return model.ColonyRoleSet{
			Base:     newBase(log, logTime, decoded.User),
			Role:     role,
			DomainID: domainID,
		}, nil
	})
}

// PayoutClaimedEvents returns the payout records in log order. The block time
// and the recipient of each payout are looked up concurrently.
func (p *Pipeline) PayoutClaimedEvents(ctx context.Context) ([]model.PayoutClaimed, error) {
	kind := model.KindPayoutClaimed
	return mapKind(ctx, p, kind, func(ctx context.Context, log types.Log) (model.PayoutClaimed, error) {
		decoded, err := p.decoder.DecodePayoutClaimed(log)
		if err != nil {
			return model.PayoutClaimed{}, err
		}
		amount, err := colony.FormatNumber(decoded.Amount)
		if err != nil {
			return model.PayoutClaimed{}, fmt.Errorf("amount: %w", err)
		}
		fundingPotID, err := colony.FormatNumber(decoded.FundingPotID)
		if err != nil {
			return model.PayoutClaimed{}, fmt.Errorf("funding pot id: %w", err)
		}
		token, err := colony.FormatNumber(decoded.Token)
		if err != nil {
			return model.PayoutClaimed{}, fmt.Errorf("token: %w", err)
		}

		var (
			logTime   *time.Time
			recipient common.Address
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			logTime, err = p.blockTimes.LogTime(gctx, log)
			return err
		})
		g.Go(func() error {
			var err error
			recipient, err = p.recipients.ResolveRecipient(gctx, fundingPotID)
			return err
		})
		if err := g.Wait(); err != nil {
			return model.PayoutClaimed{}, err
		}

		return model.PayoutClaimed{
			Base:         newBase(log, logTime, recipient),
			Amount:       amount,
			FundingPotID: fundingPotID,
			Token:        token,
		}, nil
	})
}

// DomainAddedEvents returns the domain creation records in log order.
func (p *Pipeline) DomainAddedEvents(ctx context.Context) ([]model.DomainAdded, error) {
	kind := model.KindDomainAdded
	return mapKind(ctx, p, kind, func(ctx context.Context, log types.Log) (model.DomainAdded, error) {
		decoded, err := p.decoder.DecodeDomainAdded(log)
		if err != nil {
			return model.DomainAdded{}, err
		}
		domainID, err := colony.FormatNumber(decoded.DomainID)
		if err != nil {
			return model.DomainAdded{}, fmt.Errorf("domain id: %w", err)
		}
		logTime, err := p.blockTimes.LogTime(ctx, log)
		if err != nil {
			return model.DomainAdded{}, err
		}
		return model.DomainAdded{
			Base:     newBase(log, logTime, log.Address),
			DomainID: domainID,
		}, nil
	})
}

// mapKind fetches the logs of kind and builds one record per log. Every log is
// enriched in its own goroutine; the first failure fails the whole kind.
func mapKind[T model.Record](ctx context.Context, p *Pipeline, kind model.Kind, build func(context.Context, types.Log) (T, error)) ([]T, error) {
	logs, err := p.fetcher.FetchLogs(ctx, kind)
	if err != nil {
		return nil, err
	}

	records := make([]T, len(logs))
	g, gctx := errgroup.WithContext(ctx)
	for i, log := range logs {
		i, log := i, log
		g.Go(func() error {
			record, err := build(gctx, log)
			if err != nil {
				p.logger.Warn("build record failed",
					zap.String("kind", string(kind)),
					zap.Uint64("block_number", log.BlockNumber),
					zap.String("tx_hash", log.TxHash.Hex()),
					zap.Uint("log_index", log.Index),
					zap.Error(err),
				)
				return fmt.Errorf("%s log %s:%d: %w", kind, log.TxHash.Hex(), log.Index, err)
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.metrics.AddRecords(string(kind), len(records))
	return records, nil
}

func newBase(log types.Log, logTime *time.Time, user common.Address) model.Base {
	userAddress := user.Hex()
	id := userAddress
	if log.BlockHash != (common.Hash{}) {
		id = log.BlockHash.Hex()
	}
	return model.Base{
		ID:          id,
		LogTime:     logTime,
		UserAddress: userAddress,
	}
}
