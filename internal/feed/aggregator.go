package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"colonyfeed/internal/model"
)

// Events builds the full colony feed. The four event kinds are mapped
// concurrently; if any of them fails no records are returned.
func (p *Pipeline) Events(ctx context.Context) ([]model.Record, error) {
	logger := p.logger.With(zap.String("run_id", uuid.NewString()))
	start := time.Now()

	var (
		initialised []model.ColonyInitialised
		roleSets    []model.ColonyRoleSet
		payouts     []model.PayoutClaimed
		domains     []model.DomainAdded
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		initialised, err = p.ColonyInitialisedEvents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		roleSets, err = p.ColonyRoleSetEvents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		payouts, err = p.PayoutClaimedEvents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		domains, err = p.DomainAddedEvents(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		p.metrics.ObserveFeed(time.Since(start), 0, err)
		logger.Warn("feed failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	records := make([]model.Record, 0, len(initialised)+len(roleSets)+len(payouts)+len(domains))
	records = appendRecords(records, initialised)
	records = appendRecords(records, roleSets)
	records = appendRecords(records, payouts)
	records = appendRecords(records, domains)
	SortForDisplay(records)

	elapsed := time.Since(start)
	p.metrics.ObserveFeed(elapsed, len(records), nil)
	logger.Info("feed built",
		zap.Int("colony_initialised", len(initialised)),
		zap.Int("colony_role_set", len(roleSets)),
		zap.Int("payout_claimed", len(payouts)),
		zap.Int("domain_added", len(domains)),
		zap.Int("total", len(records)),
		zap.Duration("elapsed", elapsed),
	)
	return records, nil
}

func appendRecords[T model.Record](dst []model.Record, src []T) []model.Record {
	for _, record := range src {
		dst = append(dst, record)
	}
	return dst
}
