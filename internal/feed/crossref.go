package feed

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"colonyfeed/internal/colony"
	"colonyfeed/internal/metrics"
)

// RecipientResolver derives the payee of a payout from its funding pot.
type RecipientResolver struct {
	caller  *colony.Caller
	metrics *metrics.Metrics
}

func NewRecipientResolver(caller *colony.Caller, m *metrics.Metrics) *RecipientResolver {
	return &RecipientResolver{caller: caller, metrics: m}
}

// ResolveRecipient looks up the funding pot, then the payment it funds, and
// returns the payment recipient. The second read depends on the first.
func (r *RecipientResolver) ResolveRecipient(ctx context.Context, fundingPotID string) (common.Address, error) {
	id, err := colony.ParseNumber(fundingPotID)
	if err != nil {
		return common.Address{}, err
	}

	paymentID, err := r.paymentID(ctx, id, fundingPotID)
	r.metrics.ObserveLookup(metrics.LookupFundingPot, err)
	if err != nil {
		return common.Address{}, err
	}

	recipient, err := r.recipient(ctx, paymentID)
	r.metrics.ObserveLookup(metrics.LookupPayment, err)
	if err != nil {
		return common.Address{}, err
	}
	return recipient, nil
}

// paymentID returns the id of the payment funded by pot id.
func (r *RecipientResolver) paymentID(ctx context.Context, id *big.Int, fundingPotID string) (*big.Int, error) {
	pot, err := r.caller.GetFundingPot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("funding pot %s: %w", fundingPotID, err)
	}
	if pot.AssociatedType == colony.FundingPotUnassigned || pot.AssociatedTypeID == nil || pot.AssociatedTypeID.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s", colony.ErrFundingPotNotFound, fundingPotID)
	}
	if pot.AssociatedType != colony.FundingPotPayment {
		return nil, fmt.Errorf("%w: %s belongs to %s %s, not a payment",
			colony.ErrFundingPotNotFound, fundingPotID, pot.AssociatedType, pot.AssociatedTypeID)
	}
	return pot.AssociatedTypeID, nil
}

func (r *RecipientResolver) recipient(ctx context.Context, paymentID *big.Int) (common.Address, error) {
	payment, err := r.caller.GetPayment(ctx, paymentID)
	if err != nil {
		return common.Address{}, fmt.Errorf("payment %s: %w", paymentID, err)
	}
	if payment.Recipient == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s", colony.ErrPaymentNotFound, paymentID)
	}
	return payment.Recipient, nil
}
