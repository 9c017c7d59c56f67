package colony

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrFundingPotNotFound is returned when a funding pot has no payment behind it.
	ErrFundingPotNotFound = errors.New("funding pot not found")
	// ErrPaymentNotFound is returned when a payment record has no recipient.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrNotColony is returned when the network does not recognise the colony address.
	ErrNotColony = errors.New("address is not a colony")
)

// ContractCaller performs read-only contract calls.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// FundingPotAssociatedType mirrors the colony enum of what a funding pot belongs to.
type FundingPotAssociatedType uint8

const (
	FundingPotUnassigned FundingPotAssociatedType = iota
	FundingPotDomain
	FundingPotTask
	FundingPotPayment
	FundingPotExpenditure
)

func (t FundingPotAssociatedType) String() string {
	switch t {
	case FundingPotUnassigned:
		return "Unassigned"
	case FundingPotDomain:
		return "Domain"
	case FundingPotTask:
		return "Task"
	case FundingPotPayment:
		return "Payment"
	case FundingPotExpenditure:
		return "Expenditure"
	default:
		return fmt.Sprintf("FundingPotAssociatedType(%d)", uint8(t))
	}
}

// FundingPot is the result of getFundingPot.
type FundingPot struct {
	AssociatedType      FundingPotAssociatedType
	AssociatedTypeID    *big.Int
	PayoutsWeCannotMake *big.Int
}

// Payment is the result of getPayment. Field names follow the ABI tuple.
type Payment struct {
	Recipient    common.Address
	Finalized    bool
	FundingPotId *big.Int
	DomainId     *big.Int
	Skills       []*big.Int
}

// Caller reads colony state through eth_call.
type Caller struct {
	chain     ContractCaller
	address   common.Address
	colonyABI abi.ABI
}

// NewCaller binds a Caller to a colony address.
func NewCaller(chain ContractCaller, address common.Address) (*Caller, error) {
	if chain == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	colonyABI, err := ColonyABI()
	if err != nil {
		return nil, fmt.Errorf("parse colony abi: %w", err)
	}
	return &Caller{chain: chain, address: address, colonyABI: colonyABI}, nil
}

// Address returns the colony address the caller is bound to.
func (c *Caller) Address() common.Address {
	return c.address
}

// GetFundingPot loads a funding pot by id.
func (c *Caller) GetFundingPot(ctx context.Context, id *big.Int) (FundingPot, error) {
	values, err := callMethod(ctx, c.chain, c.address, c.colonyABI, "getFundingPot", id)
	if err != nil {
		return FundingPot{}, err
	}
	if len(values) != 3 {
		return FundingPot{}, fmt.Errorf("unexpected getFundingPot values: %d", len(values))
	}

	associatedType, ok := values[0].(uint8)
	if !ok {
		return FundingPot{}, fmt.Errorf("unsupported associated type %T", values[0])
	}
	associatedID, err := asBigInt(values[1])
	if err != nil {
		return FundingPot{}, fmt.Errorf("associated type id: %w", err)
	}
	payouts, err := asBigInt(values[2])
	if err != nil {
		return FundingPot{}, fmt.Errorf("payouts we cannot make: %w", err)
	}

	return FundingPot{
		AssociatedType:      FundingPotAssociatedType(associatedType),
		AssociatedTypeID:    associatedID,
		PayoutsWeCannotMake: payouts,
	}, nil
}

// GetPayment loads a payment by id.
func (c *Caller) GetPayment(ctx context.Context, id *big.Int) (Payment, error) {
	values, err := callMethod(ctx, c.chain, c.address, c.colonyABI, "getPayment", id)
	if err != nil {
		return Payment{}, err
	}
	if len(values) != 1 {
		return Payment{}, fmt.Errorf("unexpected getPayment values: %d", len(values))
	}
	return *abi.ConvertType(values[0], new(Payment)).(*Payment), nil
}

// VerifyColony checks that the network contract recognises colony.
func VerifyColony(ctx context.Context, chain ContractCaller, network, colony common.Address) error {
	networkABI, err := NetworkABI()
	if err != nil {
		return fmt.Errorf("parse network abi: %w", err)
	}
	values, err := callMethod(ctx, chain, network, networkABI, "isColony", colony)
	if err != nil {
		return err
	}
	if len(values) != 1 {
		return fmt.Errorf("unexpected isColony values: %d", len(values))
	}
	isColony, ok := values[0].(bool)
	if !ok {
		return fmt.Errorf("unsupported bool type %T", values[0])
	}
	if !isColony {
		return fmt.Errorf("%w: %s", ErrNotColony, colony.Hex())
	}
	return nil
}

func callMethod(ctx context.Context, chain ContractCaller, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := chain.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}
