package colony

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"colonyfeed/internal/model"
)

// ErrSignatureMismatch is returned when a log does not match the event it is decoded as.
var ErrSignatureMismatch = errors.New("log does not match event signature")

// InitialisedLog is the decoded ColonyInitialised payload.
type InitialisedLog struct {
	ColonyNetwork common.Address
	Token         common.Address
}

// RoleSetLog is the decoded ColonyRoleSet payload.
type RoleSetLog struct {
	User     common.Address
	DomainID *big.Int
	Role     uint8
	SetTo    bool
}

// PayoutClaimedLog is the decoded PayoutClaimed payload.
type PayoutClaimedLog struct {
	FundingPotID *big.Int
	Token        common.Address
	Amount       *big.Int
}

// DomainAddedLog is the decoded DomainAdded payload.
type DomainAddedLog struct {
	DomainID *big.Int
}

// Decoder decodes raw colony logs into ledger-native values.
type Decoder struct {
	colonyABI abi.ABI
}

// NewDecoder builds a colony log decoder.
func NewDecoder() (*Decoder, error) {
	colonyABI, err := ColonyABI()
	if err != nil {
		return nil, fmt.Errorf("parse colony abi: %w", err)
	}
	return &Decoder{colonyABI: colonyABI}, nil
}

// Topic returns the topic0 signature hash for an event kind.
func (d *Decoder) Topic(kind model.Kind) (common.Hash, error) {
	event, ok := d.colonyABI.Events[string(kind)]
	if !ok {
		return common.Hash{}, fmt.Errorf("unsupported event kind: %s", kind)
	}
	return event.ID, nil
}

// DecodeInitialised decodes a ColonyInitialised log.
func (d *Decoder) DecodeInitialised(log types.Log) (InitialisedLog, error) {
	event := d.colonyABI.Events[string(model.KindColonyInitialised)]
	if err := checkSignature(event, log); err != nil {
		return InitialisedLog{}, err
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return InitialisedLog{}, err
	}
	if len(values) != 2 {
		return InitialisedLog{}, fmt.Errorf("unexpected %s values: %d", event.Name, len(values))
	}

	network, err := asAddress(values[0])
	if err != nil {
		return InitialisedLog{}, err
	}
	token, err := asAddress(values[1])
	if err != nil {
		return InitialisedLog{}, err
	}

	return InitialisedLog{ColonyNetwork: network, Token: token}, nil
}

// DecodeRoleSet decodes a ColonyRoleSet log.
func (d *Decoder) DecodeRoleSet(log types.Log) (RoleSetLog, error) {
	event := d.colonyABI.Events[string(model.KindColonyRoleSet)]
	if err := checkSignature(event, log); err != nil {
		return RoleSetLog{}, err
	}

	var indexed struct {
		User     common.Address
		DomainId *big.Int
		Role     uint8
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), log.Topics[1:]); err != nil {
		return RoleSetLog{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return RoleSetLog{}, err
	}
	if len(values) != 1 {
		return RoleSetLog{}, fmt.Errorf("unexpected %s values: %d", event.Name, len(values))
	}
	setTo, ok := values[0].(bool)
	if !ok {
		return RoleSetLog{}, fmt.Errorf("unsupported bool type %T", values[0])
	}

	return RoleSetLog{
		User:     indexed.User,
		DomainID: indexed.DomainId,
		Role:     indexed.Role,
		SetTo:    setTo,
	}, nil
}

// DecodePayoutClaimed decodes a PayoutClaimed log.
func (d *Decoder) DecodePayoutClaimed(log types.Log) (PayoutClaimedLog, error) {
	event := d.colonyABI.Events[string(model.KindPayoutClaimed)]
	if err := checkSignature(event, log); err != nil {
		return PayoutClaimedLog{}, err
	}

	var indexed struct {
		FundingPotId *big.Int
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), log.Topics[1:]); err != nil {
		return PayoutClaimedLog{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return PayoutClaimedLog{}, err
	}
	if len(values) != 2 {
		return PayoutClaimedLog{}, fmt.Errorf("unexpected %s values: %d", event.Name, len(values))
	}

	token, err := asAddress(values[0])
	if err != nil {
		return PayoutClaimedLog{}, err
	}
	amount, err := asBigInt(values[1])
	if err != nil {
		return PayoutClaimedLog{}, err
	}

	return PayoutClaimedLog{
		FundingPotID: indexed.FundingPotId,
		Token:        token,
		Amount:       amount,
	}, nil
}

// DecodeDomainAdded decodes a DomainAdded log.
func (d *Decoder) DecodeDomainAdded(log types.Log) (DomainAddedLog, error) {
	event := d.colonyABI.Events[string(model.KindDomainAdded)]
	if err := checkSignature(event, log); err != nil {
		return DomainAddedLog{}, err
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return DomainAddedLog{}, err
	}
	if len(values) != 1 {
		return DomainAddedLog{}, fmt.Errorf("unexpected %s values: %d", event.Name, len(values))
	}
	domainID, err := asBigInt(values[0])
	if err != nil {
		return DomainAddedLog{}, err
	}

	return DomainAddedLog{DomainID: domainID}, nil
}

func checkSignature(event abi.Event, log types.Log) error {
	if len(log.Topics) == 0 {
		return fmt.Errorf("%w: missing topics", ErrSignatureMismatch)
	}
	if log.Topics[0] != event.ID {
		return fmt.Errorf("%w: topic0 %s is not %s", ErrSignatureMismatch, log.Topics[0].Hex(), event.Name)
	}
	indexedCount := len(indexedArguments(event.Inputs))
	if len(log.Topics) != indexedCount+1 {
		return fmt.Errorf("%w: expected %d topics, got %d", ErrSignatureMismatch, indexedCount+1, len(log.Topics))
	}
	return nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

func unpackNonIndexed(event abi.Event, data []byte) ([]interface{}, error) {
	values, err := event.Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %v", ErrSignatureMismatch, event.Name, err)
	}
	return values, nil
}
