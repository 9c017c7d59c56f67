package feed

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"colonyfeed/internal/colony"
	"colonyfeed/internal/model"
)

var (
	testColony  = common.HexToAddress("0x869814034d96544f3C62DE2aC22448ed79Ac8e70")
	testNetwork = common.HexToAddress("0x5346D0f80e2816FaD329F2c140c870ffc3c3E2Ef")
	testToken   = common.HexToAddress("0x0000000000000000000000000000000000000000")
)

type potFixture struct {
	associatedType colony.FundingPotAssociatedType
	associatedID   int64
}

type paymentTuple struct {
	Recipient    common.Address
	Finalized    bool
	FundingPotId *big.Int
	DomainId     *big.Int
	Skills       []*big.Int
}

// stubLedger answers the pipeline's reads from in-memory fixtures.
type stubLedger struct {
	t         *testing.T
	colonyABI abi.ABI

	mu         sync.Mutex
	logs       map[common.Hash][]types.Log
	filterErrs map[common.Hash]error
	blockTimes map[common.Hash]time.Time
	pots       map[int64]potFixture
	payments   map[int64]common.Address
	queries    []ethereum.FilterQuery
	nextBlock  int64
	headerErr  error
	callErr    error
}

func newStubLedger(t *testing.T) *stubLedger {
	t.Helper()
	colonyABI, err := colony.ColonyABI()
	require.NoError(t, err)
	return &stubLedger{
		t:          t,
		colonyABI:  colonyABI,
		logs:       make(map[common.Hash][]types.Log),
		filterErrs: make(map[common.Hash]error),
		blockTimes: make(map[common.Hash]time.Time),
		pots:       make(map[int64]potFixture),
		payments:   make(map[int64]common.Address),
	}
}

func (s *stubLedger) FilterLogs(_ context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if len(query.Topics) == 0 || len(query.Topics[0]) != 1 {
		return nil, fmt.Errorf("unexpected topics: %v", query.Topics)
	}
	topic0 := query.Topics[0][0]
	if err := s.filterErrs[topic0]; err != nil {
		return nil, err
	}
	return append([]types.Log(nil), s.logs[topic0]...), nil
}

func (s *stubLedger) HeaderByHash(_ context.Context, hash common.Hash) (*types.Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.headerErr != nil {
		return nil, s.headerErr
	}
	ts, ok := s.blockTimes[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return &types.Header{Time: uint64(ts.Unix()), Difficulty: big.NewInt(0)}, nil
}

func (s *stubLedger) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	s.mu.Lock()
	callErr := s.callErr
	s.mu.Unlock()
	if callErr != nil {
		return nil, callErr
	}
	for name, method := range s.colonyABI.Methods {
		if !bytes.HasPrefix(msg.Data, method.ID) {
			continue
		}
		args, err := method.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return nil, err
		}
		id := args[0].(*big.Int).Int64()

		s.mu.Lock()
		defer s.mu.Unlock()
		switch name {
		case "getFundingPot":
			pot := s.pots[id]
			return method.Outputs.Pack(uint8(pot.associatedType), big.NewInt(pot.associatedID), big.NewInt(0))
		case "getPayment":
			return method.Outputs.Pack(paymentTuple{
				Recipient:    s.payments[id],
				FundingPotId: big.NewInt(0),
				DomainId:     big.NewInt(1),
				Skills:       []*big.Int{},
			})
		}
	}
	return nil, fmt.Errorf("unknown selector %x", msg.Data)
}

// addLog registers a log of kind mined in a fresh block at ts. A zero ts
// leaves the log without a block hash.
func (s *stubLedger) addLog(kind model.Kind, ts time.Time, data []byte, topics ...common.Hash) types.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	event := s.colonyABI.Events[string(kind)]
	s.nextBlock++
	log := types.Log{
		Address:     testColony,
		Topics:      append([]common.Hash{event.ID}, topics...),
		Data:        data,
		BlockNumber: uint64(s.nextBlock),
		TxHash:      common.BigToHash(big.NewInt(1000 + s.nextBlock)),
		Index:       uint(len(s.logs[event.ID])),
	}
	if !ts.IsZero() {
		log.BlockHash = common.BigToHash(big.NewInt(s.nextBlock))
		s.blockTimes[log.BlockHash] = ts
	}
	s.logs[event.ID] = append(s.logs[event.ID], log)
	return log
}

func (s *stubLedger) addInitialised(ts time.Time) types.Log {
	data, err := s.colonyABI.Events["ColonyInitialised"].Inputs.NonIndexed().Pack(testNetwork, testToken)
	require.NoError(s.t, err)
	return s.addLog(model.KindColonyInitialised, ts, data)
}

func (s *stubLedger) addRoleSet(ts time.Time, user common.Address, domainID int64, role uint8) types.Log {
	data, err := s.colonyABI.Events["ColonyRoleSet"].Inputs.NonIndexed().Pack(true)
	require.NoError(s.t, err)
	return s.addLog(model.KindColonyRoleSet, ts, data,
		common.BytesToHash(user.Bytes()),
		common.BigToHash(big.NewInt(domainID)),
		common.BigToHash(big.NewInt(int64(role))),
	)
}

func (s *stubLedger) addPayout(ts time.Time, potID int64, token common.Address, amount *big.Int) types.Log {
	data, err := s.colonyABI.Events["PayoutClaimed"].Inputs.NonIndexed().Pack(token, amount)
	require.NoError(s.t, err)
	return s.addLog(model.KindPayoutClaimed, ts, data, common.BigToHash(big.NewInt(potID)))
}

func (s *stubLedger) addDomain(ts time.Time, domainID int64) types.Log {
	data, err := s.colonyABI.Events["DomainAdded"].Inputs.NonIndexed().Pack(big.NewInt(domainID))
	require.NoError(s.t, err)
	return s.addLog(model.KindDomainAdded, ts, data)
}

// fundPayment maps funding pot potID to payment paymentID paying recipient.
func (s *stubLedger) fundPayment(potID, paymentID int64, recipient common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pots[potID] = potFixture{associatedType: colony.FundingPotPayment, associatedID: paymentID}
	s.payments[paymentID] = recipient
}

func (s *stubLedger) failKind(kind model.Kind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filterErrs[s.colonyABI.Events[string(kind)].ID] = err
}

func (s *stubLedger) dropBlock(hash common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blockTimes, hash)
}
