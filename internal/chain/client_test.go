package chain

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rpcURL = "http://127.0.0.1:8545/rpc"

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// rpcResponder answers JSON-RPC calls by method name, echoing the request id.
func rpcResponder(t *testing.T, results map[string]func(params []json.RawMessage) interface{}) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		var call rpcRequest
		if err := json.NewDecoder(req.Body).Decode(&call); err != nil {
			return nil, err
		}
		result, ok := results[call.Method]
		if !ok {
			t.Errorf("unexpected rpc method %s", call.Method)
			return httpmock.NewJsonResponse(200, map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      call.ID,
				"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
			})
		}
		return httpmock.NewJsonResponse(200, map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      call.ID,
			"result":  result(call.Params),
		})
	}
}

func newMockedClient(t *testing.T, results map[string]func(params []json.RawMessage) interface{}) *Client {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("POST", rpcURL, rpcResponder(t, results))

	client, err := NewClientWithHTTP(context.Background(), rpcURL, &http.Client{Transport: httpmock.DefaultTransport})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestClientFilterLogs(t *testing.T) {
	colony := common.HexToAddress("0x869814034d96544f3C62DE2aC22448ed79Ac8e70")
	topic0 := common.HexToHash("0xaaaa")
	want := types.Log{
		Address:     colony,
		Topics:      []common.Hash{topic0},
		Data:        []byte{0x01, 0x02},
		BlockNumber: 42,
		TxHash:      common.HexToHash("0x01"),
		BlockHash:   common.HexToHash("0x02"),
		Index:       3,
	}

	var filter map[string]interface{}
	client := newMockedClient(t, map[string]func([]json.RawMessage) interface{}{
		"eth_getLogs": func(params []json.RawMessage) interface{} {
			require.Len(t, params, 1)
			require.NoError(t, json.Unmarshal(params[0], &filter))
			return []types.Log{want}
		},
	})

	logs, err := client.FilterLogs(context.Background(), ethereum.FilterQuery{
		Addresses: []common.Address{colony},
		Topics:    [][]common.Hash{{topic0}},
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, want.BlockHash, logs[0].BlockHash)
	assert.Equal(t, want.Data, logs[0].Data)
	assert.Equal(t, uint(3), logs[0].Index)

	assert.Equal(t, "0x0", filter["fromBlock"])
	assert.Equal(t, "latest", filter["toBlock"])
}

func TestClientHeaderByHash(t *testing.T) {
	known := common.HexToHash("0x02")
	client := newMockedClient(t, map[string]func([]json.RawMessage) interface{}{
		"eth_getBlockByHash": func(params []json.RawMessage) interface{} {
			var hash common.Hash
			require.NoError(t, json.Unmarshal(params[0], &hash))
			if hash != known {
				return nil
			}
			return &types.Header{
				Number:     big.NewInt(42),
				Time:       1583064000,
				Difficulty: big.NewInt(0),
			}
		},
	})

	header, err := client.HeaderByHash(context.Background(), known)
	require.NoError(t, err)
	assert.Equal(t, uint64(1583064000), header.Time)

	_, err = client.HeaderByHash(context.Background(), common.HexToHash("0x03"))
	assert.True(t, errors.Is(err, ethereum.NotFound), "got %v", err)
}

func TestClientCallContractAndChainID(t *testing.T) {
	client := newMockedClient(t, map[string]func([]json.RawMessage) interface{}{
		"eth_call": func([]json.RawMessage) interface{} {
			return hexutil.Bytes(common.LeftPadBytes([]byte{0x01}, 32))
		},
		"eth_chainId": func([]json.RawMessage) interface{} {
			return hexutil.Uint64(1)
		},
	})

	to := common.HexToAddress("0x5346D0f80e2816FaD329F2c140c870ffc3c3E2Ef")
	out, err := client.CallContract(context.Background(), ethereum.CallMsg{To: &to, Data: []byte{0xde, 0xad}}, nil)
	require.NoError(t, err)
	assert.Equal(t, common.LeftPadBytes([]byte{0x01}, 32), out)

	chainID, err := client.GetChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), chainID.Int64())
}
