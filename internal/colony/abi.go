package colony

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const colonyABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "address", "name": "colonyNetwork", "type": "address"},
      {"indexed": false, "internalType": "address", "name": "token", "type": "address"}
    ],
    "name": "ColonyInitialised",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "user", "type": "address"},
      {"indexed": true, "internalType": "uint256", "name": "domainId", "type": "uint256"},
      {"indexed": true, "internalType": "uint8", "name": "role", "type": "uint8"},
      {"indexed": false, "internalType": "bool", "name": "setTo", "type": "bool"}
    ],
    "name": "ColonyRoleSet",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "fundingPotId", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "token", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount", "type": "uint256"}
    ],
    "name": "PayoutClaimed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "domainId", "type": "uint256"}
    ],
    "name": "DomainAdded",
    "type": "event"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "_id", "type": "uint256"}],
    "name": "getFundingPot",
    "outputs": [
      {"internalType": "enum ColonyDataTypes.FundingPotAssociatedType", "name": "associatedType", "type": "uint8"},
      {"internalType": "uint256", "name": "associatedTypeId", "type": "uint256"},
      {"internalType": "uint256", "name": "payoutsWeCannotMake", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "_id", "type": "uint256"}],
    "name": "getPayment",
    "outputs": [
      {
        "components": [
          {"internalType": "address payable", "name": "recipient", "type": "address"},
          {"internalType": "bool", "name": "finalized", "type": "bool"},
          {"internalType": "uint256", "name": "fundingPotId", "type": "uint256"},
          {"internalType": "uint256", "name": "domainId", "type": "uint256"},
          {"internalType": "uint256[]", "name": "skills", "type": "uint256[]"}
        ],
        "internalType": "struct ColonyDataTypes.Payment",
        "name": "payment",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const networkABIJSON = `[
  {
    "inputs": [{"internalType": "address", "name": "_colony", "type": "address"}],
    "name": "isColony",
    "outputs": [{"internalType": "bool", "name": "addressIsColony", "type": "bool"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	colonyABI     abi.ABI
	colonyABIOnce sync.Once
	colonyABIErr  error

	networkABI     abi.ABI
	networkABIOnce sync.Once
	networkABIErr  error
)

// ColonyABI returns the parsed colony contract ABI.
func ColonyABI() (abi.ABI, error) {
	colonyABIOnce.Do(func() {
		colonyABI, colonyABIErr = abi.JSON(strings.NewReader(colonyABIJSON))
	})
	return colonyABI, colonyABIErr
}

// NetworkABI returns the parsed colony network ABI.
func NetworkABI() (abi.ABI, error) {
	networkABIOnce.Do(func() {
		networkABI, networkABIErr = abi.JSON(strings.NewReader(networkABIJSON))
	})
	return networkABI, networkABIErr
}
