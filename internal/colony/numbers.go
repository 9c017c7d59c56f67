package colony

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// FormatNumber converts a ledger-native numeric value to its canonical base-10 string.
// Addresses and hashes are read as unsigned big-endian integers.
func FormatNumber(value interface{}) (string, error) {
	v, err := asBigInt(value)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// ParseNumber converts a canonical base-10 string back to the integer the ledger expects.
// Only the exact form FormatNumber produces is accepted.
func ParseNumber(input string) (*big.Int, error) {
	d, err := decimal.NewFromString(input)
	if err != nil {
		return nil, fmt.Errorf("parse number %q: %w", input, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("parse number %q: negative value", input)
	}
	if !d.IsInteger() {
		return nil, fmt.Errorf("parse number %q: not an integer", input)
	}
	if d.String() != input {
		return nil, fmt.Errorf("parse number %q: not in canonical form", input)
	}
	return d.BigInt(), nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("nil integer")
		}
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case common.Address:
		return new(big.Int).SetBytes(v.Bytes()), nil
	case common.Hash:
		return v.Big(), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}
