package evm

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EncodeQuantity renders n as a 0x-prefixed JSON-RPC quantity.
func EncodeQuantity(n uint64) string {
	return hexutil.EncodeUint64(n)
}

// DecodeQuantity parses a 0x-prefixed hex quantity. Digits are case-insensitive and
// leading zeros are tolerated, which hexutil alone rejects.
func DecodeQuantity(s string) (uint64, error) {
	n, err := hexutil.DecodeUint64(s)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, hexutil.ErrLeadingZero) {
		return 0, err
	}

	n, perr := strconv.ParseUint(s[2:], 16, 64)
	if perr != nil {
		return 0, fmt.Errorf("%w: %v", hexutil.ErrSyntax, perr)
	}
	return n, nil
}
