package common

import (
	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// AmountItem returns stack item representing amount. Amounts not fitting
// signed 256-bit integer are represented as big-endian byte arrays.
func AmountItem(a *uint256.Int) stackitem.Item {
	if a.BitLen() < 256 {
		return stackitem.NewBigInteger(a.ToBig())
	}
	b := a.Bytes32()
	return stackitem.NewByteArray(b[:])
}

// AccountItem returns stack item representing account.
func AccountItem(acc util.Uint160) stackitem.Item {
	return stackitem.NewByteArray(acc.BytesBE())
}

// OptionalAccountItem returns Null item for nil account.
func OptionalAccountItem(acc *util.Uint160) stackitem.Item {
	if acc == nil {
		return stackitem.Null{}
	}
	return AccountItem(*acc)
}
