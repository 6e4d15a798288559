package common

import (
	"encoding/binary"
	"math/big"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// NextID increments counter stored by the key and returns its new value.
// Identifiers start from 1.
func NextID(ctx *chain.Context, key []byte) uint64 {
	var id uint64
	if data := ctx.Get(key); len(data) == 8 {
		id = binary.LittleEndian.Uint64(data)
	}
	id++
	ctx.Put(key, binary.LittleEndian.AppendUint64(nil, id))
	return id
}

// IDBytes returns big-endian representation of the identifier used in storage
// keys. Keys of the same kind are ordered by identifier.
func IDBytes(id uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, id)
}

// IDItem returns stack item representing identifier.
func IDItem(id uint64) stackitem.Item {
	return stackitem.NewBigInteger(new(big.Int).SetUint64(id))
}
