package common

import (
	"fmt"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// GetSerialized reads value stored by the key into v. Returns false if there
// is no such value.
func GetSerialized(ctx *chain.Context, key []byte, v io.Serializable) (bool, error) {
	data := ctx.Get(key)
	if data == nil {
		return false, nil
	}

	r := io.NewBinReaderFromBuf(data)
	v.DecodeBinary(r)
	if r.Err != nil {
		return true, fmt.Errorf("decode value of key %x: %w", key, r.Err)
	}

	return true, nil
}

// SetSerialized serializes data and puts it into module storage.
func SetSerialized(ctx *chain.Context, key []byte, v io.Serializable) {
	w := io.NewBufBinWriter()
	v.EncodeBinary(w.BinWriter)
	ctx.Put(key, w.Bytes())
}

// StorageKey concatenates parts into storage key.
func StorageKey(prefix byte, parts ...[]byte) []byte {
	n := 1
	for i := range parts {
		n += len(parts[i])
	}

	key := make([]byte, 1, n)
	key[0] = prefix
	for i := range parts {
		key = append(key, parts[i]...)
	}

	return key
}
