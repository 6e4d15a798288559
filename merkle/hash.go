package merkle

import (
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const (
	leafPrefix = 0x00
	nodePrefix = 0x01
)

// LeafHash returns hash of the tree leaf holding given payment.
func LeafHash(p PullPayment) util.Uint256 {
	enc := p.Bytes()

	buf := make([]byte, 0, 1+len(enc))
	buf = append(buf, leafPrefix)
	buf = append(buf, enc...)

	return hash.Sha256(buf)
}

// nodeHash returns hash of the inner node with given children. The order of
// children matters.
func nodeHash(left, right util.Uint256) util.Uint256 {
	buf := make([]byte, 0, 1+2*util.Uint256Size)
	buf = append(buf, nodePrefix)
	buf = append(buf, left.BytesBE()...)
	buf = append(buf, right.BytesBE()...)

	return hash.Sha256(buf)
}
