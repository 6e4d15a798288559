package common

import (
	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

var rootKey = []byte{systemPrefix, 'r'}

// SetRoot records governance account allowed to perform privileged operations.
func SetRoot(ctx *chain.Context, acc util.Uint160) {
	ctx.Put(rootKey, acc.BytesBE())
}

// Root returns governance account set on genesis.
func Root(ctx *chain.Context) (util.Uint160, bool) {
	data := ctx.Get(rootKey)
	if data == nil {
		return util.Uint160{}, false
	}

	acc, err := util.Uint160DecodeBytesBE(data)
	if err != nil {
		return util.Uint160{}, false
	}

	return acc, true
}

// HasRootAccess returns true if invocation is signed by the governance account.
func HasRootAccess(ctx *chain.Context) bool {
	root, ok := Root(ctx)
	return ok && ctx.CheckWitness(root)
}
