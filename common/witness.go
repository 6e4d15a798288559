package common

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

var (
	// ErrWitnessFailed appears when the method must be called
	// by certain account but was not.
	ErrWitnessFailed = errors.New("witness check failed")
	// ErrOwnerWitnessFailed appears when the method must be called by an
	// owner of some assets but was not.
	ErrOwnerWitnessFailed = errors.New("owner witness check failed")
)

// CheckWitness checks witness of the passed account.
func CheckWitness(ctx *chain.Context, acc util.Uint160) error {
	return checkWitness(ctx, acc, ErrWitnessFailed)
}

// CheckOwnerWitness checks witness of the passed asset owner.
func CheckOwnerWitness(ctx *chain.Context, owner util.Uint160) error {
	return checkWitness(ctx, owner, ErrOwnerWitnessFailed)
}

func checkWitness(ctx *chain.Context, acc util.Uint160, e error) error {
	if !ctx.CheckWitness(acc) {
		return fmt.Errorf("%w: %s", e, acc.StringLE())
	}
	return nil
}
