package common

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

var (
	// ErrAmountOverflow is returned when amount sum doesn't fit 256 bits.
	ErrAmountOverflow = errors.New("amount overflow")
	// ErrAmountUnderflow is returned when subtraction result is negative.
	ErrAmountUnderflow = errors.New("amount underflow")
)

// AddAmounts returns x+y.
func AddAmounts(x, y *uint256.Int) (*uint256.Int, error) {
	res := new(uint256.Int).Add(x, y)
	if res.Lt(x) {
		return nil, ErrAmountOverflow
	}
	return res, nil
}

// SubAmounts returns x-y.
func SubAmounts(x, y *uint256.Int) (*uint256.Int, error) {
	if x.Lt(y) {
		return nil, fmt.Errorf("%w: %s < %s", ErrAmountUnderflow, x.ToBig(), y.ToBig())
	}
	return new(uint256.Int).Sub(x, y), nil
}

// ParseAmount parses decimal amount string.
func ParseAmount(s string) (*uint256.Int, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount '%s'", s)
	}

	res, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("%w: '%s'", ErrAmountOverflow, s)
	}

	return res, nil
}
