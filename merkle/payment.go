package merkle

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// EncodingVersion is the version byte prefixing every encoded payment and
// proof.
const EncodingVersion = 1

// PullPaymentSize is the size of encoded PullPayment.
const PullPaymentSize = 1 + 8 + 32

var (
	// ErrUnsupportedVersion is returned when decoding data with an unknown
	// version byte.
	ErrUnsupportedVersion = errors.New("unsupported encoding version")
	// ErrTrailingData is returned when decoded data has extra bytes after the
	// encoded value.
	ErrTrailingData = errors.New("trailing data after encoded value")
)

// PullPayment is a single entry of the payout table: total reward the channel
// is entitled to as of the payout snapshot.
type PullPayment struct {
	ChannelID              uint64
	CumulativeRewardEarned uint256.Int
}

// NewPullPayment returns PullPayment for the channel with given cumulative
// reward.
func NewPullPayment(channelID uint64, earned uint64) PullPayment {
	var p = PullPayment{ChannelID: channelID}
	p.CumulativeRewardEarned.SetUint64(earned)
	return p
}

// EncodeBinary implements io.Serializable.
func (p *PullPayment) EncodeBinary(w *io.BinWriter) {
	amount := p.CumulativeRewardEarned.Bytes32()

	w.WriteB(EncodingVersion)
	w.WriteU64LE(p.ChannelID)
	w.WriteBytes(amount[:])
}

// DecodeBinary implements io.Serializable.
func (p *PullPayment) DecodeBinary(r *io.BinReader) {
	version := r.ReadB()
	if r.Err == nil && version != EncodingVersion {
		r.Err = fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
		return
	}

	p.ChannelID = r.ReadU64LE()

	var amount [32]byte
	r.ReadBytes(amount[:])
	if r.Err == nil {
		p.CumulativeRewardEarned.SetBytes(amount[:])
	}
}

// Bytes returns canonical encoding of the payment.
func (p PullPayment) Bytes() []byte {
	w := io.NewBufBinWriter()
	p.EncodeBinary(w.BinWriter)
	return w.Bytes()
}

// DecodePullPayment decodes PullPayment from its canonical encoding.
func DecodePullPayment(b []byte) (PullPayment, error) {
	var p PullPayment

	if len(b) > PullPaymentSize {
		return p, ErrTrailingData
	}

	r := io.NewBinReaderFromBuf(b)
	p.DecodeBinary(r)
	if r.Err != nil {
		return p, fmt.Errorf("decode pull payment: %w", r.Err)
	}

	return p, nil
}

// String implements fmt.Stringer.
func (p PullPayment) String() string {
	return fmt.Sprintf("channel %d earned %s", p.ChannelID, p.CumulativeRewardEarned.ToBig())
}
