package merkle

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Side tells on which side of the running hash a proof element is placed.
type Side byte

const (
	// Left means the sibling hash is the left operand.
	Left Side = iota
	// Right means the sibling hash is the right operand.
	Right
)

// String implements fmt.Stringer.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("side(%d)", byte(s))
	}
}

// maxPrealloc limits memory reserved for the proof before its elements are
// actually read.
const maxPrealloc = 64

// ErrProofTooLong is returned when decoded proof exceeds the allowed number of
// elements.
var ErrProofTooLong = errors.New("proof is too long")

// ProofElement is a sibling hash on the path from the leaf to the root.
type ProofElement struct {
	Hash util.Uint256
	Side Side
}

// Proof is an authentication path from a leaf to the root, leaf level first.
type Proof []ProofElement

// Fold recomputes the root of the tree from the leaf hash by hashing it
// together with every proof element in order.
func (p Proof) Fold(leaf util.Uint256) util.Uint256 {
	acc := leaf
	for i := range p {
		if p[i].Side == Left {
			acc = nodeHash(p[i].Hash, acc)
		} else {
			acc = nodeHash(acc, p[i].Hash)
		}
	}
	return acc
}

// Verify checks that payment is included in the tree with given root.
func Verify(root util.Uint256, proof Proof, payment PullPayment) bool {
	for i := range proof {
		if proof[i].Side != Left && proof[i].Side != Right {
			return false
		}
	}
	return proof.Fold(LeafHash(payment)).Equals(root)
}

// EncodeBinary implements io.Serializable.
func (p *Proof) EncodeBinary(w *io.BinWriter) {
	w.WriteB(EncodingVersion)
	w.WriteVarUint(uint64(len(*p)))
	for _, e := range *p {
		w.WriteB(byte(e.Side))
		w.WriteBytes(e.Hash.BytesBE())
	}
}

// DecodeBinary implements io.Serializable. It accepts proofs of any length,
// use DecodeProof to limit it.
func (p *Proof) DecodeBinary(r *io.BinReader) {
	p.decode(r, -1)
}

func (p *Proof) decode(r *io.BinReader, maxLen int) {
	version := r.ReadB()
	if r.Err != nil {
		return
	}
	if version != EncodingVersion {
		r.Err = fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
		return
	}

	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if maxLen >= 0 && n > uint64(maxLen) {
		r.Err = fmt.Errorf("%w: %d elements, limit %d", ErrProofTooLong, n, maxLen)
		return
	}

	res := make(Proof, 0, min(n, maxPrealloc))
	for i := uint64(0); i < n; i++ {
		var (
			e   ProofElement
			buf [util.Uint256Size]byte
		)

		e.Side = Side(r.ReadB())
		r.ReadBytes(buf[:])
		if r.Err != nil {
			return
		}
		if e.Side != Left && e.Side != Right {
			r.Err = fmt.Errorf("invalid side %d of element #%d", byte(e.Side), i)
			return
		}

		e.Hash = buf
		res = append(res, e)
	}

	*p = res
}

// Bytes returns canonical encoding of the proof.
func (p Proof) Bytes() []byte {
	w := io.NewBufBinWriter()
	p.EncodeBinary(w.BinWriter)
	return w.Bytes()
}

// DecodeProof decodes proof from its canonical encoding. Proofs with more than
// maxLen elements are rejected without reading them.
func DecodeProof(b []byte, maxLen int) (Proof, error) {
	var p Proof

	r := io.NewBinReaderFromBuf(b)
	p.decode(r, maxLen)
	if r.Err != nil {
		return nil, fmt.Errorf("decode merkle proof: %w", r.Err)
	}

	if len(p.Bytes()) != len(b) {
		return nil, fmt.Errorf("decode merkle proof: %w", ErrTrailingData)
	}

	return p, nil
}
