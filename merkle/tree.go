package merkle

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

var (
	// ErrEmptyTree is returned when tree is built over no payments.
	ErrEmptyTree = errors.New("no leaves to build a tree from")
	// ErrIndexOutOfRange is returned when proof is requested for a missing leaf.
	ErrIndexOutOfRange = errors.New("leaf index out of range")
)

// Tree is a binary Merkle tree over the ordered list of payments. Level 0
// holds leaf hashes, the last level holds the root only.
type Tree struct {
	levels [][]util.Uint256
}

// NewTree builds the tree over given payments.
func NewTree(leaves []PullPayment) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}

	level := make([]util.Uint256, len(leaves))
	for i := range leaves {
		level[i] = LeafHash(leaves[i])
	}

	t := &Tree{levels: [][]util.Uint256{level}}
	for len(level) > 1 {
		next := make([]util.Uint256, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i]) // carried up unpaired
				break
			}
			next = append(next, nodeHash(level[i], level[i+1]))
		}
		t.levels = append(t.levels, next)
		level = next
	}

	return t, nil
}

// Root returns root hash of the tree.
func (t *Tree) Root() util.Uint256 {
	return t.levels[len(t.levels)-1][0]
}

// Len returns number of leaves.
func (t *Tree) Len() int {
	return len(t.levels[0])
}

// Depth returns number of levels above the leaves.
func (t *Tree) Depth() int {
	return len(t.levels) - 1
}

// Leaf returns hash of the i-th leaf.
func (t *Tree) Leaf(i int) (util.Uint256, error) {
	if i < 0 || i >= t.Len() {
		return util.Uint256{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, t.Len())
	}
	return t.levels[0][i], nil
}

// Proof returns authentication path of the i-th leaf.
func (t *Tree) Proof(i int) (Proof, error) {
	if i < 0 || i >= t.Len() {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, t.Len())
	}

	var p Proof
	for _, level := range t.levels[:len(t.levels)-1] {
		switch {
		case i%2 == 1:
			p = append(p, ProofElement{Hash: level[i-1], Side: Left})
		case i+1 < len(level):
			p = append(p, ProofElement{Hash: level[i+1], Side: Right})
		}
		i /= 2
	}

	return p, nil
}

// BuildRoot returns root of the tree over given payments.
func BuildRoot(leaves []PullPayment) (util.Uint256, error) {
	t, err := NewTree(leaves)
	if err != nil {
		return util.Uint256{}, err
	}
	return t.Root(), nil
}

// BuildProof returns proof of the index-th payment in the tree over given
// payments.
func BuildProof(leaves []PullPayment, index int) (Proof, error) {
	t, err := NewTree(leaves)
	if err != nil {
		return nil, err
	}
	return t.Proof(index)
}
