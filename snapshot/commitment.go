package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/merkle"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Commitment describes the Merkle tree built over the snapshot payments.
type Commitment struct {
	ID ID
	// Root is to be installed as the payout commitment.
	Root util.Uint256
	// Number of the payments.
	Payments int
	// Tree depth, it is the maximal proof length.
	Depth int
	// Sum of the cumulative rewards over all payments.
	Total uint256.Int
}

// commitmentJSON is a JSON-encoded Commitment.
type commitmentJSON struct {
	Label    string `json:"label"`
	Block    uint32 `json:"block"`
	Root     string `json:"root"`
	Payments int    `json:"payments"`
	Depth    int    `json:"depth"`
	Total    string `json:"total"`
}

func newCommitment(id ID, payments []merkle.PullPayment) (Commitment, error) {
	tree, err := merkle.NewTree(payments)
	if err != nil {
		return Commitment{}, err
	}

	c := Commitment{
		ID:       id,
		Root:     tree.Root(),
		Payments: tree.Len(),
		Depth:    tree.Depth(),
	}

	for i := range payments {
		total, err := common.AddAmounts(&c.Total, &payments[i].CumulativeRewardEarned)
		if err != nil {
			return Commitment{}, fmt.Errorf("total reward: %w", err)
		}
		c.Total = *total
	}

	return c, nil
}

// EncodeRoot returns base58 representation of the root hash.
func EncodeRoot(root util.Uint256) string {
	return base58.Encode(root.BytesBE())
}

// DecodeRoot decodes root hash from the base58 string.
func DecodeRoot(s string) (util.Uint256, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return util.Uint256{}, fmt.Errorf("decode base58: %w", err)
	}
	return util.Uint256DecodeBytesBE(b)
}

// MarshalJSON implements json.Marshaler.
func (c Commitment) MarshalJSON() ([]byte, error) {
	return json.Marshal(commitmentJSON{
		Label:    c.ID.Label,
		Block:    c.ID.Block,
		Root:     EncodeRoot(c.Root),
		Payments: c.Payments,
		Depth:    c.Depth,
		Total:    c.Total.ToBig().String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Commitment) UnmarshalJSON(data []byte) error {
	var j commitmentJSON

	err := json.Unmarshal(data, &j)
	if err != nil {
		return err
	}

	root, err := DecodeRoot(j.Root)
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}

	total, err := common.ParseAmount(j.Total)
	if err != nil {
		return fmt.Errorf("total: %w", err)
	}

	*c = Commitment{
		ID:       ID{Label: j.Label, Block: j.Block},
		Root:     root,
		Payments: j.Payments,
		Depth:    j.Depth,
		Total:    *total,
	}

	return nil
}
