package content

import (
	"math/big"

	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

func bigFromUint64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// ownerItem represents channel owner as [kind, id] array.
func ownerItem(o ChannelOwner) stackitem.Item {
	switch o := o.(type) {
	case OwnerMember:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.NewBigInteger(big.NewInt(ownerKindMember)),
			common.IDItem(o.MemberID),
		})
	case OwnerCuratorGroup:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.NewBigInteger(big.NewInt(ownerKindCuratorGroup)),
			common.IDItem(o.GroupID),
		})
	default:
		return stackitem.Null{}
	}
}
