package content

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/balance"
	"github.com/nspcc-dev/content-contract/balance/balanceconst"
	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/content/permission"
	"github.com/nspcc-dev/content-contract/membership"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// InitTransferParams are terms of the channel transfer offered to the new
// owner.
type InitTransferParams struct {
	NewOwner         ChannelOwner
	NewCollaborators Collaborators
	Price            uint256.Int
}

func checkNewOwner(ctx *chain.Context, ch *Channel, o ChannelOwner) error {
	switch o := o.(type) {
	case OwnerMember:
		if !membership.Exists(ctx, o.MemberID) {
			return fmt.Errorf("%w: %s doesn't exist", ErrInvalidNewOwner, o)
		}
	case OwnerCuratorGroup:
		if _, err := GetCuratorGroup(ctx, o.GroupID); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidNewOwner, err)
		}
	default:
		return fmt.Errorf("%w: unsupported owner %T", ErrInvalidNewOwner, o)
	}

	if o == ch.Owner {
		return fmt.Errorf("%w: %s already owns channel #%d", ErrInvalidNewOwner, o, ch.ID)
	}

	return nil
}

// InitializeChannelTransfer offers the channel to the new owner.
// Returns identifier of the transfer the new owner must provide on accept.
//
// Produces ChannelTransferInitialized notification.
func InitializeChannelTransfer(ctx *chain.Context, a Actor, channelID uint64, prm InitTransferParams) (uint64, error) {
	ch, err := GetChannel(ctx, channelID)
	if err != nil {
		return 0, err
	}

	if err := ensureChannelPermission(ctx, a, &ch, permission.TransferChannel); err != nil {
		return 0, err
	}
	if err := ensureNoPendingTransfer(&ch); err != nil {
		return 0, err
	}
	if err := checkNewOwner(ctx, &ch, prm.NewOwner); err != nil {
		return 0, err
	}
	if err := checkCollaborators(ctx, prm.NewCollaborators); err != nil {
		return 0, err
	}

	ch.Transfer = &PendingTransfer{
		NewOwner: prm.NewOwner,
		Params: TransferParams{
			TransferID:       common.NextID(ctx, key([]byte{nextTransferKey})),
			Price:            prm.Price,
			NewCollaborators: prm.NewCollaborators,
		},
	}
	putChannel(ctx, &ch)

	ctx.Log("channel transfer initialized",
		zap.Uint64("channel", channelID),
		zap.Uint64("transfer", ch.Transfer.Params.TransferID),
		zap.Stringer("new owner", prm.NewOwner))
	ctx.Notify(Hash, "ChannelTransferInitialized",
		common.IDItem(channelID),
		common.IDItem(ch.Transfer.Params.TransferID),
		ownerItem(prm.NewOwner),
		common.AmountItem(&prm.Price),
	)

	return ch.Transfer.Params.TransferID, nil
}

// CancelChannelTransfer cancels pending transfer of the channel.
//
// Produces ChannelTransferCancelled notification.
func CancelChannelTransfer(ctx *chain.Context, a Actor, channelID uint64) error {
	ch, err := GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	if err := ensureChannelPermission(ctx, a, &ch, permission.TransferChannel); err != nil {
		return err
	}
	if ch.Transfer == nil {
		return fmt.Errorf("%w: #%d", ErrNoPendingTransfer, channelID)
	}

	ch.Transfer = nil
	putChannel(ctx, &ch)

	ctx.Notify(Hash, "ChannelTransferCancelled", common.IDItem(channelID))

	return nil
}

// AcceptChannelTransfer completes pending transfer of the channel. Must be
// signed on behalf of the new owner: member controller or, for curator groups,
// the lead. Witness must repeat the pending transfer terms. Price is paid by
// the new owner to the old one, budget of the content working group pays and
// receives for curator groups.
//
// Produces ChannelTransferAccepted notification.
func AcceptChannelTransfer(ctx *chain.Context, channelID uint64, w TransferWitness) error {
	ch, err := GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	if ch.Transfer == nil {
		return fmt.Errorf("%w: #%d", ErrNoPendingTransfer, channelID)
	}

	pending := ch.Transfer
	if !actsForOwner(ctx, pending.NewOwner) {
		return fmt.Errorf("%w: %s", ErrActorNotAuthorized, pending.NewOwner)
	}
	if !pending.Params.Equals(w) {
		return fmt.Errorf("%w: transfer #%d", ErrWitnessMismatch, pending.Params.TransferID)
	}

	if !pending.Params.Price.IsZero() {
		details := common.TransferPriceDetails(channelID, pending.Params.TransferID)
		if err := payTransferPrice(ctx, pending.NewOwner, ch.Owner, &pending.Params.Price, details); err != nil {
			return fmt.Errorf("pay for channel #%d: %w", channelID, err)
		}
	}

	oldOwner := ch.Owner
	ch.Owner = pending.NewOwner
	ch.Collaborators = pending.Params.NewCollaborators
	ch.Transfer = nil
	putChannel(ctx, &ch)

	ctx.Log("channel transferred",
		zap.Uint64("channel", channelID),
		zap.Stringer("from", oldOwner),
		zap.Stringer("to", ch.Owner))
	ctx.Notify(Hash, "ChannelTransferAccepted",
		common.IDItem(channelID),
		common.IDItem(pending.Params.TransferID),
		ownerItem(ch.Owner),
	)

	return nil
}

// ownerAccount returns ledger account of the member owner. Nil is returned for
// curator groups: they are paid through budgets.
func ownerAccount(ctx *chain.Context, o ChannelOwner) (*util.Uint160, error) {
	switch o := o.(type) {
	case OwnerMember:
		acc, err := membership.ControllerAccount(ctx, o.MemberID)
		if err != nil {
			return nil, err
		}
		return &acc, nil
	case OwnerCuratorGroup:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported channel owner %T", o)
	}
}

func payTransferPrice(ctx *chain.Context, payer, payee ChannelOwner, price *uint256.Int, details []byte) error {
	from, err := ownerAccount(ctx, payer)
	if err != nil {
		return err
	}

	to, err := ownerAccount(ctx, payee)
	if err != nil {
		return err
	}

	const budget = balanceconst.ContentWorkingGroup

	switch {
	case from != nil && to != nil:
		return balance.TransferX(ctx, *from, *to, price, details, false)
	case from != nil:
		return balance.BurnToBudget(ctx, budget, *from, price, details, false)
	case to != nil:
		return balance.MintFromBudget(ctx, budget, *to, price, details)
	default:
		return nil
	}
}
