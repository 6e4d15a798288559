package content

import (
	"fmt"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/content/feature"
	"github.com/nspcc-dev/content-contract/content/permission"
	"github.com/nspcc-dev/content-contract/membership"
	"github.com/nspcc-dev/content-contract/workinggroup"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// CreateChannelParams are parameters of the new channel.
type CreateChannelParams struct {
	Collaborators Collaborators
}

// checkCollaborators checks that all collaborators are registered members with
// known permissions and their number fits the limit.
func checkCollaborators(ctx *chain.Context, c Collaborators) error {
	l, err := GetLimits(ctx)
	if err != nil {
		return err
	}

	if uint64(len(c)) > uint64(l.MaxCollaboratorsPerChannel) {
		return fmt.Errorf("%w: %d, limit %d", ErrTooManyCollaborators, len(c), l.MaxCollaboratorsPerChannel)
	}

	for id, perms := range c {
		if !membership.Exists(ctx, id) {
			return fmt.Errorf("collaborator: %w: #%d", membership.ErrMemberNotFound, id)
		}
		if !perms.IsValid() {
			return fmt.Errorf("%w: collaborator #%d: %d", ErrInvalidPermissions, id, perms)
		}
	}

	return nil
}

// canCreateFor checks whether the invocation is signed on behalf of the owner
// of the new channel: member controller, lead or a curator of the active
// group.
func canCreateFor(ctx *chain.Context, o ChannelOwner) error {
	switch o := o.(type) {
	case OwnerMember:
		if !membership.IsController(ctx, o.MemberID) {
			return fmt.Errorf("%w: %s", ErrActorNotAuthorized, o)
		}
	case OwnerCuratorGroup:
		g, err := GetCuratorGroup(ctx, o.GroupID)
		if err != nil {
			return err
		}
		if workinggroup.IsLead(ctx) {
			return nil
		}
		if !g.Active {
			return fmt.Errorf("%w: #%d", ErrCuratorGroupInactive, g.ID)
		}
		for id := range g.Curators {
			if workinggroup.IsCurator(ctx, id) {
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrActorNotAuthorized, o)
	default:
		return fmt.Errorf("%w: unsupported channel owner %T", ErrActorNotAuthorized, o)
	}
	return nil
}

// CreateChannel creates channel of the given owner. Returns identifier of the
// new channel.
//
// Produces ChannelCreated notification.
func CreateChannel(ctx *chain.Context, owner ChannelOwner, prm CreateChannelParams) (uint64, error) {
	if err := canCreateFor(ctx, owner); err != nil {
		return 0, err
	}
	if err := checkCollaborators(ctx, prm.Collaborators); err != nil {
		return 0, err
	}

	ch := Channel{
		ID:            common.NextID(ctx, key([]byte{nextChannelKey})),
		Owner:         owner,
		Collaborators: prm.Collaborators,
		CreatedAt:     ctx.BlockHeight(),
	}

	putChannel(ctx, &ch)

	ctx.Log("channel created", zap.Uint64("id", ch.ID), zap.Stringer("owner", owner))
	ctx.Notify(Hash, "ChannelCreated", common.IDItem(ch.ID), ownerItem(owner))

	return ch.ID, nil
}

// UpdateChannelCollaborators replaces channel collaborators.
//
// Produces ChannelCollaboratorsUpdated notification.
func UpdateChannelCollaborators(ctx *chain.Context, a Actor, channelID uint64, c Collaborators) error {
	ch, err := GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	if err := ensureChannelPermission(ctx, a, &ch, permission.ManageChannelCollaborators); err != nil {
		return err
	}
	if err := checkCollaborators(ctx, c); err != nil {
		return err
	}

	ch.Collaborators = c
	putChannel(ctx, &ch)

	ctx.Notify(Hash, "ChannelCollaboratorsUpdated", common.IDItem(channelID),
		stackitem.NewBigInteger(bigFromUint64(uint64(len(c)))))

	return nil
}

// UpdateChannelPrivilegeLevel sets privilege level of the channel. Can be
// invoked only by the lead.
//
// Produces ChannelPrivilegeLevelUpdated notification.
func UpdateChannelPrivilegeLevel(ctx *chain.Context, channelID uint64, level uint8) error {
	if err := workinggroup.CheckLead(ctx); err != nil {
		return err
	}

	ch, err := GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	ch.PrivilegeLevel = level
	putChannel(ctx, &ch)

	ctx.Notify(Hash, "ChannelPrivilegeLevelUpdated", common.IDItem(channelID), stackitem.NewBigInteger(bigFromUint64(uint64(level))))

	return nil
}

// DeleteChannel removes the channel record. Channel account is left as is.
//
// Produces ChannelDeleted notification.
func DeleteChannel(ctx *chain.Context, a Actor, channelID uint64) error {
	ch, err := GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	if err := ensureChannelPermission(ctx, a, &ch, permission.DeleteChannel); err != nil {
		return err
	}
	if err := ensureNoPendingTransfer(&ch); err != nil {
		return err
	}

	ctx.Delete(channelKey(channelID))

	ctx.Log("channel deleted", zap.Uint64("id", channelID))
	ctx.Notify(Hash, "ChannelDeleted", common.IDItem(channelID))

	return nil
}

// SetChannelPausedFeaturesAsModerator replaces paused features of the channel.
//
// Produces ChannelPausedFeaturesUpdated notification.
func SetChannelPausedFeaturesAsModerator(ctx *chain.Context, a Actor, channelID uint64, features feature.Set, rationale string) error {
	if !features.IsValid() {
		return fmt.Errorf("%w: features %d", ErrInvalidPermissions, features)
	}

	ch, err := GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	if err := ensureModerator(ctx, a, &ch, permission.ChangeChannelFeatureStatus); err != nil {
		return err
	}

	ch.PausedFeatures = features
	putChannel(ctx, &ch)

	ctx.Log("channel features paused", zap.Uint64("id", channelID), zap.Stringer("features", features))
	ctx.Notify(Hash, "ChannelPausedFeaturesUpdated",
		common.IDItem(channelID),
		stackitem.NewBigInteger(bigFromUint64(uint64(features))),
		stackitem.NewByteArray([]byte(rationale)),
	)

	return nil
}
