package content

import (
	"fmt"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/content/feature"
	"github.com/nspcc-dev/content-contract/content/permission"
	"github.com/nspcc-dev/content-contract/membership"
	"github.com/nspcc-dev/content-contract/workinggroup"
)

// authenticate checks that the invocation is signed on behalf of the actor.
func authenticate(ctx *chain.Context, a Actor) error {
	var ok bool

	switch a := a.(type) {
	case Lead:
		ok = workinggroup.IsLead(ctx)
	case Curator:
		ok = workinggroup.IsCurator(ctx, a.CuratorID)
	case Collaborator:
		ok = membership.IsController(ctx, a.MemberID)
	case Member:
		ok = membership.IsController(ctx, a.MemberID)
	default:
		return fmt.Errorf("%w: unsupported actor %T", ErrActorNotAuthorized, a)
	}

	if !ok {
		return fmt.Errorf("%w: %s", ErrActorNotAuthorized, a)
	}

	return nil
}

// activeGroupCurator returns group permissions of the curator.
func activeGroupCurator(ctx *chain.Context, groupID, curatorID uint64) (CuratorGroup, permission.ChannelSet, error) {
	g, err := GetCuratorGroup(ctx, groupID)
	if err != nil {
		return g, 0, err
	}
	if !g.Active {
		return g, 0, fmt.Errorf("%w: #%d", ErrCuratorGroupInactive, groupID)
	}

	perms, ok := g.Curators[curatorID]
	if !ok {
		return g, 0, fmt.Errorf("%w: curator #%d, group #%d", ErrNotCuratorGroupMember, curatorID, groupID)
	}

	return g, perms, nil
}

// ensureChannelPermission checks that the invocation is signed on behalf of the
// actor allowed to perform action p on the channel.
func ensureChannelPermission(ctx *chain.Context, a Actor, ch *Channel, p permission.Channel) error {
	if err := authenticate(ctx, a); err != nil {
		return err
	}

	switch a := a.(type) {
	case Member:
		if o, ok := ch.Owner.(OwnerMember); !ok || o.MemberID != a.MemberID {
			return fmt.Errorf("%w: channel #%d, %s", ErrNotChannelOwner, ch.ID, a)
		}
	case Collaborator:
		perms, ok := ch.Collaborators[a.MemberID]
		if !ok {
			return fmt.Errorf("%w: channel #%d, member #%d", ErrNotChannelCollaborator, ch.ID, a.MemberID)
		}
		if !perms.Has(p) {
			return fmt.Errorf("%w: %s", ErrCollaboratorLacksPermission, p)
		}
	case Curator:
		if o, ok := ch.Owner.(OwnerCuratorGroup); !ok || o.GroupID != a.GroupID {
			return fmt.Errorf("%w: channel #%d, %s", ErrNotChannelOwner, ch.ID, a)
		}
		_, perms, err := activeGroupCurator(ctx, a.GroupID, a.CuratorID)
		if err != nil {
			return err
		}
		if !perms.Has(p) {
			return CuratorPermissionError{Permission: p}
		}
	case Lead:
		if _, ok := ch.Owner.(OwnerCuratorGroup); !ok {
			return fmt.Errorf("%w: channel #%d is not owned by curators", ErrNotChannelOwner, ch.ID)
		}
	}

	return nil
}

// ensureFeaturesActive checks that none of the features is paused on the
// channel.
func ensureFeaturesActive(ch *Channel, fs ...feature.Feature) error {
	for _, f := range fs {
		if ch.PausedFeatures.Has(f) {
			return FeaturePausedError{Feature: f}
		}
	}
	return nil
}

// ensureNoPendingTransfer checks that the channel is not being transferred.
func ensureNoPendingTransfer(ch *Channel) error {
	if ch.Transfer != nil {
		return fmt.Errorf("%w: channel #%d, transfer #%d", ErrTransferAlreadyPending, ch.ID, ch.Transfer.Params.TransferID)
	}
	return nil
}

// ensureModerator checks that the actor can perform moderation action m on the
// channel. Lead moderates any channel, curators moderate channels of the
// privilege levels their group is granted m for.
func ensureModerator(ctx *chain.Context, a Actor, ch *Channel, m permission.Moderation) error {
	if err := authenticate(ctx, a); err != nil {
		return err
	}

	switch a := a.(type) {
	case Lead:
		return nil
	case Curator:
		g, _, err := activeGroupCurator(ctx, a.GroupID, a.CuratorID)
		if err != nil {
			return err
		}
		if !g.PermissionsByLevel[ch.PrivilegeLevel].Has(m) {
			return fmt.Errorf("%w: %s at privilege level %d", ErrCuratorLacksPermission, m, ch.PrivilegeLevel)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s can't moderate channels", ErrActorNotAuthorized, a)
	}
}

// actsForOwner checks whether the invocation is signed on behalf of the owner:
// member controller or, for curator groups, the lead.
func actsForOwner(ctx *chain.Context, o ChannelOwner) bool {
	switch o := o.(type) {
	case OwnerMember:
		return membership.IsController(ctx, o.MemberID)
	case OwnerCuratorGroup:
		return workinggroup.IsLead(ctx)
	default:
		return false
	}
}
