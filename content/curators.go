package content

import (
	"fmt"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/content/permission"
	"github.com/nspcc-dev/content-contract/workinggroup"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// ModerationPermissions maps channel privilege levels to moderation
// permissions.
type ModerationPermissions map[uint8]permission.ModerationSet

func checkModerationPermissions(p ModerationPermissions) error {
	for l, s := range p {
		if !s.IsValid() {
			return fmt.Errorf("%w: level %d: %d", ErrInvalidPermissions, l, s)
		}
	}
	return nil
}

// CreateCuratorGroup creates empty curator group. Can be invoked only by the
// lead.
//
// Produces CuratorGroupCreated notification.
func CreateCuratorGroup(ctx *chain.Context, active bool, perms ModerationPermissions) (uint64, error) {
	if err := workinggroup.CheckLead(ctx); err != nil {
		return 0, err
	}
	if err := checkModerationPermissions(perms); err != nil {
		return 0, err
	}

	g := CuratorGroup{
		ID:                 common.NextID(ctx, key([]byte{nextGroupKey})),
		Active:             active,
		PermissionsByLevel: perms,
	}

	putCuratorGroup(ctx, &g)
	ctx.Notify(Hash, "CuratorGroupCreated", common.IDItem(g.ID), stackitem.NewBool(active))

	return g.ID, nil
}

// leadGroup returns the curator group if the invocation is signed by the lead.
func leadGroup(ctx *chain.Context, groupID uint64) (CuratorGroup, error) {
	if err := workinggroup.CheckLead(ctx); err != nil {
		return CuratorGroup{}, err
	}
	return GetCuratorGroup(ctx, groupID)
}

// UpdateCuratorGroupPermissions replaces moderation permissions of the group.
// Can be invoked only by the lead.
//
// Produces CuratorGroupPermissionsUpdated notification.
func UpdateCuratorGroupPermissions(ctx *chain.Context, groupID uint64, perms ModerationPermissions) error {
	g, err := leadGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := checkModerationPermissions(perms); err != nil {
		return err
	}

	g.PermissionsByLevel = perms
	putCuratorGroup(ctx, &g)
	ctx.Notify(Hash, "CuratorGroupPermissionsUpdated", common.IDItem(groupID))

	return nil
}

// SetCuratorGroupStatus activates or deactivates the group. Can be invoked
// only by the lead.
//
// Produces CuratorGroupStatusSet notification.
func SetCuratorGroupStatus(ctx *chain.Context, groupID uint64, active bool) error {
	g, err := leadGroup(ctx, groupID)
	if err != nil {
		return err
	}

	g.Active = active
	putCuratorGroup(ctx, &g)
	ctx.Notify(Hash, "CuratorGroupStatusSet", common.IDItem(groupID), stackitem.NewBool(active))

	return nil
}

// AddCuratorToGroup adds hired curator to the group with given channel
// permissions. Can be invoked only by the lead.
//
// Produces CuratorAdded notification.
func AddCuratorToGroup(ctx *chain.Context, groupID, curatorID uint64, perms permission.ChannelSet) error {
	g, err := leadGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if !workinggroup.CuratorExists(ctx, curatorID) {
		return fmt.Errorf("%w: #%d", workinggroup.ErrCuratorNotFound, curatorID)
	}
	if _, ok := g.Curators[curatorID]; ok {
		return fmt.Errorf("%w: curator #%d, group #%d", ErrCuratorAlreadyInGroup, curatorID, groupID)
	}
	if !perms.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidPermissions, perms)
	}

	l, err := GetLimits(ctx)
	if err != nil {
		return err
	}
	if uint64(len(g.Curators)) >= uint64(l.MaxCuratorsPerGroup) {
		return fmt.Errorf("%w: limit %d", ErrTooManyCurators, l.MaxCuratorsPerGroup)
	}

	if g.Curators == nil {
		g.Curators = make(map[uint64]permission.ChannelSet)
	}
	g.Curators[curatorID] = perms
	putCuratorGroup(ctx, &g)

	ctx.Notify(Hash, "CuratorAdded", common.IDItem(groupID), common.IDItem(curatorID),
		stackitem.NewBigInteger(bigFromUint64(uint64(perms))))

	return nil
}

// RemoveCuratorFromGroup removes curator from the group. Can be invoked only
// by the lead.
//
// Produces CuratorRemoved notification.
func RemoveCuratorFromGroup(ctx *chain.Context, groupID, curatorID uint64) error {
	g, err := leadGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if _, ok := g.Curators[curatorID]; !ok {
		return fmt.Errorf("%w: curator #%d, group #%d", ErrNotCuratorGroupMember, curatorID, groupID)
	}

	delete(g.Curators, curatorID)
	putCuratorGroup(ctx, &g)

	ctx.Notify(Hash, "CuratorRemoved", common.IDItem(groupID), common.IDItem(curatorID))

	return nil
}
