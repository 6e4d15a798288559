package content

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/content-contract/content/feature"
	"github.com/nspcc-dev/content-contract/content/permission"
	"github.com/nspcc-dev/content-contract/workinggroup"
)

// Claim errors.
var (
	// ErrInvalidProof is returned when the proof doesn't lead from the payment
	// to the active commitment or can't be decoded.
	ErrInvalidProof = errors.New("invalid merkle proof")
	// ErrZeroOrNegativeIncrement is returned when the payment doesn't exceed
	// already claimed reward.
	ErrZeroOrNegativeIncrement = errors.New("cumulative reward earned doesn't exceed reward claimed")
	// ErrCashoutsDisabled is returned for claims while cashouts are disabled.
	ErrCashoutsDisabled = errors.New("channel cashouts are disabled")
	// ErrAmountOutOfBounds is returned when claimed increment is out of
	// allowed cashout bounds.
	ErrAmountOutOfBounds = errors.New("cashout amount is out of allowed bounds")
	// ErrInvalidAmount is returned for withdrawals of missing or zero amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidCashoutBounds is returned when payouts update leaves minimal
	// cashout greater than maximal one.
	ErrInvalidCashoutBounds = errors.New("min cashout allowed exceeds max cashout allowed")
)

// Permission errors.
var (
	// ErrNotChannelOwner is returned when actor doesn't act for the channel
	// owner.
	ErrNotChannelOwner = errors.New("actor is not the channel owner")
	// ErrActionPausedForChannel is matched by FeaturePausedError.
	ErrActionPausedForChannel = errors.New("action is paused for the channel")
	// ErrCuratorLacksPermission is matched by CuratorPermissionError.
	ErrCuratorLacksPermission = errors.New("curator lacks permission")
	// ErrNotCuratorGroupMember is returned when curator is not in the group.
	ErrNotCuratorGroupMember = errors.New("curator is not a member of the group")
	// ErrActorNotAuthorized is returned when invocation is not signed on
	// behalf of the actor.
	ErrActorNotAuthorized = errors.New("invocation signer can't act as the actor")
	// ErrNotLead is returned for lead-only operations.
	ErrNotLead = workinggroup.ErrNotLead
	// ErrNotRoot is returned for governance-only operations.
	ErrNotRoot = errors.New("caller is not the root")
	// ErrNotChannelCollaborator is returned when member is not a collaborator
	// of the channel.
	ErrNotChannelCollaborator = errors.New("member is not a channel collaborator")
	// ErrCollaboratorLacksPermission is returned when collaborator doesn't
	// have required permission.
	ErrCollaboratorLacksPermission = errors.New("collaborator lacks permission")
	// ErrCuratorGroupInactive is returned for curators of inactive groups.
	ErrCuratorGroupInactive = errors.New("curator group is not active")
)

// Transfer errors.
var (
	// ErrNoPendingTransfer is returned when channel has no pending transfer.
	ErrNoPendingTransfer = errors.New("channel has no pending transfer")
	// ErrWitnessMismatch is returned when transfer witness differs from the
	// pending transfer terms.
	ErrWitnessMismatch = errors.New("transfer witness doesn't match pending transfer")
	// ErrInvalidNewOwner is returned for missing or unchanged new owner.
	ErrInvalidNewOwner = errors.New("invalid new channel owner")
	// ErrTransferAlreadyPending is returned when the operation requires no
	// active channel transfer.
	ErrTransferAlreadyPending = errors.New("channel transfer is pending")
)

// Record errors.
var (
	// ErrChannelNotFound is returned for unknown channels.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrCuratorGroupNotFound is returned for unknown curator groups.
	ErrCuratorGroupNotFound = errors.New("curator group not found")
	// ErrTooManyCollaborators is returned when collaborators exceed the limit.
	ErrTooManyCollaborators = errors.New("too many channel collaborators")
	// ErrTooManyCurators is returned when group curators exceed the limit.
	ErrTooManyCurators = errors.New("too many curators in the group")
	// ErrCuratorAlreadyInGroup is returned when adding curator twice.
	ErrCuratorAlreadyInGroup = errors.New("curator is already in the group")
	// ErrInvalidPermissions is returned for unknown permissions or features.
	ErrInvalidPermissions = errors.New("invalid permissions")
	// ErrNotInitialized is returned when module state is missing.
	ErrNotInitialized = errors.New("content module is not initialized")
	// ErrInvalidLimits is returned for module limits out of supported range.
	ErrInvalidLimits = errors.New("invalid module limits")
)

// FeaturePausedError is returned when the action requires feature paused on
// the channel.
type FeaturePausedError struct {
	Feature feature.Feature
}

func (e FeaturePausedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrActionPausedForChannel, e.Feature)
}

// Is matches ErrActionPausedForChannel.
func (e FeaturePausedError) Is(target error) bool {
	return target == ErrActionPausedForChannel
}

// CuratorPermissionError is returned when curator lacks the channel permission.
type CuratorPermissionError struct {
	Permission permission.Channel
}

func (e CuratorPermissionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCuratorLacksPermission, e.Permission)
}

// Is matches ErrCuratorLacksPermission.
func (e CuratorPermissionError) Is(target error) bool {
	return target == ErrCuratorLacksPermission
}
