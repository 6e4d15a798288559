// Package content contains RPC wrappers for the content module.
package content

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/content"
	"github.com/nspcc-dev/content-contract/content/feature"
	"github.com/nspcc-dev/content-contract/content/permission"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	View(f chain.Method) error
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	Invoke(ctx context.Context, caller util.Uint160, method string, weight uint64, f chain.Method) (*chain.Receipt, error)
}

// ContractReader implements safe module methods.
type ContractReader struct {
	invoker Invoker
}

// Contract implements all module methods signed by the sender.
type Contract struct {
	ContractReader
	actor  Actor
	sender util.Uint160
}

// NewReader creates an instance of ContractReader using the given Invoker.
func NewReader(invoker Invoker) *ContractReader {
	return &ContractReader{invoker}
}

// New creates an instance of Contract using the given Actor. All invocations
// are signed by the sender.
func New(actor Actor, sender util.Uint160) *Contract {
	return &Contract{ContractReader{actor}, actor, sender}
}

// Sender returns account the invocations are signed by.
func (c *Contract) Sender() util.Uint160 {
	return c.sender
}

// Version returns version of the stored state.
func (c *ContractReader) Version() (uint32, error) {
	var (
		v  uint32
		ok bool
	)
	err := c.invoker.View(func(ic *chain.Context) error {
		v, ok = common.StoredVersion(ic)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, content.ErrNotInitialized
	}
	return v, nil
}

// Commitment returns active payout commitment.
func (c *ContractReader) Commitment() (content.PayoutCommitment, error) {
	var res content.PayoutCommitment
	err := c.invoker.View(func(ic *chain.Context) error {
		var err error
		res, err = content.Commitment(ic)
		return err
	})
	return res, err
}

// Limits returns module limits.
func (c *ContractReader) Limits() (content.Limits, error) {
	var res content.Limits
	err := c.invoker.View(func(ic *chain.Context) error {
		var err error
		res, err = content.GetLimits(ic)
		return err
	})
	return res, err
}

// Channel returns channel record.
func (c *ContractReader) Channel(id uint64) (content.Channel, error) {
	var res content.Channel
	err := c.invoker.View(func(ic *chain.Context) error {
		var err error
		res, err = content.GetChannel(ic, id)
		return err
	})
	return res, err
}

// CuratorGroup returns curator group record.
func (c *ContractReader) CuratorGroup(id uint64) (content.CuratorGroup, error) {
	var res content.CuratorGroup
	err := c.invoker.View(func(ic *chain.Context) error {
		var err error
		res, err = content.GetCuratorGroup(ic, id)
		return err
	})
	return res, err
}

// VerifyClaim checks encoded payment of the channel against the active
// commitment without changing the state. Returns reward increment the claim
// would pay.
func (c *ContractReader) VerifyClaim(proof, payment []byte) (*uint256.Int, error) {
	var res *uint256.Int
	err := c.invoker.View(func(ic *chain.Context) error {
		var err error
		res, err = content.VerifyEncodedClaim(ic, proof, payment)
		return err
	})
	return res, err
}

func (c *Contract) invoke(ctx context.Context, method string, weight uint64, f chain.Method) (*chain.Receipt, error) {
	return c.actor.Invoke(ctx, c.sender, method, weight, f)
}

// claimWeight estimates weight of the claim by the size of the encoded proof.
func claimWeight(proof []byte) uint64 {
	return content.ClaimWeight(len(proof) / (1 + util.Uint256Size))
}

// UpdateChannelPayouts invokes `updateChannelPayouts` method of the module.
func (c *Contract) UpdateChannelPayouts(ctx context.Context, prm content.UpdateChannelPayoutsParams) (*chain.Receipt, error) {
	return c.invoke(ctx, "updateChannelPayouts", 0, func(ic *chain.Context) error {
		return content.UpdateChannelPayouts(ic, prm)
	})
}

// ClaimChannelReward invokes `claimChannelReward` method of the module with
// encoded proof and payment.
func (c *Contract) ClaimChannelReward(ctx context.Context, a content.Actor, proof, payment []byte) (*chain.Receipt, error) {
	return c.invoke(ctx, "claimChannelReward", claimWeight(proof), func(ic *chain.Context) error {
		_, err := content.ClaimEncodedChannelReward(ic, a, proof, payment)
		return err
	})
}

// ClaimAndWithdrawChannelReward invokes `claimAndWithdrawChannelReward` method
// of the module with encoded proof and payment.
func (c *Contract) ClaimAndWithdrawChannelReward(ctx context.Context, a content.Actor, proof, payment []byte) (*chain.Receipt, error) {
	return c.invoke(ctx, "claimAndWithdrawChannelReward", claimWeight(proof), func(ic *chain.Context) error {
		_, err := content.ClaimAndWithdrawEncodedChannelReward(ic, a, proof, payment)
		return err
	})
}

// WithdrawFromChannelBalance invokes `withdrawFromChannelBalance` method of
// the module.
func (c *Contract) WithdrawFromChannelBalance(ctx context.Context, a content.Actor, channelID uint64, amount *uint256.Int) (*chain.Receipt, error) {
	return c.invoke(ctx, "withdrawFromChannelBalance", 0, func(ic *chain.Context) error {
		return content.WithdrawFromChannelBalance(ic, a, channelID, amount)
	})
}

// CreateChannel invokes `createChannel` method of the module and returns
// identifier of the new channel.
func (c *Contract) CreateChannel(ctx context.Context, owner content.ChannelOwner, prm content.CreateChannelParams) (uint64, *chain.Receipt, error) {
	var id uint64
	r, err := c.invoke(ctx, "createChannel", 0, func(ic *chain.Context) error {
		var err error
		id, err = content.CreateChannel(ic, owner, prm)
		return err
	})
	if err != nil {
		return 0, nil, err
	}
	return id, r, nil
}

// UpdateChannelCollaborators invokes `updateChannelCollaborators` method of
// the module.
func (c *Contract) UpdateChannelCollaborators(ctx context.Context, a content.Actor, channelID uint64, collaborators content.Collaborators) (*chain.Receipt, error) {
	return c.invoke(ctx, "updateChannelCollaborators", 0, func(ic *chain.Context) error {
		return content.UpdateChannelCollaborators(ic, a, channelID, collaborators)
	})
}

// UpdateChannelPrivilegeLevel invokes `updateChannelPrivilegeLevel` method of
// the module.
func (c *Contract) UpdateChannelPrivilegeLevel(ctx context.Context, channelID uint64, level uint8) (*chain.Receipt, error) {
	return c.invoke(ctx, "updateChannelPrivilegeLevel", 0, func(ic *chain.Context) error {
		return content.UpdateChannelPrivilegeLevel(ic, channelID, level)
	})
}

// DeleteChannel invokes `deleteChannel` method of the module.
func (c *Contract) DeleteChannel(ctx context.Context, a content.Actor, channelID uint64) (*chain.Receipt, error) {
	return c.invoke(ctx, "deleteChannel", 0, func(ic *chain.Context) error {
		return content.DeleteChannel(ic, a, channelID)
	})
}

// SetChannelPausedFeaturesAsModerator invokes
// `setChannelPausedFeaturesAsModerator` method of the module.
func (c *Contract) SetChannelPausedFeaturesAsModerator(ctx context.Context, a content.Actor, channelID uint64, features feature.Set, rationale string) (*chain.Receipt, error) {
	return c.invoke(ctx, "setChannelPausedFeaturesAsModerator", 0, func(ic *chain.Context) error {
		return content.SetChannelPausedFeaturesAsModerator(ic, a, channelID, features, rationale)
	})
}

// CreateCuratorGroup invokes `createCuratorGroup` method of the module and
// returns identifier of the new group.
func (c *Contract) CreateCuratorGroup(ctx context.Context, active bool, perms content.ModerationPermissions) (uint64, *chain.Receipt, error) {
	var id uint64
	r, err := c.invoke(ctx, "createCuratorGroup", 0, func(ic *chain.Context) error {
		var err error
		id, err = content.CreateCuratorGroup(ic, active, perms)
		return err
	})
	if err != nil {
		return 0, nil, err
	}
	return id, r, nil
}

// UpdateCuratorGroupPermissions invokes `updateCuratorGroupPermissions`
// method of the module.
func (c *Contract) UpdateCuratorGroupPermissions(ctx context.Context, groupID uint64, perms content.ModerationPermissions) (*chain.Receipt, error) {
	return c.invoke(ctx, "updateCuratorGroupPermissions", 0, func(ic *chain.Context) error {
		return content.UpdateCuratorGroupPermissions(ic, groupID, perms)
	})
}

// SetCuratorGroupStatus invokes `setCuratorGroupStatus` method of the module.
func (c *Contract) SetCuratorGroupStatus(ctx context.Context, groupID uint64, active bool) (*chain.Receipt, error) {
	return c.invoke(ctx, "setCuratorGroupStatus", 0, func(ic *chain.Context) error {
		return content.SetCuratorGroupStatus(ic, groupID, active)
	})
}

// AddCuratorToGroup invokes `addCuratorToGroup` method of the module.
func (c *Contract) AddCuratorToGroup(ctx context.Context, groupID, curatorID uint64, perms permission.ChannelSet) (*chain.Receipt, error) {
	return c.invoke(ctx, "addCuratorToGroup", 0, func(ic *chain.Context) error {
		return content.AddCuratorToGroup(ic, groupID, curatorID, perms)
	})
}

// RemoveCuratorFromGroup invokes `removeCuratorFromGroup` method of the
// module.
func (c *Contract) RemoveCuratorFromGroup(ctx context.Context, groupID, curatorID uint64) (*chain.Receipt, error) {
	return c.invoke(ctx, "removeCuratorFromGroup", 0, func(ic *chain.Context) error {
		return content.RemoveCuratorFromGroup(ic, groupID, curatorID)
	})
}

// InitializeChannelTransfer invokes `initializeChannelTransfer` method of the
// module and returns identifier of the transfer.
func (c *Contract) InitializeChannelTransfer(ctx context.Context, a content.Actor, channelID uint64, prm content.InitTransferParams) (uint64, *chain.Receipt, error) {
	var id uint64
	r, err := c.invoke(ctx, "initializeChannelTransfer", 0, func(ic *chain.Context) error {
		var err error
		id, err = content.InitializeChannelTransfer(ic, a, channelID, prm)
		return err
	})
	if err != nil {
		return 0, nil, err
	}
	return id, r, nil
}

// CancelChannelTransfer invokes `cancelChannelTransfer` method of the module.
func (c *Contract) CancelChannelTransfer(ctx context.Context, a content.Actor, channelID uint64) (*chain.Receipt, error) {
	return c.invoke(ctx, "cancelChannelTransfer", 0, func(ic *chain.Context) error {
		return content.CancelChannelTransfer(ic, a, channelID)
	})
}

// AcceptChannelTransfer invokes `acceptChannelTransfer` method of the module.
func (c *Contract) AcceptChannelTransfer(ctx context.Context, channelID uint64, w content.TransferWitness) (*chain.Receipt, error) {
	return c.invoke(ctx, "acceptChannelTransfer", 0, func(ic *chain.Context) error {
		return content.AcceptChannelTransfer(ic, channelID, w)
	})
}
