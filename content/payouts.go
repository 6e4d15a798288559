package content

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/balance"
	"github.com/nspcc-dev/content-contract/balance/balanceconst"
	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/content/feature"
	"github.com/nspcc-dev/content-contract/content/permission"
	"github.com/nspcc-dev/content-contract/merkle"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// Claim verification cost model.
const (
	ClaimBaseWeight    = 200_000
	ClaimPerHashWeight = 20_000
)

// ClaimWeight returns weight of the claim with the proof of given length.
func ClaimWeight(proofLen int) uint64 {
	if proofLen < 0 {
		proofLen = 0
	}
	return ClaimBaseWeight + ClaimPerHashWeight*uint64(proofLen)
}

// UpdateChannelPayoutsParams is a partial update of the payout commitment:
// nil fields keep stored values.
type UpdateChannelPayoutsParams struct {
	Commitment             *util.Uint256
	Payload                *PayloadDescriptor
	MinCashoutAllowed      *uint256.Int
	MaxCashoutAllowed      *uint256.Int
	ChannelCashoutsEnabled *bool
}

// UpdateChannelPayouts updates the payout commitment. Can be invoked only by
// the root.
//
// Produces ChannelPayoutsUpdated notification.
func UpdateChannelPayouts(ctx *chain.Context, prm UpdateChannelPayoutsParams) error {
	if !common.HasRootAccess(ctx) {
		return ErrNotRoot
	}

	c, err := Commitment(ctx)
	if err != nil {
		return err
	}

	if prm.Commitment != nil {
		c.Root = *prm.Commitment
	}
	if prm.Payload != nil {
		if err := prm.Payload.validate(); err != nil {
			return err
		}
		c.Payload = prm.Payload
	}
	if prm.MinCashoutAllowed != nil {
		c.MinCashoutAllowed = prm.MinCashoutAllowed.Clone()
	}
	if prm.MaxCashoutAllowed != nil {
		c.MaxCashoutAllowed = prm.MaxCashoutAllowed.Clone()
	}
	if prm.ChannelCashoutsEnabled != nil {
		c.ChannelCashoutsEnabled = *prm.ChannelCashoutsEnabled
	}

	if c.MinCashoutAllowed != nil && c.MaxCashoutAllowed != nil && c.MinCashoutAllowed.Gt(c.MaxCashoutAllowed) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidCashoutBounds, c.MinCashoutAllowed.ToBig(), c.MaxCashoutAllowed.ToBig())
	}

	common.SetSerialized(ctx, key([]byte{commitmentKey}), &c)

	ctx.Log("channel payouts updated", zap.String("commitment", c.Root.StringBE()))
	notifyPayoutsUpdated(ctx, prm)

	return nil
}

// Claim verifies the payment against the commitment and returns reward
// increment the channel with given claimed reward is entitled to.
//
// Checks are done in the following order: cashouts are enabled, proof is not
// longer than maxProofLen and leads to the commitment root, payment exceeds
// claimed reward, increment fits the set cashout bounds.
func Claim(c PayoutCommitment, proof merkle.Proof, payment merkle.PullPayment, claimed *uint256.Int, maxProofLen int) (*uint256.Int, error) {
	if !c.ChannelCashoutsEnabled {
		return nil, ErrCashoutsDisabled
	}

	if len(proof) > maxProofLen {
		return nil, fmt.Errorf("%w: %d hashes, limit %d", ErrInvalidProof, len(proof), maxProofLen)
	}
	if !merkle.Verify(c.Root, proof, payment) {
		return nil, ErrInvalidProof
	}

	earned := &payment.CumulativeRewardEarned
	if !earned.Gt(claimed) {
		return nil, fmt.Errorf("%w: earned %s, claimed %s", ErrZeroOrNegativeIncrement, earned.ToBig(), claimed.ToBig())
	}

	inc := new(uint256.Int).Sub(earned, claimed)

	if c.MinCashoutAllowed != nil && inc.Lt(c.MinCashoutAllowed) {
		return nil, fmt.Errorf("%w: %s < min %s", ErrAmountOutOfBounds, inc.ToBig(), c.MinCashoutAllowed.ToBig())
	}
	if c.MaxCashoutAllowed != nil && inc.Gt(c.MaxCashoutAllowed) {
		return nil, fmt.Errorf("%w: %s > max %s", ErrAmountOutOfBounds, inc.ToBig(), c.MaxCashoutAllowed.ToBig())
	}

	return inc, nil
}

// proofSource provides the claim proof limited to maxLen hashes.
type proofSource func(maxLen int) (merkle.Proof, error)

func decodedProof(p merkle.Proof) proofSource {
	return func(int) (merkle.Proof, error) { return p, nil }
}

// encodedProof decodes canonical proof encoding. Undecodable proofs are
// reported as ErrInvalidProof.
func encodedProof(b []byte) proofSource {
	return func(maxLen int) (merkle.Proof, error) {
		p, err := merkle.DecodeProof(b, maxLen)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProof, err)
		}
		return p, nil
	}
}

// DecodeClaimPayment decodes canonical payment encoding. Undecodable payments
// are reported as ErrInvalidProof.
func DecodeClaimPayment(b []byte) (merkle.PullPayment, error) {
	p, err := merkle.DecodePullPayment(b)
	if err != nil {
		return merkle.PullPayment{}, fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	return p, nil
}

// checkClaim verifies the payment of the stored channel against the active
// commitment. Cashouts are checked before the proof is obtained.
func checkClaim(ctx *chain.Context, ch *Channel, proof proofSource, payment merkle.PullPayment) (*uint256.Int, error) {
	c, err := Commitment(ctx)
	if err != nil {
		return nil, err
	}
	if !c.ChannelCashoutsEnabled {
		return nil, ErrCashoutsDisabled
	}

	l, err := GetLimits(ctx)
	if err != nil {
		return nil, err
	}

	p, err := proof(int(l.MaxMerkleProofHashes))
	if err != nil {
		return nil, err
	}

	return Claim(c, p, payment, &ch.CumulativeRewardClaimed, int(l.MaxMerkleProofHashes))
}

// verifyClaim loads the channel, checks the actor and verifies the payment.
func verifyClaim(ctx *chain.Context, a Actor, proof proofSource, payment merkle.PullPayment, perms []permission.Channel, features ...feature.Feature) (*Channel, *uint256.Int, error) {
	ch, err := GetChannel(ctx, payment.ChannelID)
	if err != nil {
		return nil, nil, err
	}

	for _, p := range perms {
		if err := ensureChannelPermission(ctx, a, &ch, p); err != nil {
			return nil, nil, err
		}
	}

	if err := ensureFeaturesActive(&ch, features...); err != nil {
		return nil, nil, err
	}

	inc, err := checkClaim(ctx, &ch, proof, payment)
	if err != nil {
		return nil, nil, err
	}

	return &ch, inc, nil
}

// VerifyEncodedClaim checks encoded claim of the channel against the active
// commitment without any changes. Returns reward increment the claim would
// pay.
func VerifyEncodedClaim(ctx *chain.Context, proof, payment []byte) (*uint256.Int, error) {
	pp, err := DecodeClaimPayment(payment)
	if err != nil {
		return nil, err
	}

	ch, err := GetChannel(ctx, pp.ChannelID)
	if err != nil {
		return nil, err
	}

	return checkClaim(ctx, &ch, encodedProof(proof), pp)
}

// applyClaim records increment of the channel reward. It is the only place
// CumulativeRewardClaimed is changed at.
func applyClaim(ctx *chain.Context, ch *Channel, inc *uint256.Int) error {
	total, err := common.AddAmounts(&ch.CumulativeRewardClaimed, inc)
	if err != nil {
		return fmt.Errorf("channel #%d reward: %w", ch.ID, err)
	}

	ch.CumulativeRewardClaimed = *total
	putChannel(ctx, ch)

	ctx.Notify(Hash, "ChannelRewardUpdated",
		common.IDItem(ch.ID),
		common.AmountItem(inc),
		common.AmountItem(total),
	)

	return nil
}

// ClaimChannelReward claims reward of the payment channel and credits the
// increment from the council budget to the channel account.
//
// Produces ChannelRewardUpdated notification.
func ClaimChannelReward(ctx *chain.Context, a Actor, proof merkle.Proof, payment merkle.PullPayment) (*uint256.Int, error) {
	return claimChannelReward(ctx, a, decodedProof(proof), payment)
}

// ClaimEncodedChannelReward is ClaimChannelReward for the canonical proof and
// payment encodings. The proof is decoded after the actor and cashouts are
// checked.
func ClaimEncodedChannelReward(ctx *chain.Context, a Actor, proof, payment []byte) (*uint256.Int, error) {
	pp, err := DecodeClaimPayment(payment)
	if err != nil {
		return nil, err
	}
	return claimChannelReward(ctx, a, encodedProof(proof), pp)
}

func claimChannelReward(ctx *chain.Context, a Actor, proof proofSource, payment merkle.PullPayment) (*uint256.Int, error) {
	ch, inc, err := verifyClaim(ctx, a, proof, payment,
		[]permission.Channel{permission.ClaimChannelReward}, feature.CreatorCashout)
	if err != nil {
		return nil, err
	}

	err = balance.MintFromBudget(ctx, balanceconst.Council, ChannelAccount(ch.ID), inc, common.ClaimTransferDetails(ch.ID))
	if err != nil {
		return nil, fmt.Errorf("credit channel #%d: %w", ch.ID, err)
	}

	if err := applyClaim(ctx, ch, inc); err != nil {
		return nil, err
	}

	ctx.Log("channel reward claimed", zap.Uint64("channel", ch.ID), zap.Stringer("amount", inc.ToBig()))

	return inc, nil
}

// ClaimAndWithdrawChannelReward claims reward of the payment channel and pays
// the increment out to the withdrawal destination of the channel directly.
// Increment of curator channels stays in the council budget.
//
// Produces ChannelRewardUpdated and ChannelRewardClaimedAndWithdrawn
// notifications.
func ClaimAndWithdrawChannelReward(ctx *chain.Context, a Actor, proof merkle.Proof, payment merkle.PullPayment) (*uint256.Int, error) {
	return claimAndWithdrawChannelReward(ctx, a, decodedProof(proof), payment)
}

// ClaimAndWithdrawEncodedChannelReward is ClaimAndWithdrawChannelReward for
// the canonical proof and payment encodings. The proof is decoded after the
// actor and cashouts are checked.
func ClaimAndWithdrawEncodedChannelReward(ctx *chain.Context, a Actor, proof, payment []byte) (*uint256.Int, error) {
	pp, err := DecodeClaimPayment(payment)
	if err != nil {
		return nil, err
	}
	return claimAndWithdrawChannelReward(ctx, a, encodedProof(proof), pp)
}

func claimAndWithdrawChannelReward(ctx *chain.Context, a Actor, proof proofSource, payment merkle.PullPayment) (*uint256.Int, error) {
	ch, inc, err := verifyClaim(ctx, a, proof, payment,
		[]permission.Channel{permission.ClaimChannelReward, permission.WithdrawFromChannelBalance},
		feature.CreatorCashout, feature.ChannelFundsTransfer)
	if err != nil {
		return nil, err
	}

	if err := ensureNoPendingTransfer(ch); err != nil {
		return nil, err
	}

	dst, err := ownerAccount(ctx, ch.Owner)
	if err != nil {
		return nil, err
	}

	if dst != nil {
		err = balance.MintFromBudget(ctx, balanceconst.Council, *dst, inc, common.WithdrawTransferDetails(ch.ID))
		if err != nil {
			return nil, fmt.Errorf("pay channel #%d reward: %w", ch.ID, err)
		}
	}

	if err := applyClaim(ctx, ch, inc); err != nil {
		return nil, err
	}

	ctx.Notify(Hash, "ChannelRewardClaimedAndWithdrawn",
		common.IDItem(ch.ID),
		common.AmountItem(inc),
		common.OptionalAccountItem(dst),
	)

	return inc, nil
}

// WithdrawFromChannelBalance moves funds from the channel account to the
// member owner controller account or, for curator channels, to the council
// budget. Channel account keeps existential deposit.
//
// Produces ChannelFundsWithdrawn notification.
func WithdrawFromChannelBalance(ctx *chain.Context, a Actor, channelID uint64, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}

	ch, err := GetChannel(ctx, channelID)
	if err != nil {
		return err
	}

	if err := ensureChannelPermission(ctx, a, &ch, permission.WithdrawFromChannelBalance); err != nil {
		return err
	}
	if err := ensureFeaturesActive(&ch, feature.ChannelFundsTransfer); err != nil {
		return err
	}
	if err := ensureNoPendingTransfer(&ch); err != nil {
		return err
	}

	dst, err := ownerAccount(ctx, ch.Owner)
	if err != nil {
		return err
	}

	var (
		acc     = ChannelAccount(channelID)
		details = common.WithdrawTransferDetails(channelID)
	)

	if dst != nil {
		err = balance.TransferX(ctx, acc, *dst, amount, details, true)
	} else {
		err = balance.BurnToBudget(ctx, balanceconst.Council, acc, amount, details, true)
	}
	if err != nil {
		return fmt.Errorf("withdraw from channel #%d: %w", channelID, err)
	}

	ctx.Notify(Hash, "ChannelFundsWithdrawn",
		common.IDItem(channelID),
		common.AmountItem(amount),
		common.OptionalAccountItem(dst),
	)

	return nil
}

func notifyPayoutsUpdated(ctx *chain.Context, prm UpdateChannelPayoutsParams) {
	var items = []stackitem.Item{stackitem.Null{}, stackitem.Null{}, stackitem.Null{}, stackitem.Null{}, stackitem.Null{}}

	if prm.Commitment != nil {
		items[0] = stackitem.NewByteArray(prm.Commitment.BytesBE())
	}
	if prm.Payload != nil {
		items[1] = stackitem.NewByteArray(prm.Payload.ContentID)
	}
	if prm.MinCashoutAllowed != nil {
		items[2] = common.AmountItem(prm.MinCashoutAllowed)
	}
	if prm.MaxCashoutAllowed != nil {
		items[3] = common.AmountItem(prm.MaxCashoutAllowed)
	}
	if prm.ChannelCashoutsEnabled != nil {
		items[4] = stackitem.NewBool(*prm.ChannelCashoutsEnabled)
	}

	ctx.Notify(Hash, "ChannelPayoutsUpdated", items...)
}
