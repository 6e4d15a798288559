package content

import (
	"encoding/binary"
	"fmt"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Hash is a script hash notifications of the module are emitted on behalf of.
var Hash = hash.Hash160([]byte("content"))

const (
	storagePrefix = 0x04

	commitmentKey      = 'p'
	limitsKey          = 'l'
	channelPrefix      = 'c'
	curatorGroupPrefix = 'g'
	nextChannelKey     = 'n'
	nextGroupKey       = 'm'
	nextTransferKey    = 't'
)

const channelAccountSeed = "content-channel"

func key(parts ...[]byte) []byte {
	return common.StorageKey(storagePrefix, parts...)
}

func channelKey(id uint64) []byte {
	return key([]byte{channelPrefix}, common.IDBytes(id))
}

func curatorGroupKey(id uint64) []byte {
	return key([]byte{curatorGroupPrefix}, common.IDBytes(id))
}

// InitPrm groups genesis parameters of the module.
type InitPrm struct {
	Limits Limits
}

// Init initializes module state: empty payout commitment with no cashout
// bounds and cashouts enabled, and the module limits.
func Init(ctx *chain.Context, prm InitPrm) error {
	if err := prm.Limits.Validate(); err != nil {
		return err
	}

	common.SetSerialized(ctx, key([]byte{commitmentKey}), &PayoutCommitment{ChannelCashoutsEnabled: true})
	common.SetSerialized(ctx, key([]byte{limitsKey}), &prm.Limits)

	ctx.Log("content module initialized",
		zap.Uint32("max proof hashes", prm.Limits.MaxMerkleProofHashes),
		zap.Uint32("max collaborators", prm.Limits.MaxCollaboratorsPerChannel),
		zap.Uint32("max curators", prm.Limits.MaxCuratorsPerGroup),
	)

	return nil
}

// Commitment returns active payout commitment.
func Commitment(ctx *chain.Context) (PayoutCommitment, error) {
	var c PayoutCommitment

	ok, err := common.GetSerialized(ctx, key([]byte{commitmentKey}), &c)
	if err != nil {
		return c, fmt.Errorf("read payout commitment: %w", err)
	}
	if !ok {
		return c, ErrNotInitialized
	}

	return c, nil
}

// GetLimits returns module limits.
func GetLimits(ctx *chain.Context) (Limits, error) {
	var l Limits

	ok, err := common.GetSerialized(ctx, key([]byte{limitsKey}), &l)
	if err != nil {
		return l, fmt.Errorf("read limits: %w", err)
	}
	if !ok {
		return l, ErrNotInitialized
	}

	return l, nil
}

// GetChannel returns channel record.
func GetChannel(ctx *chain.Context, id uint64) (Channel, error) {
	var ch Channel

	ok, err := common.GetSerialized(ctx, channelKey(id), &ch)
	if err != nil {
		return ch, fmt.Errorf("read channel #%d: %w", id, err)
	}
	if !ok {
		return ch, fmt.Errorf("%w: #%d", ErrChannelNotFound, id)
	}

	return ch, nil
}

func putChannel(ctx *chain.Context, ch *Channel) {
	common.SetSerialized(ctx, channelKey(ch.ID), ch)
}

// GetCuratorGroup returns curator group record.
func GetCuratorGroup(ctx *chain.Context, id uint64) (CuratorGroup, error) {
	var g CuratorGroup

	ok, err := common.GetSerialized(ctx, curatorGroupKey(id), &g)
	if err != nil {
		return g, fmt.Errorf("read curator group #%d: %w", id, err)
	}
	if !ok {
		return g, fmt.Errorf("%w: #%d", ErrCuratorGroupNotFound, id)
	}

	return g, nil
}

func putCuratorGroup(ctx *chain.Context, g *CuratorGroup) {
	common.SetSerialized(ctx, curatorGroupKey(g.ID), g)
}

// ChannelAccount returns ledger account holding channel funds.
func ChannelAccount(channelID uint64) util.Uint160 {
	b := binary.LittleEndian.AppendUint64([]byte(channelAccountSeed), channelID)
	return hash.Hash160(b)
}
