package content

import (
	"errors"
	"fmt"
	"sort"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/content/feature"
	"github.com/nspcc-dev/content-contract/content/permission"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// maxMapSize limits decoded collaborator and curator maps. Limits can't
// exceed it.
const maxMapSize = 1024

// maxProofHashes bounds MaxMerkleProofHashes: deeper trees can't be indexed.
const maxProofHashes = 64

// MaxPayloadContentIDLength limits identifier of the payout payload.
const MaxPayloadContentIDLength = 128

// ChannelOwner is either OwnerMember or OwnerCuratorGroup.
type ChannelOwner interface {
	fmt.Stringer
	isChannelOwner()
}

// OwnerMember is a channel owned by the member.
type OwnerMember struct {
	MemberID uint64
}

// OwnerCuratorGroup is a channel owned by the curator group.
type OwnerCuratorGroup struct {
	GroupID uint64
}

func (OwnerMember) isChannelOwner()       {}
func (OwnerCuratorGroup) isChannelOwner() {}

func (x OwnerMember) String() string       { return fmt.Sprintf("member #%d", x.MemberID) }
func (x OwnerCuratorGroup) String() string { return fmt.Sprintf("curator group #%d", x.GroupID) }

const (
	ownerKindMember       = 1
	ownerKindCuratorGroup = 2
)

func encodeOwner(w *io.BinWriter, o ChannelOwner) {
	switch o := o.(type) {
	case OwnerMember:
		w.WriteB(ownerKindMember)
		w.WriteU64LE(o.MemberID)
	case OwnerCuratorGroup:
		w.WriteB(ownerKindCuratorGroup)
		w.WriteU64LE(o.GroupID)
	default:
		w.Err = fmt.Errorf("unsupported channel owner %T", o)
	}
}

func decodeOwner(r *io.BinReader) ChannelOwner {
	kind := r.ReadB()
	id := r.ReadU64LE()
	if r.Err != nil {
		return nil
	}

	switch kind {
	case ownerKindMember:
		return OwnerMember{MemberID: id}
	case ownerKindCuratorGroup:
		return OwnerCuratorGroup{GroupID: id}
	default:
		r.Err = fmt.Errorf("unknown channel owner kind %d", kind)
		return nil
	}
}

// Collaborators maps member identifiers to their permissions on the channel.
type Collaborators map[uint64]permission.ChannelSet

func encodeChannelPermissions(w *io.BinWriter, m map[uint64]permission.ChannelSet) {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	w.WriteVarUint(uint64(len(keys)))
	for _, k := range keys {
		w.WriteU64LE(k)
		w.WriteU32LE(uint32(m[k]))
	}
}

func decodeChannelPermissions(r *io.BinReader) map[uint64]permission.ChannelSet {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n > maxMapSize {
		r.Err = fmt.Errorf("too many map entries: %d", n)
		return nil
	}

	if n == 0 {
		return nil
	}

	m := make(map[uint64]permission.ChannelSet, n)
	for i := uint64(0); i < n; i++ {
		k := r.ReadU64LE()
		m[k] = permission.ChannelSet(r.ReadU32LE())
	}

	return m
}

func encodeAmount(w *io.BinWriter, a *uint256.Int) {
	b := a.Bytes32()
	w.WriteBytes(b[:])
}

func decodeAmount(r *io.BinReader, a *uint256.Int) {
	var b [32]byte
	r.ReadBytes(b[:])
	a.SetBytes(b[:])
}

func encodeOptionalAmount(w *io.BinWriter, a *uint256.Int) {
	w.WriteBool(a != nil)
	if a != nil {
		encodeAmount(w, a)
	}
}

func decodeOptionalAmount(r *io.BinReader) *uint256.Int {
	if !r.ReadBool() {
		return nil
	}
	a := new(uint256.Int)
	decodeAmount(r, a)
	return a
}

// TransferParams are terms of the channel transfer.
type TransferParams struct {
	TransferID       uint64
	Price            uint256.Int
	NewCollaborators Collaborators
}

// TransferWitness is the terms of the pending transfer as seen by the new
// owner. It must match pending transfer terms exactly.
type TransferWitness = TransferParams

// PendingTransfer describes channel transfer waiting for acceptance.
type PendingTransfer struct {
	NewOwner ChannelOwner
	Params   TransferParams
}

// Equals checks whether the terms are the same.
func (p TransferParams) Equals(other TransferParams) bool {
	if p.TransferID != other.TransferID || !p.Price.Eq(&other.Price) || len(p.NewCollaborators) != len(other.NewCollaborators) {
		return false
	}
	for k, v := range p.NewCollaborators {
		if ov, ok := other.NewCollaborators[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Channel is a record of the channel.
type Channel struct {
	ID             uint64
	Owner          ChannelOwner
	Collaborators  Collaborators
	PausedFeatures feature.Set
	PrivilegeLevel uint8
	// CumulativeRewardClaimed is a total reward paid to the channel. It never
	// decreases.
	CumulativeRewardClaimed uint256.Int
	// Transfer is nil when there is no active transfer.
	Transfer  *PendingTransfer
	CreatedAt uint32
}

// EncodeBinary implements io.Serializable.
func (c *Channel) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(c.ID)
	encodeOwner(w, c.Owner)
	encodeChannelPermissions(w, c.Collaborators)
	w.WriteU32LE(uint32(c.PausedFeatures))
	w.WriteB(c.PrivilegeLevel)
	encodeAmount(w, &c.CumulativeRewardClaimed)
	w.WriteBool(c.Transfer != nil)
	if c.Transfer != nil {
		encodeOwner(w, c.Transfer.NewOwner)
		w.WriteU64LE(c.Transfer.Params.TransferID)
		encodeAmount(w, &c.Transfer.Params.Price)
		encodeChannelPermissions(w, c.Transfer.Params.NewCollaborators)
	}
	w.WriteU32LE(c.CreatedAt)
}

// DecodeBinary implements io.Serializable.
func (c *Channel) DecodeBinary(r *io.BinReader) {
	c.ID = r.ReadU64LE()
	c.Owner = decodeOwner(r)
	c.Collaborators = decodeChannelPermissions(r)
	c.PausedFeatures = feature.Set(r.ReadU32LE())
	c.PrivilegeLevel = r.ReadB()
	decodeAmount(r, &c.CumulativeRewardClaimed)
	c.Transfer = nil
	if r.ReadBool() {
		t := new(PendingTransfer)
		t.NewOwner = decodeOwner(r)
		t.Params.TransferID = r.ReadU64LE()
		decodeAmount(r, &t.Params.Price)
		t.Params.NewCollaborators = decodeChannelPermissions(r)
		c.Transfer = t
	}
	c.CreatedAt = r.ReadU32LE()
}

// CuratorGroup is a group of curators collectively owning channels.
type CuratorGroup struct {
	ID     uint64
	Active bool
	// Curators maps curator identifiers to their permissions on group
	// channels.
	Curators map[uint64]permission.ChannelSet
	// PermissionsByLevel are moderation permissions group curators have over
	// channels of certain privilege level.
	PermissionsByLevel map[uint8]permission.ModerationSet
}

// EncodeBinary implements io.Serializable.
func (g *CuratorGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(g.ID)
	w.WriteBool(g.Active)
	encodeChannelPermissions(w, g.Curators)

	levels := make([]uint8, 0, len(g.PermissionsByLevel))
	for l := range g.PermissionsByLevel {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	w.WriteVarUint(uint64(len(levels)))
	for _, l := range levels {
		w.WriteB(l)
		w.WriteU32LE(uint32(g.PermissionsByLevel[l]))
	}
}

// DecodeBinary implements io.Serializable.
func (g *CuratorGroup) DecodeBinary(r *io.BinReader) {
	g.ID = r.ReadU64LE()
	g.Active = r.ReadBool()
	g.Curators = decodeChannelPermissions(r)

	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if n > 256 {
		r.Err = fmt.Errorf("too many privilege levels: %d", n)
		return
	}

	g.PermissionsByLevel = make(map[uint8]permission.ModerationSet, n)
	for i := uint64(0); i < n; i++ {
		l := r.ReadB()
		g.PermissionsByLevel[l] = permission.ModerationSet(r.ReadU32LE())
	}
}

// PayloadDescriptor points to the off-chain payout table the commitment is
// built over.
type PayloadDescriptor struct {
	ContentID []byte
	Size      uint64
}

var errInvalidPayload = errors.New("invalid payload descriptor")

func (p *PayloadDescriptor) validate() error {
	if len(p.ContentID) == 0 || len(p.ContentID) > MaxPayloadContentIDLength {
		return fmt.Errorf("%w: content ID length %d", errInvalidPayload, len(p.ContentID))
	}
	if p.Size == 0 {
		return fmt.Errorf("%w: zero size", errInvalidPayload)
	}
	return nil
}

// PayoutCommitment is the active payout table commitment with its cashout
// policy.
type PayoutCommitment struct {
	Root                   util.Uint256
	Payload                *PayloadDescriptor
	MinCashoutAllowed      *uint256.Int
	MaxCashoutAllowed      *uint256.Int
	ChannelCashoutsEnabled bool
}

// EncodeBinary implements io.Serializable.
func (c *PayoutCommitment) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(c.Root.BytesBE())
	w.WriteBool(c.Payload != nil)
	if c.Payload != nil {
		w.WriteVarBytes(c.Payload.ContentID)
		w.WriteU64LE(c.Payload.Size)
	}
	encodeOptionalAmount(w, c.MinCashoutAllowed)
	encodeOptionalAmount(w, c.MaxCashoutAllowed)
	w.WriteBool(c.ChannelCashoutsEnabled)
}

// DecodeBinary implements io.Serializable.
func (c *PayoutCommitment) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(c.Root[:])
	c.Payload = nil
	if r.ReadBool() {
		c.Payload = &PayloadDescriptor{
			ContentID: r.ReadVarBytes(MaxPayloadContentIDLength),
			Size:      r.ReadU64LE(),
		}
	}
	c.MinCashoutAllowed = decodeOptionalAmount(r)
	c.MaxCashoutAllowed = decodeOptionalAmount(r)
	c.ChannelCashoutsEnabled = r.ReadBool()
}

// Limits are module parameters set on genesis.
type Limits struct {
	// MaxMerkleProofHashes limits length of the claim proof.
	MaxMerkleProofHashes uint32
	// MaxCollaboratorsPerChannel limits number of channel collaborators.
	MaxCollaboratorsPerChannel uint32
	// MaxCuratorsPerGroup limits number of curators in the group.
	MaxCuratorsPerGroup uint32
}

// DefaultLimits returns limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxMerkleProofHashes:       32,
		MaxCollaboratorsPerChannel: 10,
		MaxCuratorsPerGroup:        10,
	}
}

// Validate checks that limits are positive and records kept under them can be
// decoded back.
func (l Limits) Validate() error {
	switch {
	case l.MaxMerkleProofHashes == 0 || l.MaxMerkleProofHashes > maxProofHashes:
		return fmt.Errorf("%w: max proof hashes %d is out of [1, %d]", ErrInvalidLimits, l.MaxMerkleProofHashes, maxProofHashes)
	case l.MaxCollaboratorsPerChannel == 0 || l.MaxCollaboratorsPerChannel > maxMapSize:
		return fmt.Errorf("%w: max collaborators %d is out of [1, %d]", ErrInvalidLimits, l.MaxCollaboratorsPerChannel, maxMapSize)
	case l.MaxCuratorsPerGroup == 0 || l.MaxCuratorsPerGroup > maxMapSize:
		return fmt.Errorf("%w: max curators %d is out of [1, %d]", ErrInvalidLimits, l.MaxCuratorsPerGroup, maxMapSize)
	}
	return nil
}

// EncodeBinary implements io.Serializable.
func (l *Limits) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(l.MaxMerkleProofHashes)
	w.WriteU32LE(l.MaxCollaboratorsPerChannel)
	w.WriteU32LE(l.MaxCuratorsPerGroup)
}

// DecodeBinary implements io.Serializable.
func (l *Limits) DecodeBinary(r *io.BinReader) {
	l.MaxMerkleProofHashes = r.ReadU32LE()
	l.MaxCollaboratorsPerChannel = r.ReadU32LE()
	l.MaxCuratorsPerGroup = r.ReadU32LE()
}
