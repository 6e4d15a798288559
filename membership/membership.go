// Package membership implements the registry of members: accounts allowed to
// own channels and collaborate on them.
package membership

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// Hash is a script hash notifications of the module are emitted on behalf of.
var Hash = hash.Hash160([]byte("membership"))

// MaxHandleLength limits member handle in bytes.
const MaxHandleLength = 64

const (
	storagePrefix = 0x02

	memberPrefix  = 'm'
	handlePrefix  = 'h'
	nextMemberKey = 'n'
)

var (
	// ErrMemberNotFound is returned for unknown member identifiers.
	ErrMemberNotFound = errors.New("member not found")
	// ErrInvalidHandle is returned for empty, too long or non UTF-8 handles.
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrHandleTaken is returned when handle is already used by other member.
	ErrHandleTaken = errors.New("handle is already taken")
)

// Member is a registered member.
type Member struct {
	ID     uint64
	Handle string
	// RootAccount registered the member and can change its controller.
	RootAccount util.Uint160
	// ControllerAccount acts on behalf of the member.
	ControllerAccount util.Uint160
}

// EncodeBinary implements io.Serializable.
func (m *Member) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(m.ID)
	w.WriteString(m.Handle)
	w.WriteBytes(m.RootAccount.BytesBE())
	w.WriteBytes(m.ControllerAccount.BytesBE())
}

// DecodeBinary implements io.Serializable.
func (m *Member) DecodeBinary(r *io.BinReader) {
	m.ID = r.ReadU64LE()
	m.Handle = r.ReadString(MaxHandleLength)
	r.ReadBytes(m.RootAccount[:])
	r.ReadBytes(m.ControllerAccount[:])
}

func memberKey(id uint64) []byte {
	return common.StorageKey(storagePrefix, []byte{memberPrefix}, common.IDBytes(id))
}

func handleKey(handle string) []byte {
	return common.StorageKey(storagePrefix, []byte{handlePrefix}, hash.Sha256([]byte(handle)).BytesBE())
}

// Register registers new member with invocation signer as its root account.
// Returns identifier of the new member.
//
// Produces MemberRegistered notification.
func Register(ctx *chain.Context, handle string, controller util.Uint160) (uint64, error) {
	if len(handle) == 0 || len(handle) > MaxHandleLength || !utf8.ValidString(handle) {
		return 0, fmt.Errorf("%w: '%s'", ErrInvalidHandle, handle)
	}

	hk := handleKey(handle)
	if ctx.Get(hk) != nil {
		return 0, fmt.Errorf("%w: '%s'", ErrHandleTaken, handle)
	}

	m := Member{
		ID:                common.NextID(ctx, common.StorageKey(storagePrefix, []byte{nextMemberKey})),
		Handle:            handle,
		RootAccount:       ctx.Caller(),
		ControllerAccount: controller,
	}

	common.SetSerialized(ctx, memberKey(m.ID), &m)
	ctx.Put(hk, []byte{1})

	ctx.Log("member registered", zap.Uint64("id", m.ID), zap.String("handle", handle))
	ctx.Notify(Hash, "MemberRegistered",
		common.IDItem(m.ID),
		stackitem.NewByteArray([]byte(handle)),
		common.AccountItem(m.RootAccount),
		common.AccountItem(m.ControllerAccount),
	)

	return m.ID, nil
}

// Get returns registered member.
func Get(ctx *chain.Context, id uint64) (Member, error) {
	var m Member

	ok, err := common.GetSerialized(ctx, memberKey(id), &m)
	if err != nil {
		return m, fmt.Errorf("read member #%d: %w", id, err)
	}
	if !ok {
		return m, fmt.Errorf("%w: #%d", ErrMemberNotFound, id)
	}

	return m, nil
}

// Exists checks whether the member is registered.
func Exists(ctx *chain.Context, id uint64) bool {
	return ctx.Get(memberKey(id)) != nil
}

// ControllerAccount returns controller account of the member.
func ControllerAccount(ctx *chain.Context, id uint64) (util.Uint160, error) {
	m, err := Get(ctx, id)
	if err != nil {
		return util.Uint160{}, err
	}
	return m.ControllerAccount, nil
}

// IsController checks whether the invocation is signed by the member
// controller account.
func IsController(ctx *chain.Context, id uint64) bool {
	acc, err := ControllerAccount(ctx, id)
	return err == nil && ctx.CheckWitness(acc)
}

// UpdateControllerAccount changes controller account of the member. Can be
// invoked only by the member root account.
//
// Produces ControllerAccountUpdated notification.
func UpdateControllerAccount(ctx *chain.Context, id uint64, controller util.Uint160) error {
	m, err := Get(ctx, id)
	if err != nil {
		return err
	}

	if err := common.CheckOwnerWitness(ctx, m.RootAccount); err != nil {
		return err
	}

	m.ControllerAccount = controller
	common.SetSerialized(ctx, memberKey(id), &m)

	ctx.Notify(Hash, "ControllerAccountUpdated",
		common.IDItem(id),
		common.AccountItem(controller),
	)

	return nil
}
