// Package workinggroup implements the content working group: its lead and the
// curators hired by the lead.
package workinggroup

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/membership"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Hash is a script hash notifications of the module are emitted on behalf of.
var Hash = hash.Hash160([]byte("workinggroup"))

const (
	storagePrefix = 0x03

	leadKey       = 'l'
	curatorPrefix = 'c'
	nextWorkerKey = 'n'
)

var (
	// ErrNotLead is returned when the method must be called by the working
	// group lead but was not.
	ErrNotLead = errors.New("caller is not the working group lead")
	// ErrNoLead is returned when the lead is not set.
	ErrNoLead = errors.New("working group lead is not set")
	// ErrCuratorNotFound is returned for unknown curator identifiers.
	ErrCuratorNotFound = errors.New("curator not found")
)

// Worker is a working group member acting with its role account.
type Worker struct {
	ID          uint64
	MemberID    uint64
	RoleAccount util.Uint160
}

// EncodeBinary implements io.Serializable.
func (w *Worker) EncodeBinary(bw *io.BinWriter) {
	bw.WriteU64LE(w.ID)
	bw.WriteU64LE(w.MemberID)
	bw.WriteBytes(w.RoleAccount.BytesBE())
}

// DecodeBinary implements io.Serializable.
func (w *Worker) DecodeBinary(r *io.BinReader) {
	w.ID = r.ReadU64LE()
	w.MemberID = r.ReadU64LE()
	r.ReadBytes(w.RoleAccount[:])
}

func key(parts ...[]byte) []byte {
	return common.StorageKey(storagePrefix, parts...)
}

func curatorKey(id uint64) []byte {
	return key([]byte{curatorPrefix}, common.IDBytes(id))
}

func newWorker(ctx *chain.Context, memberID uint64, roleAccount util.Uint160) (Worker, error) {
	if !membership.Exists(ctx, memberID) {
		return Worker{}, fmt.Errorf("%w: #%d", membership.ErrMemberNotFound, memberID)
	}

	return Worker{
		ID:          common.NextID(ctx, key([]byte{nextWorkerKey})),
		MemberID:    memberID,
		RoleAccount: roleAccount,
	}, nil
}

// SetLead appoints the lead. Can be invoked only by governance.
//
// Produces LeadSet notification.
func SetLead(ctx *chain.Context, memberID uint64, roleAccount util.Uint160) (uint64, error) {
	if !common.HasRootAccess(ctx) {
		return 0, fmt.Errorf("set lead: %w", common.ErrWitnessFailed)
	}

	w, err := newWorker(ctx, memberID, roleAccount)
	if err != nil {
		return 0, err
	}

	common.SetSerialized(ctx, key([]byte{leadKey}), &w)

	ctx.Log("working group lead set", zap.Uint64("worker", w.ID), zap.Uint64("member", memberID))
	ctx.Notify(Hash, "LeadSet", common.IDItem(w.ID), common.IDItem(memberID), common.AccountItem(roleAccount))

	return w.ID, nil
}

// Lead returns current lead.
func Lead(ctx *chain.Context) (Worker, error) {
	var w Worker

	ok, err := common.GetSerialized(ctx, key([]byte{leadKey}), &w)
	if err != nil {
		return w, fmt.Errorf("read lead: %w", err)
	}
	if !ok {
		return w, ErrNoLead
	}

	return w, nil
}

// IsLead checks whether the invocation is signed by the lead role account.
func IsLead(ctx *chain.Context) bool {
	w, err := Lead(ctx)
	return err == nil && ctx.CheckWitness(w.RoleAccount)
}

// CheckLead returns ErrNotLead if the invocation is not signed by the lead.
func CheckLead(ctx *chain.Context) error {
	if !IsLead(ctx) {
		return ErrNotLead
	}
	return nil
}

// HireCurator hires curator. Can be invoked only by the lead.
//
// Produces CuratorHired notification.
func HireCurator(ctx *chain.Context, memberID uint64, roleAccount util.Uint160) (uint64, error) {
	if err := CheckLead(ctx); err != nil {
		return 0, err
	}

	w, err := newWorker(ctx, memberID, roleAccount)
	if err != nil {
		return 0, err
	}

	common.SetSerialized(ctx, curatorKey(w.ID), &w)
	ctx.Notify(Hash, "CuratorHired", common.IDItem(w.ID), common.IDItem(memberID), common.AccountItem(roleAccount))

	return w.ID, nil
}

// FireCurator removes curator from the group. Can be invoked only by the lead.
//
// Produces CuratorFired notification.
func FireCurator(ctx *chain.Context, id uint64) error {
	if err := CheckLead(ctx); err != nil {
		return err
	}

	if !CuratorExists(ctx, id) {
		return fmt.Errorf("%w: #%d", ErrCuratorNotFound, id)
	}

	ctx.Delete(curatorKey(id))
	ctx.Notify(Hash, "CuratorFired", common.IDItem(id))

	return nil
}

// Curator returns hired curator.
func Curator(ctx *chain.Context, id uint64) (Worker, error) {
	var w Worker

	ok, err := common.GetSerialized(ctx, curatorKey(id), &w)
	if err != nil {
		return w, fmt.Errorf("read curator #%d: %w", id, err)
	}
	if !ok {
		return w, fmt.Errorf("%w: #%d", ErrCuratorNotFound, id)
	}

	return w, nil
}

// CuratorExists checks whether the curator is hired.
func CuratorExists(ctx *chain.Context, id uint64) bool {
	return ctx.Get(curatorKey(id)) != nil
}

// IsCurator checks whether the invocation is signed by the curator role
// account.
func IsCurator(ctx *chain.Context, id uint64) bool {
	w, err := Curator(ctx, id)
	return err == nil && ctx.CheckWitness(w.RoleAccount)
}
