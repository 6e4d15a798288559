package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/balance"
	"github.com/nspcc-dev/content-contract/balance/balanceconst"
	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/content"
	"github.com/nspcc-dev/content-contract/membership"
	"github.com/nspcc-dev/content-contract/workinggroup"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Executor groups services of the host runtime required for genesis.
type Executor interface {
	// Invoke executes method on behalf of the caller and commits its changes
	// only on success.
	Invoke(ctx context.Context, caller util.Uint160, method string, weight uint64, f chain.Method) (*chain.Receipt, error)

	// View runs f against current state discarding its changes.
	View(f chain.Method) error
}

// MemberPrm groups parameters of the member registered on genesis.
type MemberPrm struct {
	Handle string
	// Controller account is also used as a root account of the member.
	Controller util.Uint160
}

// WorkerPrm groups parameters of the working group worker appointed on
// genesis. Worker is referenced by the member handle.
type WorkerPrm struct {
	Handle      string
	RoleAccount util.Uint160
}

// EndowmentPrm groups parameters of the account funded on genesis.
type EndowmentPrm struct {
	Account util.Uint160
	Amount  *uint256.Int
}

// PayoutsPrm groups initial payout commitment parameters.
type PayoutsPrm struct {
	Commitment        util.Uint256
	MinCashoutAllowed *uint256.Int
	MaxCashoutAllowed *uint256.Int
	CashoutsDisabled  bool
}

// Prm groups all parameters of the genesis procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Executor to apply genesis invocations with.
	Executor Executor

	// Governance account allowed to perform privileged operations.
	Root util.Uint160

	ExistentialDeposit *uint256.Int
	Budgets            map[balanceconst.Budget]*uint256.Int
	Limits             content.Limits

	Members    []MemberPrm
	Lead       *WorkerPrm
	Curators   []WorkerPrm
	Endowments []EndowmentPrm

	// Optional initial payout commitment.
	Payouts *PayoutsPrm
}

// Result describes state created on genesis.
type Result struct {
	// Member identifiers by handle.
	Members map[string]uint64
	// Worker identifier of the lead, zero if the lead is not set.
	Lead uint64
	// Curator worker identifiers by member handle.
	Curators map[string]uint64
}

// Deploy initializes module state on the store served by the Prm.Executor.
//
// If the state is already of the current version, Deploy does nothing. State
// of the previous version is updated. Otherwise, the following stages are
// performed:
//  1. system records and module initialization (root, version, existential
//     deposit, budgets, limits)
//  2. member registration
//  3. working group appointments
//  4. account endowments
//  5. initial payout commitment
//
// Each stage is a separate invocation, Deploy aborts on the first failure.
// Result is nil if genesis is not performed.
func Deploy(ctx context.Context, prm Prm) (*Result, error) {
	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}
	if prm.Executor == nil {
		return nil, errors.New("missing executor")
	}

	var (
		version     uint32
		initialized bool
	)

	err := prm.Executor.View(func(ic *chain.Context) error {
		version, initialized = common.StoredVersion(ic)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read stored version: %w", err)
	}

	if initialized {
		return nil, update(ctx, prm, version)
	}

	prm.Logger.Info("initializing modules...")

	_, err = prm.Executor.Invoke(ctx, prm.Root, "genesis", 0, func(ic *chain.Context) error {
		common.SetRoot(ic, prm.Root)
		common.SetVersion(ic)

		ed := prm.ExistentialDeposit
		if ed == nil {
			ed = new(uint256.Int)
		}
		balance.Init(ic, ed)
		if err := content.Init(ic, content.InitPrm{Limits: prm.Limits}); err != nil {
			return err
		}

		for b, amount := range prm.Budgets {
			if err := balance.SetBudget(ic, b, amount); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("initialize modules: %w", err)
	}

	prm.Logger.Info("modules successfully initialized", zap.Uint32("version", common.Version))

	res := &Result{
		Members:  make(map[string]uint64, len(prm.Members)),
		Curators: make(map[string]uint64, len(prm.Curators)),
	}

	for _, m := range prm.Members {
		var id uint64

		_, err = prm.Executor.Invoke(ctx, m.Controller, "register", 0, func(ic *chain.Context) error {
			var err error
			id, err = membership.Register(ic, m.Handle, m.Controller)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("register member '%s': %w", m.Handle, err)
		}

		res.Members[m.Handle] = id
		prm.Logger.Info("member registered", zap.String("handle", m.Handle), zap.Uint64("id", id))
	}

	if prm.Lead != nil {
		res.Lead, err = appoint(ctx, prm.Executor, prm.Root, res.Members, *prm.Lead, workinggroup.SetLead)
		if err != nil {
			return nil, fmt.Errorf("set lead: %w", err)
		}

		prm.Logger.Info("lead appointed", zap.String("handle", prm.Lead.Handle), zap.Uint64("worker", res.Lead))

		for _, c := range prm.Curators {
			id, err := appoint(ctx, prm.Executor, prm.Lead.RoleAccount, res.Members, c, workinggroup.HireCurator)
			if err != nil {
				return nil, fmt.Errorf("hire curator: %w", err)
			}

			res.Curators[c.Handle] = id
			prm.Logger.Info("curator hired", zap.String("handle", c.Handle), zap.Uint64("worker", id))
		}
	} else if len(prm.Curators) > 0 {
		return nil, errors.New("curators can't be hired without the lead")
	}

	if len(prm.Endowments) > 0 {
		_, err = prm.Executor.Invoke(ctx, prm.Root, "endow", 0, func(ic *chain.Context) error {
			for _, e := range prm.Endowments {
				if err := balance.Mint(ic, e.Account, e.Amount, nil); err != nil {
					return fmt.Errorf("fund %s: %w", e.Account.StringLE(), err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("endow accounts: %w", err)
		}

		prm.Logger.Info("accounts endowed", zap.Int("count", len(prm.Endowments)))
	}

	if prm.Payouts != nil {
		enabled := !prm.Payouts.CashoutsDisabled

		_, err = prm.Executor.Invoke(ctx, prm.Root, "updateChannelPayouts", 0, func(ic *chain.Context) error {
			return content.UpdateChannelPayouts(ic, content.UpdateChannelPayoutsParams{
				Commitment:             &prm.Payouts.Commitment,
				MinCashoutAllowed:      prm.Payouts.MinCashoutAllowed,
				MaxCashoutAllowed:      prm.Payouts.MaxCashoutAllowed,
				ChannelCashoutsEnabled: &enabled,
			})
		})
		if err != nil {
			return nil, fmt.Errorf("set initial payout commitment: %w", err)
		}

		prm.Logger.Info("initial payout commitment set", zap.Stringer("commitment", prm.Payouts.Commitment))
	}

	return res, nil
}

type appointFunc func(ctx *chain.Context, memberID uint64, roleAccount util.Uint160) (uint64, error)

func appoint(ctx context.Context, e Executor, signer util.Uint160, members map[string]uint64, w WorkerPrm, f appointFunc) (uint64, error) {
	memberID, ok := members[w.Handle]
	if !ok {
		return 0, fmt.Errorf("%w: '%s' is not registered on genesis", membership.ErrMemberNotFound, w.Handle)
	}

	var id uint64

	_, err := e.Invoke(ctx, signer, "appoint", 0, func(ic *chain.Context) error {
		var err error
		id, err = f(ic, memberID, w.RoleAccount)
		return err
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// update migrates state of the previous version to the current one.
func update(ctx context.Context, prm Prm, from uint32) error {
	err := common.CheckVersion(from)
	if errors.Is(err, common.ErrAlreadyUpdated) {
		prm.Logger.Info("state is already of the current version, skip", zap.Uint32("version", from))
		return nil
	} else if err != nil {
		return err
	}

	prm.Logger.Info("updating state...", zap.Uint32("from", from), zap.Uint32("to", common.Version))

	_, err = prm.Executor.Invoke(ctx, prm.Root, "update", 0, func(ic *chain.Context) error {
		if !common.HasRootAccess(ic) {
			return fmt.Errorf("update state: %w", common.ErrWitnessFailed)
		}
		common.SetVersion(ic)
		return nil
	})
	if err != nil {
		return err
	}

	prm.Logger.Info("state successfully updated")

	return nil
}
