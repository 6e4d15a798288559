package content

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/balance"
	"github.com/nspcc-dev/content-contract/balance/balanceconst"
	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/content/permission"
	"github.com/nspcc-dev/content-contract/membership"
	"github.com/nspcc-dev/content-contract/merkle"
	"github.com/nspcc-dev/content-contract/workinggroup"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	rootAcc     = util.Uint160{0xff}
	leadAcc     = util.Uint160{0x10}
	curatorAcc  = util.Uint160{0x20}
	aliceAcc    = util.Uint160{0x01}
	bobAcc      = util.Uint160{0x02}
	strangerAcc = util.Uint160{0x77}
)

const (
	existentialDeposit = 10
	councilBudget      = 1_000_000
	workingGroupBudget = 500
	bobFunds           = 1000
)

type env struct {
	t    *testing.T
	exec *chain.Executor

	alice, bob, carol uint64
	curator, group    uint64

	// channels 1-3 are owned by alice, 4 by the curator group; bob
	// collaborates on channel 1 with ClaimChannelReward permission
	channels []uint64
}

func amount(n uint64) *uint256.Int {
	return new(uint256.Int).SetUint64(n)
}

func newEnv(t *testing.T) *env {
	exec, err := chain.NewExecutor(chain.Prm{
		Store:  storage.NewMemoryStore(),
		Logger: zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	e := &env{t: t, exec: exec}

	e.must(rootAcc, func(ic *chain.Context) error {
		common.SetRoot(ic, rootAcc)
		balance.Init(ic, amount(existentialDeposit))
		if err := Init(ic, InitPrm{Limits: DefaultLimits()}); err != nil {
			return err
		}

		if err := balance.SetBudget(ic, balanceconst.Council, amount(councilBudget)); err != nil {
			return err
		}
		if err := balance.SetBudget(ic, balanceconst.ContentWorkingGroup, amount(workingGroupBudget)); err != nil {
			return err
		}

		var err error
		if e.alice, err = membership.Register(ic, "alice", aliceAcc); err != nil {
			return err
		}
		if e.bob, err = membership.Register(ic, "bob", bobAcc); err != nil {
			return err
		}
		if e.carol, err = membership.Register(ic, "carol", leadAcc); err != nil {
			return err
		}
		if err = balance.Mint(ic, bobAcc, amount(bobFunds), nil); err != nil {
			return err
		}

		_, err = workinggroup.SetLead(ic, e.carol, leadAcc)
		return err
	})

	e.must(leadAcc, func(ic *chain.Context) error {
		var err error
		if e.curator, err = workinggroup.HireCurator(ic, e.bob, curatorAcc); err != nil {
			return err
		}
		if e.group, err = CreateCuratorGroup(ic, true, ModerationPermissions{
			0: permission.NewModerationSet(permission.ChangeChannelFeatureStatus),
		}); err != nil {
			return err
		}
		return AddCuratorToGroup(ic, e.group, e.curator,
			permission.NewChannelSet(permission.ClaimChannelReward, permission.WithdrawFromChannelBalance, permission.TransferChannel))
	})

	for i := 0; i < 3; i++ {
		var collaborators Collaborators
		if i == 0 {
			collaborators = Collaborators{e.bob: permission.NewChannelSet(permission.ClaimChannelReward)}
		}

		e.must(aliceAcc, func(ic *chain.Context) error {
			id, err := CreateChannel(ic, OwnerMember{MemberID: e.alice}, CreateChannelParams{Collaborators: collaborators})
			e.channels = append(e.channels, id)
			return err
		})
	}

	e.must(curatorAcc, func(ic *chain.Context) error {
		id, err := CreateChannel(ic, OwnerCuratorGroup{GroupID: e.group}, CreateChannelParams{})
		e.channels = append(e.channels, id)
		return err
	})

	require.Equal(t, []uint64{1, 2, 3, 4}, e.channels)

	return e
}

func (e *env) invoke(acc util.Uint160, f chain.Method) error {
	_, err := e.exec.Invoke(context.Background(), acc, e.t.Name(), 0, f)
	return err
}

func (e *env) must(acc util.Uint160, f chain.Method) {
	require.NoError(e.t, e.invoke(acc, f))
}

func (e *env) view(f func(ic *chain.Context)) {
	require.NoError(e.t, e.exec.View(func(ic *chain.Context) error {
		f(ic)
		return nil
	}))
}

func (e *env) channel(id uint64) Channel {
	var ch Channel
	e.view(func(ic *chain.Context) {
		var err error
		ch, err = GetChannel(ic, id)
		require.NoError(e.t, err)
	})
	return ch
}

func (e *env) balanceOf(acc util.Uint160) uint64 {
	var res uint64
	e.view(func(ic *chain.Context) {
		b, err := balance.BalanceOf(ic, acc)
		require.NoError(e.t, err)
		res = b.Uint64()
	})
	return res
}

func (e *env) budget(b balanceconst.Budget) uint64 {
	var res uint64
	e.view(func(ic *chain.Context) {
		v, err := balance.Budget(ic, b)
		require.NoError(e.t, err)
		res = v.Uint64()
	})
	return res
}

// commit builds the tree over payments and installs its root.
func (e *env) commit(payments ...merkle.PullPayment) *merkle.Tree {
	tree, err := merkle.NewTree(payments)
	require.NoError(e.t, err)

	root := tree.Root()
	e.must(rootAcc, func(ic *chain.Context) error {
		return UpdateChannelPayouts(ic, UpdateChannelPayoutsParams{Commitment: &root})
	})

	return tree
}

func (e *env) proof(tree *merkle.Tree, i int) merkle.Proof {
	p, err := tree.Proof(i)
	require.NoError(e.t, err)
	return p
}

func (e *env) claim(acc util.Uint160, a Actor, proof merkle.Proof, payment merkle.PullPayment) (uint64, error) {
	var inc *uint256.Int
	err := e.invoke(acc, func(ic *chain.Context) error {
		var err error
		inc, err = ClaimChannelReward(ic, a, proof, payment)
		return err
	})
	if err != nil {
		return 0, err
	}
	return inc.Uint64(), nil
}
