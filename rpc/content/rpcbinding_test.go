package content

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/balance"
	"github.com/nspcc-dev/content-contract/balance/balanceconst"
	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/content"
	"github.com/nspcc-dev/content-contract/deploy"
	"github.com/nspcc-dev/content-contract/merkle"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	rootAcc  = util.Uint160{0xff}
	aliceAcc = util.Uint160{0x01}
	bobAcc   = util.Uint160{0x02}
)

var payments = []merkle.PullPayment{
	merkle.NewPullPayment(1, 100),
	merkle.NewPullPayment(2, 50),
}

func amount(n uint64) *uint256.Int {
	return new(uint256.Int).SetUint64(n)
}

func newExecutor(t *testing.T) (*chain.Executor, *merkle.Tree) {
	exec, err := chain.NewExecutor(chain.Prm{
		Store:  storage.NewMemoryStore(),
		Logger: zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	tree, err := merkle.NewTree(payments)
	require.NoError(t, err)

	_, err = deploy.Deploy(context.Background(), deploy.Prm{
		Logger:             zaptest.NewLogger(t),
		Executor:           exec,
		Root:               rootAcc,
		ExistentialDeposit: amount(10),
		Budgets: map[balanceconst.Budget]*uint256.Int{
			balanceconst.Council: amount(1000),
		},
		Limits: content.DefaultLimits(),
		Members: []deploy.MemberPrm{
			{Handle: "alice", Controller: aliceAcc},
			{Handle: "bob", Controller: bobAcc},
		},
		Payouts: &deploy.PayoutsPrm{Commitment: tree.Root()},
	})
	require.NoError(t, err)

	return exec, tree
}

func claimArgs(t *testing.T, tree *merkle.Tree, i int) ([]byte, []byte) {
	p, err := tree.Proof(i)
	require.NoError(t, err)
	return p.Bytes(), payments[i].Bytes()
}

func TestReader(t *testing.T) {
	exec, err := chain.NewExecutor(chain.Prm{Store: storage.NewMemoryStore()})
	require.NoError(t, err)

	_, err = NewReader(exec).Version()
	require.ErrorIs(t, err, content.ErrNotInitialized)

	exec, tree := newExecutor(t)
	r := NewReader(exec)

	v, err := r.Version()
	require.NoError(t, err)
	require.EqualValues(t, common.Version, v)

	c, err := r.Commitment()
	require.NoError(t, err)
	require.Equal(t, tree.Root(), c.Root)
	require.True(t, c.ChannelCashoutsEnabled)

	l, err := r.Limits()
	require.NoError(t, err)
	require.Equal(t, content.DefaultLimits(), l)

	_, err = r.Channel(1)
	require.ErrorIs(t, err, content.ErrChannelNotFound)

	_, err = r.CuratorGroup(1)
	require.ErrorIs(t, err, content.ErrCuratorGroupNotFound)
}

func TestClaimChannelReward(t *testing.T) {
	exec, tree := newExecutor(t)
	ctx := context.Background()
	alice := New(exec, aliceAcc)
	member := content.Member{MemberID: 1}

	require.Equal(t, aliceAcc, alice.Sender())

	for range payments {
		_, _, err := alice.CreateChannel(ctx, content.OwnerMember{MemberID: 1}, content.CreateChannelParams{})
		require.NoError(t, err)
	}

	proof, payment := claimArgs(t, tree, 0)

	t.Run("verify", func(t *testing.T) {
		inc, err := alice.VerifyClaim(proof, payment)
		require.NoError(t, err)
		require.Equal(t, uint64(100), inc.Uint64())

		_, err = alice.VerifyClaim(proof[:len(proof)-1], payment)
		require.ErrorIs(t, err, content.ErrInvalidProof)

		_, err = alice.VerifyClaim(proof, payment[1:])
		require.ErrorIs(t, err, content.ErrInvalidProof)

		other, _ := claimArgs(t, tree, 1)
		_, err = alice.VerifyClaim(other, payment)
		require.ErrorIs(t, err, content.ErrInvalidProof)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		_, err := alice.ClaimChannelReward(ctx, member, append(proof, 0), payment)
		require.ErrorIs(t, err, content.ErrInvalidProof)
	})

	t.Run("claim", func(t *testing.T) {
		r, err := alice.ClaimChannelReward(ctx, member, proof, payment)
		require.NoError(t, err)
		require.Equal(t, "claimChannelReward", r.Method)
		require.Equal(t, content.ClaimWeight(1), r.Weight)

		events, err := ChannelRewardUpdatedEventsFromReceipt(r)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, uint64(1), events[0].ChannelID)
		require.EqualValues(t, 100, events[0].Amount.Int64())
		require.EqualValues(t, 100, events[0].CumulativeRewardClaimed.Int64())

		ch, err := alice.Channel(1)
		require.NoError(t, err)
		require.Equal(t, uint64(100), ch.CumulativeRewardClaimed.Uint64())

		_, err = alice.VerifyClaim(proof, payment)
		require.ErrorIs(t, err, content.ErrZeroOrNegativeIncrement)
	})

	t.Run("withdraw", func(t *testing.T) {
		r, err := alice.WithdrawFromChannelBalance(ctx, member, 1, amount(0))
		require.ErrorIs(t, err, content.ErrInvalidAmount)
		require.Nil(t, r)

		r, err = alice.WithdrawFromChannelBalance(ctx, member, 1, amount(50))
		require.NoError(t, err)

		events, err := ChannelFundsWithdrawnEventsFromReceipt(r)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, uint64(1), events[0].ChannelID)
		require.EqualValues(t, 50, events[0].Amount.Int64())
		require.Equal(t, &aliceAcc, events[0].Destination)
	})

	t.Run("claim and withdraw", func(t *testing.T) {
		proof, payment := claimArgs(t, tree, 1)

		r, err := alice.ClaimAndWithdrawChannelReward(ctx, member, proof, payment)
		require.NoError(t, err)

		events, err := ChannelRewardClaimedAndWithdrawnEventsFromReceipt(r)
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, uint64(2), events[0].ChannelID)
		require.EqualValues(t, 50, events[0].Amount.Int64())
		require.Equal(t, &aliceAcc, events[0].Destination)

		withdrawn, err := ChannelFundsWithdrawnEventsFromReceipt(r)
		require.NoError(t, err)
		require.Empty(t, withdrawn)

		require.NoError(t, exec.View(func(ic *chain.Context) error {
			b, err := balance.BalanceOf(ic, aliceAcc)
			require.NoError(t, err)
			require.Equal(t, uint64(100), b.Uint64())
			return nil
		}))
	})

	t.Run("not signed", func(t *testing.T) {
		_, err := New(exec, bobAcc).WithdrawFromChannelBalance(ctx, member, 1, amount(10))
		require.Error(t, err)
	})
}

func TestClaimCheckOrder(t *testing.T) {
	exec, tree := newExecutor(t)
	ctx := context.Background()
	alice := New(exec, aliceAcc)
	member := content.Member{MemberID: 1}

	_, _, err := alice.CreateChannel(ctx, content.OwnerMember{MemberID: 1}, content.CreateChannelParams{})
	require.NoError(t, err)

	proof, payment := claimArgs(t, tree, 0)
	garbage := []byte{9, 9, 9}
	tooLong := make(merkle.Proof, content.DefaultLimits().MaxMerkleProofHashes+1).Bytes()

	t.Run("signer before proof", func(t *testing.T) {
		bob := New(exec, bobAcc)

		_, err := bob.ClaimChannelReward(ctx, member, garbage, payment)
		require.ErrorIs(t, err, content.ErrActorNotAuthorized)

		_, err = bob.ClaimAndWithdrawChannelReward(ctx, member, garbage, payment)
		require.ErrorIs(t, err, content.ErrActorNotAuthorized)
	})

	t.Run("proof limit", func(t *testing.T) {
		_, err := alice.ClaimChannelReward(ctx, member, tooLong, payment)
		require.ErrorIs(t, err, content.ErrInvalidProof)
		require.ErrorIs(t, err, merkle.ErrProofTooLong)
	})

	t.Run("undecodable payment", func(t *testing.T) {
		_, err := alice.ClaimChannelReward(ctx, member, proof, garbage)
		require.ErrorIs(t, err, content.ErrInvalidProof)
	})

	disabled := false
	_, err = New(exec, rootAcc).UpdateChannelPayouts(ctx, content.UpdateChannelPayoutsParams{
		ChannelCashoutsEnabled: &disabled,
	})
	require.NoError(t, err)

	t.Run("cashouts disabled before proof", func(t *testing.T) {
		for _, p := range [][]byte{proof, tooLong, garbage, nil} {
			_, err := alice.ClaimChannelReward(ctx, member, p, payment)
			require.ErrorIs(t, err, content.ErrCashoutsDisabled)

			_, err = alice.ClaimAndWithdrawChannelReward(ctx, member, p, payment)
			require.ErrorIs(t, err, content.ErrCashoutsDisabled)

			_, err = alice.VerifyClaim(p, payment)
			require.ErrorIs(t, err, content.ErrCashoutsDisabled)
		}
	})
}

func TestChannelTransferAccepted(t *testing.T) {
	exec, _ := newExecutor(t)
	ctx := context.Background()
	alice, bob := New(exec, aliceAcc), New(exec, bobAcc)

	id, _, err := alice.CreateChannel(ctx, content.OwnerMember{MemberID: 1}, content.CreateChannelParams{})
	require.NoError(t, err)

	transferID, _, err := alice.InitializeChannelTransfer(ctx, content.Member{MemberID: 1}, id, content.InitTransferParams{
		NewOwner: content.OwnerMember{MemberID: 2},
	})
	require.NoError(t, err)

	r, err := bob.AcceptChannelTransfer(ctx, id, content.TransferWitness{TransferID: transferID})
	require.NoError(t, err)

	events, err := ChannelTransferAcceptedEventsFromReceipt(r)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, id, events[0].ChannelID)
	require.Equal(t, transferID, events[0].TransferID)
	require.Equal(t, content.OwnerMember{MemberID: 2}, events[0].NewOwner)

	_, err = ChannelTransferAcceptedEventsFromReceipt(nil)
	require.Error(t, err)
}
