package content

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/balance"
	"github.com/nspcc-dev/content-contract/balance/balanceconst"
	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/content/feature"
	"github.com/nspcc-dev/content-contract/merkle"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func scenarioPayments() []merkle.PullPayment {
	return []merkle.PullPayment{
		merkle.NewPullPayment(1, 100),
		merkle.NewPullPayment(2, 50),
		merkle.NewPullPayment(3, 30),
		merkle.NewPullPayment(4, 20),
	}
}

func TestClaim(t *testing.T) {
	payments := scenarioPayments()

	tree, err := merkle.NewTree(payments)
	require.NoError(t, err)

	c := PayoutCommitment{Root: tree.Root(), ChannelCashoutsEnabled: true}
	zero := new(uint256.Int)

	t.Run("every leaf", func(t *testing.T) {
		for i := range payments {
			proof, err := tree.Proof(i)
			require.NoError(t, err)

			inc, err := Claim(c, proof, payments[i], zero, 32)
			require.NoError(t, err)
			require.Equal(t, &payments[i].CumulativeRewardEarned, inc)
		}
	})

	proof, err := tree.Proof(0)
	require.NoError(t, err)

	t.Run("cashouts disabled", func(t *testing.T) {
		disabled := c
		disabled.ChannelCashoutsEnabled = false

		_, err := Claim(disabled, proof, payments[0], zero, 32)
		require.ErrorIs(t, err, ErrCashoutsDisabled)

		_, err = Claim(disabled, nil, merkle.NewPullPayment(1, 1), zero, 0)
		require.ErrorIs(t, err, ErrCashoutsDisabled)
	})
	t.Run("invalid proof", func(t *testing.T) {
		_, err := Claim(c, proof, merkle.NewPullPayment(1, 101), zero, 32)
		require.ErrorIs(t, err, ErrInvalidProof)

		_, err = Claim(c, proof[:1], payments[0], zero, 32)
		require.ErrorIs(t, err, ErrInvalidProof)

		for i := range proof {
			for bit := 0; bit < 8; bit++ {
				bad := append(merkle.Proof(nil), proof...)
				bad[i].Hash[bit*4] ^= 1 << bit

				_, err = Claim(c, bad, payments[0], zero, 32)
				require.ErrorIs(t, err, ErrInvalidProof)
			}
		}
	})
	t.Run("proof too long", func(t *testing.T) {
		_, err := Claim(c, proof, payments[0], zero, len(proof)-1)
		require.ErrorIs(t, err, ErrInvalidProof)
	})
	t.Run("no increment", func(t *testing.T) {
		_, err := Claim(c, proof, payments[0], amount(100), 32)
		require.ErrorIs(t, err, ErrZeroOrNegativeIncrement)

		_, err = Claim(c, proof, payments[0], amount(150), 32)
		require.ErrorIs(t, err, ErrZeroOrNegativeIncrement)
	})
	t.Run("bounds", func(t *testing.T) {
		bounded := c
		bounded.MinCashoutAllowed = amount(60)
		bounded.MaxCashoutAllowed = amount(80)

		_, err := Claim(bounded, proof, payments[0], zero, 32)
		require.ErrorIs(t, err, ErrAmountOutOfBounds)

		_, err = Claim(bounded, proof, payments[0], amount(50), 32)
		require.ErrorIs(t, err, ErrAmountOutOfBounds)

		inc, err := Claim(bounded, proof, payments[0], amount(30), 32)
		require.NoError(t, err)
		require.EqualValues(t, 70, inc.Uint64())

		inc, err = Claim(bounded, proof, payments[0], amount(40), 32)
		require.NoError(t, err)
		require.EqualValues(t, 60, inc.Uint64())
	})
}

func TestClaimWeight(t *testing.T) {
	require.EqualValues(t, ClaimBaseWeight, ClaimWeight(0))
	require.EqualValues(t, ClaimBaseWeight, ClaimWeight(-1))
	require.Equal(t, ClaimWeight(3)-ClaimWeight(2), ClaimWeight(1)-ClaimWeight(0))
	require.Less(t, ClaimWeight(2), ClaimWeight(10))
}

func TestUpdateChannelPayouts(t *testing.T) {
	e := newEnv(t)

	e.view(func(ic *chain.Context) {
		c, err := Commitment(ic)
		require.NoError(t, err)
		require.Equal(t, PayoutCommitment{ChannelCashoutsEnabled: true}, c)
	})

	root := util.Uint256{1, 2, 3}

	err := e.invoke(aliceAcc, func(ic *chain.Context) error {
		return UpdateChannelPayouts(ic, UpdateChannelPayoutsParams{Commitment: &root})
	})
	require.ErrorIs(t, err, ErrNotRoot)

	payload := &PayloadDescriptor{ContentID: []byte("payouts-1"), Size: 1024}
	e.must(rootAcc, func(ic *chain.Context) error {
		err := UpdateChannelPayouts(ic, UpdateChannelPayoutsParams{
			Commitment:        &root,
			Payload:           payload,
			MinCashoutAllowed: amount(5),
		})
		require.Len(t, ic.Events(), 1)
		require.Equal(t, "ChannelPayoutsUpdated", ic.Events()[0].Name)
		return err
	})

	disabled := false
	e.must(rootAcc, func(ic *chain.Context) error {
		return UpdateChannelPayouts(ic, UpdateChannelPayoutsParams{
			MaxCashoutAllowed:      amount(500),
			ChannelCashoutsEnabled: &disabled,
		})
	})

	e.view(func(ic *chain.Context) {
		c, err := Commitment(ic)
		require.NoError(t, err)
		require.Equal(t, root, c.Root)
		require.Equal(t, payload, c.Payload)
		require.EqualValues(t, 5, c.MinCashoutAllowed.Uint64())
		require.EqualValues(t, 500, c.MaxCashoutAllowed.Uint64())
		require.False(t, c.ChannelCashoutsEnabled)
	})

	t.Run("invalid bounds", func(t *testing.T) {
		err := e.invoke(rootAcc, func(ic *chain.Context) error {
			return UpdateChannelPayouts(ic, UpdateChannelPayoutsParams{MinCashoutAllowed: amount(501)})
		})
		require.ErrorIs(t, err, ErrInvalidCashoutBounds)
	})
	t.Run("invalid payload", func(t *testing.T) {
		err := e.invoke(rootAcc, func(ic *chain.Context) error {
			return UpdateChannelPayouts(ic, UpdateChannelPayoutsParams{Payload: &PayloadDescriptor{Size: 1}})
		})
		require.Error(t, err)
	})
}

func TestClaimScenario(t *testing.T) {
	e := newEnv(t)
	payments := scenarioPayments()
	tree := e.commit(payments...)
	alice := Member{MemberID: e.alice}

	inc, err := e.claim(aliceAcc, alice, e.proof(tree, 0), payments[0])
	require.NoError(t, err)
	require.EqualValues(t, 100, inc)

	ch := e.channel(1)
	require.EqualValues(t, 100, ch.CumulativeRewardClaimed.Uint64())
	require.EqualValues(t, 100, e.balanceOf(ChannelAccount(1)))
	require.EqualValues(t, councilBudget-100, e.budget(balanceconst.Council))

	_, err = e.claim(aliceAcc, alice, e.proof(tree, 0), payments[0])
	require.ErrorIs(t, err, ErrZeroOrNegativeIncrement)

	payments[0] = merkle.NewPullPayment(1, 150)
	tree = e.commit(payments...)

	inc, err = e.claim(aliceAcc, alice, e.proof(tree, 0), payments[0])
	require.NoError(t, err)
	require.EqualValues(t, 50, inc)

	ch = e.channel(1)
	require.EqualValues(t, 150, ch.CumulativeRewardClaimed.Uint64())
	require.EqualValues(t, 150, e.balanceOf(ChannelAccount(1)))
	require.EqualValues(t, councilBudget-150, e.budget(balanceconst.Council))

	t.Run("stale commitment", func(t *testing.T) {
		old, err := merkle.NewTree(scenarioPayments())
		require.NoError(t, err)

		_, err = e.claim(aliceAcc, alice, e.proof(old, 0), scenarioPayments()[0])
		require.ErrorIs(t, err, ErrInvalidProof)
	})
	t.Run("other channel", func(t *testing.T) {
		inc, err := e.claim(aliceAcc, alice, e.proof(tree, 2), payments[2])
		require.NoError(t, err)
		require.EqualValues(t, 30, inc)
	})
	t.Run("curator channel", func(t *testing.T) {
		inc, err := e.claim(curatorAcc, Curator{GroupID: e.group, CuratorID: e.curator}, e.proof(tree, 3), payments[3])
		require.NoError(t, err)
		require.EqualValues(t, 20, inc)
		require.EqualValues(t, 20, e.balanceOf(ChannelAccount(4)))
	})
	t.Run("missing channel", func(t *testing.T) {
		e.commit(merkle.NewPullPayment(42, 100))
		_, err := e.claim(aliceAcc, alice, nil, merkle.NewPullPayment(42, 100))
		require.ErrorIs(t, err, ErrChannelNotFound)
	})
}

func TestClaimCashoutsDisabled(t *testing.T) {
	e := newEnv(t)
	payments := scenarioPayments()
	tree := e.commit(payments...)

	disabled := false
	e.must(rootAcc, func(ic *chain.Context) error {
		return UpdateChannelPayouts(ic, UpdateChannelPayoutsParams{ChannelCashoutsEnabled: &disabled})
	})

	alice := Member{MemberID: e.alice}
	for i := 0; i < 3; i++ {
		_, err := e.claim(aliceAcc, alice, e.proof(tree, i), payments[i])
		require.ErrorIs(t, err, ErrCashoutsDisabled)

		_, err = e.claim(aliceAcc, alice, nil, payments[i])
		require.ErrorIs(t, err, ErrCashoutsDisabled)
	}

	ch := e.channel(1)
	require.True(t, ch.CumulativeRewardClaimed.IsZero())
}

func TestClaimEncoded(t *testing.T) {
	e := newEnv(t)
	payments := scenarioPayments()
	tree := e.commit(payments...)
	alice := Member{MemberID: e.alice}

	claim := func(acc util.Uint160, proof, payment []byte) error {
		return e.invoke(acc, func(ic *chain.Context) error {
			_, err := ClaimEncodedChannelReward(ic, alice, proof, payment)
			return err
		})
	}

	proof := e.proof(tree, 0).Bytes()
	tooLong := make(merkle.Proof, DefaultLimits().MaxMerkleProofHashes+1).Bytes()

	require.ErrorIs(t, claim(aliceAcc, proof, []byte{1}), ErrInvalidProof)
	require.ErrorIs(t, claim(aliceAcc, tooLong, payments[0].Bytes()), merkle.ErrProofTooLong)
	require.ErrorIs(t, claim(aliceAcc, append(proof, 0), payments[0].Bytes()), ErrInvalidProof)
	require.ErrorIs(t, claim(strangerAcc, []byte{9}, payments[0].Bytes()), ErrActorNotAuthorized)

	var inc *uint256.Int
	e.view(func(ic *chain.Context) {
		var err error
		inc, err = VerifyEncodedClaim(ic, proof, payments[0].Bytes())
		require.NoError(t, err)
	})
	require.EqualValues(t, 100, inc.Uint64())

	disabled := false
	e.must(rootAcc, func(ic *chain.Context) error {
		return UpdateChannelPayouts(ic, UpdateChannelPayoutsParams{ChannelCashoutsEnabled: &disabled})
	})

	for _, p := range [][]byte{proof, tooLong, {9}, nil} {
		require.ErrorIs(t, claim(aliceAcc, p, payments[0].Bytes()), ErrCashoutsDisabled)

		err := e.invoke(aliceAcc, func(ic *chain.Context) error {
			_, err := ClaimAndWithdrawEncodedChannelReward(ic, alice, p, payments[0].Bytes())
			return err
		})
		require.ErrorIs(t, err, ErrCashoutsDisabled)
	}

	ch := e.channel(1)
	require.True(t, ch.CumulativeRewardClaimed.IsZero())
}

func TestClaimPermissions(t *testing.T) {
	e := newEnv(t)
	payments := scenarioPayments()
	tree := e.commit(payments...)

	for _, tc := range []struct {
		name    string
		signer  util.Uint160
		actor   Actor
		payment int
		err     error
	}{
		{"stranger as member", strangerAcc, Member{MemberID: e.alice}, 0, ErrActorNotAuthorized},
		{"member of other channel", bobAcc, Member{MemberID: e.bob}, 0, ErrNotChannelOwner},
		{"not a collaborator", bobAcc, Collaborator{MemberID: e.bob}, 1, ErrNotChannelCollaborator},
		{"curator of member channel", curatorAcc, Curator{GroupID: e.group, CuratorID: e.curator}, 0, ErrNotChannelOwner},
		{"lead of member channel", leadAcc, Lead{}, 0, ErrNotChannelOwner},
		{"member of curator channel", aliceAcc, Member{MemberID: e.alice}, 3, ErrNotChannelOwner},
		{"lead as curator", leadAcc, Curator{GroupID: e.group, CuratorID: e.curator}, 3, ErrActorNotAuthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.claim(tc.signer, tc.actor, e.proof(tree, tc.payment), payments[tc.payment])
			require.ErrorIs(t, err, tc.err)
		})
	}

	t.Run("collaborator", func(t *testing.T) {
		inc, err := e.claim(bobAcc, Collaborator{MemberID: e.bob}, e.proof(tree, 0), payments[0])
		require.NoError(t, err)
		require.EqualValues(t, 100, inc)
	})
	t.Run("lead", func(t *testing.T) {
		inc, err := e.claim(leadAcc, Lead{}, e.proof(tree, 3), payments[3])
		require.NoError(t, err)
		require.EqualValues(t, 20, inc)
	})
	t.Run("collaborator without permission", func(t *testing.T) {
		e.must(aliceAcc, func(ic *chain.Context) error {
			return UpdateChannelCollaborators(ic, Member{MemberID: e.alice}, 2, Collaborators{e.bob: 0})
		})

		_, err := e.claim(bobAcc, Collaborator{MemberID: e.bob}, e.proof(tree, 1), payments[1])
		require.ErrorIs(t, err, ErrCollaboratorLacksPermission)
	})
	t.Run("paused feature", func(t *testing.T) {
		e.must(leadAcc, func(ic *chain.Context) error {
			return SetChannelPausedFeaturesAsModerator(ic, Lead{}, 3, feature.NewSet(feature.CreatorCashout), "audit")
		})

		_, err := e.claim(aliceAcc, Member{MemberID: e.alice}, e.proof(tree, 2), payments[2])
		require.ErrorIs(t, err, ErrActionPausedForChannel)

		var fe FeaturePausedError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, feature.CreatorCashout, fe.Feature)
	})
	t.Run("curator lacks permission", func(t *testing.T) {
		e.must(leadAcc, func(ic *chain.Context) error {
			if err := RemoveCuratorFromGroup(ic, e.group, e.curator); err != nil {
				return err
			}
			return AddCuratorToGroup(ic, e.group, e.curator, 0)
		})

		payment := merkle.NewPullPayment(4, 40)
		tree := e.commit(payment)

		_, err := e.claim(curatorAcc, Curator{GroupID: e.group, CuratorID: e.curator}, e.proof(tree, 0), payment)
		require.ErrorIs(t, err, ErrCuratorLacksPermission)

		var pe CuratorPermissionError
		require.ErrorAs(t, err, &pe)
	})
}

func TestClaimRollback(t *testing.T) {
	e := newEnv(t)

	// increment below existential deposit can't open channel account
	payment := merkle.NewPullPayment(2, existentialDeposit-1)
	tree := e.commit(payment)

	_, err := e.claim(aliceAcc, Member{MemberID: e.alice}, e.proof(tree, 0), payment)
	require.ErrorIs(t, err, balance.ErrBelowExistentialDeposit)
	ch := e.channel(2)
	require.True(t, ch.CumulativeRewardClaimed.IsZero())
	require.EqualValues(t, councilBudget, e.budget(balanceconst.Council))

	// council budget can't pay
	payment = merkle.NewPullPayment(2, councilBudget+1)
	tree = e.commit(payment)

	_, err = e.claim(aliceAcc, Member{MemberID: e.alice}, e.proof(tree, 0), payment)
	require.ErrorIs(t, err, balance.ErrInsufficientFunds)
	ch = e.channel(2)
	require.True(t, ch.CumulativeRewardClaimed.IsZero())
}
