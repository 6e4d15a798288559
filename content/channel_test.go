package content

import (
	"testing"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/content/feature"
	"github.com/nspcc-dev/content-contract/content/permission"
	"github.com/nspcc-dev/content-contract/workinggroup"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func (e *env) createChannel(acc util.Uint160, o ChannelOwner, c Collaborators) (uint64, error) {
	var id uint64
	err := e.invoke(acc, func(ic *chain.Context) error {
		var err error
		id, err = CreateChannel(ic, o, CreateChannelParams{Collaborators: c})
		return err
	})
	return id, err
}

func (e *env) pause(acc util.Uint160, a Actor, channelID uint64, fs ...feature.Feature) error {
	return e.invoke(acc, func(ic *chain.Context) error {
		return SetChannelPausedFeaturesAsModerator(ic, a, channelID, feature.NewSet(fs...), "test")
	})
}

func TestCreateChannel(t *testing.T) {
	e := newEnv(t)

	t.Run("member", func(t *testing.T) {
		_, err := e.createChannel(bobAcc, OwnerMember{MemberID: e.alice}, nil)
		require.ErrorIs(t, err, ErrActorNotAuthorized)

		id, err := e.createChannel(aliceAcc, OwnerMember{MemberID: e.alice}, nil)
		require.NoError(t, err)
		require.EqualValues(t, 5, id)

		ch := e.channel(id)
		require.Equal(t, OwnerMember{MemberID: e.alice}, ch.Owner)
		require.Empty(t, ch.Collaborators)
		require.Nil(t, ch.Transfer)
		require.True(t, ch.CumulativeRewardClaimed.IsZero())
	})
	t.Run("curator group", func(t *testing.T) {
		group := OwnerCuratorGroup{GroupID: e.group}

		_, err := e.createChannel(strangerAcc, group, nil)
		require.ErrorIs(t, err, ErrActorNotAuthorized)

		_, err = e.createChannel(leadAcc, group, nil)
		require.NoError(t, err)

		_, err = e.createChannel(leadAcc, OwnerCuratorGroup{GroupID: 999}, nil)
		require.ErrorIs(t, err, ErrCuratorGroupNotFound)

		e.must(leadAcc, func(ic *chain.Context) error {
			return SetCuratorGroupStatus(ic, e.group, false)
		})

		_, err = e.createChannel(curatorAcc, group, nil)
		require.ErrorIs(t, err, ErrCuratorGroupInactive)
	})
	t.Run("collaborators", func(t *testing.T) {
		too := make(Collaborators)
		for i := uint64(0); i <= uint64(DefaultLimits().MaxCollaboratorsPerChannel); i++ {
			too[i+1] = permission.AllChannel()
		}

		_, err := e.createChannel(aliceAcc, OwnerMember{MemberID: e.alice}, too)
		require.ErrorIs(t, err, ErrTooManyCollaborators)

		_, err = e.createChannel(aliceAcc, OwnerMember{MemberID: e.alice}, Collaborators{e.bob: 1 << 30})
		require.ErrorIs(t, err, ErrInvalidPermissions)

		id, err := e.createChannel(aliceAcc, OwnerMember{MemberID: e.alice}, Collaborators{e.bob: permission.AllChannel()})
		require.NoError(t, err)
		require.Equal(t, Collaborators{e.bob: permission.AllChannel()}, e.channel(id).Collaborators)
	})
}

func TestUpdateChannelCollaborators(t *testing.T) {
	e := newEnv(t)
	alice := Member{MemberID: e.alice}
	bob := Collaborator{MemberID: e.bob}

	update := func(acc util.Uint160, a Actor, c Collaborators) error {
		return e.invoke(acc, func(ic *chain.Context) error {
			return UpdateChannelCollaborators(ic, a, 1, c)
		})
	}

	require.ErrorIs(t, update(bobAcc, bob, nil), ErrCollaboratorLacksPermission)
	require.ErrorIs(t, update(bobAcc, Collaborator{MemberID: e.carol}, nil), ErrActorNotAuthorized)
	require.ErrorIs(t, update(leadAcc, Collaborator{MemberID: e.carol}, nil), ErrNotChannelCollaborator)
	require.ErrorIs(t, update(leadAcc, Lead{}, nil), ErrNotChannelOwner)

	managers := Collaborators{e.bob: permission.NewChannelSet(permission.ManageChannelCollaborators)}
	require.NoError(t, update(aliceAcc, alice, managers))
	require.Equal(t, managers, e.channel(1).Collaborators)

	require.NoError(t, update(bobAcc, bob, nil))
	require.Empty(t, e.channel(1).Collaborators)

	require.ErrorIs(t, update(bobAcc, bob, managers), ErrNotChannelCollaborator)
}

func TestDeleteChannel(t *testing.T) {
	e := newEnv(t)
	alice := Member{MemberID: e.alice}
	payments := scenarioPayments()
	tree := e.commit(payments...)

	_, err := e.claim(aliceAcc, alice, e.proof(tree, 0), payments[0])
	require.NoError(t, err)

	del := func(acc util.Uint160, a Actor, id uint64) error {
		return e.invoke(acc, func(ic *chain.Context) error {
			return DeleteChannel(ic, a, id)
		})
	}

	require.ErrorIs(t, del(bobAcc, Member{MemberID: e.bob}, 1), ErrNotChannelOwner)
	require.ErrorIs(t, del(bobAcc, Collaborator{MemberID: e.bob}, 1), ErrCollaboratorLacksPermission)
	require.NoError(t, del(aliceAcc, alice, 1))
	require.ErrorIs(t, del(aliceAcc, alice, 1), ErrChannelNotFound)

	require.NoError(t, e.exec.View(func(ic *chain.Context) error {
		_, err := GetChannel(ic, 1)
		require.ErrorIs(t, err, ErrChannelNotFound)
		return nil
	}))

	require.EqualValues(t, 100, e.balanceOf(ChannelAccount(1)))

	_, err = e.claim(aliceAcc, alice, e.proof(tree, 0), payments[0])
	require.ErrorIs(t, err, ErrChannelNotFound)
}

func TestSetChannelPausedFeatures(t *testing.T) {
	e := newEnv(t)
	curator := Curator{GroupID: e.group, CuratorID: e.curator}

	require.ErrorIs(t, e.pause(aliceAcc, Member{MemberID: e.alice}, 2, feature.CreatorCashout), ErrActorNotAuthorized)
	require.ErrorIs(t, e.pause(bobAcc, Lead{}, 2, feature.CreatorCashout), ErrActorNotAuthorized)

	require.NoError(t, e.pause(curatorAcc, curator, 2, feature.CreatorCashout, feature.VideoCreation))
	require.Equal(t, feature.NewSet(feature.CreatorCashout, feature.VideoCreation), e.channel(2).PausedFeatures)

	require.ErrorIs(t, e.invoke(aliceAcc, func(ic *chain.Context) error {
		return SetChannelPausedFeaturesAsModerator(ic, Lead{}, 2, 1<<31, "")
	}), ErrInvalidPermissions)

	t.Run("privilege level", func(t *testing.T) {
		setLevel := func(acc util.Uint160, level uint8) error {
			return e.invoke(acc, func(ic *chain.Context) error {
				return UpdateChannelPrivilegeLevel(ic, 2, level)
			})
		}

		require.ErrorIs(t, setLevel(curatorAcc, 1), ErrNotLead)
		require.NoError(t, setLevel(leadAcc, 1))
		require.EqualValues(t, 1, e.channel(2).PrivilegeLevel)

		require.ErrorIs(t, e.pause(curatorAcc, curator, 2), ErrCuratorLacksPermission)
		require.NoError(t, e.pause(leadAcc, Lead{}, 2))
		require.Zero(t, e.channel(2).PausedFeatures)
	})
	t.Run("inactive group", func(t *testing.T) {
		e.must(leadAcc, func(ic *chain.Context) error {
			return SetCuratorGroupStatus(ic, e.group, false)
		})
		require.ErrorIs(t, e.pause(curatorAcc, curator, 3), ErrCuratorGroupInactive)
	})
}

func TestCuratorGroups(t *testing.T) {
	e := newEnv(t)
	curator := Curator{GroupID: e.group, CuratorID: e.curator}
	perms := permission.NewChannelSet(permission.ClaimChannelReward)

	t.Run("lead only", func(t *testing.T) {
		for _, acc := range []util.Uint160{rootAcc, curatorAcc, aliceAcc} {
			require.ErrorIs(t, e.invoke(acc, func(ic *chain.Context) error {
				_, err := CreateCuratorGroup(ic, true, nil)
				return err
			}), ErrNotLead)
			require.ErrorIs(t, e.invoke(acc, func(ic *chain.Context) error {
				return AddCuratorToGroup(ic, e.group, e.curator, perms)
			}), ErrNotLead)
			require.ErrorIs(t, e.invoke(acc, func(ic *chain.Context) error {
				return SetCuratorGroupStatus(ic, e.group, false)
			}), ErrNotLead)
		}
	})
	t.Run("add", func(t *testing.T) {
		add := func(groupID, curatorID uint64, p permission.ChannelSet) error {
			return e.invoke(leadAcc, func(ic *chain.Context) error {
				return AddCuratorToGroup(ic, groupID, curatorID, p)
			})
		}

		require.ErrorIs(t, add(e.group, e.curator, perms), ErrCuratorAlreadyInGroup)
		require.ErrorIs(t, add(e.group, 999, perms), workinggroup.ErrCuratorNotFound)
		require.ErrorIs(t, add(999, e.curator, perms), ErrCuratorGroupNotFound)

		var groupID uint64
		e.must(leadAcc, func(ic *chain.Context) error {
			var err error
			groupID, err = CreateCuratorGroup(ic, true, nil)
			return err
		})
		require.ErrorIs(t, add(groupID, e.curator, 1<<30), ErrInvalidPermissions)

		limit := int(DefaultLimits().MaxCuratorsPerGroup)
		for i := 0; i <= limit; i++ {
			var id uint64
			e.must(leadAcc, func(ic *chain.Context) error {
				var err error
				id, err = workinggroup.HireCurator(ic, e.alice, util.Uint160{0x30, byte(i)})
				return err
			})

			err := add(groupID, id, perms)
			if i < limit {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrTooManyCurators)
			}
		}
	})
	t.Run("permissions", func(t *testing.T) {
		require.ErrorIs(t, e.invoke(leadAcc, func(ic *chain.Context) error {
			return UpdateCuratorGroupPermissions(ic, e.group, ModerationPermissions{0: 1 << 20})
		}), ErrInvalidPermissions)

		e.must(leadAcc, func(ic *chain.Context) error {
			return UpdateCuratorGroupPermissions(ic, e.group, ModerationPermissions{
				0: permission.NewModerationSet(permission.HideVideo),
			})
		})
		require.ErrorIs(t, e.pause(curatorAcc, curator, 2), ErrCuratorLacksPermission)
	})
	t.Run("remove", func(t *testing.T) {
		remove := func() error {
			return e.invoke(leadAcc, func(ic *chain.Context) error {
				return RemoveCuratorFromGroup(ic, e.group, e.curator)
			})
		}

		require.NoError(t, remove())
		require.ErrorIs(t, remove(), ErrNotCuratorGroupMember)

		_, err := e.createChannel(curatorAcc, OwnerCuratorGroup{GroupID: e.group}, nil)
		require.ErrorIs(t, err, ErrActorNotAuthorized)

		require.ErrorIs(t, e.invoke(curatorAcc, func(ic *chain.Context) error {
			return WithdrawFromChannelBalance(ic, curator, 4, amount(1))
		}), ErrNotCuratorGroupMember)
	})
}

func TestLimitsValidate(t *testing.T) {
	require.NoError(t, DefaultLimits().Validate())

	for name, modify := range map[string]func(*Limits){
		"no proof":          func(l *Limits) { l.MaxMerkleProofHashes = 0 },
		"proof too long":    func(l *Limits) { l.MaxMerkleProofHashes = maxProofHashes + 1 },
		"no collaborators":  func(l *Limits) { l.MaxCollaboratorsPerChannel = 0 },
		"collaborators":     func(l *Limits) { l.MaxCollaboratorsPerChannel = maxMapSize + 1 },
		"no curators":       func(l *Limits) { l.MaxCuratorsPerGroup = 0 },
		"curators in group": func(l *Limits) { l.MaxCuratorsPerGroup = maxMapSize + 1 },
	} {
		t.Run(name, func(t *testing.T) {
			l := DefaultLimits()
			modify(&l)
			require.ErrorIs(t, l.Validate(), ErrInvalidLimits)

			exec, err := chain.NewExecutor(chain.Prm{Store: storage.NewMemoryStore()})
			require.NoError(t, err)
			require.ErrorIs(t, exec.View(func(ic *chain.Context) error {
				return Init(ic, InitPrm{Limits: l})
			}), ErrInvalidLimits)
		})
	}

	// channel with collaborators up to the limit cap is decodable
	cs := make(Collaborators, maxMapSize)
	for i := uint64(1); i <= maxMapSize; i++ {
		cs[i] = permission.NewChannelSet(permission.ClaimChannelReward)
	}
	ch := Channel{ID: 1, Owner: OwnerMember{MemberID: 1}, Collaborators: cs}

	w := io.NewBufBinWriter()
	ch.EncodeBinary(w.BinWriter)
	require.NoError(t, w.Err)

	var res Channel
	r := io.NewBinReaderFromBuf(w.Bytes())
	res.DecodeBinary(r)
	require.NoError(t, r.Err)
	require.Equal(t, ch, res)
}

func TestChannelEncoding(t *testing.T) {
	for name, ch := range map[string]Channel{
		"empty member channel": {ID: 1, Owner: OwnerMember{MemberID: 2}},
		"full": {
			ID:    7,
			Owner: OwnerCuratorGroup{GroupID: 3},
			Collaborators: Collaborators{
				5: permission.AllChannel(),
				1: permission.NewChannelSet(permission.ClaimChannelReward),
			},
			PausedFeatures:          feature.NewSet(feature.CreatorCashout),
			PrivilegeLevel:          4,
			CumulativeRewardClaimed: *amount(1 << 40),
			Transfer: &PendingTransfer{
				NewOwner: OwnerMember{MemberID: 9},
				Params: TransferParams{
					TransferID:       11,
					Price:            *amount(500),
					NewCollaborators: Collaborators{2: permission.NewChannelSet(permission.ManageVideos)},
				},
			},
			CreatedAt: 42,
		},
	} {
		t.Run(name, func(t *testing.T) {
			w := io.NewBufBinWriter()
			ch.EncodeBinary(w.BinWriter)
			require.NoError(t, w.Err)

			var res Channel
			r := io.NewBinReaderFromBuf(w.Bytes())
			res.DecodeBinary(r)
			require.NoError(t, r.Err)
			require.Equal(t, ch, res)
		})
	}

	t.Run("unknown owner kind", func(t *testing.T) {
		w := io.NewBufBinWriter()
		w.WriteU64LE(1)
		w.WriteB(3)
		w.WriteU64LE(1)

		var res Channel
		r := io.NewBinReaderFromBuf(w.Bytes())
		res.DecodeBinary(r)
		require.Error(t, r.Err)
	})
}
