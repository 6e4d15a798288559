/*
Package content implements channels, curator groups and channel reward payouts.

Rewards of all channels for a payout period are computed off-chain and
published as a payout table. Only the Merkle root of the table is stored by
the module (see merkle package for the tree layout). Each channel then claims
its entry of the table proving it against the root. Table entries carry total
reward channel earned since its creation, so the module pays the difference
between the entry and the reward already claimed by the channel and never
pays the same reward twice.

Claims are allowed to channel owners, collaborators and curators with
ClaimChannelReward permission while CreatorCashout feature of the channel is
not paused. Claimed reward moves from the council budget to the channel
account, see ChannelAccount. Withdrawals from the channel account are paid to
the controller account of the member owner or, for curator channels, return
to the council budget.

Module notifications

ChannelPayoutsUpdated notification. Produced on commitment update, carries
changed fields only, others are Null.

	ChannelPayoutsUpdated:
	  - name: commitment
	    type: Hash256
	  - name: payload
	    type: ByteArray
	  - name: minCashoutAllowed
	    type: Integer
	  - name: maxCashoutAllowed
	    type: Integer
	  - name: channelCashoutsEnabled
	    type: Boolean

ChannelRewardUpdated notification. Produced on each successful claim.

	ChannelRewardUpdated:
	  - name: channelID
	    type: Integer
	  - name: amount
	    type: Integer
	  - name: cumulativeRewardClaimed
	    type: Integer

ChannelRewardClaimedAndWithdrawn notification. Destination is Null for curator
channels.

	ChannelRewardClaimedAndWithdrawn:
	  - name: channelID
	    type: Integer
	  - name: amount
	    type: Integer
	  - name: destination
	    type: Hash160

ChannelFundsWithdrawn notification. Destination is Null for curator channels.

	ChannelFundsWithdrawn:
	  - name: channelID
	    type: Integer
	  - name: amount
	    type: Integer
	  - name: destination
	    type: Hash160

Channel notifications: ChannelCreated(channelID, owner),
ChannelCollaboratorsUpdated(channelID, count), ChannelPrivilegeLevelUpdated(channelID, level),
ChannelPausedFeaturesUpdated(channelID, features, rationale), ChannelDeleted(channelID).
Owner is an array of owner kind (1 for member, 2 for curator group) and
identifier.

Transfer notifications: ChannelTransferInitialized(channelID, transferID, newOwner, price),
ChannelTransferCancelled(channelID), ChannelTransferAccepted(channelID, transferID, newOwner).

Curator group notifications: CuratorGroupCreated(groupID, active),
CuratorGroupPermissionsUpdated(groupID), CuratorGroupStatusSet(groupID, active),
CuratorAdded(groupID, curatorID, permissions), CuratorRemoved(groupID, curatorID).

Module storage model

	0x04 'p'           serialized PayoutCommitment
	0x04 'l'           serialized Limits
	0x04 'c' <id BE>   serialized Channel
	0x04 'g' <id BE>   serialized CuratorGroup
	0x04 'n'|'m'|'t'   channel, curator group and transfer ID counters
*/
package content
