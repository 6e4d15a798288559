package permission

import "strings"

// Channel is an enumeration of actions agents can perform on a channel.
type Channel byte

// Various channel agent permissions.
const (
	_ Channel = iota

	// UpdateChannelMetadata allows changing channel metadata.
	UpdateChannelMetadata

	// ManageChannelCollaborators allows changing channel collaborators.
	ManageChannelCollaborators

	// ClaimChannelReward allows claiming channel reward.
	ClaimChannelReward

	// WithdrawFromChannelBalance allows withdrawing channel funds.
	WithdrawFromChannelBalance

	// TransferChannel allows initializing and canceling channel transfer.
	TransferChannel

	// DeleteChannel allows deleting the channel.
	DeleteChannel

	// ManageVideos allows adding and changing channel videos.
	ManageVideos

	lastChannel = ManageVideos
)

var channelNames = map[Channel]string{
	UpdateChannelMetadata:      "UpdateChannelMetadata",
	ManageChannelCollaborators: "ManageChannelCollaborators",
	ClaimChannelReward:         "ClaimChannelReward",
	WithdrawFromChannelBalance: "WithdrawFromChannelBalance",
	TransferChannel:            "TransferChannel",
	DeleteChannel:              "DeleteChannel",
	ManageVideos:               "ManageVideos",
}

// String implements fmt.Stringer.
func (p Channel) String() string {
	if s, ok := channelNames[p]; ok {
		return s
	}
	return "Unknown"
}

// ChannelSet is a set of channel agent permissions.
type ChannelSet uint32

// NewChannelSet returns set of given permissions.
func NewChannelSet(ps ...Channel) ChannelSet {
	var s ChannelSet
	for _, p := range ps {
		s |= 1 << p
	}
	return s
}

// Has checks whether p is in the set.
func (s ChannelSet) Has(p Channel) bool {
	return s&(1<<p) != 0
}

// IsValid checks that the set contains known permissions only.
func (s ChannelSet) IsValid() bool {
	return s&^NewChannelSet(allChannel()...) == 0
}

func allChannel() []Channel {
	res := make([]Channel, 0, lastChannel)
	for p := Channel(1); p <= lastChannel; p++ {
		res = append(res, p)
	}
	return res
}

// AllChannel returns set of all channel agent permissions.
func AllChannel() ChannelSet {
	return NewChannelSet(allChannel()...)
}

// String implements fmt.Stringer.
func (s ChannelSet) String() string {
	var ss []string
	for _, p := range allChannel() {
		if s.Has(p) {
			ss = append(ss, p.String())
		}
	}
	return "[" + strings.Join(ss, ",") + "]"
}

// Moderation is an enumeration of moderation actions curators can perform on
// channels of certain privilege level.
type Moderation byte

// Various moderation permissions.
const (
	_ Moderation = iota

	// ChangeChannelFeatureStatus allows pausing and resuming channel features.
	ChangeChannelFeatureStatus

	// HideVideo allows hiding channel videos.
	HideVideo

	// DeleteObject allows deleting channel data objects.
	DeleteObject

	lastModeration = DeleteObject
)

// String implements fmt.Stringer.
func (m Moderation) String() string {
	switch m {
	case ChangeChannelFeatureStatus:
		return "ChangeChannelFeatureStatus"
	case HideVideo:
		return "HideVideo"
	case DeleteObject:
		return "DeleteObject"
	default:
		return "Unknown"
	}
}

// ModerationSet is a set of moderation permissions.
type ModerationSet uint32

// NewModerationSet returns set of given permissions.
func NewModerationSet(ms ...Moderation) ModerationSet {
	var s ModerationSet
	for _, m := range ms {
		s |= 1 << m
	}
	return s
}

// Has checks whether m is in the set.
func (s ModerationSet) Has(m Moderation) bool {
	return s&(1<<m) != 0
}

// IsValid checks that the set contains known permissions only.
func (s ModerationSet) IsValid() bool {
	return s&^NewModerationSet(ChangeChannelFeatureStatus, HideVideo, DeleteObject) == 0
}
