package feature

import "strings"

// Feature is an enumeration of channel features that can be paused by
// moderators.
type Feature byte

// Various pausable features.
const (
	_ Feature = iota

	// ChannelFundsTransfer gates withdrawals from the channel account.
	ChannelFundsTransfer

	// CreatorCashout gates claims of the channel reward.
	CreatorCashout

	// VideoNftIssuance gates issuing NFTs for channel videos.
	VideoNftIssuance

	// VideoCreation gates adding videos to the channel.
	VideoCreation

	// VideoUpdate gates changing channel videos.
	VideoUpdate

	// ChannelUpdate gates changing channel record.
	ChannelUpdate

	// CreatorTokenIssuance gates issuing creator token of the channel.
	CreatorTokenIssuance

	lastFeature = CreatorTokenIssuance
)

var names = map[Feature]string{
	ChannelFundsTransfer: "ChannelFundsTransfer",
	CreatorCashout:       "CreatorCashout",
	VideoNftIssuance:     "VideoNftIssuance",
	VideoCreation:        "VideoCreation",
	VideoUpdate:          "VideoUpdate",
	ChannelUpdate:        "ChannelUpdate",
	CreatorTokenIssuance: "CreatorTokenIssuance",
}

// String implements fmt.Stringer.
func (f Feature) String() string {
	if s, ok := names[f]; ok {
		return s
	}
	return "Unknown"
}

// IsValid checks whether f is a known feature.
func (f Feature) IsValid() bool {
	return f > 0 && f <= lastFeature
}

// Set is a set of features.
type Set uint32

// NewSet returns set of given features.
func NewSet(fs ...Feature) Set {
	var s Set
	for _, f := range fs {
		s |= 1 << f
	}
	return s
}

// Has checks whether f is in the set.
func (s Set) Has(f Feature) bool {
	return s&(1<<f) != 0
}

// IsValid checks that the set contains known features only.
func (s Set) IsValid() bool {
	return s&^all == 0
}

var all = NewSet(ChannelFundsTransfer, CreatorCashout, VideoNftIssuance, VideoCreation,
	VideoUpdate, ChannelUpdate, CreatorTokenIssuance)

// String implements fmt.Stringer.
func (s Set) String() string {
	var ss []string
	for f := Feature(1); f <= lastFeature; f++ {
		if s.Has(f) {
			ss = append(ss, f.String())
		}
	}
	return "[" + strings.Join(ss, ",") + "]"
}
