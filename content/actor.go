package content

import "fmt"

// Actor is an identity the invocation signer acts as. Implemented by Lead,
// Curator, Collaborator and Member only.
type Actor interface {
	fmt.Stringer
	isActor()
}

// Lead is the content working group lead.
type Lead struct{}

// Curator is a working group curator acting within the curator group.
type Curator struct {
	GroupID   uint64
	CuratorID uint64
}

// Collaborator is a member acting as a collaborator of the channel.
type Collaborator struct {
	MemberID uint64
}

// Member is a member acting as a channel owner.
type Member struct {
	MemberID uint64
}

func (Lead) isActor()         {}
func (Curator) isActor()      {}
func (Collaborator) isActor() {}
func (Member) isActor()       {}

func (Lead) String() string { return "lead" }

func (x Curator) String() string {
	return fmt.Sprintf("curator #%d of group #%d", x.CuratorID, x.GroupID)
}

func (x Collaborator) String() string { return fmt.Sprintf("collaborator #%d", x.MemberID) }

func (x Member) String() string { return fmt.Sprintf("member #%d", x.MemberID) }
