package content

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/content"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// ChannelRewardUpdatedEvent represents "ChannelRewardUpdated" event emitted by
// the module.
type ChannelRewardUpdatedEvent struct {
	ChannelID               uint64
	Amount                  *big.Int
	CumulativeRewardClaimed *big.Int
}

// ChannelFundsWithdrawnEvent represents "ChannelFundsWithdrawn" and
// "ChannelRewardClaimedAndWithdrawn" events emitted by the module. Nil
// destination means the council budget.
type ChannelFundsWithdrawnEvent struct {
	ChannelID   uint64
	Amount      *big.Int
	Destination *util.Uint160
}

// ChannelTransferAcceptedEvent represents "ChannelTransferAccepted" event
// emitted by the module.
type ChannelTransferAcceptedEvent struct {
	ChannelID  uint64
	TransferID uint64
	NewOwner   content.ChannelOwner
}

// ChannelRewardUpdatedEventsFromReceipt retrieves a set of all emitted events
// with "ChannelRewardUpdated" name from the provided receipt.
func ChannelRewardUpdatedEventsFromReceipt(r *chain.Receipt) ([]*ChannelRewardUpdatedEvent, error) {
	return eventsFromReceipt(r, "ChannelRewardUpdated", func() *ChannelRewardUpdatedEvent { return new(ChannelRewardUpdatedEvent) })
}

// ChannelFundsWithdrawnEventsFromReceipt retrieves a set of all emitted events
// with "ChannelFundsWithdrawn" name from the provided receipt.
func ChannelFundsWithdrawnEventsFromReceipt(r *chain.Receipt) ([]*ChannelFundsWithdrawnEvent, error) {
	return eventsFromReceipt(r, "ChannelFundsWithdrawn", func() *ChannelFundsWithdrawnEvent { return new(ChannelFundsWithdrawnEvent) })
}

// ChannelRewardClaimedAndWithdrawnEventsFromReceipt retrieves a set of all
// emitted events with "ChannelRewardClaimedAndWithdrawn" name from the provided
// receipt.
func ChannelRewardClaimedAndWithdrawnEventsFromReceipt(r *chain.Receipt) ([]*ChannelFundsWithdrawnEvent, error) {
	return eventsFromReceipt(r, "ChannelRewardClaimedAndWithdrawn", func() *ChannelFundsWithdrawnEvent { return new(ChannelFundsWithdrawnEvent) })
}

// ChannelTransferAcceptedEventsFromReceipt retrieves a set of all emitted
// events with "ChannelTransferAccepted" name from the provided receipt.
func ChannelTransferAcceptedEventsFromReceipt(r *chain.Receipt) ([]*ChannelTransferAcceptedEvent, error) {
	return eventsFromReceipt(r, "ChannelTransferAccepted", func() *ChannelTransferAcceptedEvent { return new(ChannelTransferAcceptedEvent) })
}

type stackItemDecoder interface {
	FromStackItem(item *stackitem.Array) error
}

func eventsFromReceipt[T stackItemDecoder](r *chain.Receipt, name string, newEvent func() T) ([]T, error) {
	if r == nil {
		return nil, errors.New("nil receipt")
	}

	var res []T
	for i, e := range r.Events {
		if !isModuleEvent(e, name) {
			continue
		}
		event := newEvent()
		err := event.FromStackItem(e.Item)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize %s event from stackitem (event #%d): %w", name, i, err)
		}
		res = append(res, event)
	}

	return res, nil
}

func isModuleEvent(e state.NotificationEvent, name string) bool {
	return e.ScriptHash.Equals(content.Hash) && e.Name == name
}

func structFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func idFromItem(item stackitem.Item) (uint64, error) {
	bi, err := item.TryInteger()
	if err != nil {
		return 0, err
	}
	if !bi.IsUint64() {
		return 0, fmt.Errorf("identifier %s is out of range", bi)
	}
	return bi.Uint64(), nil
}

// amountFromItem decodes amount represented either as integer or as 32-byte
// big-endian array.
func amountFromItem(item stackitem.Item) (*big.Int, error) {
	if item.Type() == stackitem.ByteArrayT {
		b, err := item.TryBytes()
		if err != nil {
			return nil, err
		}
		if len(b) == 32 {
			return new(big.Int).SetBytes(b), nil
		}
	}
	return item.TryInteger()
}

func accountFromItem(item stackitem.Item) (*util.Uint160, error) {
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	b, err := item.TryBytes()
	if err != nil {
		return nil, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func ownerFromItem(item stackitem.Item) (content.ChannelOwner, error) {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok || len(arr) != 2 {
		return nil, errors.New("owner is not a pair")
	}

	kind, err := arr[0].TryInteger()
	if err != nil {
		return nil, err
	}
	id, err := idFromItem(arr[1])
	if err != nil {
		return nil, err
	}

	switch kind.Int64() {
	case 1:
		return content.OwnerMember{MemberID: id}, nil
	case 2:
		return content.OwnerCuratorGroup{GroupID: id}, nil
	default:
		return nil, fmt.Errorf("unknown owner kind %s", kind)
	}
}

// FromStackItem converts provided [stackitem.Array] to ChannelRewardUpdatedEvent
// or returns an error if it's not possible to do to so.
func (e *ChannelRewardUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := structFields(item, 3)
	if err != nil {
		return err
	}

	e.ChannelID, err = idFromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field ChannelID: %w", err)
	}

	e.Amount, err = amountFromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	e.CumulativeRewardClaimed, err = amountFromItem(arr[2])
	if err != nil {
		return fmt.Errorf("field CumulativeRewardClaimed: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to
// ChannelFundsWithdrawnEvent or returns an error if it's not possible to do to
// so.
func (e *ChannelFundsWithdrawnEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := structFields(item, 3)
	if err != nil {
		return err
	}

	e.ChannelID, err = idFromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field ChannelID: %w", err)
	}

	e.Amount, err = amountFromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	e.Destination, err = accountFromItem(arr[2])
	if err != nil {
		return fmt.Errorf("field Destination: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to
// ChannelTransferAcceptedEvent or returns an error if it's not possible to do
// to so.
func (e *ChannelTransferAcceptedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := structFields(item, 3)
	if err != nil {
		return err
	}

	e.ChannelID, err = idFromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field ChannelID: %w", err)
	}

	e.TransferID, err = idFromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field TransferID: %w", err)
	}

	e.NewOwner, err = ownerFromItem(arr[2])
	if err != nil {
		return fmt.Errorf("field NewOwner: %w", err)
	}

	return nil
}
