// Package balance contains RPC wrappers for the balance ledger.
package balance

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/balance"
	"github.com/nspcc-dev/content-contract/balance/balanceconst"
	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// TransferXEvent represents "TransferX" event emitted by the ledger. Nil From
// means mint, nil To means burn.
type TransferXEvent struct {
	From    *util.Uint160
	To      *util.Uint160
	Amount  *big.Int
	Details []byte
}

// BudgetUpdatedEvent represents "BudgetUpdated" event emitted by the ledger.
type BudgetUpdatedEvent struct {
	Budget balanceconst.Budget
	Amount *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	View(f chain.Method) error
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	Invoke(ctx context.Context, caller util.Uint160, method string, weight uint64, f chain.Method) (*chain.Receipt, error)
}

// ContractReader implements safe ledger methods.
type ContractReader struct {
	invoker Invoker
}

// Contract implements all ledger methods signed by the sender.
type Contract struct {
	ContractReader
	actor  Actor
	sender util.Uint160
}

// NewReader creates an instance of ContractReader using the given Invoker.
func NewReader(invoker Invoker) *ContractReader {
	return &ContractReader{invoker}
}

// New creates an instance of Contract using the given Actor. All invocations
// are signed by the sender.
func New(actor Actor, sender util.Uint160) *Contract {
	return &Contract{ContractReader{actor}, actor, sender}
}

func (c *ContractReader) amount(f func(ic *chain.Context) (*uint256.Int, error)) (*uint256.Int, error) {
	var res *uint256.Int
	err := c.invoker.View(func(ic *chain.Context) error {
		var err error
		res, err = f(ic)
		return err
	})
	return res, err
}

// BalanceOf returns balance of the account.
func (c *ContractReader) BalanceOf(acc util.Uint160) (*uint256.Int, error) {
	return c.amount(func(ic *chain.Context) (*uint256.Int, error) {
		return balance.BalanceOf(ic, acc)
	})
}

// TotalSupply returns total amount of assets held by accounts.
func (c *ContractReader) TotalSupply() (*uint256.Int, error) {
	return c.amount(func(ic *chain.Context) (*uint256.Int, error) {
		return balance.TotalSupply(ic), nil
	})
}

// ExistentialDeposit returns minimal non-zero balance of an account.
func (c *ContractReader) ExistentialDeposit() (*uint256.Int, error) {
	return c.amount(func(ic *chain.Context) (*uint256.Int, error) {
		return balance.ExistentialDeposit(ic), nil
	})
}

// Budget returns current amount of the budget.
func (c *ContractReader) Budget(b balanceconst.Budget) (*uint256.Int, error) {
	return c.amount(func(ic *chain.Context) (*uint256.Int, error) {
		return balance.Budget(ic, b)
	})
}

// Transfer invokes `transfer` method of the ledger from the sender account.
func (c *Contract) Transfer(ctx context.Context, to util.Uint160, amount *uint256.Int) (*chain.Receipt, error) {
	return c.actor.Invoke(ctx, c.sender, "transfer", 0, func(ic *chain.Context) error {
		return balance.Transfer(ic, c.sender, to, amount)
	})
}

// SetBudget invokes `setBudget` method of the ledger.
func (c *Contract) SetBudget(ctx context.Context, b balanceconst.Budget, amount *uint256.Int) (*chain.Receipt, error) {
	return c.actor.Invoke(ctx, c.sender, "setBudget", 0, func(ic *chain.Context) error {
		return balance.SetBudget(ic, b, amount)
	})
}

// TransferXEventsFromReceipt retrieves a set of all emitted events with
// "TransferX" name from the provided receipt.
func TransferXEventsFromReceipt(r *chain.Receipt) ([]*TransferXEvent, error) {
	if r == nil {
		return nil, errors.New("nil receipt")
	}

	var res []*TransferXEvent
	for i, e := range r.Events {
		if e.Name != "TransferX" || !e.ScriptHash.Equals(balance.Hash) {
			continue
		}
		event := new(TransferXEvent)
		err := event.FromStackItem(e.Item)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize TransferXEvent from stackitem (event #%d): %w", i, err)
		}
		res = append(res, event)
	}

	return res, nil
}

// BudgetUpdatedEventsFromReceipt retrieves a set of all emitted events with
// "BudgetUpdated" name from the provided receipt.
func BudgetUpdatedEventsFromReceipt(r *chain.Receipt) ([]*BudgetUpdatedEvent, error) {
	if r == nil {
		return nil, errors.New("nil receipt")
	}

	var res []*BudgetUpdatedEvent
	for i, e := range r.Events {
		if e.Name != "BudgetUpdated" || !e.ScriptHash.Equals(balance.Hash) {
			continue
		}
		event := new(BudgetUpdatedEvent)
		err := event.FromStackItem(e.Item)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize BudgetUpdatedEvent from stackitem (event #%d): %w", i, err)
		}
		res = append(res, event)
	}

	return res, nil
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

// FromStackItem converts provided [stackitem.Array] to TransferXEvent or
// returns an error if it's not possible to do to so.
func (e *TransferXEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := structFields(item, 4)
	if err != nil {
		return err
	}

	e.From, err = accountFromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	e.To, err = accountFromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	e.Amount, err = amountFromItem(arr[2])
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	e.Details, err = arr[3].TryBytes()
	if err != nil {
		return fmt.Errorf("field Details: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to BudgetUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *BudgetUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := structFields(item, 2)
	if err != nil {
		return err
	}

	b, err := arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field Budget: %w", err)
	}
	if !b.IsUint64() || b.Uint64() > 0xff {
		return fmt.Errorf("field Budget: %s is out of range", b)
	}
	e.Budget = balanceconst.Budget(b.Uint64())

	e.Amount, err = amountFromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}
