package balance

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/balance/balanceconst"
	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// Account structure stores metadata of each balance account.
type Account struct {
	// Active balance
	Balance uint256.Int
}

// EncodeBinary implements io.Serializable.
func (a *Account) EncodeBinary(w *io.BinWriter) {
	b := a.Balance.Bytes32()
	w.WriteBytes(b[:])
}

// DecodeBinary implements io.Serializable.
func (a *Account) DecodeBinary(r *io.BinReader) {
	var b [32]byte
	r.ReadBytes(b[:])
	a.Balance.SetBytes(b[:])
}

// Hash is a script hash notifications of the module are emitted on behalf of.
var Hash = hash.Hash160([]byte("balance"))

const (
	storagePrefix = 0x01

	accountPrefix         = 'a'
	budgetPrefix          = 'b'
	existentialDepositKey = 'e'
	circulationKey        = 't'
)

var (
	// ErrInsufficientFunds is returned when account or budget has less assets
	// than requested.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrBelowExistentialDeposit is returned when operation leaves account
	// with non-zero balance lower than existential deposit.
	ErrBelowExistentialDeposit = errors.New("balance below existential deposit")
	// ErrUnknownBudget is returned for budgets not listed in balanceconst.
	ErrUnknownBudget = errors.New("unknown budget")
)

func key(parts ...[]byte) []byte {
	return common.StorageKey(storagePrefix, parts...)
}

func accountKey(acc util.Uint160) []byte {
	return key([]byte{accountPrefix}, acc.BytesBE())
}

// Init sets existential deposit of the ledger. It is called once on genesis.
func Init(ctx *chain.Context, existentialDeposit *uint256.Int) {
	putAmount(ctx, key([]byte{existentialDepositKey}), existentialDeposit)
	ctx.Log("balance module initialized", zap.Stringer("existential deposit", existentialDeposit.ToBig()))
}

// ExistentialDeposit returns minimal non-zero balance of an account.
func ExistentialDeposit(ctx *chain.Context) *uint256.Int {
	return getAmount(ctx, key([]byte{existentialDepositKey}))
}

// TotalSupply returns total amount of assets held by accounts.
func TotalSupply(ctx *chain.Context) *uint256.Int {
	return getAmount(ctx, key([]byte{circulationKey}))
}

// BalanceOf returns balance of the specified account.
func BalanceOf(ctx *chain.Context, acc util.Uint160) (*uint256.Int, error) {
	a, err := getAccount(ctx, acc)
	if err != nil {
		return nil, err
	}
	return &a.Balance, nil
}

// Transfer transfers assets from one account to another. Can be invoked only
// by the owner of the source account. Source account is removed if its
// remaining balance is below existential deposit.
//
// Produces Transfer and TransferX notifications. TransferX notification
// will have empty details field.
func Transfer(ctx *chain.Context, from, to util.Uint160, amount *uint256.Int) error {
	if err := common.CheckOwnerWitness(ctx, from); err != nil {
		return err
	}
	return TransferX(ctx, from, to, amount, nil, false)
}

// TransferX transfers assets between accounts on behalf of other modules.
// With keepAlive set, source account must keep at least existential deposit.
//
// Produces Transfer and TransferX notifications.
func TransferX(ctx *chain.Context, from, to util.Uint160, amount *uint256.Int, details []byte, keepAlive bool) error {
	if err := debit(ctx, from, amount, keepAlive); err != nil {
		return err
	}
	if err := credit(ctx, to, amount); err != nil {
		return err
	}

	notifyTransfer(ctx, &from, &to, amount, details)

	return nil
}

// Mint creates assets on the account.
//
// Produces Mint, Transfer and TransferX notifications.
func Mint(ctx *chain.Context, to util.Uint160, amount *uint256.Int, details []byte) error {
	if err := credit(ctx, to, amount); err != nil {
		return err
	}

	supply, err := common.AddAmounts(TotalSupply(ctx), amount)
	if err != nil {
		return fmt.Errorf("increase total supply: %w", err)
	}
	putAmount(ctx, key([]byte{circulationKey}), supply)

	notifyTransfer(ctx, nil, &to, amount, details)
	ctx.Notify(Hash, "Mint", common.AccountItem(to), common.AmountItem(amount))

	return nil
}

// Burn destroys assets of the account. With keepAlive set, account must keep
// at least existential deposit.
//
// Produces Burn, Transfer and TransferX notifications.
func Burn(ctx *chain.Context, from util.Uint160, amount *uint256.Int, details []byte, keepAlive bool) error {
	if err := debit(ctx, from, amount, keepAlive); err != nil {
		return err
	}

	supply, err := common.SubAmounts(TotalSupply(ctx), amount)
	if err != nil {
		return fmt.Errorf("decrease total supply: %w", err)
	}
	putAmount(ctx, key([]byte{circulationKey}), supply)

	notifyTransfer(ctx, &from, nil, amount, details)
	ctx.Notify(Hash, "Burn", common.AccountItem(from), common.AmountItem(amount))

	return nil
}

// Budget returns current amount of the budget.
func Budget(ctx *chain.Context, b balanceconst.Budget) (*uint256.Int, error) {
	if !b.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBudget, b)
	}
	return getAmount(ctx, budgetKey(b)), nil
}

// SetBudget sets budget amount. Can be invoked only by governance.
//
// Produces BudgetUpdated notification.
func SetBudget(ctx *chain.Context, b balanceconst.Budget, amount *uint256.Int) error {
	if !common.HasRootAccess(ctx) {
		return fmt.Errorf("set %s budget: %w", b, common.ErrWitnessFailed)
	}
	if !b.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownBudget, b)
	}

	putBudget(ctx, b, amount)

	return nil
}

// IncreaseBudget adds amount to the budget.
//
// Produces BudgetUpdated notification.
func IncreaseBudget(ctx *chain.Context, b balanceconst.Budget, amount *uint256.Int) error {
	cur, err := Budget(ctx, b)
	if err != nil {
		return err
	}

	res, err := common.AddAmounts(cur, amount)
	if err != nil {
		return fmt.Errorf("increase %s budget: %w", b, err)
	}

	putBudget(ctx, b, res)

	return nil
}

// DecreaseBudget subtracts amount from the budget.
//
// Produces BudgetUpdated notification.
func DecreaseBudget(ctx *chain.Context, b balanceconst.Budget, amount *uint256.Int) error {
	cur, err := Budget(ctx, b)
	if err != nil {
		return err
	}

	if cur.Lt(amount) {
		return fmt.Errorf("%w: %s budget has %s, need %s", ErrInsufficientFunds, b, cur.ToBig(), amount.ToBig())
	}

	putBudget(ctx, b, new(uint256.Int).Sub(cur, amount))

	return nil
}

// MintFromBudget moves assets from the budget to the account.
func MintFromBudget(ctx *chain.Context, b balanceconst.Budget, to util.Uint160, amount *uint256.Int, details []byte) error {
	if err := DecreaseBudget(ctx, b, amount); err != nil {
		return err
	}
	return Mint(ctx, to, amount, details)
}

// BurnToBudget moves assets from the account to the budget.
func BurnToBudget(ctx *chain.Context, b balanceconst.Budget, from util.Uint160, amount *uint256.Int, details []byte, keepAlive bool) error {
	if err := Burn(ctx, from, amount, details, keepAlive); err != nil {
		return err
	}
	return IncreaseBudget(ctx, b, amount)
}

func budgetKey(b balanceconst.Budget) []byte {
	return key([]byte{budgetPrefix, byte(b)})
}

func putBudget(ctx *chain.Context, b balanceconst.Budget, amount *uint256.Int) {
	putAmount(ctx, budgetKey(b), amount)
	ctx.Notify(Hash, "BudgetUpdated", stackitem.NewBigInteger(big.NewInt(int64(b))), common.AmountItem(amount))
}

// debit withdraws amount from the account. Accounts left with dust are
// removed and the dust leaves circulation.
func debit(ctx *chain.Context, from util.Uint160, amount *uint256.Int, keepAlive bool) error {
	acc, err := getAccount(ctx, from)
	if err != nil {
		return err
	}

	if acc.Balance.Lt(amount) {
		return fmt.Errorf("%w: account %s has %s, need %s", ErrInsufficientFunds,
			from.StringLE(), acc.Balance.ToBig(), amount.ToBig())
	}

	rest := new(uint256.Int).Sub(&acc.Balance, amount)
	ed := ExistentialDeposit(ctx)

	if keepAlive && rest.Lt(ed) {
		return fmt.Errorf("%w: account %s would keep %s, minimum %s", ErrBelowExistentialDeposit,
			from.StringLE(), rest.ToBig(), ed.ToBig())
	}

	if rest.IsZero() || rest.Lt(ed) {
		ctx.Delete(accountKey(from))
		if !rest.IsZero() {
			ctx.Log("dust account removed", zap.String("account", from.StringLE()), zap.Stringer("dust", rest.ToBig()))
		}
		supply, err := common.SubAmounts(TotalSupply(ctx), rest)
		if err != nil {
			return fmt.Errorf("burn dust: %w", err)
		}
		putAmount(ctx, key([]byte{circulationKey}), supply)
		return nil
	}

	acc.Balance = *rest
	common.SetSerialized(ctx, accountKey(from), &acc)

	return nil
}

// credit deposits amount to the account.
func credit(ctx *chain.Context, to util.Uint160, amount *uint256.Int) error {
	acc, err := getAccount(ctx, to)
	if err != nil {
		return err
	}

	res, err := common.AddAmounts(&acc.Balance, amount)
	if err != nil {
		return fmt.Errorf("credit account %s: %w", to.StringLE(), err)
	}

	if ed := ExistentialDeposit(ctx); res.Lt(ed) {
		return fmt.Errorf("%w: account %s would have %s, minimum %s", ErrBelowExistentialDeposit,
			to.StringLE(), res.ToBig(), ed.ToBig())
	}

	acc.Balance = *res
	common.SetSerialized(ctx, accountKey(to), &acc)

	return nil
}

func notifyTransfer(ctx *chain.Context, from, to *util.Uint160, amount *uint256.Int, details []byte) {
	ctx.Notify(Hash, "Transfer", common.OptionalAccountItem(from), common.OptionalAccountItem(to), common.AmountItem(amount))
	ctx.Notify(Hash, "TransferX", common.OptionalAccountItem(from), common.OptionalAccountItem(to), common.AmountItem(amount),
		stackitem.NewByteArray(details))
}

func getAccount(ctx *chain.Context, acc util.Uint160) (Account, error) {
	var a Account

	_, err := common.GetSerialized(ctx, accountKey(acc), &a)
	if err != nil {
		return a, fmt.Errorf("read account %s: %w", acc.StringLE(), err)
	}

	return a, nil
}

func getAmount(ctx *chain.Context, k []byte) *uint256.Int {
	return new(uint256.Int).SetBytes(ctx.Get(k))
}

func putAmount(ctx *chain.Context, k []byte, amount *uint256.Int) {
	ctx.Put(k, amount.Bytes())
}
