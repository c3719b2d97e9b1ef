package ledger

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Engine applies credit and debit operations to accounts.
//
// Transaction ids are unique across the whole system, not per account.
// The check-then-insert on the id set is atomic under ids' own lock,
// and each account's read-validate-append-update sequence runs under
// that account's lock, so two concurrent mutations of one account can
// never both work from the same stale balance.
type Engine struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewEngine() *Engine {
	return &Engine{ids: make(map[string]struct{})}
}

// Credit appends a CREDIT transaction and increases the balance by
// amount. Balance update and append happen as one unit; on any error
// the account is unchanged.
func (e *Engine) Credit(txID string, account *Account, amount decimal.Decimal) error {
	account.mu.Lock()
	defer account.mu.Unlock()

	err := e.validate(txID, amount)
	if err != nil {
		return err
	}

	err = e.reserve(txID)
	if err != nil {
		return err
	}

	account.history = append(account.history, Transaction{
		ID:            txID,
		AccountNumber: account.Number,
		Time:          time.Now(),
		Type:          TxCredit,
		Amount:        amount,
	})
	account.balance = account.balance.Add(amount)

	return nil
}

// Debit appends a DEBIT transaction and decreases the balance by
// amount. Fails with ErrInsufficientFunds when amount exceeds the
// balance as of this call; on any error the account is unchanged.
func (e *Engine) Debit(txID string, account *Account, amount decimal.Decimal) error {
	account.mu.Lock()
	defer account.mu.Unlock()

	err := e.validate(txID, amount)
	if err != nil {
		return err
	}

	if amount.GreaterThan(account.balance) {
		return ErrInsufficientFunds
	}

	err = e.reserve(txID)
	if err != nil {
		return err
	}

	account.history = append(account.history, Transaction{
		ID:            txID,
		AccountNumber: account.Number,
		Time:          time.Now(),
		Type:          TxDebit,
		Amount:        amount,
	})
	account.balance = account.balance.Sub(amount)

	return nil
}

// validate applies the checks shared by credit and debit: duplicate id
// first, then amount. It must not change any state.
func (e *Engine) validate(txID string, amount decimal.Decimal) error {
	e.mu.Lock()
	_, used := e.ids[txID]
	e.mu.Unlock()

	if used {
		return ErrDuplicateTransaction
	}

	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	return nil
}

// reserve claims txID once all other checks have passed. It can still
// lose a race against a concurrent caller with the same id, in which
// case the id stays with the winner.
func (e *Engine) reserve(txID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, used := e.ids[txID]
	if used {
		return ErrDuplicateTransaction
	}

	e.ids[txID] = struct{}{}

	return nil
}
