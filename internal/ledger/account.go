package ledger

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxCredit TransactionType = "CREDIT"
	TxDebit  TransactionType = "DEBIT"
)

// Transaction is an immutable record of one balance change.
type Transaction struct {
	ID            string
	AccountNumber string
	Time          time.Time
	Type          TransactionType
	Amount        decimal.Decimal
}

// Account holds a player's balance and its append-only transaction
// history. The balance always equals sum(credits) - sum(debits) over
// the history and never goes negative.
//
// All mutation goes through the Engine, which holds mu for the whole
// read-validate-append-update sequence.
type Account struct {
	Number string

	mu      sync.Mutex
	balance decimal.Decimal
	history []Transaction
}

func newAccount(number string) *Account {
	return &Account{Number: number, balance: decimal.Zero}
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.balance
}

// Transactions returns the history in chronological order. The
// returned slice is a copy; appending to it or reordering it does not
// affect the account.
func (a *Account) Transactions() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Transaction, len(a.history))
	copy(out, a.history)

	return out
}
