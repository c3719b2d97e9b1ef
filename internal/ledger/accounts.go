package ledger

import (
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

// Account numbers are 9-digit numeric strings drawn from
// [100000000, 999000000).
const (
	accountNumberMin  = 100_000_000
	accountNumberSpan = 899_000_000
)

// AccountRegistry issues unique account numbers and creates accounts
// for players.
type AccountRegistry struct {
	mu      sync.Mutex
	numbers map[string]struct{}
}

func NewAccountRegistry() *AccountRegistry {
	return &AccountRegistry{numbers: make(map[string]struct{})}
}

// CreateAccount attaches a fresh empty account to the player and
// registers its number as in-use. Number collisions are retried under
// the registry lock and never surface to the caller.
func (r *AccountRegistry) CreateAccount(player *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var number string

	for {
		number = strconv.Itoa(rand.IntN(accountNumberSpan) + accountNumberMin)

		_, taken := r.numbers[number]
		if !taken {
			break
		}
	}

	r.numbers[number] = struct{}{}
	player.Account = newAccount(number)
}

// Balance returns the player's current balance. Side-effect free.
func (r *AccountRegistry) Balance(player *Player) decimal.Decimal {
	return player.Account.Balance()
}

// History returns the player's transactions in chronological order as
// a read-only copy. Side-effect free.
func (r *AccountRegistry) History(player *Player) []Transaction {
	return player.Account.Transactions()
}
