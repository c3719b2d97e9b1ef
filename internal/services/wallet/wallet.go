package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/ledger"
	"github.com/fastprodman/walletsvc/internal/repos/operations"
)

// Service is the high-level wallet API: player registration and
// authentication, balance and history queries, deposits and
// withdrawals. Balance and history state is authoritative in memory;
// every call is additionally recorded in the operations audit log.
type Service struct {
	players  *ledger.PlayerRegistry
	accounts *ledger.AccountRegistry
	engine   *ledger.Engine
	ops      operations.Operations
}

func New(ops operations.Operations) *Service {
	return &Service{
		players:  ledger.NewPlayerRegistry(),
		accounts: ledger.NewAccountRegistry(),
		engine:   ledger.NewEngine(),
		ops:      ops,
	}
}

// RegisterPlayer registers a new player and opens their account.
func (s *Service) RegisterPlayer(ctx context.Context, firstName, lastName, email, login, password string) (*ledger.Player, error) {
	player, err := s.players.Register(firstName, lastName, email, login, password)
	if err != nil {
		s.record(ctx, 0, operations.KindRegistration, err)

		return nil, fmt.Errorf("register player: %w", err)
	}

	s.accounts.CreateAccount(player)
	s.record(ctx, player.ID, operations.KindRegistration, nil)

	return player, nil
}

// AuthorizePlayer checks the login/password pair and returns the
// matching player.
func (s *Service) AuthorizePlayer(ctx context.Context, login, password string) (*ledger.Player, error) {
	player, err := s.players.Authorize(login, password)
	if err != nil {
		s.record(ctx, 0, operations.KindAuthentication, err)

		return nil, fmt.Errorf("authorize player: %w", err)
	}

	s.record(ctx, player.ID, operations.KindAuthentication, nil)

	return player, nil
}

// Balance returns the current balance of the player's account.
func (s *Service) Balance(ctx context.Context, login string) (string, decimal.Decimal, error) {
	player, err := s.players.Resolve(login)
	if err != nil {
		s.record(ctx, 0, operations.KindBalance, err)

		return "", decimal.Zero, fmt.Errorf("resolve player: %w", err)
	}

	s.record(ctx, player.ID, operations.KindBalance, nil)

	return player.Account.Number, s.accounts.Balance(player), nil
}

// History returns the player's transactions in chronological order.
func (s *Service) History(ctx context.Context, login string) ([]ledger.Transaction, error) {
	player, err := s.players.Resolve(login)
	if err != nil {
		s.record(ctx, 0, operations.KindHistory, err)

		return nil, fmt.Errorf("resolve player: %w", err)
	}

	s.record(ctx, player.ID, operations.KindHistory, nil)

	return s.accounts.History(player), nil
}

// Deposit credits the player's account. txID is the caller's
// idempotency key and must be unique across the whole system.
func (s *Service) Deposit(ctx context.Context, login, txID string, amount decimal.Decimal) error {
	player, err := s.players.Resolve(login)
	if err != nil {
		s.record(ctx, 0, operations.KindDeposit, err)

		return fmt.Errorf("resolve player: %w", err)
	}

	err = s.engine.Credit(txID, player.Account, amount)
	s.record(ctx, player.ID, operations.KindDeposit, err)

	if err != nil {
		return fmt.Errorf("credit account: %w", err)
	}

	return nil
}

// Withdraw debits the player's account.
func (s *Service) Withdraw(ctx context.Context, login, txID string, amount decimal.Decimal) error {
	player, err := s.players.Resolve(login)
	if err != nil {
		s.record(ctx, 0, operations.KindWithdrawal, err)

		return fmt.Errorf("resolve player: %w", err)
	}

	err = s.engine.Debit(txID, player.Account, amount)
	s.record(ctx, player.ID, operations.KindWithdrawal, err)

	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}

	return nil
}

// record appends one row to the audit log. Audit failures never fail
// the player's operation; they are logged and dropped.
func (s *Service) record(ctx context.Context, playerID int64, kind operations.Kind, opErr error) {
	status := operations.StatusSuccess
	if opErr != nil {
		status = operations.StatusFail
	}

	err := s.ops.Insert(ctx, operations.Operation{
		PlayerID: playerID,
		Kind:     kind,
		Time:     time.Now(),
		Status:   status,
	})
	if err != nil {
		slog.Error("audit log write failed", "kind", kind, "player_id", playerID, "error", err)
	}
}
