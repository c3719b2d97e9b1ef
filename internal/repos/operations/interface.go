package operations

import (
	"context"
	"time"
)

// Kind names a player-facing operation recorded in the audit log.
type Kind string

const (
	KindRegistration   Kind = "registration"
	KindAuthentication Kind = "authentication"
	KindBalance        Kind = "balance_inquiry"
	KindHistory        Kind = "history_inquiry"
	KindDeposit        Kind = "depositing"
	KindWithdrawal     Kind = "withdrawal"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFail    Status = "FAIL"
)

// Operation is one audit row. PlayerID is 0 when the operation failed
// before a player could be resolved (e.g. rejected registration).
type Operation struct {
	ID       int64
	PlayerID int64
	Kind     Kind
	Time     time.Time
	Status   Status
}

type Operations interface {
	Insert(ctx context.Context, op Operation) error
	List(ctx context.Context) ([]Operation, error)
}
