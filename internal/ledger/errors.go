package ledger

import "errors"

var (
	ErrPlayerExists         = errors.New("player already exists")
	ErrLoginTaken           = errors.New("login is not unique")
	ErrUnknownLogin         = errors.New("unknown login")
	ErrWrongPassword        = errors.New("wrong password")
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAmount        = errors.New("invalid amount")
)
