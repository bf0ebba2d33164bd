package domain

import "errors"

var (
	// Account errors
	ErrAccountLocked     = errors.New("account is locked")
	ErrInsufficientFunds = errors.New("insufficient available funds")

	// Transaction errors
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrDuplicateTransaction   = errors.New("transaction id already recorded")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrAlreadyDisputed        = errors.New("transaction is already under dispute")
	ErrNotDisputed            = errors.New("transaction is not under dispute")
	ErrTransactionChargedBack = errors.New("transaction was charged back")

	// Event errors
	ErrUnknownEventType = errors.New("unknown event type")
)
