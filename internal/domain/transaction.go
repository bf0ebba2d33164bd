package domain

import "github.com/shopspring/decimal"

// TransactionKind distinguishes the two entry-creating event types.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// TransactionStatus represents the dispute lifecycle of a ledger entry.
// Active entries can be disputed; disputed entries settle back to
// Active via a resolve or terminate as ChargedBack.
type TransactionStatus string

const (
	StatusActive      TransactionStatus = "active"
	StatusDisputed    TransactionStatus = "disputed"
	StatusChargedBack TransactionStatus = "charged_back"
)

// Transaction is the durable record of an accepted deposit or
// withdrawal. Everything except Status is immutable once recorded.
type Transaction struct {
	ID     uint32
	Client uint16
	Kind   TransactionKind
	Amount decimal.Decimal
	Status TransactionStatus
}

// CanDispute checks whether the entry may enter dispute.
func (t *Transaction) CanDispute() error {
	switch t.Status {
	case StatusDisputed:
		return ErrAlreadyDisputed
	case StatusChargedBack:
		return ErrTransactionChargedBack
	}
	return nil
}

// CanSettle checks whether the entry may be resolved or charged back.
// Both settlements require an open dispute.
func (t *Transaction) CanSettle() error {
	switch t.Status {
	case StatusActive:
		return ErrNotDisputed
	case StatusChargedBack:
		return ErrTransactionChargedBack
	}
	return nil
}
