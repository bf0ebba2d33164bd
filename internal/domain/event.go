package domain

import "github.com/shopspring/decimal"

// EventType identifies the kind of an input event.
type EventType string

const (
	EventDeposit    EventType = "deposit"
	EventWithdrawal EventType = "withdrawal"
	EventDispute    EventType = "dispute"
	EventResolve    EventType = "resolve"
	EventChargeback EventType = "chargeback"
)

// Valid reports whether t is one of the five known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventDeposit, EventWithdrawal, EventDispute, EventResolve, EventChargeback:
		return true
	}
	return false
}

// RequiresAmount reports whether events of this type carry an amount.
// Dispute, resolve and chargeback reference an earlier transaction and
// take their amount from it.
func (t EventType) RequiresAmount() bool {
	return t == EventDeposit || t == EventWithdrawal
}

// Event is one instruction from the input stream.
type Event struct {
	Type      EventType
	Client    uint16
	TxID      uint32
	Amount    decimal.Decimal
	HasAmount bool
}
