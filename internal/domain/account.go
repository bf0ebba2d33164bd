package domain

import "github.com/shopspring/decimal"

// Account holds one client's balance state. Total is derived from
// available and held and is never stored.
type Account struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount creates an empty, unlocked account for client.
func NewAccount(client uint16) *Account {
	return &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns the full balance: available plus held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// ValidateWithdrawal checks if available funds cover amount.
func (a *Account) ValidateWithdrawal(amount decimal.Decimal) error {
	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// Hold moves amount from available into held. When the disputed entry
// is a withdrawal the funds already left available, so this can drive
// available negative; held funds still cover the open dispute.
func (a *Account) Hold(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
}

// Release moves amount from held back into available.
func (a *Account) Release(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
}
