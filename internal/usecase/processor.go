package usecase

import (
	"github.com/iho/payengine/internal/domain"
)

// Processor applies events to the ledger and account store. It is the
// single point of truth for the legality and effect of every event.
type Processor struct {
	ledger   *Ledger
	accounts *AccountStore
}

// NewProcessor creates a new Processor over ledger and accounts.
func NewProcessor(ledger *Ledger, accounts *AccountStore) *Processor {
	return &Processor{
		ledger:   ledger,
		accounts: accounts,
	}
}

// Apply runs one event against the current state. A nil return means
// the event was applied in full. A rejection sentinel from the domain
// package means the event was dropped with no balance or lifecycle
// change; rejections are expected traffic, never fatal.
//
// The only side effect of a rejected event is that the client's
// account exists afterwards: every client that appears in the input
// gets a row in the final table.
func (p *Processor) Apply(ev domain.Event) error {
	switch ev.Type {
	case domain.EventDeposit:
		return p.deposit(ev)
	case domain.EventWithdrawal:
		return p.withdrawal(ev)
	case domain.EventDispute:
		return p.dispute(ev)
	case domain.EventResolve:
		return p.resolve(ev)
	case domain.EventChargeback:
		return p.chargeback(ev)
	default:
		return domain.ErrUnknownEventType
	}
}

func (p *Processor) deposit(ev domain.Event) error {
	acc := p.accounts.GetOrCreate(ev.Client)
	if acc.Locked {
		return domain.ErrAccountLocked
	}

	if !ev.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	tx := &domain.Transaction{
		ID:     ev.TxID,
		Client: ev.Client,
		Kind:   domain.KindDeposit,
		Amount: ev.Amount,
	}
	if err := p.ledger.Record(tx); err != nil {
		return err
	}

	acc.Available = acc.Available.Add(ev.Amount)

	return nil
}

func (p *Processor) withdrawal(ev domain.Event) error {
	acc := p.accounts.GetOrCreate(ev.Client)
	if acc.Locked {
		return domain.ErrAccountLocked
	}

	if !ev.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	if err := acc.ValidateWithdrawal(ev.Amount); err != nil {
		return err
	}

	tx := &domain.Transaction{
		ID:     ev.TxID,
		Client: ev.Client,
		Kind:   domain.KindWithdrawal,
		Amount: ev.Amount,
	}
	if err := p.ledger.Record(tx); err != nil {
		return err
	}

	acc.Available = acc.Available.Sub(ev.Amount)

	return nil
}

func (p *Processor) dispute(ev domain.Event) error {
	acc := p.accounts.GetOrCreate(ev.Client)
	if acc.Locked {
		return domain.ErrAccountLocked
	}

	tx, err := p.ownedEntry(ev)
	if err != nil {
		return err
	}

	if err := tx.CanDispute(); err != nil {
		return err
	}

	acc.Hold(tx.Amount)
	p.ledger.SetStatus(tx.ID, domain.StatusDisputed)

	return nil
}

func (p *Processor) resolve(ev domain.Event) error {
	acc := p.accounts.GetOrCreate(ev.Client)
	if acc.Locked {
		return domain.ErrAccountLocked
	}

	tx, err := p.ownedEntry(ev)
	if err != nil {
		return err
	}

	if err := tx.CanSettle(); err != nil {
		return err
	}

	acc.Release(tx.Amount)
	// Back to Active: the entry can be disputed again later.
	p.ledger.SetStatus(tx.ID, domain.StatusActive)

	return nil
}

func (p *Processor) chargeback(ev domain.Event) error {
	acc := p.accounts.GetOrCreate(ev.Client)
	if acc.Locked {
		return domain.ErrAccountLocked
	}

	tx, err := p.ownedEntry(ev)
	if err != nil {
		return err
	}

	if err := tx.CanSettle(); err != nil {
		return err
	}

	acc.Held = acc.Held.Sub(tx.Amount)
	acc.Locked = true
	p.ledger.SetStatus(tx.ID, domain.StatusChargedBack)

	return nil
}

// ownedEntry resolves the entry an event references. An entry recorded
// under a different client is reported as not found for this client.
func (p *Processor) ownedEntry(ev domain.Event) (*domain.Transaction, error) {
	tx, ok := p.ledger.Lookup(ev.TxID)
	if !ok || tx.Client != ev.Client {
		return nil, domain.ErrTransactionNotFound
	}

	return tx, nil
}
