package usecase

import "github.com/iho/payengine/internal/domain"

// Ledger is the in-memory set of every accepted deposit and withdrawal,
// keyed by transaction id. Ids are unique across the whole stream, not
// per client. Entries are never deleted; only their dispute status
// changes after recording.
type Ledger struct {
	entries map[uint32]*domain.Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[uint32]*domain.Transaction)}
}

// Record inserts tx with an Active dispute status. Fails with
// ErrDuplicateTransaction if the id was ever recorded.
func (l *Ledger) Record(tx *domain.Transaction) error {
	if _, ok := l.entries[tx.ID]; ok {
		return domain.ErrDuplicateTransaction
	}

	tx.Status = domain.StatusActive
	l.entries[tx.ID] = tx

	return nil
}

// Lookup returns the entry recorded under id, if any.
func (l *Ledger) Lookup(id uint32) (*domain.Transaction, bool) {
	tx, ok := l.entries[id]
	return tx, ok
}

// SetStatus applies a lifecycle transition the processor has already
// validated. Unknown ids are ignored.
func (l *Ledger) SetStatus(id uint32, status domain.TransactionStatus) {
	if tx, ok := l.entries[id]; ok {
		tx.Status = status
	}
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}
