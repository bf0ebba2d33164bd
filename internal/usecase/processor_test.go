package usecase

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/payengine/internal/domain"
)

func depositEvent(client uint16, tx uint32, amount string) domain.Event {
	return domain.Event{
		Type:      domain.EventDeposit,
		Client:    client,
		TxID:      tx,
		Amount:    decimal.RequireFromString(amount),
		HasAmount: true,
	}
}

func withdrawalEvent(client uint16, tx uint32, amount string) domain.Event {
	return domain.Event{
		Type:      domain.EventWithdrawal,
		Client:    client,
		TxID:      tx,
		Amount:    decimal.RequireFromString(amount),
		HasAmount: true,
	}
}

func refEvent(typ domain.EventType, client uint16, tx uint32) domain.Event {
	return domain.Event{Type: typ, Client: client, TxID: tx}
}

type fixture struct {
	ledger   *Ledger
	accounts *AccountStore
	proc     *Processor
}

func newFixture() *fixture {
	ledger := NewLedger()
	accounts := NewAccountStore()

	return &fixture{
		ledger:   ledger,
		accounts: accounts,
		proc:     NewProcessor(ledger, accounts),
	}
}

func (f *fixture) mustApply(t *testing.T, events ...domain.Event) {
	t.Helper()

	for _, ev := range events {
		if err := f.proc.Apply(ev); err != nil {
			t.Fatalf("Apply(%s client=%d tx=%d) = %v, want nil", ev.Type, ev.Client, ev.TxID, err)
		}
	}
}

func assertBalances(t *testing.T, acc *domain.Account, available, held string, locked bool) {
	t.Helper()

	if !acc.Available.Equal(decimal.RequireFromString(available)) {
		t.Errorf("client %d available = %s, want %s", acc.Client, acc.Available, available)
	}
	if !acc.Held.Equal(decimal.RequireFromString(held)) {
		t.Errorf("client %d held = %s, want %s", acc.Client, acc.Held, held)
	}
	if acc.Locked != locked {
		t.Errorf("client %d locked = %v, want %v", acc.Client, acc.Locked, locked)
	}
	if !acc.Total().Equal(acc.Available.Add(acc.Held)) {
		t.Errorf("client %d total invariant broken: %s", acc.Client, acc.Total())
	}
}

func TestProcessor_Deposit(t *testing.T) {
	f := newFixture()

	f.mustApply(t,
		depositEvent(1, 1, "1.0"),
		depositEvent(1, 2, "2.5"),
	)

	assertBalances(t, f.accounts.GetOrCreate(1), "3.5", "0", false)

	tx, ok := f.ledger.Lookup(1)
	if !ok {
		t.Fatal("expected ledger entry for tx 1")
	}
	if tx.Kind != domain.KindDeposit || tx.Status != domain.StatusActive {
		t.Errorf("entry = %s/%s, want deposit/active", tx.Kind, tx.Status)
	}
}

func TestProcessor_Deposit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   []domain.Event
		event   domain.Event
		wantErr error
	}{
		{
			name:    "duplicate transaction id",
			setup:   []domain.Event{depositEvent(1, 1, "1.0")},
			event:   depositEvent(1, 1, "5.0"),
			wantErr: domain.ErrDuplicateTransaction,
		},
		{
			name:    "id reuse across clients",
			setup:   []domain.Event{depositEvent(1, 1, "1.0")},
			event:   depositEvent(2, 1, "5.0"),
			wantErr: domain.ErrDuplicateTransaction,
		},
		{
			name:    "zero amount",
			event:   depositEvent(1, 1, "0"),
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			event:   depositEvent(1, 1, "-2"),
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.mustApply(t, tt.setup...)

			before := f.accounts.GetOrCreate(tt.event.Client).Available

			if err := f.proc.Apply(tt.event); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Apply() = %v, want %v", err, tt.wantErr)
			}

			if after := f.accounts.GetOrCreate(tt.event.Client).Available; !after.Equal(before) {
				t.Errorf("rejected event moved available from %s to %s", before, after)
			}
		})
	}
}

func TestProcessor_Withdrawal(t *testing.T) {
	f := newFixture()

	f.mustApply(t,
		depositEvent(1, 1, "5.0"),
		withdrawalEvent(1, 2, "1.5"),
	)

	assertBalances(t, f.accounts.GetOrCreate(1), "3.5", "0", false)

	if _, ok := f.ledger.Lookup(2); !ok {
		t.Error("expected accepted withdrawal to be recorded in the ledger")
	}
}

func TestProcessor_Withdrawal_InsufficientFunds(t *testing.T) {
	f := newFixture()
	f.mustApply(t, depositEvent(2, 1, "2.0"))

	err := f.proc.Apply(withdrawalEvent(2, 2, "3.0"))
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("Apply() = %v, want ErrInsufficientFunds", err)
	}

	assertBalances(t, f.accounts.GetOrCreate(2), "2.0", "0", false)

	// A dropped withdrawal never reaches the ledger, so its id stays free.
	if _, ok := f.ledger.Lookup(2); ok {
		t.Error("rejected withdrawal must not be recorded")
	}
	f.mustApply(t, depositEvent(2, 2, "1.0"))
}

func TestProcessor_Withdrawal_UnknownClient(t *testing.T) {
	f := newFixture()

	err := f.proc.Apply(withdrawalEvent(9, 1, "1.0"))
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("Apply() = %v, want ErrInsufficientFunds", err)
	}

	// The client appeared in the input, so the account exists with zero
	// balances and shows up in the final table.
	snapshot := f.accounts.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Client != 9 {
		t.Fatalf("expected one account for client 9, got %+v", snapshot)
	}
	assertBalances(t, snapshot[0], "0", "0", false)
}

func TestProcessor_Dispute(t *testing.T) {
	f := newFixture()

	f.mustApply(t,
		depositEvent(1, 1, "1.0"),
		depositEvent(1, 2, "20"),
		withdrawalEvent(1, 3, "14"),
		refEvent(domain.EventDispute, 1, 1),
	)

	assertBalances(t, f.accounts.GetOrCreate(1), "6.0", "1.0", false)

	tx, _ := f.ledger.Lookup(1)
	if tx.Status != domain.StatusDisputed {
		t.Errorf("entry status = %s, want disputed", tx.Status)
	}
}

func TestProcessor_Dispute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		event   domain.Event
		wantErr error
	}{
		{
			name:    "unknown transaction",
			event:   refEvent(domain.EventDispute, 1, 99),
			wantErr: domain.ErrTransactionNotFound,
		},
		{
			name:    "owner mismatch is treated as not found",
			event:   refEvent(domain.EventDispute, 2, 1),
			wantErr: domain.ErrTransactionNotFound,
		},
		{
			name:    "already disputed",
			event:   refEvent(domain.EventDispute, 1, 2),
			wantErr: domain.ErrAlreadyDisputed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.mustApply(t,
				depositEvent(1, 1, "10"),
				depositEvent(1, 2, "5"),
				refEvent(domain.EventDispute, 1, 2),
			)

			acc := f.accounts.GetOrCreate(1)
			available, held := acc.Available, acc.Held

			if err := f.proc.Apply(tt.event); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Apply() = %v, want %v", err, tt.wantErr)
			}

			if !acc.Available.Equal(available) || !acc.Held.Equal(held) {
				t.Errorf("rejected dispute moved balances: available %s held %s", acc.Available, acc.Held)
			}
		})
	}
}

func TestProcessor_Dispute_Withdrawal(t *testing.T) {
	f := newFixture()

	f.mustApply(t,
		depositEvent(1, 1, "10"),
		withdrawalEvent(1, 2, "8"),
		refEvent(domain.EventDispute, 1, 2),
	)

	// Disputing a withdrawal holds funds that already left available,
	// so available can go negative while total stays consistent.
	assertBalances(t, f.accounts.GetOrCreate(1), "-6", "8", false)
}

func TestProcessor_Resolve_RoundTrip(t *testing.T) {
	f := newFixture()

	f.mustApply(t, depositEvent(1, 1, "3.25"), depositEvent(1, 2, "1"))
	acc := f.accounts.GetOrCreate(1)
	available, held := acc.Available, acc.Held

	f.mustApply(t,
		refEvent(domain.EventDispute, 1, 1),
		refEvent(domain.EventResolve, 1, 1),
	)

	if !acc.Available.Equal(available) || !acc.Held.Equal(held) {
		t.Errorf("dispute/resolve did not restore balances: available %s held %s", acc.Available, acc.Held)
	}

	// The entry is Active again and may be disputed a second time.
	f.mustApply(t, refEvent(domain.EventDispute, 1, 1))
	assertBalances(t, acc, "1", "3.25", false)
}

func TestProcessor_Resolve_Rejections(t *testing.T) {
	f := newFixture()
	f.mustApply(t, depositEvent(1, 1, "3"))

	if err := f.proc.Apply(refEvent(domain.EventResolve, 1, 1)); !errors.Is(err, domain.ErrNotDisputed) {
		t.Errorf("resolve without dispute = %v, want ErrNotDisputed", err)
	}

	if err := f.proc.Apply(refEvent(domain.EventResolve, 1, 42)); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("resolve of unknown tx = %v, want ErrTransactionNotFound", err)
	}
}

func TestProcessor_Chargeback(t *testing.T) {
	f := newFixture()

	f.mustApply(t,
		depositEvent(2, 3, "10"),
		depositEvent(2, 4, "5"),
		withdrawalEvent(2, 5, "2"),
		refEvent(domain.EventDispute, 2, 4),
		refEvent(domain.EventChargeback, 2, 4),
	)

	assertBalances(t, f.accounts.GetOrCreate(2), "8", "0", true)

	tx, _ := f.ledger.Lookup(4)
	if tx.Status != domain.StatusChargedBack {
		t.Errorf("entry status = %s, want charged_back", tx.Status)
	}
}

func TestProcessor_Chargeback_RequiresDispute(t *testing.T) {
	f := newFixture()
	f.mustApply(t, depositEvent(1, 1, "5"))

	if err := f.proc.Apply(refEvent(domain.EventChargeback, 1, 1)); !errors.Is(err, domain.ErrNotDisputed) {
		t.Fatalf("chargeback without dispute = %v, want ErrNotDisputed", err)
	}

	assertBalances(t, f.accounts.GetOrCreate(1), "5", "0", false)
}

func TestProcessor_Chargeback_Terminal(t *testing.T) {
	f := newFixture()

	f.mustApply(t,
		depositEvent(1, 1, "5"),
		refEvent(domain.EventDispute, 1, 1),
		refEvent(domain.EventChargeback, 1, 1),
	)

	acc := f.accounts.GetOrCreate(1)
	assertBalances(t, acc, "0", "0", true)

	// Once locked, every further event on the account is dropped and
	// the lock never clears.
	followups := []domain.Event{
		refEvent(domain.EventResolve, 1, 1),
		refEvent(domain.EventChargeback, 1, 1),
		refEvent(domain.EventDispute, 1, 1),
		depositEvent(1, 2, "100"),
		withdrawalEvent(1, 3, "1"),
	}

	for _, ev := range followups {
		if err := f.proc.Apply(ev); !errors.Is(err, domain.ErrAccountLocked) {
			t.Errorf("Apply(%s tx=%d) after lock = %v, want ErrAccountLocked", ev.Type, ev.TxID, err)
		}
	}

	assertBalances(t, acc, "0", "0", true)
}

func TestProcessor_UnknownEventType(t *testing.T) {
	f := newFixture()

	err := f.proc.Apply(domain.Event{Type: "transfer", Client: 1, TxID: 1})
	if !errors.Is(err, domain.ErrUnknownEventType) {
		t.Fatalf("Apply() = %v, want ErrUnknownEventType", err)
	}
}
