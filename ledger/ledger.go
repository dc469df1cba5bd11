package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one line of a participant's consumption log.
type Entry struct {
	At      time.Time `json:"at"`
	Reason  string    `json:"reason"`
	Amount  int       `json:"amount"`
	Balance int       `json:"balance"` // balance after the debit
}

type account struct {
	mu        sync.Mutex
	initial   int
	remaining int
	log       []Entry
}

// Ledger tracks token budgets of every participant in the process. The
// economy is strictly consumption-only; balances never grow. Debits are
// atomic per account: of two concurrent debits that would jointly
// overdraw, exactly one succeeds.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*account
}

func New() *Ledger {
	return &Ledger{
		accounts: make(map[uuid.UUID]*account),
	}
}

// Open creates an account with the given initial budget.
func (l *Ledger) Open(id uuid.UUID, initial int) error {
	if initial < 0 {
		return ErrNegativeAmount()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[id]; ok {
		return ErrAccountExists()
	}
	l.accounts[id] = &account{
		initial:   initial,
		remaining: initial,
	}
	return nil
}

// Restore re-creates an account from persisted state, log included.
func (l *Ledger) Restore(id uuid.UUID, initial int, remaining int, log []Entry) error {
	if initial < 0 || remaining < 0 || remaining > initial {
		return ErrNegativeAmount()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[id]; ok {
		return ErrAccountExists()
	}
	entries := make([]Entry, len(log))
	copy(entries, log)
	l.accounts[id] = &account{
		initial:   initial,
		remaining: remaining,
		log:       entries,
	}
	return nil
}

func (l *Ledger) get(id uuid.UUID) (*account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acc, ok := l.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound()
	}
	return acc, nil
}

// Debit charges amount against the account and appends a consumption-log
// entry. It fails closed: on insufficient balance nothing changes and
// the balance stays untouched. Returns the balance after the debit.
func (l *Ledger) Debit(id uuid.UUID, amount int, reason string) (int, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount()
	}
	acc, err := l.get(id)
	if err != nil {
		return 0, err
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()
	if acc.remaining < amount {
		return acc.remaining, ErrInsufficientTokens(amount, acc.remaining)
	}
	acc.remaining -= amount
	acc.log = append(acc.log, Entry{
		At:      time.Now(),
		Reason:  reason,
		Amount:  amount,
		Balance: acc.remaining,
	})
	return acc.remaining, nil
}

// Balance returns the remaining budget of the account.
func (l *Ledger) Balance(id uuid.UUID) (int, error) {
	acc, err := l.get(id)
	if err != nil {
		return 0, err
	}
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return acc.remaining, nil
}

// Initial returns the budget the account was opened with.
func (l *Ledger) Initial(id uuid.UUID) (int, error) {
	acc, err := l.get(id)
	if err != nil {
		return 0, err
	}
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return acc.initial, nil
}

// Entries returns a copy of the account's consumption log.
func (l *Ledger) Entries(id uuid.UUID) ([]Entry, error) {
	acc, err := l.get(id)
	if err != nil {
		return nil, err
	}
	acc.mu.Lock()
	defer acc.mu.Unlock()
	entries := make([]Entry, len(acc.log))
	copy(entries, acc.log)
	return entries, nil
}

// AccountSnapshot is a point-in-time copy of one account, taken under
// the account lock so balance and log always agree.
type AccountSnapshot struct {
	Initial   int     `json:"initial"`
	Remaining int     `json:"remaining"`
	Log       []Entry `json:"log"`
}

// Snapshot returns a consistent copy of the whole account.
func (l *Ledger) Snapshot(id uuid.UUID) (AccountSnapshot, error) {
	acc, err := l.get(id)
	if err != nil {
		return AccountSnapshot{}, err
	}
	acc.mu.Lock()
	defer acc.mu.Unlock()
	entries := make([]Entry, len(acc.log))
	copy(entries, acc.log)
	return AccountSnapshot{
		Initial:   acc.initial,
		Remaining: acc.remaining,
		Log:       entries,
	}, nil
}
