package usecase

import (
	"sort"

	"github.com/iho/payengine/internal/domain"
)

// AccountStore owns every account created during a run. Accounts are
// created lazily and never destroyed.
type AccountStore struct {
	accounts map[uint16]*domain.Account
}

// NewAccountStore creates an empty account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[uint16]*domain.Account)}
}

// GetOrCreate returns the client's account, creating an empty unlocked
// one the first time the client is seen.
func (s *AccountStore) GetOrCreate(client uint16) *domain.Account {
	acc, ok := s.accounts[client]
	if !ok {
		acc = domain.NewAccount(client)
		s.accounts[client] = acc
	}

	return acc
}

// Snapshot returns all accounts sorted by client id. Output order is
// not contractual, but a stable order keeps runs reproducible.
func (s *AccountStore) Snapshot() []*domain.Account {
	result := make([]*domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		result = append(result, acc)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Client < result[j].Client
	})

	return result
}

// Len returns the number of accounts created so far.
func (s *AccountStore) Len() int {
	return len(s.accounts)
}
