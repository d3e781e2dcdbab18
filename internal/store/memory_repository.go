/**
 * @description
 * This file provides an in-process implementation of the `AccountStore`
 * interface backed by a map. It serves two purposes: a test double for the
 * service and handler tests, and the fallback backend when neither a
 * database nor Redis is configured, so the bot can still be run locally
 * (state is lost on restart).
 *
 * @dependencies
 * - context, sync: Standard Go libraries.
 * - internal/domain: Contains the account record used for data transfer.
 */

package store

import (
	"context"
	"sync"

	"github.com/nilebank/ledger-service/internal/domain"
)

// MemoryStore is a map-backed AccountStore. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]*domain.Account)}
}

// GetAccount returns a copy of the stored account, or a zero-value account
// when the user id has never been written.
func (s *MemoryStore) GetAccount(ctx context.Context, userID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[userID]
	if !ok {
		return &domain.Account{ID: userID}, nil
	}
	copied := *account
	return &copied, nil
}

func (s *MemoryStore) mutate(userID string, fn func(*domain.Account)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[userID]
	if !ok {
		account = &domain.Account{ID: userID}
		s.accounts[userID] = account
	}
	fn(account)
}

// SetBalance writes the balance for a user.
func (s *MemoryStore) SetBalance(ctx context.Context, userID string, balance int64) error {
	s.mutate(userID, func(a *domain.Account) { a.Balance = balance })
	return nil
}

// SetReceiveNumber writes the receive number for a user.
func (s *MemoryStore) SetReceiveNumber(ctx context.Context, userID, number string) error {
	s.mutate(userID, func(a *domain.Account) { a.ReceiveNumber = number })
	return nil
}

// SetSendNumber writes the send number for a user.
func (s *MemoryStore) SetSendNumber(ctx context.Context, userID, number string) error {
	s.mutate(userID, func(a *domain.Account) { a.SendNumber = number })
	return nil
}

// SetTaxAmount writes the tax amount for a user.
func (s *MemoryStore) SetTaxAmount(ctx context.Context, userID, amount string) error {
	s.mutate(userID, func(a *domain.Account) { a.TaxAmount = amount })
	return nil
}

// ResetAccount writes the configured defaults and a zero balance.
func (s *MemoryStore) ResetAccount(ctx context.Context, userID string, defaults domain.AccountDefaults) error {
	s.mutate(userID, func(a *domain.Account) {
		a.Balance = 0
		a.ReceiveNumber = defaults.ReceiveNumber
		a.SendNumber = defaults.SendNumber
		a.TaxAmount = defaults.TaxAmount
	})
	return nil
}
