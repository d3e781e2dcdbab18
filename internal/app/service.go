/**
 * @description
 * This file contains the core business logic for the ledger-service. The
 * `Service` struct owns every balance and metadata mutation, coordinating
 * between the account store and the message broker.
 *
 * Key features:
 * - Credit/debit with validation: amounts must be positive integers, and a
 *   debit that would push a balance below zero is rejected without a write.
 * - Per-user serialization: every read-modify-write for a user id runs under
 *   that id's mutex, so interleaved commands can never lose an update.
 * - Metadata registry for the receive number, send number and tax amount
 *   fields, including the full reset used by `!clearuserdata`.
 * - Publishes a balance event to RabbitMQ after every successful mutation so
 *   the dashboard can push live updates.
 *
 * @dependencies
 * - context, errors, log, strings, sync, time: Standard Go libraries.
 * - github.com/google/uuid: For event ids.
 * - github.com/shopspring/decimal: For tax amount validation.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/rabbitmq: For publishing balance events.
 */

package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nilebank/ledger-service/internal/domain"
	"github.com/nilebank/ledger-service/internal/store"
	"github.com/nilebank/ledger-service/pkg/rabbitmq"
)

var (
	ErrInvalidAmount     = errors.New("amount must be a positive integer")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidNumber     = errors.New("number must contain digits only")
	ErrInvalidTaxAmount  = errors.New("tax amount must be numeric")
)

// Service provides the balance ledger and the metadata registry. Both the
// Discord command handlers and the web dashboard operate through one shared
// instance, so every entry point sees the same account state.
type Service struct {
	store    store.AccountStore
	producer rabbitmq.Publisher
	defaults domain.AccountDefaults

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new ledger service instance.
func NewService(accounts store.AccountStore, producer rabbitmq.Publisher, defaults domain.AccountDefaults) *Service {
	if producer == nil {
		producer = &rabbitmq.EventProducerFallback{}
	}
	return &Service{
		store:    accounts,
		producer: producer,
		defaults: defaults,
		locks:    make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex guarding mutations for one user id, creating it
// on first use. Locks are never removed; the set of active user ids is small
// relative to the lifetime of the process.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// Credit adds amount to the user's balance and returns the new balance.
func (s *Service) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.store.GetAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	newBalance := account.Balance + amount
	if err := s.store.SetBalance(ctx, userID, newBalance); err != nil {
		return 0, err
	}

	s.publishBalanceEvent(ctx, userID, amount, newBalance, "credit")
	return newBalance, nil
}

// Debit subtracts amount from the user's balance and returns the new
// balance. A debit that exceeds the current balance is rejected with
// ErrInsufficientFunds and performs no write.
func (s *Service) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.store.GetAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	if account.Balance < amount {
		return account.Balance, ErrInsufficientFunds
	}
	newBalance := account.Balance - amount
	if err := s.store.SetBalance(ctx, userID, newBalance); err != nil {
		return 0, err
	}

	s.publishBalanceEvent(ctx, userID, -amount, newBalance, "debit")
	return newBalance, nil
}

// Balance returns the user's current balance, 0 when nothing was ever written.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	account, err := s.store.GetAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// SetReceiveNumber stores the receive number for a user. The number must be
// all digits.
func (s *Service) SetReceiveNumber(ctx context.Context, userID, number string) error {
	if !isAllDigits(number) {
		return ErrInvalidNumber
	}
	return s.store.SetReceiveNumber(ctx, userID, number)
}

// SetSendNumber stores the send number for a user. The number must be all digits.
func (s *Service) SetSendNumber(ctx context.Context, userID, number string) error {
	if !isAllDigits(number) {
		return ErrInvalidNumber
	}
	return s.store.SetSendNumber(ctx, userID, number)
}

// SetTaxAmount stores the tax amount for a user. The value must parse as a
// decimal and is stored in normalized form.
func (s *Service) SetTaxAmount(ctx context.Context, userID, amount string) error {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return ErrInvalidTaxAmount
	}
	return s.store.SetTaxAmount(ctx, userID, value.String())
}

// ClearUserData resets the three metadata fields to the configured defaults
// and the balance to zero.
func (s *Service) ClearUserData(ctx context.Context, userID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.ResetAccount(ctx, userID, s.defaults); err != nil {
		return err
	}
	s.publishBalanceEvent(ctx, userID, 0, 0, "reset")
	return nil
}

// Snapshot returns the full read-only view of one account: balance plus the
// three metadata fields. Used by `!info` and the dashboard; never mutates.
func (s *Service) Snapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	account, err := s.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Snapshot{
		ID:            account.ID,
		Balance:       account.Balance,
		ReceiveNumber: account.ReceiveNumber,
		SendNumber:    account.SendNumber,
		TaxAmount:     account.TaxAmount,
	}, nil
}

// Defaults returns the configured clear-data defaults.
func (s *Service) Defaults() domain.AccountDefaults {
	return s.defaults
}

func (s *Service) publishBalanceEvent(ctx context.Context, userID string, delta, balance int64, reason string) {
	event := domain.BalanceEvent{
		EventID:   uuid.NewString(),
		UserID:    userID,
		Delta:     delta,
		Balance:   balance,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
	if err := s.producer.PublishBalanceEvent(ctx, event); err != nil {
		log.Printf("level=warn component=ledger msg=\"balance event publish failed\" user_id=%s reason=%s err=%v", userID, reason, err)
	}
}

func isAllDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
