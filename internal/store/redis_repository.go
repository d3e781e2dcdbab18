/**
 * @description
 * This file provides the Redis implementation of the `AccountStore`
 * interface. It keeps the flat key-per-field layout the service originally
 * ran on (`balance_<id>`, `receive_number_<id>`, `send_number_<id>`,
 * `tax_amount_<id>`), so an existing key-value dataset can be pointed at
 * directly. Missing keys read as defaults, matching the lazy-account
 * semantics of the Postgres store.
 *
 * @dependencies
 * - context, errors, strconv: Standard Go libraries.
 * - github.com/redis/go-redis/v9: The Redis client library.
 * - internal/domain: Contains the account record used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/nilebank/ledger-service/internal/domain"
)

// RedisStore is a concrete implementation of the AccountStore interface
// backed by a flat Redis keyspace.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a new instance of RedisStore.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func balanceKey(userID string) string       { return "balance_" + userID }
func receiveNumberKey(userID string) string { return "receive_number_" + userID }
func sendNumberKey(userID string) string    { return "send_number_" + userID }
func taxAmountKey(userID string) string     { return "tax_amount_" + userID }

// GetAccount reads the four field keys in one round trip. Absent keys yield
// the zero value for their field.
func (s *RedisStore) GetAccount(ctx context.Context, userID string) (*domain.Account, error) {
	values, err := s.client.MGet(ctx,
		balanceKey(userID),
		receiveNumberKey(userID),
		sendNumberKey(userID),
		taxAmountKey(userID),
	).Result()
	if err != nil {
		return nil, err
	}

	account := domain.Account{ID: userID}
	if raw := stringValue(values[0]); raw != "" {
		balance, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return nil, errors.New("corrupt balance value for user " + userID)
		}
		account.Balance = balance
	}
	account.ReceiveNumber = stringValue(values[1])
	account.SendNumber = stringValue(values[2])
	account.TaxAmount = stringValue(values[3])
	return &account, nil
}

func stringValue(v interface{}) string {
	str, ok := v.(string)
	if !ok {
		return ""
	}
	return str
}

// SetBalance writes the balance key for a user.
func (s *RedisStore) SetBalance(ctx context.Context, userID string, balance int64) error {
	return s.client.Set(ctx, balanceKey(userID), strconv.FormatInt(balance, 10), 0).Err()
}

// SetReceiveNumber writes the receive number key for a user.
func (s *RedisStore) SetReceiveNumber(ctx context.Context, userID, number string) error {
	return s.client.Set(ctx, receiveNumberKey(userID), number, 0).Err()
}

// SetSendNumber writes the send number key for a user.
func (s *RedisStore) SetSendNumber(ctx context.Context, userID, number string) error {
	return s.client.Set(ctx, sendNumberKey(userID), number, 0).Err()
}

// SetTaxAmount writes the tax amount key for a user.
func (s *RedisStore) SetTaxAmount(ctx context.Context, userID, amount string) error {
	return s.client.Set(ctx, taxAmountKey(userID), amount, 0).Err()
}

// ResetAccount writes all four keys in one MSET.
func (s *RedisStore) ResetAccount(ctx context.Context, userID string, defaults domain.AccountDefaults) error {
	return s.client.MSet(ctx,
		balanceKey(userID), "0",
		receiveNumberKey(userID), defaults.ReceiveNumber,
		sendNumberKey(userID), defaults.SendNumber,
		taxAmountKey(userID), defaults.TaxAmount,
	).Err()
}
