/**
 * @description
 * This file provides the PostgreSQL implementation of the `AccountStore`
 * interface. Each account is one row in the `accounts` table, keyed by the
 * Discord user id. Field writes are upserts so that the first write to any
 * field materializes the row; reads of an absent row return a zero-value
 * account instead of an error.
 *
 * The table carries a `CHECK (balance >= 0)` constraint as a backstop for
 * the non-negative balance invariant the service layer enforces.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the account record used for data transfer.
 */

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nilebank/ledger-service/internal/domain"
)

// PostgresStore is a concrete implementation of the AccountStore interface for PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new instance of PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetAccount retrieves one account row, defaulting every field when the row
// does not exist yet.
func (s *PostgresStore) GetAccount(ctx context.Context, userID string) (*domain.Account, error) {
	account := domain.Account{ID: userID}
	query := `
		SELECT balance, COALESCE(receive_number, ''), COALESCE(send_number, ''), COALESCE(tax_amount, '')
		FROM accounts
		WHERE user_id = $1
	`
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&account.Balance,
		&account.ReceiveNumber,
		&account.SendNumber,
		&account.TaxAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &account, nil
		}
		return nil, err
	}
	return &account, nil
}

// SetBalance upserts the balance for a user.
func (s *PostgresStore) SetBalance(ctx context.Context, userID string, balance int64) error {
	query := `
		INSERT INTO accounts (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET balance = $2, updated_at = NOW()
	`
	_, err := s.db.Exec(ctx, query, userID, balance)
	return err
}

// SetReceiveNumber upserts the receive number for a user.
func (s *PostgresStore) SetReceiveNumber(ctx context.Context, userID, number string) error {
	return s.setField(ctx, userID, "receive_number", number)
}

// SetSendNumber upserts the send number for a user.
func (s *PostgresStore) SetSendNumber(ctx context.Context, userID, number string) error {
	return s.setField(ctx, userID, "send_number", number)
}

// SetTaxAmount upserts the tax amount for a user.
func (s *PostgresStore) SetTaxAmount(ctx context.Context, userID, amount string) error {
	return s.setField(ctx, userID, "tax_amount", amount)
}

// setField upserts one of the metadata columns. The column name is one of a
// fixed set chosen by the exported wrappers, never caller input.
func (s *PostgresStore) setField(ctx context.Context, userID, column, value string) error {
	query := `
		INSERT INTO accounts (user_id, ` + column + `)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET ` + column + ` = $2, updated_at = NOW()
	`
	_, err := s.db.Exec(ctx, query, userID, value)
	return err
}

// ResetAccount writes the configured defaults and a zero balance in one statement.
func (s *PostgresStore) ResetAccount(ctx context.Context, userID string, defaults domain.AccountDefaults) error {
	query := `
		INSERT INTO accounts (user_id, balance, receive_number, send_number, tax_amount)
		VALUES ($1, 0, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = 0, receive_number = $2, send_number = $3, tax_amount = $4, updated_at = NOW()
	`
	_, err := s.db.Exec(ctx, query, userID, defaults.ReceiveNumber, defaults.SendNumber, defaults.TaxAmount)
	return err
}
