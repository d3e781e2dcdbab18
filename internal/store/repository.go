/**
 * @description
 * This file defines the `AccountStore` interface, the single persistence
 * contract shared by the bot command handlers and the web dashboard. Both
 * entry points are injected with the same instance, so a balance credited
 * over the slash command is the same balance the prefix commands and the
 * dashboard read.
 *
 * Reads of an unknown user id return a zero-value account rather than an
 * error: accounts are created lazily by their first write.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - internal/domain: For the account record and reset defaults.
 */

package store

import (
	"context"
	"errors"

	"github.com/nilebank/ledger-service/internal/domain"
)

// ErrStoreUnavailable is returned when the backing store cannot be reached.
var ErrStoreUnavailable = errors.New("account store unavailable")

// AccountStore defines the set of methods for reading and writing per-user
// account records. Implementations do not enforce ledger rules (positive
// amounts, sufficient funds); that is the service layer's job. They must,
// however, keep each single write atomic.
type AccountStore interface {
	// GetAccount returns the account for the given user id, or a zero-value
	// account (balance 0, empty metadata) when no fields were ever written.
	GetAccount(ctx context.Context, userID string) (*domain.Account, error)

	// SetBalance writes the balance for the given user id, materializing the
	// record if absent.
	SetBalance(ctx context.Context, userID string, balance int64) error

	// SetReceiveNumber, SetSendNumber and SetTaxAmount each write one
	// metadata field, materializing the record if absent.
	SetReceiveNumber(ctx context.Context, userID, number string) error
	SetSendNumber(ctx context.Context, userID, number string) error
	SetTaxAmount(ctx context.Context, userID, amount string) error

	// ResetAccount overwrites the three metadata fields with the given
	// defaults and sets the balance back to zero.
	ResetAccount(ctx context.Context, userID string, defaults domain.AccountDefaults) error
}
