/**
 * @description
 * This file defines the core domain models for the ledger-service.
 * An Account is the per-user record the bot and the dashboard both operate
 * on: a coin balance plus the three payment-workflow metadata fields
 * (receive number, send number, tax amount).
 *
 * @notes
 * - Balances are stored as `int64` whole pounds; the service layer enforces
 *   that a balance never goes negative.
 * - Metadata fields are strings because the original payment workflow treats
 *   them as opaque phone-number-like values; an empty string means "unset".
 */

package domain

import "time"

// PlaceholderUnavailable is the user-facing stand-in for an unset metadata
// field, kept in the script the bot replies in.
const PlaceholderUnavailable = "غير متوفر"

// Account is the per-user ledger record. A user that has never been written
// to is represented by the zero value with only ID set: absent rows are
// never materialized in storage just to be read.
type Account struct {
	ID            string `json:"id"`
	Balance       int64  `json:"balance"`
	ReceiveNumber string `json:"receive_number"`
	SendNumber    string `json:"send_number"`
	TaxAmount     string `json:"tax_amount"`
}

// AccountDefaults are the fixed values ClearUserData resets an account to.
// They come from configuration; balance always resets to zero.
type AccountDefaults struct {
	ReceiveNumber string
	SendNumber    string
	TaxAmount     string
}

// Identity is the authenticated Discord identity the web layer receives from
// the OAuth callback. The ledger core only ever consumes the ID.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// AvatarURL derives the CDN avatar URL for the identity.
func (i Identity) AvatarURL() string {
	if i.Avatar == "" {
		return ""
	}
	return "https://cdn.discordapp.com/avatars/" + i.ID + "/" + i.Avatar + ".png"
}

// Snapshot is the read-only view of one account served to the dashboard and
// the `!info` command. String fields are raw; callers substitute the
// unavailable placeholder for display.
type Snapshot struct {
	ID            string `json:"id"`
	Balance       int64  `json:"balance"`
	ReceiveNumber string `json:"receive_number"`
	SendNumber    string `json:"send_number"`
	TaxAmount     string `json:"tax_amount"`
}

// BalanceEvent is the payload published to RabbitMQ after every successful
// balance mutation, and forwarded to dashboard WebSocket clients.
type BalanceEvent struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Delta     int64     `json:"delta"`
	Balance   int64     `json:"balance"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
