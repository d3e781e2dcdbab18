/**
 * @description
 * This file contains the dispatcher for the bot's prefix commands. It is the
 * bridge between the chat transport and the ledger service: a parsed command
 * goes in, exactly one reply string comes out. Every rejection (wrong
 * argument count, non-numeric input, insufficient funds) is terminal and
 * produces its fixed reply; nothing propagates past the dispatcher. Keeping
 * the dispatcher free of discordgo types lets the whole command surface be
 * tested without a gateway connection.
 *
 * @dependencies
 * - context, errors, fmt, log, strconv: Standard Go libraries.
 * - internal/app, internal/domain: For the ledger service and models.
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/nilebank/ledger-service/internal/app"
	"github.com/nilebank/ledger-service/internal/domain"
)

// MentionedUser is a user referenced by mention in an incoming message.
type MentionedUser struct {
	ID       string
	Username string
}

// IncomingMessage is the transport-neutral view of one chat message.
type IncomingMessage struct {
	AuthorID       string
	AuthorUsername string
	Content        string
	Mentions       []MentionedUser
}

// Dispatcher routes parsed commands to the ledger service.
type Dispatcher struct {
	ledger *app.Service
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(ledger *app.Service) *Dispatcher {
	return &Dispatcher{ledger: ledger}
}

// Dispatch parses and executes one message. The returned bool is false when
// the message is not a recognized command and no reply should be sent.
// A panic inside a handler is recovered and answered with the generic
// failure reply, so one bad command can never take the bot down.
func (d *Dispatcher) Dispatch(ctx context.Context, msg IncomingMessage) (reply string, handled bool) {
	cmd, ok := ParseCommand(msg.Content)
	if !ok {
		return "", false
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("level=error component=bot command=%s msg=\"handler panic recovered\" author_id=%s panic=%v", cmd.Name, msg.AuthorID, r)
			reply = msgCommandFailed
			handled = true
		}
	}()

	switch cmd.Name {
	case "addbalance":
		return d.handleAddBalance(ctx, cmd, msg), true
	case "removebalance":
		return d.handleRemoveBalance(ctx, cmd, msg), true
	case "balance":
		return d.handleBalance(ctx, msg), true
	case "setnum":
		return d.handleSetReceiveNumber(ctx, cmd), true
	case "setsendnum":
		return d.handleSetSendNumber(ctx, cmd), true
	case "setnsp":
		return d.handleSetTaxAmount(ctx, cmd), true
	case "clearuserdata":
		return d.handleClearUserData(ctx, cmd), true
	case "info":
		return d.handleInfo(ctx, cmd), true
	case "help":
		return msgHelp, true
	}
	return "", false
}

func (d *Dispatcher) handleAddBalance(ctx context.Context, cmd Command, msg IncomingMessage) string {
	if len(cmd.Args) < 2 {
		return msgUsageAddBalance
	}
	target, amount, ok := mentionAndAmount(cmd, msg)
	if !ok {
		return msgInvalidUserAmount
	}

	newBalance, err := d.ledger.Credit(ctx, target.ID, amount)
	if err != nil {
		if errors.Is(err, app.ErrInvalidAmount) {
			return msgInvalidUserAmount
		}
		log.Printf("level=error component=bot command=addbalance outcome=failed target_id=%s err=%v", target.ID, err)
		return msgCommandFailed
	}

	log.Printf("level=info component=bot command=addbalance outcome=applied author_id=%s target_id=%s amount=%d balance=%d", msg.AuthorID, target.ID, amount, newBalance)
	return fmt.Sprintf(fmtBalanceAdded, amount, target.Username)
}

func (d *Dispatcher) handleRemoveBalance(ctx context.Context, cmd Command, msg IncomingMessage) string {
	if len(cmd.Args) < 2 {
		return msgUsageRemoveBalance
	}
	target, amount, ok := mentionAndAmount(cmd, msg)
	if !ok {
		return msgInvalidUserAmount
	}

	newBalance, err := d.ledger.Debit(ctx, target.ID, amount)
	if err != nil {
		if errors.Is(err, app.ErrInsufficientFunds) {
			return msgInsufficientBalance
		}
		if errors.Is(err, app.ErrInvalidAmount) {
			return msgInvalidUserAmount
		}
		log.Printf("level=error component=bot command=removebalance outcome=failed target_id=%s err=%v", target.ID, err)
		return msgCommandFailed
	}

	log.Printf("level=info component=bot command=removebalance outcome=applied author_id=%s target_id=%s amount=%d balance=%d", msg.AuthorID, target.ID, amount, newBalance)
	return fmt.Sprintf(fmtBalanceRemoved, amount, target.Username)
}

func (d *Dispatcher) handleBalance(ctx context.Context, msg IncomingMessage) string {
	target := MentionedUser{ID: msg.AuthorID, Username: msg.AuthorUsername}
	if len(msg.Mentions) > 0 {
		target = msg.Mentions[0]
	}

	balance, err := d.ledger.Balance(ctx, target.ID)
	if err != nil {
		log.Printf("level=error component=bot command=balance outcome=failed target_id=%s err=%v", target.ID, err)
		return msgCommandFailed
	}
	return fmt.Sprintf(fmtCurrentBalance, target.Username, balance)
}

func (d *Dispatcher) handleSetReceiveNumber(ctx context.Context, cmd Command) string {
	if len(cmd.Args) < 2 {
		return msgUsageSetNum
	}
	userID, number := cmd.Args[0], cmd.Args[1]

	if err := d.ledger.SetReceiveNumber(ctx, userID, number); err != nil {
		if errors.Is(err, app.ErrInvalidNumber) {
			return msgInvalidReceiveNum
		}
		log.Printf("level=error component=bot command=setnum outcome=failed target_id=%s err=%v", userID, err)
		return msgCommandFailed
	}
	return fmt.Sprintf(fmtReceiveNumSet, userID, number)
}

func (d *Dispatcher) handleSetSendNumber(ctx context.Context, cmd Command) string {
	if len(cmd.Args) < 2 {
		return msgUsageSetSendNum
	}
	userID, number := cmd.Args[0], cmd.Args[1]

	if err := d.ledger.SetSendNumber(ctx, userID, number); err != nil {
		if errors.Is(err, app.ErrInvalidNumber) {
			return msgInvalidSendNum
		}
		log.Printf("level=error component=bot command=setsendnum outcome=failed target_id=%s err=%v", userID, err)
		return msgCommandFailed
	}
	return fmt.Sprintf(fmtSendNumSet, userID, number)
}

func (d *Dispatcher) handleSetTaxAmount(ctx context.Context, cmd Command) string {
	if len(cmd.Args) < 2 {
		return msgUsageSetNsp
	}
	userID, amount := cmd.Args[0], cmd.Args[1]

	if err := d.ledger.SetTaxAmount(ctx, userID, amount); err != nil {
		if errors.Is(err, app.ErrInvalidTaxAmount) {
			return msgInvalidTaxAmount
		}
		log.Printf("level=error component=bot command=setnsp outcome=failed target_id=%s err=%v", userID, err)
		return msgCommandFailed
	}
	return fmt.Sprintf(fmtTaxAmountSet, userID, amount)
}

func (d *Dispatcher) handleClearUserData(ctx context.Context, cmd Command) string {
	if len(cmd.Args) < 1 {
		return msgUsageClearUserData
	}
	userID := cmd.Args[0]

	if err := d.ledger.ClearUserData(ctx, userID); err != nil {
		log.Printf("level=error component=bot command=clearuserdata outcome=failed target_id=%s err=%v", userID, err)
		return msgCommandFailed
	}
	return fmt.Sprintf(fmtUserDataCleared, userID)
}

func (d *Dispatcher) handleInfo(ctx context.Context, cmd Command) string {
	if len(cmd.Args) < 1 {
		return msgUsageInfo
	}
	userID := cmd.Args[0]

	snapshot, err := d.ledger.Snapshot(ctx, userID)
	if err != nil {
		log.Printf("level=error component=bot command=info outcome=failed target_id=%s err=%v", userID, err)
		return msgCommandFailed
	}
	return fmt.Sprintf(fmtInfo,
		userID,
		orPlaceholder(snapshot.ReceiveNumber),
		orPlaceholder(snapshot.SendNumber),
		orPlaceholder(snapshot.TaxAmount),
		snapshot.Balance,
	)
}

// mentionAndAmount extracts the first mentioned user and the integer amount
// for the two mention-based balance commands. The amount is always the
// second argument; the mention token occupies the first.
func mentionAndAmount(cmd Command, msg IncomingMessage) (MentionedUser, int64, bool) {
	if len(msg.Mentions) == 0 {
		return MentionedUser{}, 0, false
	}
	amount, err := strconv.ParseInt(cmd.Args[1], 10, 64)
	if err != nil {
		return MentionedUser{}, 0, false
	}
	return msg.Mentions[0], amount, true
}

func orPlaceholder(value string) string {
	if value == "" {
		return domain.PlaceholderUnavailable
	}
	return value
}
