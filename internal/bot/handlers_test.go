package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nilebank/ledger-service/internal/app"
	"github.com/nilebank/ledger-service/internal/domain"
	"github.com/nilebank/ledger-service/internal/store"
)

var dispatchDefaults = domain.AccountDefaults{
	ReceiveNumber: "01152810152",
	SendNumber:    "01117097868",
	TaxAmount:     "305",
}

func newTestDispatcher() (*Dispatcher, *app.Service, store.AccountStore) {
	accounts := store.NewMemoryStore()
	service := app.NewService(accounts, nil, dispatchDefaults)
	return NewDispatcher(service), service, accounts
}

func messageFrom(author, content string, mentions ...MentionedUser) IncomingMessage {
	return IncomingMessage{
		AuthorID:       author,
		AuthorUsername: "author-" + author,
		Content:        content,
		Mentions:       mentions,
	}
}

func TestDispatchIgnoresNonCommands(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher()

	for _, content := range []string{"hello", "", "!unknowncommand 1 2"} {
		if reply, handled := dispatcher.Dispatch(context.Background(), messageFrom("U1", content)); handled {
			t.Fatalf("expected %q to be unhandled, got reply %q", content, reply)
		}
	}
}

func TestAddBalanceUsageError(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher()

	reply, handled := dispatcher.Dispatch(context.Background(), messageFrom("U1", "!addbalance <@2>"))
	if !handled {
		t.Fatal("expected command to be handled")
	}
	if reply != msgUsageAddBalance {
		t.Fatalf("expected usage reply, got %q", reply)
	}
}

func TestAddBalanceAppliesCredit(t *testing.T) {
	dispatcher, service, _ := newTestDispatcher()
	target := MentionedUser{ID: "U2", Username: "walid"}

	reply, handled := dispatcher.Dispatch(context.Background(), messageFrom("U1", "!addbalance <@U2> 120", target))
	if !handled {
		t.Fatal("expected command to be handled")
	}
	if reply != fmt.Sprintf(fmtBalanceAdded, 120, "walid") {
		t.Fatalf("unexpected reply %q", reply)
	}

	balance, err := service.Balance(context.Background(), "U2")
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if balance != 120 {
		t.Fatalf("expected balance 120, got %d", balance)
	}
}

func TestAddBalanceNonNumericNeverMutates(t *testing.T) {
	dispatcher, service, _ := newTestDispatcher()
	target := MentionedUser{ID: "U2", Username: "walid"}

	reply, handled := dispatcher.Dispatch(context.Background(), messageFrom("U1", "!addbalance <@U2> abc", target))
	if !handled {
		t.Fatal("expected command to be handled")
	}
	if reply != msgInvalidUserAmount {
		t.Fatalf("expected validation reply, got %q", reply)
	}

	balance, err := service.Balance(context.Background(), "U2")
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected store untouched, got balance %d", balance)
	}
}

func TestAddBalanceWithoutMentionIsRejected(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher()

	reply, _ := dispatcher.Dispatch(context.Background(), messageFrom("U1", "!addbalance U2 50"))
	if reply != msgInvalidUserAmount {
		t.Fatalf("expected validation reply when no mention supplied, got %q", reply)
	}
}

func TestRemoveBalanceInsufficientFunds(t *testing.T) {
	dispatcher, service, _ := newTestDispatcher()
	target := MentionedUser{ID: "U2", Username: "walid"}
	ctx := context.Background()

	if _, err := service.Credit(ctx, "U2", 30); err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}

	reply, _ := dispatcher.Dispatch(ctx, messageFrom("U1", "!removebalance <@U2> 100", target))
	if reply != msgInsufficientBalance {
		t.Fatalf("expected insufficient funds reply, got %q", reply)
	}

	if balance, _ := service.Balance(ctx, "U2"); balance != 30 {
		t.Fatalf("expected balance unchanged at 30, got %d", balance)
	}
}

func TestRemoveBalanceAppliesDebit(t *testing.T) {
	dispatcher, service, _ := newTestDispatcher()
	target := MentionedUser{ID: "U2", Username: "walid"}
	ctx := context.Background()

	if _, err := service.Credit(ctx, "U2", 100); err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}

	reply, _ := dispatcher.Dispatch(ctx, messageFrom("U1", "!removebalance <@U2> 40", target))
	if reply != fmt.Sprintf(fmtBalanceRemoved, 40, "walid") {
		t.Fatalf("unexpected reply %q", reply)
	}
	if balance, _ := service.Balance(ctx, "U2"); balance != 60 {
		t.Fatalf("expected balance 60, got %d", balance)
	}
}

func TestBalanceDefaultsToAuthor(t *testing.T) {
	dispatcher, service, _ := newTestDispatcher()
	ctx := context.Background()

	if _, err := service.Credit(ctx, "U1", 70); err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}

	reply, _ := dispatcher.Dispatch(ctx, messageFrom("U1", "!balance"))
	if reply != fmt.Sprintf(fmtCurrentBalance, "author-U1", 70) {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestBalanceUsesMentionWhenPresent(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher()
	target := MentionedUser{ID: "U9", Username: "mona"}

	reply, _ := dispatcher.Dispatch(context.Background(), messageFrom("U1", "!balance <@U9>", target))
	if reply != fmt.Sprintf(fmtCurrentBalance, "mona", 0) {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestSetReceiveNumber(t *testing.T) {
	dispatcher, service, _ := newTestDispatcher()
	ctx := context.Background()

	reply, _ := dispatcher.Dispatch(ctx, messageFrom("U1", "!setnum U7 0109999"))
	if reply != fmt.Sprintf(fmtReceiveNumSet, "U7", "0109999") {
		t.Fatalf("unexpected reply %q", reply)
	}

	snapshot, err := service.Snapshot(ctx, "U7")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if snapshot.ReceiveNumber != "0109999" {
		t.Fatalf("expected stored receive number, got %q", snapshot.ReceiveNumber)
	}

	reply, _ = dispatcher.Dispatch(ctx, messageFrom("U1", "!setnum U7 not-a-number"))
	if reply != msgInvalidReceiveNum {
		t.Fatalf("expected validation reply, got %q", reply)
	}
}

func TestSetSendNumberAndTaxAmount(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher()
	ctx := context.Background()

	if reply, _ := dispatcher.Dispatch(ctx, messageFrom("U1", "!setsendnum U7 0111")); reply != fmt.Sprintf(fmtSendNumSet, "U7", "0111") {
		t.Fatalf("unexpected reply %q", reply)
	}
	if reply, _ := dispatcher.Dispatch(ctx, messageFrom("U1", "!setsendnum U7 xx")); reply != msgInvalidSendNum {
		t.Fatalf("expected validation reply, got %q", reply)
	}
	if reply, _ := dispatcher.Dispatch(ctx, messageFrom("U1", "!setnsp U7 305")); reply != fmt.Sprintf(fmtTaxAmountSet, "U7", "305") {
		t.Fatalf("unexpected reply %q", reply)
	}
	if reply, _ := dispatcher.Dispatch(ctx, messageFrom("U1", "!setnsp U7 abc")); reply != msgInvalidTaxAmount {
		t.Fatalf("expected validation reply, got %q", reply)
	}
}

func TestUsageErrorsForShortCommands(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher()
	ctx := context.Background()

	cases := map[string]string{
		"!removebalance <@2>": msgUsageRemoveBalance,
		"!setnum U7":          msgUsageSetNum,
		"!setsendnum U7":      msgUsageSetSendNum,
		"!setnsp U7":          msgUsageSetNsp,
		"!clearuserdata":      msgUsageClearUserData,
		"!info":               msgUsageInfo,
	}
	for content, want := range cases {
		reply, handled := dispatcher.Dispatch(ctx, messageFrom("U1", content))
		if !handled {
			t.Fatalf("expected %q to be handled", content)
		}
		if reply != want {
			t.Fatalf("%q: expected %q, got %q", content, want, reply)
		}
	}
}

func TestClearUserDataThenInfo(t *testing.T) {
	dispatcher, service, _ := newTestDispatcher()
	ctx := context.Background()

	if _, err := service.Credit(ctx, "U7", 500); err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}

	reply, _ := dispatcher.Dispatch(ctx, messageFrom("U1", "!clearuserdata U7"))
	if reply != fmt.Sprintf(fmtUserDataCleared, "U7") {
		t.Fatalf("unexpected reply %q", reply)
	}

	reply, _ = dispatcher.Dispatch(ctx, messageFrom("U1", "!info U7"))
	want := fmt.Sprintf(fmtInfo, "U7",
		dispatchDefaults.ReceiveNumber,
		dispatchDefaults.SendNumber,
		dispatchDefaults.TaxAmount,
		int64(0),
	)
	if reply != want {
		t.Fatalf("unexpected info reply:\n got %q\nwant %q", reply, want)
	}
}

func TestInfoUsesPlaceholdersForUnsetFields(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher()

	reply, _ := dispatcher.Dispatch(context.Background(), messageFrom("U1", "!info U404"))
	if !strings.Contains(reply, domain.PlaceholderUnavailable) {
		t.Fatalf("expected placeholder in info reply, got %q", reply)
	}
	if !strings.Contains(reply, "**0 جنيه**") {
		t.Fatalf("expected zero balance in info reply, got %q", reply)
	}
}

func TestHelpReply(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher()

	reply, handled := dispatcher.Dispatch(context.Background(), messageFrom("U1", "!help"))
	if !handled {
		t.Fatal("expected !help to be handled")
	}
	if reply != msgHelp {
		t.Fatalf("unexpected help reply %q", reply)
	}
}

// failingStore simulates a store outage for every operation.
type failingStore struct {
	store.AccountStore
}

func (failingStore) GetAccount(ctx context.Context, userID string) (*domain.Account, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailureYieldsGenericReply(t *testing.T) {
	service := app.NewService(failingStore{}, nil, dispatchDefaults)
	dispatcher := NewDispatcher(service)
	target := MentionedUser{ID: "U2", Username: "walid"}

	reply, handled := dispatcher.Dispatch(context.Background(), messageFrom("U1", "!addbalance <@U2> 10", target))
	if !handled {
		t.Fatal("expected command to be handled")
	}
	if reply != msgCommandFailed {
		t.Fatalf("expected generic failure reply, got %q", reply)
	}
}
