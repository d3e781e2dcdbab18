package store

import (
	"context"
	"testing"

	"github.com/nilebank/ledger-service/internal/domain"
)

func TestMemoryStoreUnknownUserIsZeroValue(t *testing.T) {
	s := NewMemoryStore()

	account, err := s.GetAccount(context.Background(), "U1")
	if err != nil {
		t.Fatalf("GetAccount returned error: %v", err)
	}
	if account.ID != "U1" {
		t.Fatalf("expected id U1, got %q", account.ID)
	}
	if account.Balance != 0 || account.ReceiveNumber != "" || account.SendNumber != "" || account.TaxAmount != "" {
		t.Fatalf("expected zero-value account, got %+v", account)
	}
}

func TestMemoryStoreWritesMaterializeRecord(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.SetBalance(ctx, "U1", 75); err != nil {
		t.Fatalf("SetBalance returned error: %v", err)
	}
	if err := s.SetReceiveNumber(ctx, "U1", "0115"); err != nil {
		t.Fatalf("SetReceiveNumber returned error: %v", err)
	}
	if err := s.SetSendNumber(ctx, "U1", "0111"); err != nil {
		t.Fatalf("SetSendNumber returned error: %v", err)
	}
	if err := s.SetTaxAmount(ctx, "U1", "305"); err != nil {
		t.Fatalf("SetTaxAmount returned error: %v", err)
	}

	account, err := s.GetAccount(ctx, "U1")
	if err != nil {
		t.Fatalf("GetAccount returned error: %v", err)
	}
	if account.Balance != 75 || account.ReceiveNumber != "0115" || account.SendNumber != "0111" || account.TaxAmount != "305" {
		t.Fatalf("unexpected account %+v", account)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.SetBalance(ctx, "U1", 10); err != nil {
		t.Fatalf("SetBalance returned error: %v", err)
	}

	first, _ := s.GetAccount(ctx, "U1")
	first.Balance = 9999

	second, _ := s.GetAccount(ctx, "U1")
	if second.Balance != 10 {
		t.Fatalf("expected stored balance untouched by caller mutation, got %d", second.Balance)
	}
}

func TestMemoryStoreResetAccount(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	defaults := domain.AccountDefaults{ReceiveNumber: "01152810152", SendNumber: "01117097868", TaxAmount: "305"}

	if err := s.SetBalance(ctx, "U1", 400); err != nil {
		t.Fatalf("SetBalance returned error: %v", err)
	}
	if err := s.SetReceiveNumber(ctx, "U1", "custom"); err != nil {
		t.Fatalf("SetReceiveNumber returned error: %v", err)
	}

	if err := s.ResetAccount(ctx, "U1", defaults); err != nil {
		t.Fatalf("ResetAccount returned error: %v", err)
	}

	account, _ := s.GetAccount(ctx, "U1")
	if account.Balance != 0 {
		t.Fatalf("expected balance reset to 0, got %d", account.Balance)
	}
	if account.ReceiveNumber != defaults.ReceiveNumber || account.SendNumber != defaults.SendNumber || account.TaxAmount != defaults.TaxAmount {
		t.Fatalf("expected defaults applied, got %+v", account)
	}
}
