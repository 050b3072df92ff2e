package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

func TestCreateAccount_WithOpeningBalance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	accounts := core.NewAccountService(pool, ledger)
	ctx := context.Background()

	acct, err := accounts.CreateAccount(ctx, 1, core.AccountInput{
		Name:           "Petty Cash",
		Type:           core.AccountCash,
		InitialBalance: dec("150.00"),
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if !acct.Balance.Equal(dec("150.00")) {
		t.Errorf("balance = %s, want 150.00", acct.Balance)
	}

	// The opening balance must be backed by a ledger entry.
	entries, err := ledger.ListEntries(ctx, 1, core.EntryFilter{AccountID: &acct.ID})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 opening entry, got %d", len(entries))
	}
	if entries[0].Type != core.EntryOther {
		t.Errorf("opening entry type = %s, want OTHER", entries[0].Type)
	}
	if !entries[0].Amount.Equal(dec("150.00")) {
		t.Errorf("opening entry amount = %s, want 150.00", entries[0].Amount)
	}
}

func TestCreateAccount_DuplicateName(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	accounts := core.NewAccountService(pool, core.NewLedger(pool))

	// "Test Cash" is seeded for company 1.
	_, err := accounts.CreateAccount(context.Background(), 1, core.AccountInput{
		Name: "Test Cash",
		Type: core.AccountCash,
	})
	if !errors.Is(err, core.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate name, got %v", err)
	}
}

func TestCreateAccount_InvalidType(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	accounts := core.NewAccountService(pool, core.NewLedger(pool))

	_, err := accounts.CreateAccount(context.Background(), 1, core.AccountInput{
		Name: "Crypto Wallet",
		Type: core.AccountType("CRYPTO"),
	})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown type, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	accounts := core.NewAccountService(pool, ledger)
	ctx := context.Background()

	// Account 2 has no history and deletes cleanly.
	if err := accounts.DeleteAccount(ctx, 1, 2); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	_, err := accounts.GetAccount(ctx, 1, 2)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteAccount_WithHistoryRejected(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	accounts := core.NewAccountService(pool, ledger)
	ctx := context.Background()
	acct := 1

	_, err := ledger.PostEntry(ctx, 1, core.EntryInput{
		AccountID: &acct,
		Type:      core.EntryIncome,
		Amount:    dec("10.00"),
		Date:      time.Now(),
	})
	if err != nil {
		t.Fatalf("seed entry failed: %v", err)
	}

	err = accounts.DeleteAccount(ctx, 1, acct)
	if !errors.Is(err, core.ErrConflict) {
		t.Errorf("expected ErrConflict for account with history, got %v", err)
	}
}

func TestDeleteAccount_WrongCompanyLooksNotFound(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	accounts := core.NewAccountService(pool, ledger)
	ctx := context.Background()
	acct := 1

	// Give company 1's account history, then attack it as company 2. The
	// caller must see NotFound, not a Conflict that reveals the account has
	// ledger entries.
	_, err := ledger.PostEntry(ctx, 1, core.EntryInput{
		AccountID: &acct,
		Type:      core.EntryIncome,
		Amount:    dec("10.00"),
		Date:      time.Now(),
	})
	if err != nil {
		t.Fatalf("seed entry failed: %v", err)
	}

	err = accounts.DeleteAccount(ctx, 2, acct)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another company's account, got %v", err)
	}

	// The account survives untouched.
	got, err := accounts.GetAccount(ctx, 1, acct)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !got.Balance.Equal(dec("10.00")) {
		t.Errorf("balance = %s, want 10.00", got.Balance)
	}
}

func TestGetAccount_WrongCompany(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	accounts := core.NewAccountService(pool, core.NewLedger(pool))

	_, err := accounts.GetAccount(context.Background(), 2, 1)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound across companies, got %v", err)
	}
}
