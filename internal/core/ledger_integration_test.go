package core_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE ledger_entries, till_sessions, expenses, fixed_assets,
			sales, purchase_orders, projects, employees, vendors, customers,
			accounts, users, companies RESTART IDENTITY CASCADE;

		INSERT INTO companies (id, name, currency) VALUES (1, 'Test Company', 'USD');
		SELECT setval('companies_id_seq', 1);

		INSERT INTO users (id, company_id, username, password_hash, role)
		VALUES (1, 1, 'tester', 'x', 'admin');
		SELECT setval('users_id_seq', 1);

		INSERT INTO accounts (id, company_id, name, type, balance) VALUES
		(1, 1, 'Test Cash', 'CASH', 0),
		(2, 1, 'Test Bank', 'BANK', 0);
		SELECT setval('accounts_id_seq', 2);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func accountBalance(t *testing.T, pool *pgxpool.Pool, accountID int) decimal.Decimal {
	t.Helper()
	var balance decimal.Decimal
	err := pool.QueryRow(context.Background(),
		"SELECT balance FROM accounts WHERE id = $1", accountID,
	).Scan(&balance)
	if err != nil {
		t.Fatalf("Failed to read balance for account %d: %v", accountID, err)
	}
	return balance
}

func TestLedger_PostEntry_AdjustsBalance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	ctx := context.Background()
	acct := 1

	_, err := ledger.PostEntry(ctx, 1, core.EntryInput{
		AccountID:   &acct,
		Type:        core.EntryIncome,
		Amount:      dec("100.00"),
		Date:        time.Now(),
		Description: "first income",
	})
	if err != nil {
		t.Fatalf("PostEntry income failed: %v", err)
	}

	_, err = ledger.PostEntry(ctx, 1, core.EntryInput{
		AccountID:   &acct,
		Type:        core.EntryExpense,
		Amount:      dec("30.00"),
		Date:        time.Now(),
		Description: "first expense",
	})
	if err != nil {
		t.Fatalf("PostEntry expense failed: %v", err)
	}

	balance := accountBalance(t, pool, acct)
	if !balance.Equal(dec("70.00")) {
		t.Errorf("balance = %s, want 70.00", balance)
	}
}

func TestLedger_PostEntry_BalanceMatchesEntrySum(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	ctx := context.Background()
	acct := 1

	amounts := []struct {
		typ    core.EntryType
		amount string
	}{
		{core.EntryIncome, "250.00"},
		{core.EntryExpense, "99.99"},
		{core.EntryDebtTaken, "500.00"},
		{core.EntryDebtRepaid, "120.00"},
		{core.EntryOther, "3.50"},
	}
	for _, a := range amounts {
		_, err := ledger.PostEntry(ctx, 1, core.EntryInput{
			AccountID: &acct,
			Type:      a.typ,
			Amount:    dec(a.amount),
			Date:      time.Now(),
		})
		if err != nil {
			t.Fatalf("PostEntry %s failed: %v", a.typ, err)
		}
	}

	entries, err := ledger.ListEntries(ctx, 1, core.EntryFilter{AccountID: &acct})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.SignedAmount())
	}

	balance := accountBalance(t, pool, acct)
	if !balance.Equal(sum) {
		t.Errorf("balance %s does not match signed entry sum %s", balance, sum)
	}
}

func TestLedger_PostEntry_UnknownAccount(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	missing := 999

	_, err := ledger.PostEntry(context.Background(), 1, core.EntryInput{
		AccountID: &missing,
		Type:      core.EntryIncome,
		Amount:    dec("10.00"),
		Date:      time.Now(),
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown account, got %v", err)
	}
}

func TestLedger_PostEntry_WrongCompany(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	acct := 1

	// Account 1 belongs to company 1; posting as company 2 must not touch it.
	_, err := ledger.PostEntry(context.Background(), 2, core.EntryInput{
		AccountID: &acct,
		Type:      core.EntryIncome,
		Amount:    dec("10.00"),
		Date:      time.Now(),
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for cross-company post, got %v", err)
	}

	balance := accountBalance(t, pool, acct)
	if !balance.IsZero() {
		t.Errorf("cross-company post changed balance to %s", balance)
	}
}

func TestLedger_PostEntry_RejectsNonPositiveAmount(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	acct := 1

	for _, amount := range []string{"0", "-5.00"} {
		_, err := ledger.PostEntry(context.Background(), 1, core.EntryInput{
			AccountID: &acct,
			Type:      core.EntryIncome,
			Amount:    dec(amount),
			Date:      time.Now(),
		})
		if !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("amount %s: expected ErrInvalidArgument, got %v", amount, err)
		}
	}
}

func TestLedger_ResetCompany(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	ctx := context.Background()
	acct := 1

	_, err := ledger.PostEntry(ctx, 1, core.EntryInput{
		AccountID: &acct,
		Type:      core.EntryIncome,
		Amount:    dec("75.00"),
		Date:      time.Now(),
	})
	if err != nil {
		t.Fatalf("PostEntry failed: %v", err)
	}

	if err := ledger.ResetCompany(ctx, 1); err != nil {
		t.Fatalf("ResetCompany failed: %v", err)
	}

	entries, err := ledger.ListEntries(ctx, 1, core.EntryFilter{})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries after reset, got %d", len(entries))
	}

	balance := accountBalance(t, pool, acct)
	if !balance.IsZero() {
		t.Errorf("expected zero balance after reset, got %s", balance)
	}
}
