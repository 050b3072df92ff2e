package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

func TestCreateExpense_PostsLedgerEntry(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	expenses := core.NewExpenseService(pool, ledger)
	ctx := context.Background()

	exp, err := expenses.CreateExpense(ctx, 1, core.ExpenseInput{
		AccountID:   1,
		Category:    "Fuel",
		Amount:      dec("35.00"),
		Date:        time.Now(),
		Description: "generator diesel",
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	balance := accountBalance(t, pool, 1)
	if !balance.Equal(dec("-35.00")) {
		t.Errorf("account balance = %s, want -35.00", balance)
	}

	acct := 1
	entries, err := ledger.ListEntries(ctx, 1, core.EntryFilter{AccountID: &acct})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Type != core.EntryExpense {
		t.Errorf("entry type = %s, want EXPENSE", entries[0].Type)
	}
	if entries[0].ExpenseID == nil || *entries[0].ExpenseID != exp.ID {
		t.Errorf("entry not linked to expense %d", exp.ID)
	}
}

func TestCreateExpense_UnknownProject(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	expenses := core.NewExpenseService(pool, core.NewLedger(pool))
	missing := 999

	_, err := expenses.CreateExpense(context.Background(), 1, core.ExpenseInput{
		AccountID: 1,
		Category:  "Materials",
		Amount:    dec("10.00"),
		Date:      time.Now(),
		ProjectID: &missing,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown project, got %v", err)
	}

	balance := accountBalance(t, pool, 1)
	if !balance.IsZero() {
		t.Errorf("failed expense changed balance to %s", balance)
	}
}

func TestCreateExpense_OtherTenantsProject(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	_, err := pool.Exec(ctx, `
		INSERT INTO companies (id, name, currency) VALUES (2, 'Other Company', 'USD');
		SELECT setval('companies_id_seq', 2);

		INSERT INTO projects (id, company_id, name, agreement_amount, remaining_amount)
		VALUES (1, 2, 'Other Project', 500.00, 500.00);
		SELECT setval('projects_id_seq', 1);
	`)
	if err != nil {
		t.Fatalf("seed other company failed: %v", err)
	}

	expenses := core.NewExpenseService(pool, core.NewLedger(pool))
	otherProject := 1

	_, err = expenses.CreateExpense(ctx, 1, core.ExpenseInput{
		AccountID: 1,
		Category:  "Materials",
		Amount:    dec("10.00"),
		Date:      time.Now(),
		ProjectID: &otherProject,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another company's project, got %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM expenses").Scan(&count); err != nil {
		t.Fatalf("count expenses: %v", err)
	}
	if count != 0 {
		t.Errorf("rejected expense left %d rows", count)
	}
}
