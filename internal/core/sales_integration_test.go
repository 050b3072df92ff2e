package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

func TestCreateSale_WithInitialPayment(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	sales := core.NewSalesService(pool, ledger)
	ctx := context.Background()
	acct := 1
	user := 1

	sale, err := sales.CreateSale(ctx, 1, core.SaleInput{
		Date:          time.Now(),
		Total:         dec("100.00"),
		PaymentMethod: core.MethodCash,
		InitialPaid:   dec("40.00"),
		AccountID:     &acct,
		CreatedBy:     &user,
	})
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}
	if sale.PaymentStatus != core.StatusPartial {
		t.Errorf("status = %s, want PARTIAL", sale.PaymentStatus)
	}
	if !sale.DueAmount().Equal(dec("60.00")) {
		t.Errorf("due = %s, want 60.00", sale.DueAmount())
	}

	// The initial payment lands on the account in the same transaction.
	balance := accountBalance(t, pool, acct)
	if !balance.Equal(dec("40.00")) {
		t.Errorf("account balance = %s, want 40.00", balance)
	}

	entries, err := ledger.ListEntries(ctx, 1, core.EntryFilter{AccountID: &acct})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].SaleID == nil || *entries[0].SaleID != sale.ID {
		t.Errorf("entry not linked to sale %d", sale.ID)
	}
}

func TestCreateSale_NoInitialPayment(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	sales := core.NewSalesService(pool, ledger)
	ctx := context.Background()

	sale, err := sales.CreateSale(ctx, 1, core.SaleInput{
		Date:          time.Now(),
		Total:         dec("100.00"),
		PaymentMethod: core.MethodBank,
	})
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}
	if sale.PaymentStatus != core.StatusUnpaid {
		t.Errorf("status = %s, want UNPAID", sale.PaymentStatus)
	}

	entries, err := ledger.ListEntries(ctx, 1, core.EntryFilter{})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries without an initial payment, got %d", len(entries))
	}
}

func TestCreateSale_InitialPaidAboveTotal(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool, core.NewLedger(pool))
	acct := 1

	_, err := sales.CreateSale(context.Background(), 1, core.SaleInput{
		Date:          time.Now(),
		Total:         dec("100.00"),
		PaymentMethod: core.MethodCash,
		InitialPaid:   dec("150.00"),
		AccountID:     &acct,
	})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for initial paid above total, got %v", err)
	}
}

func TestListSales_StatusFilter(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	sales := core.NewSalesService(pool, core.NewLedger(pool))
	ctx := context.Background()
	acct := 1

	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		Date: time.Now(), Total: dec("10.00"), PaymentMethod: core.MethodCash,
	}); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}
	if _, err := sales.CreateSale(ctx, 1, core.SaleInput{
		Date: time.Now(), Total: dec("20.00"), PaymentMethod: core.MethodCash,
		InitialPaid: dec("20.00"), AccountID: &acct,
	}); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	paid := core.StatusPaid
	got, err := sales.ListSales(ctx, 1, &paid)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 paid sale, got %d", len(got))
	}
	if got[0].PaymentStatus != core.StatusPaid {
		t.Errorf("status = %s, want PAID", got[0].PaymentStatus)
	}
}
