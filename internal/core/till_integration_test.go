package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

func TestTillSession_OpenCloseVariance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	till := core.NewTillService(pool)
	ctx := context.Background()

	session, err := till.OpenSession(ctx, 1, 1, dec("50.00"))
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}
	if session.Status != core.TillOpen {
		t.Errorf("status = %s, want OPEN", session.Status)
	}

	// Two cash sales by this user while the till is open, one bank sale that
	// must not count toward expected cash.
	_, err = pool.Exec(ctx, `
		INSERT INTO sales (company_id, sale_date, total, payment_method, created_by) VALUES
		(1, CURRENT_DATE, 30.00, 'CASH', 1),
		(1, CURRENT_DATE, 20.00, 'CASH', 1),
		(1, CURRENT_DATE, 99.00, 'BANK', 1)
	`)
	if err != nil {
		t.Fatalf("seed sales failed: %v", err)
	}

	closed, err := till.CloseSession(ctx, 1, 1, dec("95.00"))
	if err != nil {
		t.Fatalf("CloseSession failed: %v", err)
	}
	if closed.Status != core.TillClosed {
		t.Errorf("status = %s, want CLOSED", closed.Status)
	}
	if closed.ExpectedCash == nil || !closed.ExpectedCash.Equal(dec("100.00")) {
		t.Errorf("expected_cash = %v, want 100.00", closed.ExpectedCash)
	}
	// Counted 95 against expected 100: five short.
	if closed.Variance == nil || !closed.Variance.Equal(dec("-5.00")) {
		t.Errorf("variance = %v, want -5.00", closed.Variance)
	}
}

func TestTillSession_SecondOpenRejected(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	till := core.NewTillService(pool)
	ctx := context.Background()

	if _, err := till.OpenSession(ctx, 1, 1, dec("50.00")); err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}

	_, err := till.OpenSession(ctx, 1, 1, dec("25.00"))
	if !errors.Is(err, core.ErrConflict) {
		t.Errorf("expected ErrConflict for second open session, got %v", err)
	}
}

func TestTillSession_CloseWithoutOpen(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	till := core.NewTillService(pool)

	_, err := till.CloseSession(context.Background(), 1, 1, dec("10.00"))
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound with no open session, got %v", err)
	}
}

func TestTillSession_GetOpenSession(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	till := core.NewTillService(pool)
	ctx := context.Background()

	_, err := till.GetOpenSession(ctx, 1, 1)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound before opening, got %v", err)
	}

	opened, err := till.OpenSession(ctx, 1, 1, dec("50.00"))
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}

	got, err := till.GetOpenSession(ctx, 1, 1)
	if err != nil {
		t.Fatalf("GetOpenSession failed: %v", err)
	}
	if got.ID != opened.ID {
		t.Errorf("got session %d, want %d", got.ID, opened.ID)
	}

	if _, err := till.CloseSession(ctx, 1, 1, dec("50.00")); err != nil {
		t.Fatalf("CloseSession failed: %v", err)
	}

	// After closing, opening again is allowed.
	if _, err := till.OpenSession(ctx, 1, 1, dec("60.00")); err != nil {
		t.Errorf("reopen after close failed: %v", err)
	}
}
