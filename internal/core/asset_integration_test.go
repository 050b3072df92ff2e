package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

func TestCreateAsset_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	assets := core.NewAssetService(pool, core.NewLedger(pool))
	ctx := context.Background()

	_, err := assets.CreateAsset(ctx, 1, core.AssetInput{
		Name:             "Truck",
		Value:            dec("1200.00"),
		DepreciationRate: dec("1.50"),
		PurchasedAt:      time.Now(),
	})
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for rate above 1, got %v", err)
	}

	asset, err := assets.CreateAsset(ctx, 1, core.AssetInput{
		Name:             "Truck",
		Value:            dec("1200.00"),
		DepreciationRate: dec("0.20"),
		PurchasedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}
	if !asset.CurrentBookValue.Equal(asset.Value) {
		t.Errorf("book value = %s, want %s", asset.CurrentBookValue, asset.Value)
	}
}

func TestRunDepreciation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ledger := core.NewLedger(pool)
	assets := core.NewAssetService(pool, ledger)
	ctx := context.Background()

	asset, err := assets.CreateAsset(ctx, 1, core.AssetInput{
		Name:             "Truck",
		Value:            dec("1200.00"),
		DepreciationRate: dec("0.20"),
		PurchasedAt:      time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}

	lines, err := assets.RunDepreciation(ctx, 1, time.Now())
	if err != nil {
		t.Fatalf("RunDepreciation failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 depreciation line, got %d", len(lines))
	}
	if !lines[0].Amount.Equal(dec("20.00")) {
		t.Errorf("depreciation amount = %s, want 20.00", lines[0].Amount)
	}

	got, err := assets.GetAsset(ctx, 1, asset.ID)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if !got.CurrentBookValue.Equal(dec("1180.00")) {
		t.Errorf("book value after run = %s, want 1180.00", got.CurrentBookValue)
	}

	// The entry links to the asset and touches no account balance.
	entries, err := ledger.ListEntries(ctx, 1, core.EntryFilter{})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	if entries[0].Type != core.EntryExpense {
		t.Errorf("entry type = %s, want EXPENSE", entries[0].Type)
	}
	if entries[0].AccountID != nil {
		t.Errorf("depreciation entry should have no account, got %d", *entries[0].AccountID)
	}
}

func TestRunDepreciation_StopsAtZeroBookValue(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	assets := core.NewAssetService(pool, core.NewLedger(pool))
	ctx := context.Background()

	// Monthly depreciation is 20.00 but only 12.50 of book value remains.
	_, err := pool.Exec(ctx, `
		INSERT INTO fixed_assets (company_id, name, value, depreciation_rate, current_book_value, purchased_at)
		VALUES (1, 'Old Printer', 1200.00, 0.20, 12.50, '2024-01-01')
	`)
	if err != nil {
		t.Fatalf("seed asset failed: %v", err)
	}

	lines, err := assets.RunDepreciation(ctx, 1, time.Now())
	if err != nil {
		t.Fatalf("RunDepreciation failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if !lines[0].Amount.Equal(dec("12.50")) {
		t.Errorf("capped amount = %s, want 12.50", lines[0].Amount)
	}

	// A second run finds nothing left to depreciate.
	lines, err = assets.RunDepreciation(ctx, 1, time.Now())
	if err != nil {
		t.Fatalf("second RunDepreciation failed: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines on fully depreciated asset, got %d", len(lines))
	}
}
