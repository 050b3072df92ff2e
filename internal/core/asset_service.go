package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// MonthlyDepreciation returns the book-value decrement for one monthly run:
// (value × rate) / 12, capped at the remaining book value so it never goes
// negative. A fully depreciated asset yields zero.
func MonthlyDepreciation(value, rate, bookValue decimal.Decimal) decimal.Decimal {
	if !bookValue.IsPositive() {
		return decimal.Zero
	}
	monthly := value.Mul(rate).Div(decimal.NewFromInt(12)).Round(2)
	return decimal.Min(monthly, bookValue)
}

// AssetService manages fixed assets and their monthly depreciation runs.
type AssetService struct {
	pool   *pgxpool.Pool
	ledger *Ledger
}

func NewAssetService(pool *pgxpool.Pool, ledger *Ledger) *AssetService {
	return &AssetService{pool: pool, ledger: ledger}
}

// AssetInput holds the fields required to register a fixed asset.
type AssetInput struct {
	Name             string
	Value            decimal.Decimal
	DepreciationRate decimal.Decimal
	PurchasedAt      time.Time
}

// CreateAsset registers a fixed asset with its book value equal to its value.
func (s *AssetService) CreateAsset(ctx context.Context, companyID int, in AssetInput) (*FixedAsset, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("asset name is required: %w", ErrInvalidArgument)
	}
	if !in.Value.IsPositive() {
		return nil, fmt.Errorf("asset value must be positive, got %s: %w", in.Value, ErrInvalidArgument)
	}
	if in.DepreciationRate.IsNegative() || in.DepreciationRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("depreciation rate must be between 0 and 1, got %s: %w",
			in.DepreciationRate, ErrInvalidArgument)
	}
	if in.PurchasedAt.IsZero() {
		in.PurchasedAt = time.Now()
	}

	a := &FixedAsset{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO fixed_assets (company_id, name, value, depreciation_rate, current_book_value, purchased_at)
		VALUES ($1, $2, $3, $4, $3, $5)
		RETURNING id, company_id, name, value, depreciation_rate, current_book_value, purchased_at, created_at`,
		companyID, in.Name, in.Value, in.DepreciationRate, in.PurchasedAt.Format("2006-01-02"),
	).Scan(&a.ID, &a.CompanyID, &a.Name, &a.Value, &a.DepreciationRate,
		&a.CurrentBookValue, &a.PurchasedAt, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert fixed asset: %w", err)
	}
	return a, nil
}

// GetAsset returns a fixed asset scoped to the company.
func (s *AssetService) GetAsset(ctx context.Context, companyID, assetID int) (*FixedAsset, error) {
	a := &FixedAsset{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, name, value, depreciation_rate, current_book_value, purchased_at, created_at
		FROM fixed_assets
		WHERE id = $1 AND company_id = $2`,
		assetID, companyID,
	).Scan(&a.ID, &a.CompanyID, &a.Name, &a.Value, &a.DepreciationRate,
		&a.CurrentBookValue, &a.PurchasedAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fixed asset %d: %w", assetID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch fixed asset %d: %w", assetID, err)
	}
	return a, nil
}

// ListAssets returns all fixed assets for a company, ordered by name.
func (s *AssetService) ListAssets(ctx context.Context, companyID int) ([]FixedAsset, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, value, depreciation_rate, current_book_value, purchased_at, created_at
		FROM fixed_assets
		WHERE company_id = $1
		ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list fixed assets: %w", err)
	}
	defer rows.Close()

	var assets []FixedAsset
	for rows.Next() {
		var a FixedAsset
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Name, &a.Value, &a.DepreciationRate,
			&a.CurrentBookValue, &a.PurchasedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fixed asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// DepreciationLine reports the outcome of one asset within a run.
type DepreciationLine struct {
	AssetID      int             `json:"asset_id"`
	AssetName    string          `json:"asset_name"`
	Amount       decimal.Decimal `json:"amount"`
	NewBookValue decimal.Decimal `json:"new_book_value"`
}

// RunDepreciation performs one monthly depreciation pass over all of the
// company's assets. For each asset with remaining book value it decrements
// current_book_value and writes one EXPENSE entry linked to the asset. The
// entries touch no cash account, so no balance is adjusted. Fully depreciated
// assets are skipped rather than posted at zero. The whole run is one
// transaction.
func (s *AssetService) RunDepreciation(ctx context.Context, companyID int, runDate time.Time) ([]DepreciationLine, error) {
	if runDate.IsZero() {
		runDate = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, name, value, depreciation_rate, current_book_value
		FROM fixed_assets
		WHERE company_id = $1
		ORDER BY id
		FOR UPDATE`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("lock fixed assets: %w", err)
	}

	type assetRow struct {
		id        int
		name      string
		value     decimal.Decimal
		rate      decimal.Decimal
		bookValue decimal.Decimal
	}
	var assets []assetRow
	for rows.Next() {
		var a assetRow
		if err := rows.Scan(&a.id, &a.name, &a.value, &a.rate, &a.bookValue); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan fixed asset: %w", err)
		}
		assets = append(assets, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fixed assets: %w", err)
	}

	var lines []DepreciationLine
	for _, a := range assets {
		amount := MonthlyDepreciation(a.value, a.rate, a.bookValue)
		if !amount.IsPositive() {
			continue
		}
		newBook := a.bookValue.Sub(amount)

		if _, err := tx.Exec(ctx,
			"UPDATE fixed_assets SET current_book_value = $1 WHERE id = $2",
			newBook, a.id,
		); err != nil {
			return nil, fmt.Errorf("update book value of asset %d: %w", a.id, err)
		}

		assetID := a.id
		if _, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
			Type:         EntryExpense,
			Amount:       amount,
			Date:         runDate,
			Description:  fmt.Sprintf("Depreciation: %s", a.name),
			FixedAssetID: &assetID,
		}); err != nil {
			return nil, fmt.Errorf("post depreciation for asset %d: %w", a.id, err)
		}

		lines = append(lines, DepreciationLine{
			AssetID:      a.id,
			AssetName:    a.name,
			Amount:       amount,
			NewBookValue: newBook,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit depreciation run: %w", err)
	}
	return lines, nil
}
