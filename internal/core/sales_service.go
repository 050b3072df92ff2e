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

// SalesService manages receivable sale documents.
type SalesService struct {
	pool   *pgxpool.Pool
	ledger *Ledger
}

func NewSalesService(pool *pgxpool.Pool, ledger *Ledger) *SalesService {
	return &SalesService{pool: pool, ledger: ledger}
}

// SaleInput holds the fields required to record a sale. A positive
// InitialPaid applies an immediate payment into AccountID.
type SaleInput struct {
	CustomerID    *int
	Date          time.Time
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	InitialPaid   decimal.Decimal
	AccountID     *int
	CreatedBy     *int
}

// CreateSale inserts the sale and, when an initial payment is given, applies
// it in the same transaction: paid amount, payment status, one INCOME entry
// and the account increment all land together or not at all.
func (s *SalesService) CreateSale(ctx context.Context, companyID int, in SaleInput) (*Sale, error) {
	if !in.Total.IsPositive() {
		return nil, fmt.Errorf("sale total must be positive, got %s: %w", in.Total, ErrInvalidArgument)
	}
	if !ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("unknown payment method %q: %w", in.PaymentMethod, ErrInvalidArgument)
	}
	if in.InitialPaid.IsNegative() {
		return nil, fmt.Errorf("initial payment cannot be negative: %w", ErrInvalidArgument)
	}
	if in.InitialPaid.GreaterThan(in.Total) {
		return nil, fmt.Errorf("initial payment %s exceeds sale total %s: %w",
			in.InitialPaid, in.Total, ErrInvalidArgument)
	}
	if in.InitialPaid.IsPositive() && in.AccountID == nil {
		return nil, fmt.Errorf("an account is required to receive the initial payment: %w", ErrInvalidArgument)
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sale := &Sale{}
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (company_id, customer_id, sale_date, total, payment_method, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, company_id, customer_id, sale_date, total, paid_amount,
		          payment_status, payment_method, created_by, created_at`,
		companyID, in.CustomerID, in.Date.Format("2006-01-02"), in.Total, in.PaymentMethod, in.CreatedBy,
	).Scan(&sale.ID, &sale.CompanyID, &sale.CustomerID, &sale.SaleDate, &sale.Total,
		&sale.PaidAmount, &sale.PaymentStatus, &sale.PaymentMethod, &sale.CreatedBy, &sale.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	if in.InitialPaid.IsPositive() {
		status := PaymentStatusFor(in.Total, in.InitialPaid)
		if _, err := tx.Exec(ctx,
			"UPDATE sales SET paid_amount = $1, payment_status = $2 WHERE id = $3",
			in.InitialPaid, status, sale.ID,
		); err != nil {
			return nil, fmt.Errorf("apply initial payment to sale %d: %w", sale.ID, err)
		}

		if _, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
			AccountID:   in.AccountID,
			Type:        EntryIncome,
			Amount:      in.InitialPaid,
			Date:        in.Date,
			Description: fmt.Sprintf("Payment for sale %d", sale.ID),
			SaleID:      &sale.ID,
			CustomerID:  in.CustomerID,
		}); err != nil {
			return nil, fmt.Errorf("post initial payment: %w", err)
		}

		sale.PaidAmount = in.InitialPaid
		sale.PaymentStatus = status
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}
	return sale, nil
}

// GetSale returns a sale scoped to the company.
func (s *SalesService) GetSale(ctx context.Context, companyID, saleID int) (*Sale, error) {
	sale := &Sale{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, customer_id, sale_date, total, paid_amount,
		       payment_status, payment_method, created_by, created_at
		FROM sales
		WHERE id = $1 AND company_id = $2`,
		saleID, companyID,
	).Scan(&sale.ID, &sale.CompanyID, &sale.CustomerID, &sale.SaleDate, &sale.Total,
		&sale.PaidAmount, &sale.PaymentStatus, &sale.PaymentMethod, &sale.CreatedBy, &sale.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d: %w", saleID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch sale %d: %w", saleID, err)
	}
	return sale, nil
}

// ListSales returns sales for a company, newest first, optionally filtered by
// payment status.
func (s *SalesService) ListSales(ctx context.Context, companyID int, status *PaymentStatus) ([]Sale, error) {
	query := `
		SELECT id, company_id, customer_id, sale_date, total, paid_amount,
		       payment_status, payment_method, created_by, created_at
		FROM sales
		WHERE company_id = $1`
	args := []any{companyID}
	if status != nil {
		args = append(args, *status)
		query += " AND payment_status = $2"
	}
	query += " ORDER BY sale_date DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.CompanyID, &sale.CustomerID, &sale.SaleDate, &sale.Total,
			&sale.PaidAmount, &sale.PaymentStatus, &sale.PaymentMethod, &sale.CreatedBy, &sale.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}
