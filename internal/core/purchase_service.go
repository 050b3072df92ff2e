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

// PurchaseService manages payable purchase orders.
type PurchaseService struct {
	pool *pgxpool.Pool
}

func NewPurchaseService(pool *pgxpool.Pool) *PurchaseService {
	return &PurchaseService{pool: pool}
}

// PurchaseOrderInput holds the fields required to record a purchase order.
type PurchaseOrderInput struct {
	VendorID int
	Date     time.Time
	Total    decimal.Decimal
}

// CreatePurchaseOrder inserts a new unpaid purchase order. The vendor must
// belong to the same company.
func (s *PurchaseService) CreatePurchaseOrder(ctx context.Context, companyID int, in PurchaseOrderInput) (*PurchaseOrder, error) {
	if !in.Total.IsPositive() {
		return nil, fmt.Errorf("purchase order total must be positive, got %s: %w", in.Total, ErrInvalidArgument)
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	var exists bool
	if err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM vendors WHERE id = $1 AND company_id = $2)",
		in.VendorID, companyID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check vendor %d: %w", in.VendorID, err)
	}
	if !exists {
		return nil, fmt.Errorf("vendor %d: %w", in.VendorID, ErrNotFound)
	}

	po := &PurchaseOrder{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO purchase_orders (company_id, vendor_id, order_date, total)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_id, vendor_id, order_date, total, paid_amount, payment_status, created_at`,
		companyID, in.VendorID, in.Date.Format("2006-01-02"), in.Total,
	).Scan(&po.ID, &po.CompanyID, &po.VendorID, &po.OrderDate, &po.Total,
		&po.PaidAmount, &po.PaymentStatus, &po.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert purchase order: %w", err)
	}
	return po, nil
}

// GetPurchaseOrder returns a purchase order scoped to the company.
func (s *PurchaseService) GetPurchaseOrder(ctx context.Context, companyID, orderID int) (*PurchaseOrder, error) {
	po := &PurchaseOrder{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, vendor_id, order_date, total, paid_amount, payment_status, created_at
		FROM purchase_orders
		WHERE id = $1 AND company_id = $2`,
		orderID, companyID,
	).Scan(&po.ID, &po.CompanyID, &po.VendorID, &po.OrderDate, &po.Total,
		&po.PaidAmount, &po.PaymentStatus, &po.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch purchase order %d: %w", orderID, err)
	}
	return po, nil
}

// ListPurchaseOrders returns purchase orders for a company, newest first,
// optionally filtered by payment status.
func (s *PurchaseService) ListPurchaseOrders(ctx context.Context, companyID int, status *PaymentStatus) ([]PurchaseOrder, error) {
	query := `
		SELECT id, company_id, vendor_id, order_date, total, paid_amount, payment_status, created_at
		FROM purchase_orders
		WHERE company_id = $1`
	args := []any{companyID}
	if status != nil {
		args = append(args, *status)
		query += " AND payment_status = $2"
	}
	query += " ORDER BY order_date DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		var po PurchaseOrder
		if err := rows.Scan(&po.ID, &po.CompanyID, &po.VendorID, &po.OrderDate, &po.Total,
			&po.PaidAmount, &po.PaymentStatus, &po.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}
