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

// PaymentService applies payments to sales and purchase orders, keeping
// paidAmount/paymentStatus consistent with the ledger. Each application
// updates the document, posts exactly one ledger entry and adjusts the
// receiving (or paying) account, all inside one transaction.
type PaymentService struct {
	pool   *pgxpool.Pool
	ledger *Ledger
}

func NewPaymentService(pool *pgxpool.Pool, ledger *Ledger) *PaymentService {
	return &PaymentService{pool: pool, ledger: ledger}
}

// ApplySalePayment applies a payment to one sale. Payments exceeding the
// outstanding balance are rejected; overpayment credit only exists on the
// by-customer path where the money has nowhere else to go.
func (s *PaymentService) ApplySalePayment(ctx context.Context, companyID, saleID, accountID int,
	amount decimal.Decimal, date time.Time) (*Sale, error) {

	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive, got %s: %w", amount, ErrInvalidArgument)
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sale := &Sale{}
	err = tx.QueryRow(ctx, `
		SELECT id, company_id, customer_id, sale_date, total, paid_amount,
		       payment_status, payment_method, created_by, created_at
		FROM sales
		WHERE id = $1 AND company_id = $2
		FOR UPDATE`,
		saleID, companyID,
	).Scan(&sale.ID, &sale.CompanyID, &sale.CustomerID, &sale.SaleDate, &sale.Total,
		&sale.PaidAmount, &sale.PaymentStatus, &sale.PaymentMethod, &sale.CreatedBy, &sale.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d: %w", saleID, ErrNotFound)
		}
		return nil, fmt.Errorf("lock sale %d: %w", saleID, err)
	}

	due := sale.DueAmount()
	if amount.GreaterThan(due) {
		return nil, fmt.Errorf("payment %s exceeds outstanding %s on sale %d: %w",
			amount, due, saleID, ErrInvalidArgument)
	}

	newPaid := sale.PaidAmount.Add(amount)
	newStatus := PaymentStatusFor(sale.Total, newPaid)
	if _, err := tx.Exec(ctx,
		"UPDATE sales SET paid_amount = $1, payment_status = $2 WHERE id = $3",
		newPaid, newStatus, saleID,
	); err != nil {
		return nil, fmt.Errorf("update sale %d: %w", saleID, err)
	}

	if _, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
		AccountID:   &accountID,
		Type:        EntryIncome,
		Amount:      amount,
		Date:        date,
		Description: fmt.Sprintf("Payment for sale %d", saleID),
		SaleID:      &saleID,
		CustomerID:  sale.CustomerID,
	}); err != nil {
		return nil, fmt.Errorf("post sale payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sale payment: %w", err)
	}

	sale.PaidAmount = newPaid
	sale.PaymentStatus = newStatus
	return sale, nil
}

// CustomerPaymentResult reports a by-customer payment: how it spread across
// the customer's outstanding sales and what was left over.
type CustomerPaymentResult struct {
	Entry             LedgerEntry     `json:"entry"`
	Allocations       []Allocation    `json:"allocations"`
	CreditedRemainder decimal.Decimal `json:"credited_remainder"`
}

// ApplyCustomerPayment distributes a payment across a customer's unpaid sales,
// oldest first. Any remainder after all sales are settled is credited to the
// customer's credit balance; the receiving account is incremented by the full
// amount either way since the cash was actually received.
func (s *PaymentService) ApplyCustomerPayment(ctx context.Context, companyID, customerID, accountID int,
	amount decimal.Decimal, date time.Time) (*CustomerPaymentResult, error) {

	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive, got %s: %w", amount, ErrInvalidArgument)
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var lockedID int
	err = tx.QueryRow(ctx,
		"SELECT id FROM customers WHERE id = $1 AND company_id = $2 FOR UPDATE",
		customerID, companyID,
	).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("lock customer %d: %w", customerID, err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, total, paid_amount
		FROM sales
		WHERE company_id = $1 AND customer_id = $2 AND payment_status <> 'PAID'
		ORDER BY sale_date, id
		FOR UPDATE`,
		companyID, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch outstanding sales for customer %d: %w", customerID, err)
	}

	var targets []PaymentTarget
	for rows.Next() {
		var t PaymentTarget
		if err := rows.Scan(&t.ID, &t.Total, &t.Paid); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan outstanding sale: %w", err)
		}
		targets = append(targets, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outstanding sales: %w", err)
	}

	allocs, remainder := AllocateFIFO(targets, amount)

	for _, a := range allocs {
		if _, err := tx.Exec(ctx,
			"UPDATE sales SET paid_amount = $1, payment_status = $2 WHERE id = $3",
			a.NewPaid, a.Status, a.ID,
		); err != nil {
			return nil, fmt.Errorf("update sale %d: %w", a.ID, err)
		}
	}

	if remainder.IsPositive() {
		if _, err := tx.Exec(ctx,
			"UPDATE customers SET credit_balance = credit_balance + $1 WHERE id = $2",
			remainder, customerID,
		); err != nil {
			return nil, fmt.Errorf("credit remainder to customer %d: %w", customerID, err)
		}
	}

	entry, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
		AccountID:   &accountID,
		Type:        EntryIncome,
		Amount:      amount,
		Date:        date,
		Description: fmt.Sprintf("Customer payment (%d sales settled)", len(allocs)),
		CustomerID:  &customerID,
	})
	if err != nil {
		return nil, fmt.Errorf("post customer payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit customer payment: %w", err)
	}

	return &CustomerPaymentResult{
		Entry:             *entry,
		Allocations:       allocs,
		CreditedRemainder: remainder,
	}, nil
}

// ApplyPurchasePayment applies a payment to one purchase order, posting an
// EXPENSE entry against the paying account. Overpaying a single order is
// rejected.
func (s *PaymentService) ApplyPurchasePayment(ctx context.Context, companyID, orderID, accountID int,
	amount decimal.Decimal, date time.Time) (*PurchaseOrder, error) {

	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive, got %s: %w", amount, ErrInvalidArgument)
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	po := &PurchaseOrder{}
	err = tx.QueryRow(ctx, `
		SELECT id, company_id, vendor_id, order_date, total, paid_amount, payment_status, created_at
		FROM purchase_orders
		WHERE id = $1 AND company_id = $2
		FOR UPDATE`,
		orderID, companyID,
	).Scan(&po.ID, &po.CompanyID, &po.VendorID, &po.OrderDate, &po.Total,
		&po.PaidAmount, &po.PaymentStatus, &po.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("lock purchase order %d: %w", orderID, err)
	}

	due := po.DueAmount()
	if amount.GreaterThan(due) {
		return nil, fmt.Errorf("payment %s exceeds outstanding %s on purchase order %d: %w",
			amount, due, orderID, ErrInvalidArgument)
	}

	newPaid := po.PaidAmount.Add(amount)
	newStatus := PaymentStatusFor(po.Total, newPaid)
	if _, err := tx.Exec(ctx,
		"UPDATE purchase_orders SET paid_amount = $1, payment_status = $2 WHERE id = $3",
		newPaid, newStatus, orderID,
	); err != nil {
		return nil, fmt.Errorf("update purchase order %d: %w", orderID, err)
	}

	if _, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
		AccountID:       &accountID,
		Type:            EntryExpense,
		Amount:          amount,
		Date:            date,
		Description:     fmt.Sprintf("Payment for purchase order %d", orderID),
		PurchaseOrderID: &orderID,
		VendorID:        &po.VendorID,
	}); err != nil {
		return nil, fmt.Errorf("post purchase payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase payment: %w", err)
	}

	po.PaidAmount = newPaid
	po.PaymentStatus = newStatus
	return po, nil
}

// VendorPaymentResult reports a by-vendor payment spread across purchase orders.
type VendorPaymentResult struct {
	Entry       LedgerEntry  `json:"entry"`
	Allocations []Allocation `json:"allocations"`
}

// ApplyVendorPayment distributes a payment across a vendor's unpaid purchase
// orders, oldest first. Unlike the customer path there is no credit ledger on
// the payable side, so paying more than the vendor's total outstanding is
// rejected.
func (s *PaymentService) ApplyVendorPayment(ctx context.Context, companyID, vendorID, accountID int,
	amount decimal.Decimal, date time.Time) (*VendorPaymentResult, error) {

	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive, got %s: %w", amount, ErrInvalidArgument)
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM vendors WHERE id = $1 AND company_id = $2)",
		vendorID, companyID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check vendor %d: %w", vendorID, err)
	}
	if !exists {
		return nil, fmt.Errorf("vendor %d: %w", vendorID, ErrNotFound)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, total, paid_amount
		FROM purchase_orders
		WHERE company_id = $1 AND vendor_id = $2 AND payment_status <> 'PAID'
		ORDER BY order_date, id
		FOR UPDATE`,
		companyID, vendorID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch outstanding purchase orders for vendor %d: %w", vendorID, err)
	}

	var targets []PaymentTarget
	for rows.Next() {
		var t PaymentTarget
		if err := rows.Scan(&t.ID, &t.Total, &t.Paid); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan outstanding purchase order: %w", err)
		}
		targets = append(targets, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outstanding purchase orders: %w", err)
	}

	allocs, remainder := AllocateFIFO(targets, amount)
	if remainder.IsPositive() {
		return nil, fmt.Errorf("payment %s exceeds vendor %d's total outstanding by %s: %w",
			amount, vendorID, remainder, ErrInvalidArgument)
	}

	for _, a := range allocs {
		if _, err := tx.Exec(ctx,
			"UPDATE purchase_orders SET paid_amount = $1, payment_status = $2 WHERE id = $3",
			a.NewPaid, a.Status, a.ID,
		); err != nil {
			return nil, fmt.Errorf("update purchase order %d: %w", a.ID, err)
		}
	}

	entry, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
		AccountID:   &accountID,
		Type:        EntryExpense,
		Amount:      amount,
		Date:        date,
		Description: fmt.Sprintf("Vendor payment (%d orders settled)", len(allocs)),
		VendorID:    &vendorID,
	})
	if err != nil {
		return nil, fmt.Errorf("post vendor payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit vendor payment: %w", err)
	}

	return &VendorPaymentResult{Entry: *entry, Allocations: allocs}, nil
}

// ApplyProjectPayment records income received against a project agreement:
// advance_paid grows by the amount, remaining_amount shrinks but never goes
// below zero, and one INCOME entry is posted to the receiving account.
func (s *PaymentService) ApplyProjectPayment(ctx context.Context, companyID, projectID, accountID int,
	amount decimal.Decimal, date time.Time) (*Project, error) {

	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive, got %s: %w", amount, ErrInvalidArgument)
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	p := &Project{}
	err = tx.QueryRow(ctx, `
		SELECT id, company_id, name, agreement_amount, advance_paid, remaining_amount, created_at
		FROM projects
		WHERE id = $1 AND company_id = $2
		FOR UPDATE`,
		projectID, companyID,
	).Scan(&p.ID, &p.CompanyID, &p.Name, &p.AgreementAmount, &p.AdvancePaid, &p.RemainingAmount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, fmt.Errorf("lock project %d: %w", projectID, err)
	}

	newAdvance := p.AdvancePaid.Add(amount)
	newRemaining := p.RemainingAmount.Sub(amount)
	if newRemaining.IsNegative() {
		newRemaining = decimal.Zero
	}
	if _, err := tx.Exec(ctx,
		"UPDATE projects SET advance_paid = $1, remaining_amount = $2 WHERE id = $3",
		newAdvance, newRemaining, projectID,
	); err != nil {
		return nil, fmt.Errorf("update project %d: %w", projectID, err)
	}

	if _, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
		AccountID:   &accountID,
		Type:        EntryIncome,
		Amount:      amount,
		Date:        date,
		Description: fmt.Sprintf("Project payment: %s", p.Name),
		ProjectID:   &projectID,
	}); err != nil {
		return nil, fmt.Errorf("post project payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit project payment: %w", err)
	}

	p.AdvancePaid = newAdvance
	p.RemainingAmount = newRemaining
	return p, nil
}
