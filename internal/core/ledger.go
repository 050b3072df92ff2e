package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Ledger posts immutable entries and keeps account balances consistent with
// them. Every posting that references an account performs the entry insert and
// the balance adjustment inside one database transaction; a failure of either
// aborts both.
type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// EntryInput describes one ledger entry to post. Amount must be a positive
// magnitude; the type carries the direction. AccountID may be nil for
// postings that touch no account (depreciation).
type EntryInput struct {
	AccountID       *int
	Type            EntryType
	Amount          decimal.Decimal
	Date            time.Time
	Description     string
	Reference       *string
	ExpenseID       *int
	SaleID          *int
	PurchaseOrderID *int
	ProjectID       *int
	CustomerID      *int
	VendorID        *int
	EmployeeID      *int
	FixedAssetID    *int
}

func (in EntryInput) validate() error {
	if !ValidEntryType(in.Type) {
		return fmt.Errorf("unknown entry type %q: %w", in.Type, ErrInvalidArgument)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("entry amount must be positive, got %s: %w", in.Amount, ErrInvalidArgument)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("entry date is required: %w", ErrInvalidArgument)
	}
	return nil
}

// PostEntry posts a single entry in its own transaction.
func (l *Ledger) PostEntry(ctx context.Context, companyID int, in EntryInput) (*LedgerEntry, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	entry, err := l.PostEntryTx(ctx, tx, companyID, in)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit ledger entry: %w", err)
	}
	return entry, nil
}

// PostEntryTx posts an entry inside the caller's transaction so multi-table
// operations (expenses, payments, transfers) stay atomic. When AccountID is
// set, the account balance is adjusted by the signed amount in the same
// transaction; the UPDATE doubles as the account existence and tenant check.
func (l *Ledger) PostEntryTx(ctx context.Context, tx pgx.Tx, companyID int, in EntryInput) (*LedgerEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if in.AccountID != nil {
		delta := in.Amount
		if DirectionSign(in.Type) < 0 {
			delta = delta.Neg()
		}
		tag, err := tx.Exec(ctx,
			"UPDATE accounts SET balance = balance + $1 WHERE id = $2 AND company_id = $3",
			delta, *in.AccountID, companyID,
		)
		if err != nil {
			return nil, fmt.Errorf("adjust balance of account %d: %w", *in.AccountID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("account %d: %w", *in.AccountID, ErrNotFound)
		}
	}

	e := &LedgerEntry{}
	err := tx.QueryRow(ctx, `
		INSERT INTO ledger_entries
		            (company_id, account_id, type, amount, entry_date, description, reference,
		             expense_id, sale_id, purchase_order_id, project_id,
		             customer_id, vendor_id, employee_id, fixed_asset_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, company_id, account_id, type, amount, entry_date, description, reference,
		          expense_id, sale_id, purchase_order_id, project_id,
		          customer_id, vendor_id, employee_id, fixed_asset_id, created_at`,
		companyID, in.AccountID, in.Type, in.Amount, in.Date.Format("2006-01-02"),
		in.Description, in.Reference, in.ExpenseID, in.SaleID, in.PurchaseOrderID,
		in.ProjectID, in.CustomerID, in.VendorID, in.EmployeeID, in.FixedAssetID,
	).Scan(
		&e.ID, &e.CompanyID, &e.AccountID, &e.Type, &e.Amount, &e.EntryDate,
		&e.Description, &e.Reference, &e.ExpenseID, &e.SaleID, &e.PurchaseOrderID,
		&e.ProjectID, &e.CustomerID, &e.VendorID, &e.EmployeeID, &e.FixedAssetID, &e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert ledger entry: %w", err)
	}
	return e, nil
}

// EntryFilter narrows ListEntries. Nil fields are ignored.
type EntryFilter struct {
	AccountID *int
	Type      *EntryType
	From      *time.Time
	To        *time.Time
}

// ListEntries returns entries for a company, newest first.
func (l *Ledger) ListEntries(ctx context.Context, companyID int, f EntryFilter) ([]LedgerEntry, error) {
	query := `
		SELECT id, company_id, account_id, type, amount, entry_date, description, reference,
		       expense_id, sale_id, purchase_order_id, project_id,
		       customer_id, vendor_id, employee_id, fixed_asset_id, created_at
		FROM ledger_entries
		WHERE company_id = $1`
	args := []any{companyID}

	if f.AccountID != nil {
		args = append(args, *f.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if f.Type != nil {
		args = append(args, *f.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, f.From.Format("2006-01-02"))
		query += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, f.To.Format("2006-01-02"))
		query += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}
	query += " ORDER BY entry_date DESC, id DESC"

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.AccountID, &e.Type, &e.Amount, &e.EntryDate,
			&e.Description, &e.Reference, &e.ExpenseID, &e.SaleID, &e.PurchaseOrderID,
			&e.ProjectID, &e.CustomerID, &e.VendorID, &e.EmployeeID, &e.FixedAssetID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ResetCompany deletes all ledger entries and expenses for a company and
// zeroes every account balance. This is the only path that removes entries.
func (l *Ledger) ResetCompany(ctx context.Context, companyID int) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM ledger_entries WHERE company_id = $1", companyID); err != nil {
		return fmt.Errorf("delete ledger entries: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM expenses WHERE company_id = $1", companyID); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	if _, err := tx.Exec(ctx, "UPDATE accounts SET balance = 0 WHERE company_id = $1", companyID); err != nil {
		return fmt.Errorf("zero account balances: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit company reset: %w", err)
	}
	return nil
}
