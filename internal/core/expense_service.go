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

// ExpenseService records expenses. Creating an expense produces exactly one
// paired EXPENSE ledger entry and one account balance decrement, atomically.
type ExpenseService struct {
	pool   *pgxpool.Pool
	ledger *Ledger
}

func NewExpenseService(pool *pgxpool.Pool, ledger *Ledger) *ExpenseService {
	return &ExpenseService{pool: pool, ledger: ledger}
}

// ExpenseInput holds the fields required to create an expense.
type ExpenseInput struct {
	AccountID   int
	Category    string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	ProjectID   *int
	VendorID    *int
	EmployeeID  *int
}

// CreateExpense inserts the expense row and posts its ledger entry in one
// transaction. A linked project is validated to exist within the tenant.
func (s *ExpenseService) CreateExpense(ctx context.Context, companyID int, in ExpenseInput) (*Expense, error) {
	if in.Category == "" {
		return nil, fmt.Errorf("expense category is required: %w", ErrInvalidArgument)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("expense amount must be positive, got %s: %w", in.Amount, ErrInvalidArgument)
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Validate the project link before touching expenses: the FK would also
	// reject a missing project, but as a raw constraint error instead of
	// NotFound, and it would not catch another tenant's project at all.
	if in.ProjectID != nil {
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1 AND company_id = $2)",
			*in.ProjectID, companyID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check project %d: %w", *in.ProjectID, err)
		}
		if !exists {
			return nil, fmt.Errorf("project %d: %w", *in.ProjectID, ErrNotFound)
		}
	}

	var desc *string
	if in.Description != "" {
		desc = &in.Description
	}

	e := &Expense{}
	err = tx.QueryRow(ctx, `
		INSERT INTO expenses (company_id, account_id, category, amount, expense_date,
		                      description, project_id, vendor_id, employee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, company_id, account_id, category, amount, expense_date,
		          description, approved, project_id, vendor_id, employee_id, created_at`,
		companyID, in.AccountID, in.Category, in.Amount, in.Date.Format("2006-01-02"),
		desc, in.ProjectID, in.VendorID, in.EmployeeID,
	).Scan(&e.ID, &e.CompanyID, &e.AccountID, &e.Category, &e.Amount, &e.ExpenseDate,
		&e.Description, &e.Approved, &e.ProjectID, &e.VendorID, &e.EmployeeID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}

	if _, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
		AccountID:   &in.AccountID,
		Type:        EntryExpense,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: fmt.Sprintf("Expense: %s", in.Category),
		ExpenseID:   &e.ID,
		ProjectID:   in.ProjectID,
		VendorID:    in.VendorID,
		EmployeeID:  in.EmployeeID,
	}); err != nil {
		return nil, fmt.Errorf("post expense entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit expense: %w", err)
	}
	return e, nil
}

// GetExpense returns an expense scoped to the company.
func (s *ExpenseService) GetExpense(ctx context.Context, companyID, expenseID int) (*Expense, error) {
	e := &Expense{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, account_id, category, amount, expense_date,
		       description, approved, project_id, vendor_id, employee_id, created_at
		FROM expenses
		WHERE id = $1 AND company_id = $2`,
		expenseID, companyID,
	).Scan(&e.ID, &e.CompanyID, &e.AccountID, &e.Category, &e.Amount, &e.ExpenseDate,
		&e.Description, &e.Approved, &e.ProjectID, &e.VendorID, &e.EmployeeID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("expense %d: %w", expenseID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch expense %d: %w", expenseID, err)
	}
	return e, nil
}

// ListExpenses returns all expenses for a company, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, companyID int) ([]Expense, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, account_id, category, amount, expense_date,
		       description, approved, project_id, vendor_id, employee_id, created_at
		FROM expenses
		WHERE company_id = $1
		ORDER BY expense_date DESC, id DESC`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.AccountID, &e.Category, &e.Amount, &e.ExpenseDate,
			&e.Description, &e.Approved, &e.ProjectID, &e.VendorID, &e.EmployeeID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
