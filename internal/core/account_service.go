package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AccountService manages financial accounts (cash drawers, bank accounts,
// mobile money wallets).
type AccountService struct {
	pool   *pgxpool.Pool
	ledger *Ledger
}

func NewAccountService(pool *pgxpool.Pool, ledger *Ledger) *AccountService {
	return &AccountService{pool: pool, ledger: ledger}
}

// AccountInput holds the fields required to create an account.
type AccountInput struct {
	Name           string
	Type           AccountType
	InitialBalance decimal.Decimal
	Currency       string
}

// CreateAccount persists a new account. A positive initial balance also
// writes an "Opening Balance" ledger entry of type OTHER for the same amount,
// in the same transaction, so the balance invariant holds from the first row.
func (s *AccountService) CreateAccount(ctx context.Context, companyID int, in AccountInput) (*Account, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("account name is required: %w", ErrInvalidArgument)
	}
	if !ValidAccountType(in.Type) {
		return nil, fmt.Errorf("unknown account type %q: %w", in.Type, ErrInvalidArgument)
	}
	if in.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("initial balance cannot be negative: %w", ErrInvalidArgument)
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	a := &Account{}
	err = tx.QueryRow(ctx, `
		INSERT INTO accounts (company_id, name, type, balance, currency)
		VALUES ($1, $2, $3, 0, $4)
		RETURNING id, company_id, name, type, balance, currency, created_at`,
		companyID, in.Name, in.Type, currency,
	).Scan(&a.ID, &a.CompanyID, &a.Name, &a.Type, &a.Balance, &a.Currency, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("account %q already exists: %w", in.Name, ErrConflict)
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	if in.InitialBalance.IsPositive() {
		entry, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
			AccountID:   &a.ID,
			Type:        EntryOther,
			Amount:      in.InitialBalance,
			Date:        time.Now(),
			Description: "Opening Balance",
		})
		if err != nil {
			return nil, fmt.Errorf("post opening balance: %w", err)
		}
		a.Balance = entry.Amount
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit account creation: %w", err)
	}
	return a, nil
}

// GetAccount returns an account scoped to the company.
func (s *AccountService) GetAccount(ctx context.Context, companyID, accountID int) (*Account, error) {
	a := &Account{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, name, type, balance, currency, created_at
		FROM accounts
		WHERE id = $1 AND company_id = $2`,
		accountID, companyID,
	).Scan(&a.ID, &a.CompanyID, &a.Name, &a.Type, &a.Balance, &a.Currency, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %d: %w", accountID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch account %d: %w", accountID, err)
	}
	return a, nil
}

// ListAccounts returns all accounts for a company, ordered by name.
func (s *AccountService) ListAccounts(ctx context.Context, companyID int) ([]Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, type, balance, currency, created_at
		FROM accounts
		WHERE company_id = $1
		ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Name, &a.Type, &a.Balance, &a.Currency, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// DeleteAccount removes an account. Accounts with ledger history cannot be
// deleted; the history is never cascade-deleted.
func (s *AccountService) DeleteAccount(ctx context.Context, companyID, accountID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Establish tenancy before inspecting history: another tenant's account
	// must look like NotFound, not Conflict, regardless of its state.
	var lockedID int
	err = tx.QueryRow(ctx,
		"SELECT id FROM accounts WHERE id = $1 AND company_id = $2 FOR UPDATE",
		accountID, companyID,
	).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("account %d: %w", accountID, ErrNotFound)
		}
		return fmt.Errorf("lock account %d: %w", accountID, err)
	}

	var referenced bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM ledger_entries WHERE account_id = $1)",
		accountID,
	).Scan(&referenced); err != nil {
		return fmt.Errorf("check ledger references for account %d: %w", accountID, err)
	}
	if referenced {
		return fmt.Errorf("account %d has ledger entries: %w", accountID, ErrConflict)
	}

	if _, err := tx.Exec(ctx,
		"DELETE FROM accounts WHERE id = $1 AND company_id = $2",
		accountID, companyID,
	); err != nil {
		return fmt.Errorf("delete account %d: %w", accountID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit account deletion: %w", err)
	}
	return nil
}
