package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransferService moves funds between two accounts of the same company as a
// paired TRANSFER_OUT/TRANSFER_IN posting sharing one reference.
type TransferService struct {
	pool   *pgxpool.Pool
	ledger *Ledger

	// AllowOverdraft controls whether a transfer may drive the source account
	// negative. When true (the default), overdrafts succeed and the result
	// carries a warning flag instead.
	AllowOverdraft bool
}

func NewTransferService(pool *pgxpool.Pool, ledger *Ledger) *TransferService {
	return &TransferService{pool: pool, ledger: ledger, AllowOverdraft: true}
}

// TransferResult reports the two entries written and whether the source
// account went negative.
type TransferResult struct {
	Reference        string      `json:"reference"`
	OutEntry         LedgerEntry `json:"out_entry"`
	InEntry          LedgerEntry `json:"in_entry"`
	OverdraftWarning bool        `json:"overdraft_warning"`
}

// Transfer decrements the source, increments the destination, and writes both
// ledger entries in one transaction. The source row is locked first (lower id
// first would also work, but the source is always the debited side and
// locking it before reading its balance keeps the overdraft check exact).
func (s *TransferService) Transfer(ctx context.Context, companyID, fromAccountID, toAccountID int,
	amount decimal.Decimal, date time.Time, description string) (*TransferResult, error) {

	if fromAccountID == toAccountID {
		return nil, fmt.Errorf("cannot transfer within the same account: %w", ErrInvalidArgument)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transfer amount must be positive, got %s: %w", amount, ErrInvalidArgument)
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var fromBalance decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT balance FROM accounts WHERE id = $1 AND company_id = $2 FOR UPDATE",
		fromAccountID, companyID,
	).Scan(&fromBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("source account %d: %w", fromAccountID, ErrNotFound)
		}
		return nil, fmt.Errorf("lock source account %d: %w", fromAccountID, err)
	}

	overdraft := fromBalance.LessThan(amount)
	if overdraft && !s.AllowOverdraft {
		return nil, fmt.Errorf("insufficient funds in account %d (balance %s, requested %s): %w",
			fromAccountID, fromBalance, amount, ErrInvalidArgument)
	}

	ref := uuid.NewString()
	outEntry, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
		AccountID:   &fromAccountID,
		Type:        EntryTransferOut,
		Amount:      amount,
		Date:        date,
		Description: description,
		Reference:   &ref,
	})
	if err != nil {
		return nil, fmt.Errorf("post transfer-out: %w", err)
	}

	inEntry, err := s.ledger.PostEntryTx(ctx, tx, companyID, EntryInput{
		AccountID:   &toAccountID,
		Type:        EntryTransferIn,
		Amount:      amount,
		Date:        date,
		Description: description,
		Reference:   &ref,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("destination account %d: %w", toAccountID, ErrNotFound)
		}
		return nil, fmt.Errorf("post transfer-in: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transfer: %w", err)
	}

	return &TransferResult{
		Reference:        ref,
		OutEntry:         *outEntry,
		InEntry:          *inEntry,
		OverdraftWarning: overdraft,
	}, nil
}
