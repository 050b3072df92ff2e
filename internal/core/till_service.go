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

// TillService manages cash-drawer sessions. A user has at most one OPEN
// session at a time; the partial unique index on till_sessions backs this up
// at the storage layer.
type TillService struct {
	pool *pgxpool.Pool
}

func NewTillService(pool *pgxpool.Pool) *TillService {
	return &TillService{pool: pool}
}

// OpenSession starts a new till session for the user.
func (s *TillService) OpenSession(ctx context.Context, companyID, userID int, openingFloat decimal.Decimal) (*TillSession, error) {
	if openingFloat.IsNegative() {
		return nil, fmt.Errorf("opening float cannot be negative: %w", ErrInvalidArgument)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var open bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM till_sessions WHERE user_id = $1 AND status = 'OPEN')",
		userID,
	).Scan(&open); err != nil {
		return nil, fmt.Errorf("check open session for user %d: %w", userID, err)
	}
	if open {
		return nil, fmt.Errorf("user %d already has an open till session: %w", userID, ErrConflict)
	}

	t := &TillSession{}
	err = tx.QueryRow(ctx, `
		INSERT INTO till_sessions (company_id, user_id, opening_float)
		VALUES ($1, $2, $3)
		RETURNING id, company_id, user_id, opening_float, opened_at, status`,
		companyID, userID, openingFloat,
	).Scan(&t.ID, &t.CompanyID, &t.UserID, &t.OpeningFloat, &t.OpenedAt, &t.Status)
	if err != nil {
		// A concurrent open can slip past the EXISTS check; the partial
		// unique index catches it here.
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %d already has an open till session: %w", userID, ErrConflict)
		}
		return nil, fmt.Errorf("insert till session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit till open: %w", err)
	}
	return t, nil
}

// CloseSession closes the user's OPEN session. Expected cash is the opening
// float plus the totals of the user's cash-method sales recorded since the
// session opened; the variance (closing minus expected) is stored for manual
// follow-up rather than posted as a ledger adjustment.
func (s *TillService) CloseSession(ctx context.Context, companyID, userID int, closingCash decimal.Decimal) (*TillSession, error) {
	if closingCash.IsNegative() {
		return nil, fmt.Errorf("closing cash cannot be negative: %w", ErrInvalidArgument)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	t := &TillSession{}
	err = tx.QueryRow(ctx, `
		SELECT id, company_id, user_id, opening_float, opened_at, status
		FROM till_sessions
		WHERE company_id = $1 AND user_id = $2 AND status = 'OPEN'
		FOR UPDATE`,
		companyID, userID,
	).Scan(&t.ID, &t.CompanyID, &t.UserID, &t.OpeningFloat, &t.OpenedAt, &t.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no open till session for user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("lock till session: %w", err)
	}

	var cashSales decimal.Decimal
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM sales
		WHERE company_id = $1 AND created_by = $2
		  AND payment_method = 'CASH' AND created_at >= $3`,
		companyID, userID, t.OpenedAt,
	).Scan(&cashSales); err != nil {
		return nil, fmt.Errorf("sum cash sales since open: %w", err)
	}

	expected := t.OpeningFloat.Add(cashSales)
	variance := closingCash.Sub(expected)
	now := time.Now()

	if _, err := tx.Exec(ctx, `
		UPDATE till_sessions
		SET closing_cash = $1, expected_cash = $2, variance = $3,
		    status = 'CLOSED', closed_at = $4
		WHERE id = $5`,
		closingCash, expected, variance, now, t.ID,
	); err != nil {
		return nil, fmt.Errorf("close till session %d: %w", t.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit till close: %w", err)
	}

	t.ClosingCash = &closingCash
	t.ExpectedCash = &expected
	t.Variance = &variance
	t.Status = TillClosed
	t.ClosedAt = &now
	return t, nil
}

// GetOpenSession returns the user's OPEN session, or ErrNotFound.
func (s *TillService) GetOpenSession(ctx context.Context, companyID, userID int) (*TillSession, error) {
	t := &TillSession{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, user_id, opening_float, opened_at,
		       closing_cash, expected_cash, variance, status, closed_at
		FROM till_sessions
		WHERE company_id = $1 AND user_id = $2 AND status = 'OPEN'`,
		companyID, userID,
	).Scan(&t.ID, &t.CompanyID, &t.UserID, &t.OpeningFloat, &t.OpenedAt,
		&t.ClosingCash, &t.ExpectedCash, &t.Variance, &t.Status, &t.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no open till session for user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch open till session: %w", err)
	}
	return t, nil
}

// ListSessions returns the user's till sessions, newest first.
func (s *TillService) ListSessions(ctx context.Context, companyID, userID int) ([]TillSession, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, user_id, opening_float, opened_at,
		       closing_cash, expected_cash, variance, status, closed_at
		FROM till_sessions
		WHERE company_id = $1 AND user_id = $2
		ORDER BY opened_at DESC`,
		companyID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list till sessions: %w", err)
	}
	defer rows.Close()

	var sessions []TillSession
	for rows.Next() {
		var t TillSession
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.UserID, &t.OpeningFloat, &t.OpenedAt,
			&t.ClosingCash, &t.ExpectedCash, &t.Variance, &t.Status, &t.ClosedAt); err != nil {
			return nil, fmt.Errorf("scan till session: %w", err)
		}
		sessions = append(sessions, t)
	}
	return sessions, rows.Err()
}
