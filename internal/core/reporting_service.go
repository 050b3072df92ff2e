package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StatementLine is one ledger entry in an account statement. RunningBalance
// is the cumulative signed position after this line.
type StatementLine struct {
	EntryID        int             `json:"entry_id"`
	EntryDate      time.Time       `json:"entry_date"`
	Type           EntryType       `json:"type"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// CashflowSummary aggregates signed entry totals for a period.
type CashflowSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// ReportingService provides read-only queries over the ledger.
type ReportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) *ReportingService {
	return &ReportingService{pool: pool}
}

// GetAccountStatement returns all entries for an account in chronological
// order with a running balance. The final running balance equals the
// account's cached balance when the posting invariant holds.
func (s *ReportingService) GetAccountStatement(ctx context.Context, companyID, accountID int) ([]StatementLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, entry_date, type, description, amount
		FROM ledger_entries
		WHERE company_id = $1 AND account_id = $2
		ORDER BY entry_date, id`,
		companyID, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query account statement: %w", err)
	}
	defer rows.Close()

	var lines []StatementLine
	running := decimal.Zero
	for rows.Next() {
		var l StatementLine
		if err := rows.Scan(&l.EntryID, &l.EntryDate, &l.Type, &l.Description, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan statement line: %w", err)
		}
		if DirectionSign(l.Type) < 0 {
			running = running.Sub(l.Amount)
		} else {
			running = running.Add(l.Amount)
		}
		l.RunningBalance = running
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetCashflowSummary returns income and expense totals for a company within
// the given date range. Transfers are internal movements and excluded.
func (s *ReportingService) GetCashflowSummary(ctx context.Context, companyID int, from, to time.Time) (*CashflowSummary, error) {
	var income, expenses decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type IN ('INCOME', 'DEBT_TAKEN', 'OTHER')), 0),
			COALESCE(SUM(amount) FILTER (WHERE type IN ('EXPENSE', 'DEBT_REPAID')), 0)
		FROM ledger_entries
		WHERE company_id = $1 AND entry_date >= $2 AND entry_date <= $3`,
		companyID, from.Format("2006-01-02"), to.Format("2006-01-02"),
	).Scan(&income, &expenses)
	if err != nil {
		return nil, fmt.Errorf("query cashflow summary: %w", err)
	}

	return &CashflowSummary{
		Income:   income,
		Expenses: expenses,
		Net:      income.Sub(expenses),
	}, nil
}
