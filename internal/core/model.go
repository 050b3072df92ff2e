package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountCash        AccountType = "CASH"
	AccountBank        AccountType = "BANK"
	AccountMobileMoney AccountType = "MOBILE_MONEY"
)

// Account is a named pool of funds with a cached running balance. The balance
// always equals the signed sum of the ledger entries referencing the account;
// the Ledger enforces this by mutating both inside one database transaction.
type Account struct {
	ID        int             `json:"id"`
	CompanyID int             `json:"company_id"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

type EntryType string

const (
	EntryIncome      EntryType = "INCOME"
	EntryExpense     EntryType = "EXPENSE"
	EntryTransferIn  EntryType = "TRANSFER_IN"
	EntryTransferOut EntryType = "TRANSFER_OUT"
	EntryDebtTaken   EntryType = "DEBT_TAKEN"
	EntryDebtRepaid  EntryType = "DEBT_REPAID"
	EntryOther       EntryType = "OTHER"
)

// LedgerEntry is an immutable record of a single money movement. Amount is
// always a positive magnitude; Type determines the direction applied to the
// account balance. AccountID is nil for non-cash postings (depreciation).
type LedgerEntry struct {
	ID              int             `json:"id"`
	CompanyID       int             `json:"company_id"`
	AccountID       *int            `json:"account_id,omitempty"`
	Type            EntryType       `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	EntryDate       time.Time       `json:"entry_date"`
	Description     string          `json:"description"`
	Reference       *string         `json:"reference,omitempty"`
	ExpenseID       *int            `json:"expense_id,omitempty"`
	SaleID          *int            `json:"sale_id,omitempty"`
	PurchaseOrderID *int            `json:"purchase_order_id,omitempty"`
	ProjectID       *int            `json:"project_id,omitempty"`
	CustomerID      *int            `json:"customer_id,omitempty"`
	VendorID        *int            `json:"vendor_id,omitempty"`
	EmployeeID      *int            `json:"employee_id,omitempty"`
	FixedAssetID    *int            `json:"fixed_asset_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SignedAmount returns the amount with the direction sign applied.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if DirectionSign(e.Type) < 0 {
		return e.Amount.Neg()
	}
	return e.Amount
}

type Company struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           int       `json:"id"`
	CompanyID    int       `json:"company_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Customer struct {
	ID            int             `json:"id"`
	CompanyID     int             `json:"company_id"`
	Name          string          `json:"name"`
	Phone         *string         `json:"phone,omitempty"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Vendor struct {
	ID        int       `json:"id"`
	CompanyID int       `json:"company_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID              int             `json:"id"`
	CompanyID       int             `json:"company_id"`
	Name            string          `json:"name"`
	AgreementAmount decimal.Decimal `json:"agreement_amount"`
	AdvancePaid     decimal.Decimal `json:"advance_paid"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "UNPAID"
	StatusPartial PaymentStatus = "PARTIAL"
	StatusPaid    PaymentStatus = "PAID"
)

type PaymentMethod string

const (
	MethodCash        PaymentMethod = "CASH"
	MethodBank        PaymentMethod = "BANK"
	MethodMobileMoney PaymentMethod = "MOBILE_MONEY"
)

// Sale is a receivable document. The outstanding amount is derived, never stored.
type Sale struct {
	ID            int             `json:"id"`
	CompanyID     int             `json:"company_id"`
	CustomerID    *int            `json:"customer_id,omitempty"`
	SaleDate      time.Time       `json:"sale_date"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CreatedBy     *int            `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DueAmount returns total minus paid.
func (s Sale) DueAmount() decimal.Decimal {
	return s.Total.Sub(s.PaidAmount)
}

// PurchaseOrder is a payable document.
type PurchaseOrder struct {
	ID            int             `json:"id"`
	CompanyID     int             `json:"company_id"`
	VendorID      int             `json:"vendor_id"`
	OrderDate     time.Time       `json:"order_date"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (p PurchaseOrder) DueAmount() decimal.Decimal {
	return p.Total.Sub(p.PaidAmount)
}

type Expense struct {
	ID          int             `json:"id"`
	CompanyID   int             `json:"company_id"`
	AccountID   int             `json:"account_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date"`
	Description *string         `json:"description,omitempty"`
	Approved    bool            `json:"approved"`
	ProjectID   *int            `json:"project_id,omitempty"`
	VendorID    *int            `json:"vendor_id,omitempty"`
	EmployeeID  *int            `json:"employee_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TillStatus string

const (
	TillOpen   TillStatus = "OPEN"
	TillClosed TillStatus = "CLOSED"
)

// TillSession is one cash-drawer shift, bounded by open and close events.
// ClosingCash, ExpectedCash, Variance and ClosedAt are set on close.
type TillSession struct {
	ID           int              `json:"id"`
	CompanyID    int              `json:"company_id"`
	UserID       int              `json:"user_id"`
	OpeningFloat decimal.Decimal  `json:"opening_float"`
	OpenedAt     time.Time        `json:"opened_at"`
	ClosingCash  *decimal.Decimal `json:"closing_cash,omitempty"`
	ExpectedCash *decimal.Decimal `json:"expected_cash,omitempty"`
	Variance     *decimal.Decimal `json:"variance,omitempty"`
	Status       TillStatus       `json:"status"`
	ClosedAt     *time.Time       `json:"closed_at,omitempty"`
}

type FixedAsset struct {
	ID               int             `json:"id"`
	CompanyID        int             `json:"company_id"`
	Name             string          `json:"name"`
	Value            decimal.Decimal `json:"value"`
	DepreciationRate decimal.Decimal `json:"depreciation_rate"`
	CurrentBookValue decimal.Decimal `json:"current_book_value"`
	PurchasedAt      time.Time       `json:"purchased_at"`
	CreatedAt        time.Time       `json:"created_at"`
}
