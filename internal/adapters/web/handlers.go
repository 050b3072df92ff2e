package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

// Services bundles the core services the HTTP layer exposes.
type Services struct {
	Users     *core.UserService
	Accounts  *core.AccountService
	Ledger    *core.Ledger
	Transfers *core.TransferService
	Expenses  *core.ExpenseService
	Payments  *core.PaymentService
	Sales     *core.SalesService
	Purchases *core.PurchaseService
	Partners  *core.PartnerService
	Till      *core.TillService
	Assets    *core.AssetService
	Reports   *core.ReportingService
}

// Handler holds the core services and the chi router.
type Handler struct {
	users     *core.UserService
	accounts  *core.AccountService
	ledger    *core.Ledger
	transfers *core.TransferService
	expenses  *core.ExpenseService
	payments  *core.PaymentService
	sales     *core.SalesService
	purchases *core.PurchaseService
	partners  *core.PartnerService
	till      *core.TillService
	assets    *core.AssetService
	reports   *core.ReportingService
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svcs Services, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		users:     svcs.Users,
		accounts:  svcs.Accounts,
		ledger:    svcs.Ledger,
		transfers: svcs.Transfers,
		expenses:  svcs.Expenses,
		payments:  svcs.Payments,
		sales:     svcs.Sales,
		purchases: svcs.Purchases,
		partners:  svcs.Partners,
		till:      svcs.Till,
		assets:    svcs.Assets,
		reports:   svcs.Reports,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)

		// Accounts
		r.Get("/api/accounts", h.listAccounts)
		r.Post("/api/accounts", h.createAccount)
		r.Get("/api/accounts/{id}", h.getAccount)
		r.Delete("/api/accounts/{id}", h.deleteAccount)

		// Ledger
		r.Get("/api/transactions", h.listEntries)
		r.Post("/api/transactions", h.createEntry)
		r.Post("/api/transfers", h.createTransfer)
		r.Post("/api/company/reset", h.resetCompany)

		// Expenses
		r.Get("/api/expenses", h.listExpenses)
		r.Post("/api/expenses", h.createExpense)
		r.Get("/api/expenses/{id}", h.getExpense)

		// Sales and receivable payments
		r.Get("/api/sales", h.listSales)
		r.Post("/api/sales", h.createSale)
		r.Get("/api/sales/{id}", h.getSale)
		r.Post("/api/sales/{id}/payments", h.paySale)

		// Purchases and payable payments
		r.Get("/api/purchase-orders", h.listPurchaseOrders)
		r.Post("/api/purchase-orders", h.createPurchaseOrder)
		r.Get("/api/purchase-orders/{id}", h.getPurchaseOrder)
		r.Post("/api/purchase-orders/{id}/payments", h.payPurchaseOrder)

		// Partners
		r.Get("/api/customers", h.listCustomers)
		r.Post("/api/customers", h.createCustomer)
		r.Get("/api/customers/{id}", h.getCustomer)
		r.Post("/api/customers/{id}/payments", h.payCustomer)
		r.Get("/api/vendors", h.listVendors)
		r.Post("/api/vendors", h.createVendor)
		r.Post("/api/vendors/{id}/payments", h.payVendor)
		r.Get("/api/projects", h.listProjects)
		r.Post("/api/projects", h.createProject)
		r.Get("/api/projects/{id}", h.getProject)
		r.Post("/api/projects/{id}/payments", h.payProject)

		// Till sessions
		r.Get("/api/till/session", h.getTillSession)
		r.Get("/api/till/sessions", h.listTillSessions)
		r.Post("/api/till/open", h.openTill)
		r.Post("/api/till/close", h.closeTill)

		// Fixed assets
		r.Get("/api/assets", h.listAssets)
		r.Post("/api/assets", h.createAsset)
		r.Get("/api/assets/{id}", h.getAsset)
		r.Post("/api/assets/depreciation-run", h.runDepreciation)

		// Reports
		r.Get("/api/reports/accounts/{id}/statement", h.accountStatement)
		r.Get("/api/reports/summary", h.cashflowSummary)
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// parseQueryID parses a positive integer query parameter.
func parseQueryID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// urlID extracts and parses a numeric URL parameter.
func urlID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

// parseAmount parses a decimal string from a JSON body field.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parseOptionalAmount parses a decimal string; empty means zero.
func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return parseAmount(s)
}

// parseDate parses an optional YYYY-MM-DD date; empty means now.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
