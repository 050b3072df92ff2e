package web

import (
	"net/http"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

// createExpense handles POST /api/expenses.
func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		AccountID   int    `json:"account_id"`
		Category    string `json:"category"`
		Amount      string `json:"amount"`
		Date        string `json:"date"`
		Description string `json:"description"`
		ProjectID   *int   `json:"project_id"`
		VendorID    *int   `json:"vendor_id"`
		EmployeeID  *int   `json:"employee_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	expense, err := h.expenses.CreateExpense(r.Context(), claims.CompanyID, core.ExpenseInput{
		AccountID:   req.AccountID,
		Category:    req.Category,
		Amount:      amount,
		Date:        date,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		VendorID:    req.VendorID,
		EmployeeID:  req.EmployeeID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, expense)
}

// getExpense handles GET /api/expenses/{id}.
func (h *Handler) getExpense(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	expense, err := h.expenses.GetExpense(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, expense)
}

// listExpenses handles GET /api/expenses.
func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	expenses, err := h.expenses.ListExpenses(r.Context(), claims.CompanyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Expenses []core.Expense `json:"expenses"`
	}
	writeJSON(w, response{Expenses: expenses})
}
