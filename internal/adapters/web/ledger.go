package web

import (
	"net/http"
	"time"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

// listEntries handles GET /api/transactions with optional account_id, type,
// from and to query filters.
func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var filter core.EntryFilter
	q := r.URL.Query()
	if v := q.Get("account_id"); v != "" {
		id, err := parseQueryID(v)
		if err != nil {
			writeError(w, r, "invalid account_id filter", "INVALID_ARGUMENT", http.StatusBadRequest)
			return
		}
		filter.AccountID = &id
	}
	if v := q.Get("type"); v != "" {
		t := core.EntryType(v)
		if !core.ValidEntryType(t) {
			writeError(w, r, "unknown entry type filter", "INVALID_ARGUMENT", http.StatusBadRequest)
			return
		}
		filter.Type = &t
	}
	if v := q.Get("from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, r, "invalid from date, expected YYYY-MM-DD", "INVALID_ARGUMENT", http.StatusBadRequest)
			return
		}
		filter.From = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, r, "invalid to date, expected YYYY-MM-DD", "INVALID_ARGUMENT", http.StatusBadRequest)
			return
		}
		filter.To = &to
	}

	entries, err := h.ledger.ListEntries(r.Context(), claims.CompanyID, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Transactions []core.LedgerEntry `json:"transactions"`
	}
	writeJSON(w, response{Transactions: entries})
}

// createEntry handles POST /api/transactions, manual ledger postings such as
// income, debt taken or debt repaid against an account.
func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		AccountID   int    `json:"account_id"`
		Type        string `json:"type"`
		Amount      string `json:"amount"`
		Date        string `json:"date"`
		Description string `json:"description"`
		CustomerID  *int   `json:"customer_id"`
		VendorID    *int   `json:"vendor_id"`
		EmployeeID  *int   `json:"employee_id"`
		ProjectID   *int   `json:"project_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	// Transfer legs always come in pairs through /api/transfers; a lone
	// TRANSFER_IN or TRANSFER_OUT would break the pairing.
	entryType := core.EntryType(req.Type)
	if entryType == core.EntryTransferIn || entryType == core.EntryTransferOut {
		writeError(w, r, "transfer entries must be created via /api/transfers", "INVALID_ARGUMENT", http.StatusBadRequest)
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

	entry, err := h.ledger.PostEntry(r.Context(), claims.CompanyID, core.EntryInput{
		AccountID:   &req.AccountID,
		Type:        entryType,
		Amount:      amount,
		Date:        date,
		Description: req.Description,
		CustomerID:  req.CustomerID,
		VendorID:    req.VendorID,
		EmployeeID:  req.EmployeeID,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, entry)
}

// createTransfer handles POST /api/transfers.
func (h *Handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		FromAccountID int    `json:"from_account_id"`
		ToAccountID   int    `json:"to_account_id"`
		Amount        string `json:"amount"`
		Date          string `json:"date"`
		Description   string `json:"description"`
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

	result, err := h.transfers.Transfer(r.Context(), claims.CompanyID,
		req.FromAccountID, req.ToAccountID, amount, date, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, result)
}

// resetCompany handles POST /api/company/reset. Deletes all ledger entries
// and expenses and zeroes every account balance for the tenant.
func (h *Handler) resetCompany(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	if err := h.ledger.ResetCompany(r.Context(), claims.CompanyID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Message string `json:"message"`
	}
	writeJSON(w, response{Message: "company financial data reset"})
}
