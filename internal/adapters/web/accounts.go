package web

import (
	"net/http"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

// createAccount handles POST /api/accounts.
func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		Name           string `json:"name"`
		Type           string `json:"type"`
		InitialBalance string `json:"initial_balance"`
		Currency       string `json:"currency"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	initial, err := parseOptionalAmount(req.InitialBalance)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), claims.CompanyID, core.AccountInput{
		Name:           req.Name,
		Type:           core.AccountType(req.Type),
		InitialBalance: initial,
		Currency:       req.Currency,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, account)
}

// listAccounts handles GET /api/accounts.
func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	accounts, err := h.accounts.ListAccounts(r.Context(), claims.CompanyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Accounts []core.Account `json:"accounts"`
	}
	writeJSON(w, response{Accounts: accounts})
}

// getAccount handles GET /api/accounts/{id}.
func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, account)
}

// deleteAccount handles DELETE /api/accounts/{id}. Accounts with ledger
// history return 409.
func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), claims.CompanyID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Message string `json:"message"`
	}
	writeJSON(w, response{Message: "account deleted"})
}
