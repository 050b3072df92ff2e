package web

import (
	"net/http"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

// createCustomer handles POST /api/customers.
func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.partners.CreateCustomer(r.Context(), claims.CompanyID, req.Name, req.Phone)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, c)
}

// getCustomer handles GET /api/customers/{id}.
func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	c, err := h.partners.GetCustomer(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

// listCustomers handles GET /api/customers.
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	customers, err := h.partners.ListCustomers(r.Context(), claims.CompanyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Customers []core.Customer `json:"customers"`
	}
	writeJSON(w, response{Customers: customers})
}

// payCustomer handles POST /api/customers/{id}/payments. The payment is
// spread across the customer's unpaid sales oldest first; anything left over
// becomes customer credit.
func (h *Handler) payCustomer(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	var req struct {
		AccountID int    `json:"account_id"`
		Amount    string `json:"amount"`
		Date      string `json:"date"`
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

	result, err := h.payments.ApplyCustomerPayment(r.Context(), claims.CompanyID, id, req.AccountID, amount, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// createVendor handles POST /api/vendors.
func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.partners.CreateVendor(r.Context(), claims.CompanyID, req.Name, req.Phone)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, v)
}

// listVendors handles GET /api/vendors.
func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	vendors, err := h.partners.ListVendors(r.Context(), claims.CompanyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Vendors []core.Vendor `json:"vendors"`
	}
	writeJSON(w, response{Vendors: vendors})
}

// payVendor handles POST /api/vendors/{id}/payments. The payment is spread
// across the vendor's unpaid purchase orders oldest first; overpaying the
// vendor's total outstanding is rejected.
func (h *Handler) payVendor(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	var req struct {
		AccountID int    `json:"account_id"`
		Amount    string `json:"amount"`
		Date      string `json:"date"`
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

	result, err := h.payments.ApplyVendorPayment(r.Context(), claims.CompanyID, id, req.AccountID, amount, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// createProject handles POST /api/projects.
func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		Name            string `json:"name"`
		AgreementAmount string `json:"agreement_amount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	agreement, err := parseAmount(req.AgreementAmount)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	p, err := h.partners.CreateProject(r.Context(), claims.CompanyID, req.Name, agreement)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, p)
}

// getProject handles GET /api/projects/{id}.
func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	p, err := h.partners.GetProject(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

// listProjects handles GET /api/projects.
func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	projects, err := h.partners.ListProjects(r.Context(), claims.CompanyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Projects []core.Project `json:"projects"`
	}
	writeJSON(w, response{Projects: projects})
}

// payProject handles POST /api/projects/{id}/payments.
func (h *Handler) payProject(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	var req struct {
		AccountID int    `json:"account_id"`
		Amount    string `json:"amount"`
		Date      string `json:"date"`
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

	p, err := h.payments.ApplyProjectPayment(r.Context(), claims.CompanyID, id, req.AccountID, amount, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}
