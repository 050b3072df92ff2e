package web

import (
	"net/http"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

// createSale handles POST /api/sales. An optional initial payment is applied
// atomically with the sale itself.
func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		CustomerID    *int   `json:"customer_id"`
		Date          string `json:"date"`
		Total         string `json:"total"`
		PaymentMethod string `json:"payment_method"`
		InitialPaid   string `json:"initial_paid"`
		AccountID     *int   `json:"account_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	total, err := parseAmount(req.Total)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}
	initialPaid, err := parseOptionalAmount(req.InitialPaid)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	method := core.PaymentMethod(req.PaymentMethod)
	if req.PaymentMethod == "" {
		method = core.MethodCash
	}

	userID := claims.UserID
	sale, err := h.sales.CreateSale(r.Context(), claims.CompanyID, core.SaleInput{
		CustomerID:    req.CustomerID,
		Date:          date,
		Total:         total,
		PaymentMethod: method,
		InitialPaid:   initialPaid,
		AccountID:     req.AccountID,
		CreatedBy:     &userID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, sale)
}

// getSale handles GET /api/sales/{id}.
func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	sale, err := h.sales.GetSale(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sale)
}

// listSales handles GET /api/sales with an optional status filter.
func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var status *core.PaymentStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := core.PaymentStatus(v)
		status = &s
	}

	sales, err := h.sales.ListSales(r.Context(), claims.CompanyID, status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Sales []core.Sale `json:"sales"`
	}
	writeJSON(w, response{Sales: sales})
}

// paySale handles POST /api/sales/{id}/payments.
func (h *Handler) paySale(w http.ResponseWriter, r *http.Request) {
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

	sale, err := h.payments.ApplySalePayment(r.Context(), claims.CompanyID, id, req.AccountID, amount, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sale)
}
