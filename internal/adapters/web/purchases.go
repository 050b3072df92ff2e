package web

import (
	"net/http"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

// createPurchaseOrder handles POST /api/purchase-orders.
func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		VendorID int    `json:"vendor_id"`
		Date     string `json:"date"`
		Total    string `json:"total"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	total, err := parseAmount(req.Total)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	po, err := h.purchases.CreatePurchaseOrder(r.Context(), claims.CompanyID, core.PurchaseOrderInput{
		VendorID: req.VendorID,
		Date:     date,
		Total:    total,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, po)
}

// getPurchaseOrder handles GET /api/purchase-orders/{id}.
func (h *Handler) getPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	po, err := h.purchases.GetPurchaseOrder(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, po)
}

// listPurchaseOrders handles GET /api/purchase-orders with an optional status
// filter.
func (h *Handler) listPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var status *core.PaymentStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := core.PaymentStatus(v)
		status = &s
	}

	orders, err := h.purchases.ListPurchaseOrders(r.Context(), claims.CompanyID, status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		PurchaseOrders []core.PurchaseOrder `json:"purchase_orders"`
	}
	writeJSON(w, response{PurchaseOrders: orders})
}

// payPurchaseOrder handles POST /api/purchase-orders/{id}/payments.
func (h *Handler) payPurchaseOrder(w http.ResponseWriter, r *http.Request) {
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

	po, err := h.payments.ApplyPurchasePayment(r.Context(), claims.CompanyID, id, req.AccountID, amount, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, po)
}
