package web

import (
	"net/http"
	"time"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

// accountStatement handles GET /api/reports/accounts/{id}/statement.
func (h *Handler) accountStatement(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	lines, err := h.reports.GetAccountStatement(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Lines []core.StatementLine `json:"lines"`
	}
	writeJSON(w, response{Lines: lines})
}

// cashflowSummary handles GET /api/reports/summary with optional from/to
// query parameters. Without them the range is the current month to date.
func (h *Handler) cashflowSummary(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, r, "invalid from date, expected YYYY-MM-DD", "INVALID_ARGUMENT", http.StatusBadRequest)
			return
		}
		from = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, r, "invalid to date, expected YYYY-MM-DD", "INVALID_ARGUMENT", http.StatusBadRequest)
			return
		}
		to = t
	}

	summary, err := h.reports.GetCashflowSummary(r.Context(), claims.CompanyID, from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, summary)
}
