package web

import (
	"net/http"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

// openTill handles POST /api/till/open. Each user may hold at most one open
// session at a time.
func (h *Handler) openTill(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		OpeningFloat string `json:"opening_float"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	openingFloat, err := parseAmount(req.OpeningFloat)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	session, err := h.till.OpenSession(r.Context(), claims.CompanyID, claims.UserID, openingFloat)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, session)
}

// closeTill handles POST /api/till/close. The counted cash is compared
// against the opening float plus this user's cash sales since opening.
func (h *Handler) closeTill(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		ClosingCash string `json:"closing_cash"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	closingCash, err := parseAmount(req.ClosingCash)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	session, err := h.till.CloseSession(r.Context(), claims.CompanyID, claims.UserID, closingCash)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, session)
}

// getTillSession handles GET /api/till/session, returning the caller's open
// session or 404.
func (h *Handler) getTillSession(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	session, err := h.till.GetOpenSession(r.Context(), claims.CompanyID, claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, session)
}

// listTillSessions handles GET /api/till/sessions.
func (h *Handler) listTillSessions(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	sessions, err := h.till.ListSessions(r.Context(), claims.CompanyID, claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Sessions []core.TillSession `json:"sessions"`
	}
	writeJSON(w, response{Sessions: sessions})
}
