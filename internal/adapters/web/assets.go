package web

import (
	"net/http"

	"github.com/hamsefx10-lgtm/revlo/internal/core"
)

// createAsset handles POST /api/assets.
func (h *Handler) createAsset(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		Name             string `json:"name"`
		Value            string `json:"value"`
		DepreciationRate string `json:"depreciation_rate"`
		PurchasedAt      string `json:"purchased_at"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	value, err := parseAmount(req.Value)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}
	rate, err := parseAmount(req.DepreciationRate)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}
	purchasedAt, err := parseDate(req.PurchasedAt)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	asset, err := h.assets.CreateAsset(r.Context(), claims.CompanyID, core.AssetInput{
		Name:             req.Name,
		Value:            value,
		DepreciationRate: rate,
		PurchasedAt:      purchasedAt,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, asset)
}

// getAsset handles GET /api/assets/{id}.
func (h *Handler) getAsset(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	asset, err := h.assets.GetAsset(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, asset)
}

// listAssets handles GET /api/assets.
func (h *Handler) listAssets(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	assets, err := h.assets.ListAssets(r.Context(), claims.CompanyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Assets []core.FixedAsset `json:"assets"`
	}
	writeJSON(w, response{Assets: assets})
}

// runDepreciation handles POST /api/assets/depreciation-run. One call writes
// one monthly depreciation line per asset with remaining book value.
func (h *Handler) runDepreciation(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return
	}

	lines, err := h.assets.RunDepreciation(r.Context(), claims.CompanyID, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Lines []core.DepreciationLine `json:"lines"`
	}
	writeJSON(w, response{Lines: lines})
}
