// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// EffectsHandler handles effect bundle requests.
type EffectsHandler struct {
	deps Dependencies
}

// NewEffectsHandler creates a new effects handler.
func NewEffectsHandler(deps Dependencies) *EffectsHandler {
	return &EffectsHandler{deps: deps}
}

// HandleGetEffects handles GET /effects/{subject_id} requests.
func (h *EffectsHandler) HandleGetEffects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /effects/
	path := strings.TrimPrefix(r.URL.Path, "/effects/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	bundle, err := h.deps.EffectBundle(r.Context(), path)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}
