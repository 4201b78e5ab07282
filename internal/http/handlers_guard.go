package httpx

import (
	"context"
	"net/http"

	"github.com/siwaris/portal-api/internal/service"
)

// Guard decides route transitions; the SPA router delegates to it.
type Guard interface {
	Decide(ctx context.Context, path string) service.Decision
}

// GuardHandlers exposes the navigation guard over HTTP.
type GuardHandlers struct {
	Guard Guard
}

// Decide handles GET /guard?path=<route>.
func (h *GuardHandlers) Decide(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	decision := h.Guard.Decide(r.Context(), path)
	WriteJSON(w, http.StatusOK, decision)
}
