package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	h.ok(w, http.StatusOK, "ok", nil)
}

// Readyz pings the store with a short deadline.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, envelope{
			Status:           http.StatusServiceUnavailable,
			Message:          "Store unavailable",
			ErrorDescription: "Store unavailable",
		})
		return
	}

	h.ok(w, http.StatusOK, "ready", nil)
}
