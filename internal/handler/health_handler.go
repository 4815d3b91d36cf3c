package handlers

import (
	"context"
	"net/http"
	"time"
)

const readinessTimeout = 3 * time.Second

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"message": "Content Management API"}, http.StatusOK)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	}, http.StatusOK)
}

func (h *Handlers) Live(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now().UTC(),
	}, http.StatusOK)
}

// Ready pings the store backend.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if h.DB == nil {
		WriteError(w, "Database not reachable", http.StatusServiceUnavailable)
		return
	}
	if err := h.DB.HealthCheck(ctx); err != nil {
		h.Log.WithError(err).Warn("readiness check failed")
		WriteError(w, "Database not reachable", http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, map[string]bool{"ready": true}, http.StatusOK)
}
