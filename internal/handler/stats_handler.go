package handlers

import (
	"net/http"
)

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(r)
	if !ok {
		WriteError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	stats, err := h.StatsService.ComputeStats(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, stats, http.StatusOK)
}

func (h *Handlers) GetTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(r)
	if !ok {
		WriteError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	tags, err := h.StatsService.ListDistinctTags(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, tags, http.StatusOK)
}
