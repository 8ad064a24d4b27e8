package handlers

import "net/http"

// StatsResponse summarizes the relay's in-memory state.
type StatsResponse struct {
	Questions            int `json:"questions"`
	OutstandingReminders int `json:"outstanding_reminders"`
}

// Stats reports registry counts for dashboards.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, StatsResponse{
		Questions:            h.registry.Len(),
		OutstandingReminders: h.registry.Outstanding(),
	})
}
