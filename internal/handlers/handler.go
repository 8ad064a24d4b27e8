package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eldtechnologies/maven/internal/relay"
	"github.com/eldtechnologies/maven/internal/store"
)

// Pinger reports reachability of the mail transport.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains shared dependencies for the ops endpoints.
type Handler struct {
	store    store.QuestionStore
	seen     *store.SeenCache
	mailbox  Pinger
	registry *relay.Registry
}

// NewHandler creates a new Handler with the given dependencies. seen and
// mailbox may be nil when not configured.
func NewHandler(st store.QuestionStore, seen *store.SeenCache, mailbox Pinger, registry *relay.Registry) *Handler {
	return &Handler{store: st, seen: seen, mailbox: mailbox, registry: registry}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
