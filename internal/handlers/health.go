package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/smartpos/terminal/internal/pos"
)

// HealthHandler provides health check and store status endpoints
type HealthHandler struct {
	store  *pos.Store
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *pos.Store, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}

// Status handles GET /api/status
// Returns the transient store flags for UI feedback
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.Status(), h.logger)
}
