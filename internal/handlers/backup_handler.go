package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/smartpos/terminal/internal/persistence"
	"github.com/smartpos/terminal/internal/pos"
)

// BackupHandler handles export, import, and wipe of all terminal data
type BackupHandler struct {
	store  *pos.Store
	logger *slog.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(store *pos.Store, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{
		store:  store,
		logger: logger,
	}
}

// Export handles GET /api/backup/export
// Returns the backup document as a JSON download
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	backup := h.store.Export(r.Context())

	filename := persistence.ExportFilename(time.Now())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	WriteJSON(w, http.StatusOK, backup, h.logger)

	h.logger.Info("backup exported",
		"filename", filename,
		"products", len(backup.Products),
		"sales", len(backup.Sales),
	)
}

// Import handles POST /api/backup/import
// The request body is the backup JSON document. Validation failures are
// surfaced as 400 responses and leave all state untouched.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Import(r.Context(), r.Body); err != nil {
		h.logger.Warn("backup import rejected", "error", err)

		switch {
		case errors.Is(err, persistence.ErrInvalidBackup):
			WriteError(w, http.StatusBadRequest, "Backup is missing a products list", h.logger)
		case errors.Is(err, persistence.ErrUnreadableBackup):
			WriteError(w, http.StatusBadRequest, "Backup file could not be read", h.logger)
		default:
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"products": h.store.Products(),
		"sales":    h.store.Sales(),
	}, h.logger)
}

// Clear handles DELETE /api/backup
// Wipes all persisted and in-memory data, reinstalling the seed catalog
func (h *BackupHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.ClearAll(r.Context())
	h.logger.Info("all data cleared")
	w.WriteHeader(http.StatusNoContent)
}
