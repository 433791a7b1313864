package handlers

import (
	"log/slog"
	"net/http"

	"github.com/smartpos/terminal/internal/pos"
)

// SaleHandler handles checkout and sales-history HTTP requests
type SaleHandler struct {
	store  *pos.Store
	logger *slog.Logger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(store *pos.Store, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{
		store:  store,
		logger: logger,
	}
}

// Checkout handles POST /api/checkout
// Turns the cart into a sale. An empty cart is not an error: the
// response simply carries no sale, matching the store semantics.
func (h *SaleHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sale := h.store.Checkout()
	if sale == nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{"sale": nil}, h.logger)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{"sale": sale}, h.logger)
}

// ListSales handles GET /api/sale
// Returns the ledger, most recent sale first
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.Sales(), h.logger)
}

// ClearSales handles DELETE /api/sale
func (h *SaleHandler) ClearSales(w http.ResponseWriter, r *http.Request) {
	h.store.ClearSales()
	h.logger.Info("sales history cleared")
	w.WriteHeader(http.StatusNoContent)
}

// TodayStats handles GET /api/sale/today
func (h *SaleHandler) TodayStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.TodayStats(), h.logger)
}
