package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smartpos/terminal/internal/models"
	"github.com/smartpos/terminal/internal/pos"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	store  *pos.Store
	logger *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(store *pos.Store, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		store:  store,
		logger: logger,
	}
}

// ListProducts handles GET /api/product
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.Products(), h.logger)
}

// CreateProduct handles POST /api/product
// The identity is assigned by the store; any id in the body is ignored
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.logger.Warn("failed to decode product", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	created, err := h.store.AddProduct(product)
	if err != nil {
		h.logger.Warn("rejected product", "error", err)
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	h.logger.Info("product created", "product_id", created.ID, "name", created.Name)
	WriteJSON(w, http.StatusCreated, created, h.logger)
}

// UpdateProduct handles PATCH /api/product/{productId}
// Applies a partial update; absent fields are left unchanged
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	var patch models.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Warn("failed to decode product patch", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	updated, err := h.store.UpdateProduct(productID, patch)
	if err != nil {
		if errors.Is(err, pos.ErrProductNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}
		h.logger.Warn("rejected product update", "product_id", productID, "error", err)
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, updated, h.logger)
}

// DeleteProduct handles DELETE /api/product/{productId}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	if err := h.store.DeleteProduct(productID); err != nil {
		WriteError(w, http.StatusNotFound, "Product not found", h.logger)
		return
	}

	h.logger.Info("product deleted", "product_id", productID)
	w.WriteHeader(http.StatusNoContent)
}
