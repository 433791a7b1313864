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

// CartHandler handles cart HTTP requests
type CartHandler struct {
	store  *pos.Store
	logger *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store *pos.Store, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		store:  store,
		logger: logger,
	}
}

// CartResponse is the cart snapshot with its running total
type CartResponse struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
}

// AddItemRequest identifies the product to add one unit of
type AddItemRequest struct {
	ProductID string `json:"productId"`
}

// UpdateItemRequest carries the new quantity for a cart line
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w)
}

// AddItem handles POST /api/cart/items
// Adds one unit: an existing line is incremented, otherwise a new line
// is appended
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	if req.ProductID == "" {
		WriteError(w, http.StatusBadRequest, "productId is required", h.logger)
		return
	}

	if err := h.store.AddToCart(req.ProductID); err != nil {
		if errors.Is(err, pos.ErrProductNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}
		h.logger.Error("failed to add cart item", "product_id", req.ProductID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	h.writeCart(w)
}

// UpdateItem handles PUT /api/cart/items/{productId}
// A zero or negative quantity removes the line
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	h.store.UpdateQuantity(productID, req.Quantity)
	h.writeCart(w)
}

// RemoveItem handles DELETE /api/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	h.store.RemoveFromCart(productID)
	h.writeCart(w)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.ClearCart()
	h.writeCart(w)
}

func (h *CartHandler) writeCart(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, CartResponse{
		Items: h.store.Cart(),
		Total: h.store.Total(),
	}, h.logger)
}
