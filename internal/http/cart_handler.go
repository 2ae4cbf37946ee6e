package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hankjoberg-netizen/voltstore/internal/cart"
	"github.com/hankjoberg-netizen/voltstore/internal/domain"
	"github.com/hankjoberg-netizen/voltstore/internal/session"
)

type CartHandler struct {
	engine   *cart.Engine
	sessions session.Store
	logger   *zap.Logger
}

func NewCartHandler(engine *cart.Engine, sessions session.Store, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		engine:   engine,
		sessions: sessions,
		logger:   logger,
	}
}

type AddItemRequestDTO struct {
	ProductID string   `json:"product_id"`
	Quantity  Quantity `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity Quantity `json:"quantity"`
}

// Quantity tolerates numbers, numeric strings and garbage in request
// bodies. Anything unparsable decodes to 0 and the cart engine clamps it
// up to 1; bad quantity input is coerced, not rejected.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*q = Quantity(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err2 := strconv.Atoi(s); err2 == nil {
			*q = Quantity(parsed)
			return nil
		}
	}

	*q = 0
	return nil
}

type CartResponse struct {
	Items         []cart.ResolvedItem `json:"items"`
	Total         float64             `json:"total"`
	TotalQuantity int                 `json:"total_quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	h.respondCart(w, http.StatusOK, c)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	c, ok := h.loadCart(w, r)
	if !ok {
		return
	}

	if err := h.engine.Add(c, req.ProductID, int(req.Quantity)); err != nil {
		if errors.Is(err, cart.ErrUnknownProduct) {
			respondError(w, http.StatusBadRequest, "unknown_product", "no such product")
			return
		}
		h.logger.Error("add to cart failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	if !h.saveCart(w, r, c) {
		return
	}
	h.respondCart(w, http.StatusCreated, c)
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, ok := h.loadCart(w, r)
	if !ok {
		return
	}

	h.engine.SetQuantity(c, productID, int(req.Quantity))

	if !h.saveCart(w, r, c) {
		return
	}
	h.respondCart(w, http.StatusOK, c)
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	c, ok := h.loadCart(w, r)
	if !ok {
		return
	}

	h.engine.Remove(c, productID)

	if !h.saveCart(w, r, c) {
		return
	}
	h.respondCart(w, http.StatusOK, c)
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCart(w, r)
	if !ok {
		return
	}

	h.engine.Clear(c)

	if !h.saveCart(w, r, c) {
		return
	}
	h.respondCart(w, http.StatusOK, c)
}

func (h *CartHandler) loadCart(w http.ResponseWriter, r *http.Request) (*domain.Cart, bool) {
	sessionID := sessionIDFromContext(r.Context())
	c, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to load cart", zap.String("session_id", sessionID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return nil, false
	}
	return c, true
}

func (h *CartHandler) saveCart(w http.ResponseWriter, r *http.Request, c *domain.Cart) bool {
	sessionID := sessionIDFromContext(r.Context())
	if err := h.sessions.Put(r.Context(), sessionID, c); err != nil {
		h.logger.Error("failed to save cart", zap.String("session_id", sessionID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return false
	}
	return true
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int, c *domain.Cart) {
	respondJSON(w, status, &CartResponse{
		Items:         h.engine.Resolve(c),
		Total:         c.Total,
		TotalQuantity: c.TotalQuantity,
	})
}
