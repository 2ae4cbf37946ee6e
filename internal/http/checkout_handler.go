package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hankjoberg-netizen/voltstore/internal/checkout"
	"github.com/hankjoberg-netizen/voltstore/internal/session"
)

type CheckoutHandler struct {
	coordinator *checkout.Coordinator
	sessions    session.Store
	logger      *zap.Logger
}

func NewCheckoutHandler(coordinator *checkout.Coordinator, sessions session.Store, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		coordinator: coordinator,
		sessions:    sessions,
		logger:      logger,
	}
}

type CheckoutResponseDTO struct {
	OrderID     string `json:"order_id"`
	CheckoutURL string `json:"checkout_url"`
}

type ConfirmationResponseDTO struct {
	Status string           `json:"status"`
	Order  *OrderSummaryDTO `json:"order,omitempty"`
}

type OrderSummaryDTO struct {
	ID              string `json:"id"`
	Email           string `json:"email,omitempty"`
	ShippingName    string `json:"shipping_name"`
	ShippingAddress string `json:"shipping_address,omitempty"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())
	c, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to load cart", zap.String("session_id", sessionID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	redirect, err := h.coordinator.Initiate(r.Context(), sessionID, c)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusConflict, "empty_cart", "your cart is empty")
		case errors.Is(err, checkout.ErrPaymentNotConfigured):
			respondError(w, http.StatusServiceUnavailable, "payment_not_configured",
				"checkout is not available: no payment provider is configured")
		default:
			// Real cause stays in the log; the client gets a generic line.
			h.logger.Error("checkout initiation failed", zap.String("session_id", sessionID), zap.Error(err))
			respondError(w, http.StatusBadGateway, "checkout_error", "checkout error, please try again")
		}
		return
	}

	respondJSON(w, http.StatusCreated, &CheckoutResponseDTO{
		OrderID:     redirect.OrderID,
		CheckoutURL: redirect.URL,
	})
}

// GET /checkout/success?session_id=
//
// Never an error page: a failed provider lookup degrades to a confirmation
// without order details.
func (h *CheckoutHandler) Success(w http.ResponseWriter, r *http.Request) {
	externalSessionID := r.URL.Query().Get("session_id")
	sessionID := sessionIDFromContext(r.Context())

	confirmation := h.coordinator.Confirm(r.Context(), externalSessionID, sessionID)

	resp := &ConfirmationResponseDTO{Status: "complete"}
	if confirmation.Confirmed {
		resp.Order = &OrderSummaryDTO{
			ID:              confirmation.OrderID,
			Email:           confirmation.Email,
			ShippingName:    confirmation.ShippingName,
			ShippingAddress: confirmation.ShippingAddress,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /checkout/cancel
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "cancelled",
		"message": "checkout cancelled, your cart is untouched",
	})
}
