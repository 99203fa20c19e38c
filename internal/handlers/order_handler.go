package handlers

import (
	"encoding/json"
	"net/http"

	"shop-api/internal/middleware"
	"shop-api/internal/models"
	"shop-api/internal/services"

	"github.com/rs/zerolog"
)

type OrderHandler struct {
	orderService *services.OrderService
	logger       zerolog.Logger
}

func NewOrderHandler(orderService *services.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Shipping address is required")
		return
	}

	order, err := h.orderService.Checkout(userID, req.ShippingAddress)
	if err != nil {
		respondServiceError(w, h.logger, err, "Checkout failed")
		return
	}

	respondWithData(w, http.StatusCreated, "Order placed successfully", map[string]interface{}{
		"order": order,
	})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	orders, err := h.orderService.ListOrders(userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Order listing failed")
		return
	}

	respondWithData(w, http.StatusOK, "", map[string]interface{}{
		"orders": orders,
	})
}
