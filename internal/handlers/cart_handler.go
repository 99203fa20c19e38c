package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shop-api/internal/middleware"
	"shop-api/internal/models"
	"shop-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type CartHandler struct {
	cartService *services.CartService
	logger      zerolog.Logger
}

func NewCartHandler(cartService *services.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	cart, err := h.cartService.GetCart(userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Cart fetch failed")
		return
	}

	respondWithData(w, http.StatusOK, "", cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID or quantity")
		return
	}

	cartID, quantity, err := h.cartService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(w, h.logger, err, "Add to cart failed")
		return
	}

	respondWithData(w, http.StatusCreated, "Product added to cart successfully", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": req.ProductID,
		"quantity":   quantity,
	})
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	productID, err := strconv.Atoi(mux.Vars(r)["productId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req models.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quantity")
		return
	}

	if err := h.cartService.UpdateItem(userID, productID, req.Quantity); err != nil {
		respondServiceError(w, h.logger, err, "Cart item update failed")
		return
	}

	respondWithData(w, http.StatusOK, "Cart item updated successfully", map[string]interface{}{
		"product_id": productID,
		"quantity":   req.Quantity,
	})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	productID, err := strconv.Atoi(mux.Vars(r)["productId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.cartService.RemoveItem(userID, productID); err != nil {
		respondServiceError(w, h.logger, err, "Cart item removal failed")
		return
	}

	respondWithData(w, http.StatusOK, "Cart item removed successfully", map[string]interface{}{
		"product_id": productID,
	})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.cartService.Clear(userID); err != nil {
		respondServiceError(w, h.logger, err, "Cart clear failed")
		return
	}

	respondWithData(w, http.StatusOK, "Cart cleared successfully", nil)
}
