package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shop-api/internal/models"
	"shop-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// AdminHandler serves the privileged product and tag CRUD. The role check is
// enforced by the router's RequireRole middleware.
type AdminHandler struct {
	adminService   *services.AdminService
	catalogService *services.CatalogService
	logger         zerolog.Logger
}

func NewAdminHandler(adminService *services.AdminService, catalogService *services.CatalogService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		catalogService: catalogService,
		logger:         logger,
	}
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	list, err := h.adminService.ListProducts(page, limit)
	if err != nil {
		respondServiceError(w, h.logger, err, "Admin product listing failed")
		return
	}

	respondWithData(w, http.StatusOK, "", list)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Title and a positive price are required")
		return
	}

	productID, err := h.adminService.CreateProduct(&req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Product creation failed")
		return
	}

	respondWithData(w, http.StatusCreated, "Product created successfully", map[string]interface{}{
		"product_id": productID,
	})
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Title and a positive price are required")
		return
	}

	if err := h.adminService.UpdateProduct(productID, &req); err != nil {
		respondServiceError(w, h.logger, err, "Product update failed")
		return
	}

	respondWithData(w, http.StatusOK, "Product updated successfully", nil)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.adminService.DeactivateProduct(productID); err != nil {
		respondServiceError(w, h.logger, err, "Product deletion failed")
		return
	}

	respondWithData(w, http.StatusOK, "Product deleted successfully", nil)
}

func (h *AdminHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalogService.ListTags()
	if err != nil {
		respondServiceError(w, h.logger, err, "Tag listing failed")
		return
	}

	respondWithData(w, http.StatusOK, "", map[string]interface{}{
		"tags": tags,
	})
}

func (h *AdminHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req models.TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Tag name is required")
		return
	}

	tagID, err := h.adminService.CreateTag(req.Name)
	if err != nil {
		respondServiceError(w, h.logger, err, "Tag creation failed")
		return
	}

	respondWithData(w, http.StatusCreated, "Tag created successfully", map[string]interface{}{
		"tag_id": tagID,
	})
}

func (h *AdminHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	if err := h.adminService.DeleteTag(tagID); err != nil {
		respondServiceError(w, h.logger, err, "Tag deletion failed")
		return
	}

	respondWithData(w, http.StatusOK, "Tag deleted successfully", nil)
}
