package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"shop-api/internal/models"
	"shop-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         zerolog.Logger
}

func NewCatalogHandler(catalogService *services.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	opts := models.ProductListOptions{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 10),
		Search: r.URL.Query().Get("search"),
	}
	if tags := r.URL.Query().Get("tags"); tags != "" {
		opts.Tags = strings.Split(tags, ",")
	}

	list, err := h.catalogService.ListProducts(opts)
	if err != nil {
		respondServiceError(w, h.logger, err, "Product listing failed")
		return
	}

	respondWithData(w, http.StatusOK, "", list)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(productID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Product lookup failed")
		return
	}

	respondWithData(w, http.StatusOK, "", map[string]interface{}{
		"product": product,
	})
}

func (h *CatalogHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 8)

	products, err := h.catalogService.ListFeatured(limit)
	if err != nil {
		respondServiceError(w, h.logger, err, "Featured listing failed")
		return
	}

	respondWithData(w, http.StatusOK, "", map[string]interface{}{
		"products": products,
	})
}

func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalogService.ListTags()
	if err != nil {
		respondServiceError(w, h.logger, err, "Tag listing failed")
		return
	}

	respondWithData(w, http.StatusOK, "", map[string]interface{}{
		"tags": tags,
	})
}
