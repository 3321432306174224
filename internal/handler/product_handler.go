package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/noah-ing/pricehawk/internal/database"
	"github.com/noah-ing/pricehawk/internal/model"
	"github.com/noah-ing/pricehawk/internal/service"
)

// ProductHandler handles tracked product CRUD operations
type ProductHandler struct {
	service *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// CreateResponse represents the create response
type CreateResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
	Message   string `json:"message"`
}

// ListResponse represents the list response
type ListResponse struct {
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Results []model.Product `json:"results"`
}

// DeleteResponse represents the delete response
type DeleteResponse struct {
	Message string `json:"message"`
}

// HistoryResponse represents the price history response
type HistoryResponse struct {
	ProductID string             `json:"product_id"`
	Points    []model.PricePoint `json:"points"`
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.Create(r.Context(), &product); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var createdAt string
	if !product.Metadata.CreatedAt.IsZero() {
		createdAt = product.Metadata.CreatedAt.Format(time.RFC3339)
	}

	writeJSON(w, http.StatusCreated, CreateResponse{
		ID:        product.ID.Hex(),
		Title:     product.Title,
		URL:       product.URL,
		Source:    product.Source,
		CreatedAt: createdAt,
		Message:   "Product created successfully",
	})
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/products/")
	id = strings.Split(id, "/")[0]

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, statusForLookup(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	source := r.URL.Query().Get("source")
	tagsStr := r.URL.Query().Get("tags")
	var tags []string
	if tagsStr != "" {
		tags = strings.Split(tagsStr, ",")
	}
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 20)

	if limit > 100 {
		limit = 100
	}

	products, total, err := h.service.List(r.Context(), userID, source, tags, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Results: products,
	})
}

// Update handles PUT /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/products/")

	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.Update(r.Context(), id, &product); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/v1/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/products/")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, statusForLookup(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{
		Message: "Product deleted successfully",
	})
}

// History handles GET /api/v1/products/{id}/history
func (h *ProductHandler) History(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/products/")
	id := strings.TrimSuffix(path, "/history")

	limit := parseQueryInt(r, "limit", 100)

	points, err := h.service.GetPriceHistory(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		ProductID: id,
		Points:    points,
	})
}

// statusForLookup maps lookup errors to HTTP status codes
func statusForLookup(err error) int {
	if errors.Is(err, database.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
