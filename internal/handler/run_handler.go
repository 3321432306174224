package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/noah-ing/pricehawk/internal/database"
	"github.com/noah-ing/pricehawk/internal/model"
	"github.com/noah-ing/pricehawk/internal/service"
)

// RunHandler exposes the monitoring run history
type RunHandler struct {
	service *service.RunService
}

// NewRunHandler creates a new run handler
func NewRunHandler(service *service.RunService) *RunHandler {
	return &RunHandler{
		service: service,
	}
}

// RunListResponse represents the run list response
type RunListResponse struct {
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Results []model.RunRecord `json:"results"`
}

// List handles GET /api/v1/runs
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	trigger := r.URL.Query().Get("trigger")
	status := r.URL.Query().Get("status")
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 20)

	if limit > 100 {
		limit = 100
	}

	records, total, err := h.service.List(r.Context(), trigger, status, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, RunListResponse{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Results: records,
	})
}

// Get handles GET /api/v1/runs/{correlation_id}
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	correlationID := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	if correlationID == "" {
		writeError(w, http.StatusBadRequest, "Correlation ID is required")
		return
	}

	record, err := h.service.GetByCorrelationID(r.Context(), correlationID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, record)
}
