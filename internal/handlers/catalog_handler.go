package handlers

import (
	"net/http"

	"pir-integrity/internal/catalog"
)

// CatalogHandler handles question catalog requests
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// GetCategories lists the integrity dimensions
// @Summary Get categories
// @Description List all integrity dimensions in display order
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /catalog/categories [get]
func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, h.catalog.Categories())
}

// GetQuestions lists the full question catalog
// @Summary Get questions
// @Description List all catalog questions in display order
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Question
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /catalog/questions [get]
func (h *CatalogHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, h.catalog.Questions())
}

// RefreshCatalog re-reads the catalog after content changes
// @Summary Refresh catalog
// @Description Reload categories and questions from the database (admin only)
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 204 "Refreshed"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 500 {object} map[string]string "Reload failed"
// @Router /admin/catalog/refresh [post]
func (h *CatalogHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Refresh(); err != nil {
		http.Error(w, "Failed to reload catalog", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
