package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tgshop-backend/internal/normalize"
	"github.com/ignatzorin/tgshop-backend/internal/service"
)

// CategoryHandler обслуживает CRUD дерева категорий.
type CategoryHandler struct {
	catalog *service.CatalogService
}

// NewCategoryHandler создаёт handler категорий.
func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// List GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Create POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	fields, err := normalize.ParseRequest(c.Request, service.CategoryFields)
	if err != nil {
		respondError(c, err)
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Update PATCH /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fields, err := normalize.ParseRequest(c.Request, service.CategoryFields)
	if err != nil {
		respondError(c, err)
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Delete DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
