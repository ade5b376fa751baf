package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tgshop-backend/internal/normalize"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/tgshop-backend/internal/service"
)

// ProductHandler обслуживает CRUD и выборку товаров.
type ProductHandler struct {
	catalog *service.CatalogService
}

// NewProductHandler создаёт handler товаров.
func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// parseListParams разбирает query-параметры выборки. Значения вне
// диапазона не подрезаются: их отклонит сервис.
func parseListParams(c *gin.Context) (service.ProductListParams, error) {
	params := service.ProductListParams{
		Search: strings.TrimSpace(c.Query("q")),
		Limit:  service.DefaultListLimit,
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return params, apperror.New(apperror.ErrCodeValidation, "category_id должен быть числом")
		}
		params.CategoryID = &id
	}

	if raw := c.Query("min_price"); raw != "" {
		price, err := normalize.ParseMoney(raw)
		if err != nil {
			return params, apperror.New(apperror.ErrCodeValidation, "min_price должен быть числом")
		}
		params.MinPrice = &price
	}
	if raw := c.Query("max_price"); raw != "" {
		price, err := normalize.ParseMoney(raw)
		if err != nil {
			return params, apperror.New(apperror.ErrCodeValidation, "max_price должен быть числом")
		}
		params.MaxPrice = &price
	}

	// По умолчанию показываются только активные товары; is_active=all
	// выключает фильтр явно.
	switch raw := strings.ToLower(strings.TrimSpace(c.Query("is_active"))); raw {
	case "all":
	case "":
		active := true
		params.IsActive = &active
	default:
		active := normalize.ToBool(raw)
		params.IsActive = &active
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, apperror.New(apperror.ErrCodeValidation, "limit должен быть числом")
		}
		params.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return params, apperror.New(apperror.ErrCodeValidation, "offset должен быть числом")
		}
		params.Offset = offset
	}

	return params, nil
}

// Get GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	fields, err := normalize.ParseRequest(c.Request, service.ProductFields)
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update PATCH /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fields, err := normalize.ParseRequest(c.Request, service.ProductFields)
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
