package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/tgshop-backend/internal/models"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/tgshop-backend/internal/repository"
	"github.com/ignatzorin/tgshop-backend/internal/service"
)

type mockCategoryStore struct {
	mock.Mock
}

func (m *mockCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCategoryStore) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCategoryStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockCategoryStore) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	if args.Error(0) == nil {
		category.ID = 1
	}
	return args.Error(0)
}

func (m *mockCategoryStore) Update(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryStore) DeleteTree(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockProductStore struct {
	mock.Mock
}

func (m *mockProductStore) List(ctx context.Context, f repository.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockProductStore) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductStore) Create(ctx context.Context, p *models.Product) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = 1
	}
	return args.Error(0)
}

func (m *mockProductStore) Update(ctx context.Context, p *models.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func setupProductRouter(categories *mockCategoryStore, products *mockProductStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	catalog := service.NewCatalogService(categories, products)
	handler := NewProductHandler(catalog)

	router := gin.New()
	router.GET("/api/products", handler.List)
	router.GET("/api/products/:id", handler.Get)
	router.POST("/api/products", handler.Create)
	router.PATCH("/api/products/:id", handler.Update)
	router.DELETE("/api/products/:id", handler.Delete)
	return router
}

func TestProductList_DefaultsToActiveOnly(t *testing.T) {
	categories := new(mockCategoryStore)
	products := new(mockProductStore)
	router := setupProductRouter(categories, products)

	products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.IsActive != nil && *f.IsActive && f.Limit == 50 && f.Offset == 0
	})).Return([]models.Product{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	products.AssertExpectations(t)
}

func TestProductList_AllDisablesActiveFilter(t *testing.T) {
	categories := new(mockCategoryStore)
	products := new(mockProductStore)
	router := setupProductRouter(categories, products)

	products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.IsActive == nil
	})).Return([]models.Product{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products?is_active=all", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	products.AssertExpectations(t)
}

func TestProductList_FiltersParsed(t *testing.T) {
	categories := new(mockCategoryStore)
	products := new(mockProductStore)
	router := setupProductRouter(categories, products)

	products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Search == "кроссовки" &&
			f.CategoryID != nil && *f.CategoryID == 3 &&
			f.MinPrice != nil && f.MinPrice.Equal(decimal.RequireFromString("10.5")) &&
			f.MaxPrice != nil && f.MaxPrice.Equal(decimal.NewFromInt(100)) &&
			f.Limit == 20 && f.Offset == 40
	})).Return([]models.Product{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/products?q=кроссовки&category_id=3&min_price=10,5&max_price=100&limit=20&offset=40", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	products.AssertExpectations(t)
}

func TestProductList_BadPagination(t *testing.T) {
	categories := new(mockCategoryStore)
	products := new(mockProductStore)
	router := setupProductRouter(categories, products)

	for _, query := range []string{
		"limit=0", "limit=201", "limit=abc", "offset=-1", "offset=xyz",
		"category_id=мусор", "min_price=дорого",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products?"+query, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
	products.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestProductGet_NotFound(t *testing.T) {
	categories := new(mockCategoryStore)
	products := new(mockProductStore)
	router := setupProductRouter(categories, products)

	products.On("GetByID", mock.Anything, int64(99)).Return(nil, apperror.ErrProductNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "товар не найден")
}

func TestProductGet_BadID(t *testing.T) {
	router := setupProductRouter(new(mockCategoryStore), new(mockProductStore))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductCreate_JSON(t *testing.T) {
	categories := new(mockCategoryStore)
	products := new(mockProductStore)
	router := setupProductRouter(categories, products)

	categories.On("Exists", mock.Anything, int64(2)).Return(true, nil)
	products.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil)

	body := `{"title": "Кроссовки Runner", "price": "19,90", "category_id": 2}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"runner"`)
	assert.Contains(t, w.Body.String(), `"currency":"RUB"`)
	assert.Contains(t, w.Body.String(), `"is_active":true`)
}

func TestProductCreate_UnsupportedMedia(t *testing.T) {
	categories := new(mockCategoryStore)
	products := new(mockProductStore)
	router := setupProductRouter(categories, products)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("<xml/>"))
	req.Header.Set("Content-Type", "text/xml")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUpdate_Partial(t *testing.T) {
	categories := new(mockCategoryStore)
	products := new(mockProductStore)
	router := setupProductRouter(categories, products)

	existing := &models.Product{
		ID: 7, Title: "Old", Slug: "old", Price: decimal.NewFromInt(100),
		Currency: "RUB", Stock: 5, IsActive: true, CategoryID: 2,
	}
	products.On("GetByID", mock.Anything, int64(7)).Return(existing, nil)
	products.On("Update", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/products/7", strings.NewReader(`{"price": "250"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Old"`)
	assert.Contains(t, w.Body.String(), `"price":"250"`)
}

func TestProductDelete_NoContent(t *testing.T) {
	categories := new(mockCategoryStore)
	products := new(mockProductStore)
	router := setupProductRouter(categories, products)

	products.On("Delete", mock.Anything, int64(7)).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/products/7", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
