package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/tgshop-backend/internal/models"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/tgshop-backend/internal/service"
)

func setupCategoryRouter(categories *mockCategoryStore, products *mockProductStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	catalog := service.NewCatalogService(categories, products)
	handler := NewCategoryHandler(catalog)

	router := gin.New()
	router.GET("/api/categories", handler.List)
	router.POST("/api/categories", handler.Create)
	router.PATCH("/api/categories/:id", handler.Update)
	router.DELETE("/api/categories/:id", handler.Delete)
	return router
}

func TestCategoryList(t *testing.T) {
	categories := new(mockCategoryStore)
	router := setupCategoryRouter(categories, new(mockProductStore))

	categories.On("List", mock.Anything).Return([]models.Category{
		{ID: 1, Name: "Обувь", Slug: "obuv"},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"obuv"`)
}

func TestCategoryCreate_FromForm(t *testing.T) {
	categories := new(mockCategoryStore)
	router := setupCategoryRouter(categories, new(mockProductStore))

	categories.On("Create", mock.Anything, mock.AnythingOfType("*models.Category")).Return(nil)

	form := url.Values{}
	form.Set("name", "New Arrivals")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"new-arrivals"`)
}

func TestCategoryCreate_MissingName(t *testing.T) {
	categories := new(mockCategoryStore)
	router := setupCategoryRouter(categories, new(mockProductStore))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"slug": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryCreate_SlugConflict(t *testing.T) {
	categories := new(mockCategoryStore)
	router := setupCategoryRouter(categories, new(mockProductStore))

	conflict := apperror.New(apperror.ErrCodeConflict, "категория с таким slug уже существует")
	categories.On("Create", mock.Anything, mock.AnythingOfType("*models.Category")).Return(conflict)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name": "Shoes"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCategoryUpdate_SelfParent(t *testing.T) {
	categories := new(mockCategoryStore)
	router := setupCategoryRouter(categories, new(mockProductStore))

	categories.On("GetByID", mock.Anything, int64(5)).
		Return(&models.Category{ID: 5, Name: "Shoes", Slug: "shoes"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/categories/5", strings.NewReader(`{"parent_id": 5}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "родителем самой себя")
}

func TestCategoryDelete_BlockedByProducts(t *testing.T) {
	categories := new(mockCategoryStore)
	router := setupCategoryRouter(categories, new(mockProductStore))

	fkErr := apperror.New(apperror.ErrCodeValidation, "нарушена ссылка товара на категорию")
	categories.On("DeleteTree", mock.Anything, int64(9)).Return(int64(0), fkErr)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/categories/9", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "используется товарами")
}

func TestCategoryDelete_NoContent(t *testing.T) {
	categories := new(mockCategoryStore)
	router := setupCategoryRouter(categories, new(mockProductStore))

	categories.On("DeleteTree", mock.Anything, int64(9)).Return(int64(1), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/categories/9", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
