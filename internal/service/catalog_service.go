package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/tgshop-backend/internal/models"
	"github.com/ignatzorin/tgshop-backend/internal/normalize"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/tgshop-backend/internal/repository"
	"github.com/ignatzorin/tgshop-backend/internal/slug"
)

// Белые списки полей, принимаемых из тела запроса. Всё, чего нет в
// списке, отбрасывается на границе ещё до валидации.
var (
	CategoryFields = []string{"name", "slug", "parent_id"}
	ProductFields = []string{
		"title", "slug", "description", "price", "currency",
		"stock", "is_active", "images", "attributes", "category_id",
	}
)

// Пределы выборки и длины полей.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
	maxNameLength    = 200
	maxTitleLength   = 255
	defaultCurrency  = "RUB"
)

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// CategoryStore — операции хранилища над деревом категорий.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	DeleteTree(ctx context.Context, id int64) (int64, error)
}

// ProductStore — операции хранилища над товарами.
type ProductStore interface {
	List(ctx context.Context, f repository.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int64) error
}

// CatalogService проводит одну логическую операцию каталога от
// нормализованной карты полей до записи в хранилище: валидация,
// дефолты, совещательные проверки ссылок, мутация. Ошибки ограничений
// БД приходят уже классифицированными из репозитория.
type CatalogService struct {
	categories CategoryStore
	products   ProductStore
}

// NewCatalogService создаёт сервис каталога.
func NewCatalogService(categories CategoryStore, products ProductStore) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

// ListCategories возвращает все категории.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// CreateCategory создаёт категорию. Пустой slug выводится из имени.
func (s *CatalogService) CreateCategory(ctx context.Context, fields map[string]interface{}) (*models.Category, error) {
	name := strings.TrimSpace(normalize.AsString(fields["name"]))
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "name обязателен")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, apperror.Validationf("name должен быть не длиннее %d символов", maxNameLength)
	}

	slugVal := strings.TrimSpace(normalize.AsString(fields["slug"]))
	if slugVal == "" {
		slugVal = slug.Make(name)
	}
	if utf8.RuneCountInString(slugVal) > maxNameLength {
		return nil, apperror.Validationf("slug должен быть не длиннее %d символов", maxNameLength)
	}

	parentID, _, err := optionalID(fields, "parent_id")
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		ok, err := s.categories.Exists(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("catalog service: check parent %w", err)
		}
		if !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "родительская категория не найдена")
		}
	}

	category := &models.Category{Name: name, Slug: slugVal, ParentID: parentID}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory применяет к категории только присланные поля.
// Пустой slug означает "пересоздать из имени", а не пустое значение.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, fields map[string]interface{}) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v, ok := fields["name"]; ok {
		name := strings.TrimSpace(normalize.AsString(v))
		if name == "" {
			return nil, apperror.New(apperror.ErrCodeValidation, "name не может быть пустым")
		}
		if utf8.RuneCountInString(name) > maxNameLength {
			return nil, apperror.Validationf("name должен быть не длиннее %d символов", maxNameLength)
		}
		category.Name = name
	}

	if v, ok := fields["slug"]; ok {
		slugVal := strings.TrimSpace(normalize.AsString(v))
		if slugVal == "" {
			slugVal = slug.Make(category.Name)
		}
		category.Slug = slugVal
	}

	if _, ok := fields["parent_id"]; ok {
		parentID, _, err := optionalID(fields, "parent_id")
		if err != nil {
			return nil, err
		}
		if parentID != nil {
			if *parentID == id {
				return nil, apperror.New(apperror.ErrCodeValidation, "категория не может быть родителем самой себя")
			}
			if err := s.ensureNoCycle(ctx, id, *parentID); err != nil {
				return nil, err
			}
		}
		category.ParentID = parentID
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ensureNoCycle поднимается по цепочке предков нового родителя и
// отклоняет назначение, если среди них встретится сама категория.
// Проверка одного уровня недостаточна: A→B→A тоже цикл.
func (s *CatalogService) ensureNoCycle(ctx context.Context, id int64, parentID int64) error {
	seen := map[int64]struct{}{}
	current := parentID
	for {
		if current == id {
			return apperror.New(apperror.ErrCodeValidation, "назначение родителя создаёт цикл в дереве категорий")
		}
		if _, ok := seen[current]; ok {
			return nil
		}
		seen[current] = struct{}{}

		parent, err := s.categories.GetByID(ctx, current)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.New(apperror.ErrCodeValidation, "родительская категория не найдена")
			}
			return fmt.Errorf("catalog service: walk ancestors %w", err)
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
}

// DeleteCategory удаляет категорию вместе с поддеревом потомков.
// Политика для товаров — restrict: пока на категорию или её потомков
// ссылается хоть один товар, удаление отклоняется. Удаление
// отсутствующей категории не ошибка.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.DeleteTree(ctx, id); err != nil {
		if apperror.IsValidation(err) {
			return apperror.New(apperror.ErrCodeValidation, "категория используется товарами и не может быть удалена")
		}
		return err
	}
	return nil
}

// ProductListParams — параметры выборки товаров после разбора query.
type ProductListParams struct {
	Search     string
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	IsActive   *bool
	Limit      int
	Offset     int
}

// ListProducts возвращает страницу товаров. Пагинация вне диапазона
// отклоняется, а не подрезается: лимит 1..200, смещение от нуля.
func (s *CatalogService) ListProducts(ctx context.Context, p ProductListParams) ([]models.Product, error) {
	if p.Limit < 1 || p.Limit > MaxListLimit {
		return nil, apperror.Validationf("limit должен быть в диапазоне [1, %d]", MaxListLimit)
	}
	if p.Offset < 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "offset не может быть отрицательным")
	}
	if p.MinPrice != nil && p.MinPrice.IsNegative() {
		return nil, apperror.New(apperror.ErrCodeValidation, "min_price не может быть отрицательным")
	}
	if p.MaxPrice != nil && p.MaxPrice.IsNegative() {
		return nil, apperror.New(apperror.ErrCodeValidation, "max_price не может быть отрицательным")
	}

	return s.products.List(ctx, repository.ProductFilter{
		IsActive:   p.IsActive,
		CategoryID: p.CategoryID,
		MinPrice:   p.MinPrice,
		MaxPrice:   p.MaxPrice,
		Search:     p.Search,
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
}

// GetProduct возвращает товар по идентификатору.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// CreateProduct создаёт товар из нормализованной карты полей.
func (s *CatalogService) CreateProduct(ctx context.Context, fields map[string]interface{}) (*models.Product, error) {
	title := strings.TrimSpace(normalize.AsString(fields["title"]))
	if title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "title обязателен")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, apperror.Validationf("title должен быть не длиннее %d символов", maxTitleLength)
	}

	categoryID, _, err := optionalID(fields, "category_id")
	if err != nil {
		return nil, err
	}
	if categoryID == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "category_id обязателен")
	}

	slugVal := strings.TrimSpace(normalize.AsString(fields["slug"]))
	if slugVal == "" {
		slugVal = slug.Make(title)
	}

	price, err := parsePrice(fields["price"])
	if err != nil {
		return nil, err
	}

	currency, err := parseCurrency(fields["currency"], defaultCurrency)
	if err != nil {
		return nil, err
	}

	stock, err := parseStock(fields["stock"], 0)
	if err != nil {
		return nil, err
	}

	// На создании товар активен, пока явно не выключен.
	isActive := true
	if v, ok := fields["is_active"]; ok {
		isActive = normalize.ToBool(v)
	}

	var description *string
	if d := strings.TrimSpace(normalize.AsString(fields["description"])); d != "" {
		description = &d
	}

	// Совещательная проверка: даёт внятную ошибку заранее, но гонку с
	// удалением категории ловит только внешний ключ при коммите.
	ok, err := s.categories.Exists(ctx, *categoryID)
	if err != nil {
		return nil, fmt.Errorf("catalog service: check category %w", err)
	}
	if !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "указанная категория не найдена")
	}

	product := &models.Product{
		Title:       title,
		Slug:        slugVal,
		Description: description,
		Price:       price,
		Currency:    currency,
		Stock:       stock,
		IsActive:    isActive,
		Images:      normalize.StringList(fields["images"]),
		Attributes:  normalize.AnyMap(fields["attributes"]),
		CategoryID:  *categoryID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct применяет к товару только присланные поля. Пропущенные
// поля сохраняют прежние значения, пустой slug пересоздаётся из title.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, fields map[string]interface{}) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v, ok := fields["title"]; ok {
		title := strings.TrimSpace(normalize.AsString(v))
		if title == "" {
			return nil, apperror.New(apperror.ErrCodeValidation, "title не может быть пустым")
		}
		if utf8.RuneCountInString(title) > maxTitleLength {
			return nil, apperror.Validationf("title должен быть не длиннее %d символов", maxTitleLength)
		}
		product.Title = title
	}

	if v, ok := fields["slug"]; ok {
		slugVal := strings.TrimSpace(normalize.AsString(v))
		if slugVal == "" {
			slugVal = slug.Make(product.Title)
		}
		product.Slug = slugVal
	}

	if v, ok := fields["description"]; ok {
		if d := strings.TrimSpace(normalize.AsString(v)); d != "" {
			product.Description = &d
		} else {
			product.Description = nil
		}
	}

	if v, ok := fields["price"]; ok {
		price, err := parsePrice(v)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}

	if v, ok := fields["currency"]; ok {
		currency, err := parseCurrency(v, product.Currency)
		if err != nil {
			return nil, err
		}
		product.Currency = currency
	}

	if v, ok := fields["stock"]; ok {
		stock, err := parseStock(v, 0)
		if err != nil {
			return nil, err
		}
		product.Stock = stock
	}

	if v, ok := fields["is_active"]; ok {
		product.IsActive = normalize.ToBool(v)
	}

	if v, ok := fields["images"]; ok {
		product.Images = normalize.StringList(v)
	}

	if v, ok := fields["attributes"]; ok {
		product.Attributes = normalize.AnyMap(v)
	}

	if _, ok := fields["category_id"]; ok {
		categoryID, _, err := optionalID(fields, "category_id")
		if err != nil {
			return nil, err
		}
		if categoryID == nil {
			return nil, apperror.New(apperror.ErrCodeValidation, "category_id должен быть числом")
		}
		ok, err := s.categories.Exists(ctx, *categoryID)
		if err != nil {
			return nil, fmt.Errorf("catalog service: check category %w", err)
		}
		if !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "указанная категория не найдена")
		}
		product.CategoryID = *categoryID
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct удаляет товар. Отсутствующий товар не ошибка.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

// optionalID достаёт необязательный числовой идентификатор из карты
// полей. Отсутствие и пустая строка дают nil, мусор — ошибку
// валидации: молча терять ссылку на категорию нельзя.
func optionalID(fields map[string]interface{}, key string) (*int64, bool, error) {
	v, present := fields[key]
	if !present || v == nil {
		return nil, present, nil
	}
	if strings.TrimSpace(normalize.AsString(v)) == "" {
		return nil, true, nil
	}
	n := normalize.ToInt(v)
	if n == nil {
		return nil, true, apperror.Validationf("%s должен быть числом", key)
	}
	return n, true, nil
}

func parsePrice(v interface{}) (decimal.Decimal, error) {
	price, err := normalize.ParseMoney(v)
	if err != nil {
		return decimal.Zero, apperror.New(apperror.ErrCodeValidation, "price должен быть числом")
	}
	if price.IsNegative() {
		return decimal.Zero, apperror.New(apperror.ErrCodeValidation, "price не может быть отрицательным")
	}
	return price, nil
}

func parseCurrency(v interface{}, fallback string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(normalize.AsString(v)))
	if currency == "" {
		currency = fallback
	}
	if !currencyRe.MatchString(currency) {
		return "", apperror.New(apperror.ErrCodeValidation, "currency должен состоять из 3 букв")
	}
	return currency, nil
}

func parseStock(v interface{}, fallback int) (int, error) {
	if v == nil || strings.TrimSpace(normalize.AsString(v)) == "" {
		return fallback, nil
	}
	n := normalize.ToInt(v)
	if n == nil {
		return 0, apperror.New(apperror.ErrCodeValidation, "stock должен быть целым числом")
	}
	if *n < 0 {
		return 0, apperror.New(apperror.ErrCodeValidation, "stock не может быть отрицательным")
	}
	return int(*n), nil
}
