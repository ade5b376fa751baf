package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/tgshop-backend/internal/logger"
	"github.com/ignatzorin/tgshop-backend/internal/models"
	"github.com/ignatzorin/tgshop-backend/internal/repository/common"
)

// SeedService наполняет пустой каталог демонстрационными данными.
// Доступен только в development окружении.
type SeedService struct {
	db         *sqlx.DB
	categories CategoryStore
}

// NewSeedService создаёт сервис генерации демо-каталога.
func NewSeedService(db *sqlx.DB, categories CategoryStore) *SeedService {
	return &SeedService{db: db, categories: categories}
}

type seedCategory struct {
	name     string
	slug     string
	children []seedCategory
}

type seedProduct struct {
	title    string
	slug     string
	price    string
	stock    int
	category string
	attrs    models.AttrMap
}

// Slug задаётся явно: имена демо-данных кириллические, а генератор
// slug не транслитерирует и свёл бы их все к одному fallback-значению.
var seedTree = []seedCategory{
	{name: "Одежда", slug: "clothes", children: []seedCategory{
		{name: "Футболки", slug: "t-shirts"},
		{name: "Куртки", slug: "jackets"},
	}},
	{name: "Обувь", slug: "shoes", children: []seedCategory{
		{name: "Кроссовки", slug: "sneakers"},
	}},
	{name: "Электроника", slug: "electronics"},
}

var seedProducts = []seedProduct{
	{"Белая футболка", "t-shirt-white", "990.00", 25, "t-shirts", models.AttrMap{"size": "M", "color": "white"}},
	{"Чёрная футболка", "t-shirt-black", "990.00", 30, "t-shirts", models.AttrMap{"size": "L", "color": "black"}},
	{"Зимняя куртка", "winter-jacket", "7490.00", 8, "jackets", models.AttrMap{"season": "winter"}},
	{"Беговые кроссовки", "running-sneakers", "4590.00", 12, "sneakers", models.AttrMap{"size": "42"}},
	{"Беспроводные наушники", "wireless-earbuds", "2990.00", 40, "electronics", nil},
	{"Павербанк 20000 мАч", "powerbank-20000", "1890.00", 15, "electronics", nil},
}

// Seed создаёт демо-категории и товары. Непустой каталог не трогаем,
// чтобы повторный вызов не плодил дубликаты.
func (s *SeedService) Seed(ctx context.Context) (int, error) {
	existing, err := s.categories.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed service: list categories %w", err)
	}
	if len(existing) > 0 {
		logger.WithComponent("seed").Info("каталог не пуст, демо-данные пропущены")
		return 0, nil
	}

	categoryIDs := map[string]int64{}
	for _, root := range seedTree {
		cat := &models.Category{Name: root.name, Slug: root.slug}
		if err := s.categories.Create(ctx, cat); err != nil {
			return 0, fmt.Errorf("seed service: create category %w", err)
		}
		categoryIDs[root.slug] = cat.ID
		for _, child := range root.children {
			sub := &models.Category{Name: child.name, Slug: child.slug, ParentID: &cat.ID}
			if err := s.categories.Create(ctx, sub); err != nil {
				return 0, fmt.Errorf("seed service: create subcategory %w", err)
			}
			categoryIDs[child.slug] = sub.ID
		}
	}

	// Товары заливаются одним батчем в одной транзакции.
	err = common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		inserter := common.NewBatchInserter(tx, `
			INSERT INTO products (title, slug, description, price, currency,
			                      stock, is_active, images, attributes, category_id)
		`, 10, 100)

		for _, item := range seedProducts {
			price, err := decimal.NewFromString(item.price)
			if err != nil {
				return fmt.Errorf("seed service: parse price %w", err)
			}
			description := "Демонстрационный товар каталога."
			if err := inserter.Add(ctx,
				item.title, item.slug, description, price, "RUB",
				item.stock, true, nil, item.attrs, categoryIDs[item.category],
			); err != nil {
				return err
			}
		}
		return inserter.Flush(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("seed service: insert products %w", err)
	}

	logger.WithComponent("seed").WithField("products", len(seedProducts)).Info("демо-каталог создан")
	return len(seedProducts), nil
}
