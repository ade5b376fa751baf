package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/tgshop-backend/internal/models"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/tgshop-backend/internal/repository/common"
)

// ProductFilter описывает условия выборки товаров. Каждое поле
// необязательно, условия соединяются конъюнктивно.
type ProductFilter struct {
	IsActive   *bool
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	Limit      int
	Offset     int
}

// ProductRepository отвечает за таблицу products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository создаёт экземпляр репозитория.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List возвращает товары по фильтру, новые первыми (id по убыванию).
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	query := `
		SELECT id, title, slug, description, price, currency, stock,
		       is_active, images, attributes, category_id, created_at, updated_at
		FROM products
		WHERE 1=1
	`
	args := []interface{}{}
	argIndex := 1

	if f.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", argIndex)
		args = append(args, *f.IsActive)
		argIndex++
	}
	if f.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIndex)
		args = append(args, *f.CategoryID)
		argIndex++
	}
	if f.MinPrice != nil {
		query += fmt.Sprintf(" AND price >= $%d", argIndex)
		args = append(args, *f.MinPrice)
		argIndex++
	}
	if f.MaxPrice != nil {
		query += fmt.Sprintf(" AND price <= $%d", argIndex)
		args = append(args, *f.MaxPrice)
		argIndex++
	}

	// Поиск по названию или описанию
	if f.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+f.Search+"%")
		argIndex++
	}

	query += " ORDER BY id DESC"
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, f.Limit)
	argIndex++
	query += fmt.Sprintf(" OFFSET $%d", argIndex)
	args = append(args, f.Offset)

	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("product repository: list %w", err)
	}
	return products, nil
}

// GetByID возвращает товар по идентификатору.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	return common.GetByID[models.Product](ctx, r.db, "products", id, apperror.ErrProductNotFound)
}

// Create вставляет товар и заполняет присвоенные БД поля.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (title, slug, description, price, currency,
		                      stock, is_active, images, attributes, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		p.Title, p.Slug, p.Description, p.Price, p.Currency,
		p.Stock, p.IsActive, p.Images, p.Attributes, p.CategoryID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return classifyConstraint(err)
	}
	return nil
}

// Update перезаписывает изменяемые поля товара целиком: частичность
// обновления обеспечивает сервисный слой, накладывая присланные поля
// на свежепрочитанную запись.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET title = $2, slug = $3, description = $4, price = $5,
		    currency = $6, stock = $7, is_active = $8, images = $9,
		    attributes = $10, category_id = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.Price,
		p.Currency, p.Stock, p.IsActive, p.Images,
		p.Attributes, p.CategoryID,
	).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrProductNotFound
		}
		return classifyConstraint(err)
	}
	return nil
}

// Delete удаляет товар. Удаление отсутствующей записи не ошибка.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("product repository: delete %w", err)
	}
	return nil
}
