package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/tgshop-backend/internal/models"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/tgshop-backend/internal/repository/common"
)

// CategoryRepository отвечает за таблицу categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository создаёт экземпляр репозитория.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List возвращает все категории в порядке создания.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	query := `
		SELECT id, name, slug, parent_id, created_at, updated_at
		FROM categories
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("category repository: list %w", err)
	}
	return categories, nil
}

// GetByID возвращает категорию по идентификатору.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return common.GetByID[models.Category](ctx, r.db, "categories", id, apperror.ErrCategoryNotFound)
}

// Exists проверяет наличие категории. Совещательная проверка,
// авторитетны ограничения БД при коммите.
func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return common.Exists(ctx, r.db, "categories", id)
}

// Create вставляет категорию и заполняет присвоенные БД поля.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		category.Name, category.Slug, category.ParentID,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt); err != nil {
		return classifyConstraint(err)
	}
	return nil
}

// Update перезаписывает изменяемые поля категории.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, parent_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		category.ID, category.Name, category.Slug, category.ParentID,
	).Scan(&category.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrCategoryNotFound
		}
		return classifyConstraint(err)
	}
	return nil
}

// DeleteTree удаляет категорию вместе со всеми потомками одним
// атомарным запросом. Поддерево собирается рекурсивно по parent_id.
// Товары, ссылающиеся на удаляемые категории, блокируют удаление
// через внешний ключ (политика restrict).
func (r *CategoryRepository) DeleteTree(ctx context.Context, id int64) (int64, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM categories WHERE id = $1
			UNION ALL
			SELECT c.id FROM categories c
			JOIN subtree s ON c.parent_id = s.id
		)
		DELETE FROM categories
		WHERE id IN (SELECT id FROM subtree)
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, classifyConstraint(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("category repository: delete tree %w", err)
	}
	return affected, nil
}
