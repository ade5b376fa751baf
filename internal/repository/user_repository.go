package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/tgshop-backend/internal/models"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
)

// UserRepository отвечает за таблицу users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByTgID возвращает пользователя по идентификатору Telegram.
func (r *UserRepository) GetByTgID(ctx context.Context, tgID int64) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, tg_id, is_active, is_admin, created_at, updated_at
		FROM users
		WHERE tg_id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, tgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by tg_id %w", err)
	}
	return &user, nil
}

// Ensure создаёт пользователя по tg_id, если его ещё нет, и возвращает
// актуальную запись. Гонка двух одновременных регистраций разрешается
// на уникальном индексе по tg_id одним запросом.
func (r *UserRepository) Ensure(ctx context.Context, tgID int64, isAdmin bool) (*models.User, error) {
	var user models.User
	query := `
		INSERT INTO users (tg_id, is_admin)
		VALUES ($1, $2)
		ON CONFLICT (tg_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, tg_id, is_active, is_admin, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query, tgID, isAdmin).StructScan(&user); err != nil {
		return nil, fmt.Errorf("user repository: ensure %w", err)
	}
	return &user, nil
}
