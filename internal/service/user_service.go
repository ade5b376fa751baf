package service

import (
	"context"
	"fmt"

	"github.com/ignatzorin/tgshop-backend/internal/config"
	"github.com/ignatzorin/tgshop-backend/internal/models"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
)

// UserStore — операции хранилища над пользователями.
type UserStore interface {
	Ensure(ctx context.Context, tgID int64, isAdmin bool) (*models.User, error)
	GetByTgID(ctx context.Context, tgID int64) (*models.User, error)
}

// UserService регистрирует пользователей при первом входе в WebApp.
type UserService struct {
	users      UserStore
	moderators config.AllowList
}

// NewUserService создаёт сервис пользователей. Список модераторов
// читается один раз на старте и не меняется во время работы процесса.
func NewUserService(users UserStore, moderators config.AllowList) *UserService {
	return &UserService{users: users, moderators: moderators}
}

// Ensure возвращает пользователя по tg_id, создавая запись при первом
// обращении. Флаг is_admin выставляется по списку модераторов.
func (s *UserService) Ensure(ctx context.Context, tgID int64) (*models.User, error) {
	if tgID <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "tg_id должен быть положительным числом")
	}
	user, err := s.users.Ensure(ctx, tgID, s.moderators.Contains(tgID))
	if err != nil {
		return nil, fmt.Errorf("user service: ensure %w", err)
	}
	return user, nil
}

// Me возвращает текущего пользователя по tg_id. Фронтенд так узнаёт,
// показывать ли админские элементы интерфейса.
func (s *UserService) Me(ctx context.Context, tgID int64) (*models.User, error) {
	if tgID <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "tg_id должен быть положительным числом")
	}
	return s.users.GetByTgID(ctx, tgID)
}
