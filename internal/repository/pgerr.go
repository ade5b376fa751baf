package repository

import (
	"errors"

	"github.com/lib/pq"

	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
)

// Коды ошибок PostgreSQL, которые мы различаем при фиксации транзакции.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classifyConstraint переводит ошибку ограничения БД в доменную.
// Совещательные проверки существования до мутации не атомарны с ней,
// поэтому источником истины остаются ограничения, срабатывающие при
// коммите; здесь их результат превращается в типизированную ошибку.
func classifyConstraint(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pgUniqueViolation:
		return apperror.Wrap(err, apperror.ErrCodeConflict, uniqueMessage(pqErr.Constraint))
	case pgForeignKeyViolation:
		return apperror.Wrap(err, apperror.ErrCodeValidation, referenceMessage(pqErr.Constraint))
	default:
		return err
	}
}

func uniqueMessage(constraint string) string {
	switch constraint {
	case "uq_categories_slug":
		return "категория с таким slug уже существует"
	case "uq_products_slug":
		return "товар с таким slug уже существует"
	case "uq_users_tg_id":
		return "пользователь с таким tg_id уже существует"
	default:
		return "запись с таким значением уже существует"
	}
}

func referenceMessage(constraint string) string {
	switch constraint {
	case "fk_products_category":
		return "нарушена ссылка товара на категорию"
	case "fk_categories_parent":
		return "нарушена ссылка на родительскую категорию"
	default:
		return "нарушена ссылочная целостность"
	}
}
