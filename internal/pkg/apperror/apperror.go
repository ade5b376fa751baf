package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// AppError — единая доменная ошибка сервиса. Код определяет HTTP статус,
// Cause сохраняет исходную ошибку для логов.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validationf создаёт ошибку валидации с форматированным сообщением.
func Validationf(format string, args ...interface{}) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf(format, args...))
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

var (
	ErrCategoryNotFound = New(ErrCodeNotFound, "категория не найдена")
	ErrProductNotFound  = New(ErrCodeNotFound, "товар не найден")
	ErrUserNotFound     = New(ErrCodeNotFound, "пользователь не найден")
	ErrUnauthorized     = New(ErrCodeUnauthorized, "не передан Telegram ID (X-Telegram-Id)")
	ErrForbidden        = New(ErrCodeForbidden, "недостаточно прав")
)
