package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tgshop-backend/internal/http/middleware"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/tgshop-backend/internal/service"
)

// UserHandler регистрирует пользователей WebApp.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler создаёт handler пользователей.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type ensureUserRequest struct {
	TgID int64 `json:"tg_id"`
}

// Ensure POST /api/users/ensure — регистрация по tg_id при первом
// входе в WebApp.
func (h *UserHandler) Ensure(c *gin.Context) {
	var req ensureUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Wrap(err, apperror.ErrCodeValidation, "тело запроса должно содержать tg_id"))
		return
	}

	user, err := h.users.Ensure(c.Request.Context(), req.TgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me GET /api/users/me — текущий пользователь по X-Telegram-Id.
func (h *UserHandler) Me(c *gin.Context) {
	tgID, ok := middleware.TelegramID(c)
	if !ok {
		respondError(c, apperror.ErrUnauthorized)
		return
	}

	user, err := h.users.Me(c.Request.Context(), tgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
