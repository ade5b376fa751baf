package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tgshop-backend/internal/config"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
)

// Context ключи для gin.Context.
const ContextTgIDKey = "tgID"

// TelegramID достаёт Telegram ID вызывающего из заголовка X-Telegram-Id
// или query-параметра tg_id (для ручных тестов из браузера).
// Подлинность идентификатора здесь не проверяется: это граница доверия
// вызывающего окружения, а не криптографическая аутентификация.
func TelegramID(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.GetHeader("X-Telegram-Id"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("tg_id"))
	}
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// AdminRequired пропускает только вызовы с Telegram ID из списка
// модераторов: без идентификатора 401, не в списке 403.
func AdminRequired(moderators config.AllowList) gin.HandlerFunc {
	return func(c *gin.Context) {
		tgID, ok := TelegramID(c)
		if !ok {
			appErr := apperror.ErrUnauthorized
			c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
			return
		}
		if !moderators.Contains(tgID) {
			appErr := apperror.ErrForbidden
			c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
			return
		}

		c.Set(ContextTgIDKey, tgID)
		c.Next()
	}
}
