package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Заголовок, в котором отдаётся идентификатор запроса.
const RequestIDHeader = "X-Request-Id"

// RequestID присваивает каждому запросу идентификатор для сквозной
// трассировки в логах. Уже присланный клиентом идентификатор
// сохраняется.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
