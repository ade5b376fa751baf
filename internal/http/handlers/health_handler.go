package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler предоставляет endpoint для проверки здоровья сервиса.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler создаёт новый health handler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse представляет ответ health check.
type HealthResponse struct {
	Status   string    `json:"status"`
	TimeUTC  time.Time `json:"time_utc"`
	Database string    `json:"database"`
}

// Health обрабатывает GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	database := "ok"
	if err := h.db.PingContext(ctx); err != nil {
		database = "failed"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, HealthResponse{
		Status:   "ok",
		TimeUTC:  time.Now().UTC(),
		Database: database,
	})
}
