package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tgshop-backend/internal/config"
)

// SystemHandler отдаёт служебную информацию о сервисе.
type SystemHandler struct {
	cfg *config.Config
}

// NewSystemHandler создаёт системный handler.
func NewSystemHandler(cfg *config.Config) *SystemHandler {
	return &SystemHandler{cfg: cfg}
}

// Root GET / — живость процесса.
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "msg": "TG Shop Backend is running"})
}

// ConfigResponse представляет публичную конфигурацию для фронтенда.
type ConfigResponse struct {
	WebAppURL      string    `json:"webapp_url,omitempty"`
	AllowedOrigins []string  `json:"allowed_origins"`
	BackendVersion string    `json:"backend_version"`
	NowUTC         time.Time `json:"now_utc"`
}

// Config GET /api/config.
func (h *SystemHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigResponse{
		WebAppURL:      h.cfg.WebAppURL,
		AllowedOrigins: h.cfg.AllowedOrigins,
		BackendVersion: config.Version,
		NowUTC:         time.Now().UTC(),
	})
}
