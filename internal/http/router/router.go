package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tgshop-backend/internal/config"
	"github.com/ignatzorin/tgshop-backend/internal/http/handlers"
	"github.com/ignatzorin/tgshop-backend/internal/http/middleware"
)

// SetupRouter собирает все маршруты сервиса. Мутации каталога закрыты
// списком модераторов, чтение публично.
func SetupRouter(
	cfg *config.Config,
	systemHandler *handlers.SystemHandler,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	categoryHandler *handlers.CategoryHandler,
	productHandler *handlers.ProductHandler,
	seedHandler *handlers.SeedHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/", systemHandler.Root)
	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	api.GET("/config", systemHandler.Config)

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
		api.GET("/seed", seedHandler.Seed)
	}

	// Регистрация пользователей: публичная запись, поэтому под лимитом.
	ensureRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	api.POST("/users/ensure", ensureRateLimit, userHandler.Ensure)
	api.GET("/users/me", userHandler.Me)

	// Публичное чтение каталога.
	api.GET("/categories", categoryHandler.List)
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)

	// Мутации каталога только для модераторов.
	admin := api.Group("/")
	admin.Use(middleware.AdminRequired(cfg.Moderators))
	{
		admin.POST("/categories", categoryHandler.Create)
		admin.PATCH("/categories/:id", categoryHandler.Update)
		admin.DELETE("/categories/:id", categoryHandler.Delete)

		admin.POST("/products", productHandler.Create)
		admin.PATCH("/products/:id", productHandler.Update)
		admin.DELETE("/products/:id", productHandler.Delete)
	}

	return r
}
