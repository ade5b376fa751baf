package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tgshop-backend/internal/service"
)

// SeedHandler наполняет каталог демо-данными в development.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler создаёт seed handler.
func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// Seed POST /api/seed
func (h *SeedHandler) Seed(c *gin.Context) {
	count, err := h.seed.Seed(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seeded_products": count})
}
