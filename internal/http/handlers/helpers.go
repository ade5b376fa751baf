package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tgshop-backend/internal/logger"
	"github.com/ignatzorin/tgshop-backend/internal/pkg/apperror"
)

// respondError переводит доменную ошибку в HTTP ответ. Внутренние
// ошибки маскируются и уходят только в лог.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
		return
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"error":      err.Error(),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("requestID"),
		}).Error("Request error")
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
}

// parseIDParam разбирает числовой path-параметр; при мусоре сразу
// отвечает 400 и возвращает false.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверный " + name})
		return 0, false
	}
	return id, true
}
