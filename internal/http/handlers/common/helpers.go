package common

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/reputation-ledger/internal/dto"
	"github.com/ignatzorin/reputation-ledger/internal/http/middleware"
	"github.com/ignatzorin/reputation-ledger/internal/logger"
	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
)

// ErrCallerNotFound возвращается, когда адрес вызывающего не попал в контекст.
var ErrCallerNotFound = errors.New("адрес вызывающего не найден в контексте")

// CurrentAddress извлекает адрес вызывающего из gin контекста.
func CurrentAddress(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextAddressKey)
	if !exists {
		return "", ErrCallerNotFound
	}

	address, ok := raw.(string)
	if !ok || address == "" {
		return "", ErrCallerNotFound
	}
	return address, nil
}

// RespondError отправляет стандартный ответ с ошибкой.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondAppError отображает типизированную ошибку ядра в HTTP ответ.
// Внутренние категории (CONSISTENCY_VIOLATION, OVERFLOW) логируются и
// маскируются общим сообщением.
func RespondAppError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		logRequestError(c, err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "внутренняя ошибка сервера",
			Code:  string(apperror.ErrCodeInternal),
		})
		return
	}

	message := appErr.Message
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logRequestError(c, err)
		message = "внутренняя ошибка сервера"
	}
	c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
		Error: message,
		Code:  string(appErr.Code),
	})
}

// RespondUnauthorized отправляет 401.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "требуется авторизация"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// RespondBadRequest отправляет 400.
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "некорректный запрос"
	}
	RespondError(c, http.StatusBadRequest, message)
}

// ParseIntQuery безопасно читает целочисленный query параметр.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// ParseBoolQuery безопасно читает булев query параметр.
func ParseBoolQuery(c *gin.Context, key string, fallback bool) bool {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func logRequestError(c *gin.Context, err error) {
	if logger.Log == nil {
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}).Error("Request error")
}
