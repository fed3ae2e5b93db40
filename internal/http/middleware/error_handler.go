package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/reputation-ledger/internal/logger"
	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
)

// ErrorHandler — страховочная сетка: ошибки, попавшие в c.Errors и не
// обработанные хэндлером, отображаются по таксономии apperror, внутренние
// категории маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"
		code := apperror.ErrCodeInternal

		var appErr *apperror.AppError
		if errors.As(err.Err, &appErr) {
			code = appErr.Code
			statusCode = appErr.HTTPStatus
			if statusCode < http.StatusInternalServerError {
				message = appErr.Message
			}
		}

		c.JSON(statusCode, gin.H{"error": message, "code": string(code)})
	}
}
