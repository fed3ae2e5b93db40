package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/reputation-ledger/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextAddressKey = "callerAddress"
)

// AuthMiddleware извлекает адрес вызывающего из JWT access токена.
// Ядро доверяет адресу из конверта; проверка прав — забота внешнего контура.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		address, err := tokens.Parse(raw)
		if err != nil || address == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "токен невалиден"})
			return
		}

		c.Set(ContextAddressKey, address)
		c.Next()
	}
}
