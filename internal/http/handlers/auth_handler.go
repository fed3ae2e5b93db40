package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/reputation-ledger/internal/dto"
	"github.com/ignatzorin/reputation-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/reputation-ledger/internal/service"
	"github.com/ignatzorin/reputation-ledger/internal/validation"
)

// AuthHandler выпускает токены для локальной разработки. В проде идентичность
// вызывающего поставляет внешний контур, этот эндпоинт не регистрируется.
type AuthHandler struct {
	tokens *service.TokenManager
}

func NewAuthHandler(tokens *service.TokenManager) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// IssueToken POST /api/auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "адрес обязателен")
		return
	}

	if err := validation.ValidateAddress(req.Address); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	token, err := h.tokens.Issue(req.Address)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
