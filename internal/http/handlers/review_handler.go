package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/reputation-ledger/internal/dto"
	"github.com/ignatzorin/reputation-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/reputation-ledger/internal/service"
	"github.com/ignatzorin/reputation-ledger/internal/validation"
)

type ReviewHandler struct {
	reviews    *service.ReviewService
	reputation *service.ReputationService
}

func NewReviewHandler(reviews *service.ReviewService, reputation *service.ReputationService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, reputation: reputation}
}

// SubmitReview POST /api/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	reviewer, err := common.CurrentAddress(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	req.Service = validation.SanitizeText(req.Service)
	req.Content = validation.SanitizeText(req.Content)
	if err := validation.ValidateLength("service", req.Service, 0, validation.MaxServiceLength); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateLength("content", req.Content, 0, validation.MaxContentLength); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateLength("transaction_proof", req.TransactionProof, 0, validation.MaxProofLength); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.SubmitReview(c.Request.Context(), service.SubmitReviewInput{
		Service:          req.Service,
		Rating:           req.Rating,
		Content:          req.Content,
		TransactionProof: req.TransactionProof,
		Signature:        req.Signature,
		Reviewer:         reviewer,
		Now:              time.Now().UTC(),
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewReviewResponse(review))
}

// FlagDispute POST /api/reviews/:id/dispute
func (h *ReviewHandler) FlagDispute(c *gin.Context) {
	flagger, err := common.CurrentAddress(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reviewID := c.Param("id")
	if reviewID == "" {
		common.RespondBadRequest(c, "неверный идентификатор отзыва")
		return
	}

	var req dto.FlagDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "причина спора обязательна")
		return
	}

	req.Reason = validation.SanitizeText(req.Reason)
	if err := validation.ValidateLength("reason", req.Reason, validation.MinDisputeReasonLength, validation.MaxReasonLength); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.FlagDispute(c.Request.Context(), reviewID, flagger, req.Reason, time.Now().UTC())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewReviewResponse(review))
}

// SetVolume PUT /api/users/:address/volume
//
// Объём транзакций поставляет внешний платёжный контур: сами операции
// журнала это поле никогда не изменяют.
func (h *ReviewHandler) SetVolume(c *gin.Context) {
	if _, err := common.CurrentAddress(c); err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	address := c.Param("address")
	if err := validation.ValidateAddress(address); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.SetVolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	rep, err := h.reputation.SetTransactionVolume(c.Request.Context(), address, req.Volume, time.Now().UTC())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, rep)
}
