package dto

import "github.com/ignatzorin/reputation-ledger/internal/models"

// SubmitReviewRequest — тело POST /api/reviews. Диапазон оценки проверяет
// сервис, чтобы ошибка имела типизированный код, а не текст биндинга.
type SubmitReviewRequest struct {
	Service          string `json:"service"`
	Rating           int    `json:"rating"`
	Content          string `json:"content"`
	TransactionProof string `json:"transaction_proof"`
	Signature        []byte `json:"signature"`
}

// FlagDisputeRequest — тело POST /api/reviews/:id/dispute.
type FlagDisputeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SetVolumeRequest — тело PUT /api/users/:address/volume.
type SetVolumeRequest struct {
	Volume models.Uint `json:"volume"`
}

// TokenRequest — тело dev-эндпоинта выпуска токена.
type TokenRequest struct {
	Address string `json:"address" binding:"required"`
}
