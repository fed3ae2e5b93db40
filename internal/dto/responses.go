package dto

import (
	"time"

	"github.com/ignatzorin/reputation-ledger/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ReviewResponse — публичное представление отзыва. Доказательство транзакции
// и подпись наружу не отдаются.
type ReviewResponse struct {
	ID            string    `json:"id"`
	Service       string    `json:"service"`
	Rating        int       `json:"rating"`
	Content       string    `json:"content"`
	Reviewer      string    `json:"reviewer"`
	Timestamp     time.Time `json:"timestamp"`
	IsDisputed    bool      `json:"is_disputed"`
	DisputeReason *string   `json:"dispute_reason,omitempty"`
}

func NewReviewResponse(review *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:            review.ID,
		Service:       review.Service,
		Rating:        review.Rating,
		Content:       review.Content,
		Reviewer:      review.Reviewer,
		Timestamp:     review.Timestamp,
		IsDisputed:    review.IsDisputed,
		DisputeReason: review.DisputeReason,
	}
}

type ReviewListResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

func NewReviewListResponse(reviews []models.Review) ReviewListResponse {
	out := ReviewListResponse{Reviews: make([]ReviewResponse, 0, len(reviews))}
	for i := range reviews {
		out.Reviews = append(out.Reviews, NewReviewResponse(&reviews[i]))
	}
	if len(reviews) > 0 {
		out.NextCursor = reviews[len(reviews)-1].ID
	}
	return out
}

type TokenResponse struct {
	Token string `json:"token"`
}
