package service

import (
	"context"

	"github.com/ignatzorin/reputation-ledger/internal/models"
)

// ReviewLedger — журнал отзывов. Перечисление идёт в байтовом порядке ключей;
// идентификатор строится из десятичной секунды, поэтому порядок хронологичен
// лишь пока совпадает разрядность секунд.
type ReviewLedger interface {
	Put(ctx context.Context, review *models.Review) error
	Get(ctx context.Context, id string) (*models.Review, error)
	Range(ctx context.Context, startAfter string, limit int) ([]models.Review, error)
}

// UserReviewIndex отображает (пользователь, отзыв) в идентификатор отзыва.
type UserReviewIndex interface {
	Put(ctx context.Context, reviewer, reviewID string) error
	ListByUser(ctx context.Context, reviewer string) ([]string, error)
}

// ReputationRepository хранит производные агрегаты пользователей.
type ReputationRepository interface {
	Get(ctx context.Context, address string) (*models.UserReputation, error)
	Save(ctx context.Context, rep *models.UserReputation) error
	Count(ctx context.Context) (int, error)
}
