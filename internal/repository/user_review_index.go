package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// UserReviewIndex — вторичный индекс (пользователь, идентификатор отзыва),
// позволяющий пересчитывать репутацию без полного обхода журнала.
// Инвариант: запись в индекс делается только после записи отзыва в журнал,
// поэтому каждый идентификатор из индекса обязан разрешаться в журнале.
type UserReviewIndex struct {
	db *sqlx.DB
}

func NewUserReviewIndex(db *sqlx.DB) *UserReviewIndex {
	return &UserReviewIndex{db: db}
}

// Put записывает принадлежность отзыва пользователю.
func (r *UserReviewIndex) Put(ctx context.Context, reviewer, reviewID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_reviews (reviewer, review_id) VALUES ($1, $2)
		ON CONFLICT (reviewer, review_id) DO NOTHING
	`, reviewer, reviewID)
	if err != nil {
		return fmt.Errorf("user review index: put %s/%s: %w", reviewer, reviewID, err)
	}
	return nil
}

// ListByUser возвращает идентификаторы всех отзывов пользователя в порядке ключей.
func (r *UserReviewIndex) ListByUser(ctx context.Context, reviewer string) ([]string, error) {
	ids := []string{}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT review_id FROM user_reviews WHERE reviewer = $1 ORDER BY review_id
	`, reviewer)
	if err != nil {
		return nil, fmt.Errorf("user review index: list %s: %w", reviewer, err)
	}
	return ids, nil
}
