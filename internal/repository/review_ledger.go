package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/reputation-ledger/internal/models"
	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
)

// ReviewLedger — журнал отзывов: запись по ключу и перечисление в порядке
// ключей. Удаления нет: отзыв живёт в журнале навсегда.
type ReviewLedger struct {
	db *sqlx.DB
}

func NewReviewLedger(db *sqlx.DB) *ReviewLedger {
	return &ReviewLedger{db: db}
}

// Put сохраняет отзыв, перезаписывая запись с тем же идентификатором.
func (r *ReviewLedger) Put(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, service, rating, content, reviewer, created_at, transaction_proof, signature, is_disputed, dispute_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			service = EXCLUDED.service,
			rating = EXCLUDED.rating,
			content = EXCLUDED.content,
			reviewer = EXCLUDED.reviewer,
			created_at = EXCLUDED.created_at,
			transaction_proof = EXCLUDED.transaction_proof,
			signature = EXCLUDED.signature,
			is_disputed = EXCLUDED.is_disputed,
			dispute_reason = EXCLUDED.dispute_reason
	`
	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.Service, review.Rating, review.Content, review.Reviewer,
		review.Timestamp, review.TransactionProof, review.Signature,
		review.IsDisputed, review.DisputeReason,
	)
	if err != nil {
		return fmt.Errorf("review ledger: put %s: %w", review.ID, err)
	}
	return nil
}

// Get возвращает отзыв по идентификатору.
func (r *ReviewLedger) Get(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrReviewNotFound
		}
		return nil, fmt.Errorf("review ledger: get %s: %w", id, err)
	}
	return &review, nil
}

// Range перечисляет отзывы в порядке ключей, начиная строго после startAfter.
// limit <= 0 означает «без ограничения».
func (r *ReviewLedger) Range(ctx context.Context, startAfter string, limit int) ([]models.Review, error) {
	var reviews []models.Review
	var err error
	if limit > 0 {
		err = r.db.SelectContext(ctx, &reviews, `
			SELECT * FROM reviews WHERE id > $1 ORDER BY id LIMIT $2
		`, startAfter, limit)
	} else {
		err = r.db.SelectContext(ctx, &reviews, `
			SELECT * FROM reviews WHERE id > $1 ORDER BY id
		`, startAfter)
	}
	if err != nil {
		return nil, fmt.Errorf("review ledger: range: %w", err)
	}
	return reviews, nil
}
