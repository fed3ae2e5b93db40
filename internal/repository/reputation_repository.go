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

// ReputationRepository хранит производные агрегаты UserReputation.
type ReputationRepository struct {
	db *sqlx.DB
}

func NewReputationRepository(db *sqlx.DB) *ReputationRepository {
	return &ReputationRepository{db: db}
}

// Get возвращает агрегат пользователя.
func (r *ReputationRepository) Get(ctx context.Context, address string) (*models.UserReputation, error) {
	var rep models.UserReputation
	err := r.db.GetContext(ctx, &rep, `SELECT * FROM user_reputation WHERE address = $1`, address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrReputationNotFound
		}
		return nil, fmt.Errorf("reputation repository: get %s: %w", address, err)
	}
	return &rep, nil
}

// Save перезаписывает агрегат целиком.
func (r *ReputationRepository) Save(ctx context.Context, rep *models.UserReputation) error {
	query := `
		INSERT INTO user_reputation (address, reputation_score, total_reviews, disputed_reviews, last_activity, transaction_volume)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (address) DO UPDATE SET
			reputation_score = EXCLUDED.reputation_score,
			total_reviews = EXCLUDED.total_reviews,
			disputed_reviews = EXCLUDED.disputed_reviews,
			last_activity = EXCLUDED.last_activity,
			transaction_volume = EXCLUDED.transaction_volume
	`
	_, err := r.db.ExecContext(ctx, query,
		rep.Address, rep.ReputationScore, rep.TotalReviews, rep.DisputedReviews,
		rep.LastActivity, rep.TransactionVolume,
	)
	if err != nil {
		return fmt.Errorf("reputation repository: save %s: %w", rep.Address, err)
	}
	return nil
}

// Count возвращает число пользователей с агрегатом репутации.
func (r *ReputationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM user_reputation`); err != nil {
		return 0, fmt.Errorf("reputation repository: count: %w", err)
	}
	return count, nil
}
