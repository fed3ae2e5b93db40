package service

import (
	"context"
	"time"

	"github.com/ignatzorin/reputation-ledger/internal/models"
	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
)

const (
	// DefaultPageSize применяется, когда лимит не задан.
	DefaultPageSize = 10
	// MaxPageSize — жёсткий потолок; больший запрос молча обрезается.
	MaxPageSize = 30

	scanBatchSize = 256
)

// ListReviewsFilter — параметры листинга журнала.
type ListReviewsFilter struct {
	StartAfter      string
	Limit           int
	MinRating       *int
	MaxRating       *int
	IncludeDisputed bool
}

// TimeWindow — необязательное окно [Start, End] по времени отзыва,
// обе границы включительны и независимы.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
}

func (w TimeWindow) contains(ts time.Time) bool {
	if w.Start != nil && ts.Before(*w.Start) {
		return false
	}
	if w.End != nil && ts.After(*w.End) {
		return false
	}
	return true
}

// Stats — срез по всему журналу на момент запроса.
type Stats struct {
	TotalReviews    int     `json:"total_reviews"`
	TotalUsers      int     `json:"total_users"`
	AverageRating   float64 `json:"average_rating"`
	DisputedReviews int     `json:"disputed_reviews"`
}

// QueryService отвечает за read-only представления журнала и репутации.
// Никогда не запускает пересчёт и ничего не пишет.
type QueryService struct {
	ledger ReviewLedger
	index  UserReviewIndex
	users  ReputationRepository
}

func NewQueryService(ledger ReviewLedger, index UserReviewIndex, users ReputationRepository) *QueryService {
	return &QueryService{ledger: ledger, index: index, users: users}
}

// ListReviews перечисляет журнал в порядке ключей, отфильтровывая записи по
// диапазону оценок и признаку спора. Лимит применяется к отфильтрованному
// результату, как в исходном контракте.
func (s *QueryService) ListReviews(ctx context.Context, filter ListReviewsFilter) ([]models.Review, error) {
	limit := clampLimit(filter.Limit)

	out := make([]models.Review, 0, limit)
	cursor := filter.StartAfter
	for len(out) < limit {
		batch, err := s.ledger.Range(ctx, cursor, scanBatchSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		for i := range batch {
			if !matchesFilter(&batch[i], filter) {
				continue
			}
			out = append(out, batch[i])
			if len(out) == limit {
				break
			}
		}
		if len(batch) < scanBatchSize {
			break
		}
		cursor = batch[len(batch)-1].ID
	}
	return out, nil
}

// GetUserReputation возвращает сохранённый агрегат, но счётчики пересчитывает
// заново по отзывам в заданном окне времени. Пересчёт запросный, ничего не
// сохраняет и не совпадает с хранимым агрегатом, если окно задано.
func (s *QueryService) GetUserReputation(ctx context.Context, address string, window TimeWindow) (*models.UserReputation, error) {
	rep, err := s.users.Get(ctx, address)
	if err != nil {
		return nil, err
	}

	ids, err := s.index.ListByUser(ctx, address)
	if err != nil {
		return nil, err
	}

	total, disputed := 0, 0
	for _, id := range ids {
		review, err := s.ledger.Get(ctx, id)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.Wrap(err, apperror.ErrCodeConsistency, "индекс ссылается на отсутствующий отзыв "+id)
			}
			return nil, err
		}
		if !window.contains(review.Timestamp) {
			continue
		}
		total++
		if review.IsDisputed {
			disputed++
		}
	}

	view := *rep
	view.TotalReviews = total
	view.DisputedReviews = disputed
	return &view, nil
}

// GetStats обходит весь журнал и возвращает живой консистентный срез.
// Стоимость линейна по размеру журнала; изменения в домене редки относительно
// чтений, поэтому инкрементальные счётчики здесь не поддерживаются.
func (s *QueryService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	ratingSum := 0

	cursor := ""
	for {
		batch, err := s.ledger.Range(ctx, cursor, scanBatchSize)
		if err != nil {
			return nil, err
		}
		for i := range batch {
			stats.TotalReviews++
			ratingSum += batch[i].Rating
			if batch[i].IsDisputed {
				stats.DisputedReviews++
			}
		}
		if len(batch) < scanBatchSize {
			break
		}
		cursor = batch[len(batch)-1].ID
	}

	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(ratingSum) / float64(stats.TotalReviews)
	}

	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalUsers = users
	return stats, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func matchesFilter(review *models.Review, filter ListReviewsFilter) bool {
	if filter.MinRating != nil && review.Rating < *filter.MinRating {
		return false
	}
	if filter.MaxRating != nil && review.Rating > *filter.MaxRating {
		return false
	}
	if !filter.IncludeDisputed && review.IsDisputed {
		return false
	}
	return true
}
