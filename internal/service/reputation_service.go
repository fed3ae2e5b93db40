package service

import (
	"context"
	"time"

	"github.com/ignatzorin/reputation-ledger/internal/events"
	"github.com/ignatzorin/reputation-ledger/internal/models"
	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
	"github.com/ignatzorin/reputation-ledger/internal/scoring"
)

// ReputationService пересчитывает агрегат пользователя из авторитетного
// набора его отзывов. Пересчёт всегда полный, без инкрементальных дельт:
// агрегат не может разойтись с журналом, даже если прошлый пересчёт оборвался.
type ReputationService struct {
	ledger  ReviewLedger
	index   UserReviewIndex
	users   ReputationRepository
	params  models.ReputationParams
	emitter events.Emitter
}

func NewReputationService(ledger ReviewLedger, index UserReviewIndex, users ReputationRepository, params models.ReputationParams, emitter events.Emitter) *ReputationService {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &ReputationService{
		ledger:  ledger,
		index:   index,
		users:   users,
		params:  params,
		emitter: emitter,
	}
}

// Recompute перечитывает отзывы пользователя, пересчитывает счётчики и счёт,
// и перезаписывает агрегат целиком.
func (s *ReputationService) Recompute(ctx context.Context, address string, now time.Time) (*models.UserReputation, error) {
	rep, err := s.users.Get(ctx, address)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return nil, err
		}
		rep = models.NewUserReputation(address, now)
	}

	ids, err := s.index.ListByUser(ctx, address)
	if err != nil {
		return nil, err
	}

	disputed := 0
	for _, id := range ids {
		review, err := s.ledger.Get(ctx, id)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.Wrap(err, apperror.ErrCodeConsistency, "индекс ссылается на отсутствующий отзыв "+id)
			}
			return nil, err
		}
		if review.IsDisputed {
			disputed++
		}
	}

	rep.TotalReviews = len(ids)
	rep.DisputedReviews = disputed

	// Затухание считается по last_activity, прочитанному из хранилища;
	// новый момент активности записывается только после вычисления счёта.
	score, err := scoring.Score(rep, s.params, now)
	if err != nil {
		return nil, err
	}
	rep.ReputationScore = score
	rep.LastActivity = now

	if err := s.users.Save(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// SetTransactionVolume записывает объём транзакций пользователя, поставляемый
// внешним платёжным контуром, и сразу пересчитывает счёт.
func (s *ReputationService) SetTransactionVolume(ctx context.Context, address string, volume models.Uint, now time.Time) (*models.UserReputation, error) {
	rep, err := s.users.Get(ctx, address)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return nil, err
		}
		rep = models.NewUserReputation(address, now)
	}

	rep.TransactionVolume = volume
	if err := s.users.Save(ctx, rep); err != nil {
		return nil, err
	}

	updated, err := s.Recompute(ctx, address, now)
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(events.New(events.ActionSetVolume, now, map[string]string{
		"address": address,
		"volume":  volume.String(),
	}))
	return updated, nil
}
