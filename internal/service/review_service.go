package service

import (
	"context"
	"time"

	"github.com/ignatzorin/reputation-ledger/internal/events"
	"github.com/ignatzorin/reputation-ledger/internal/models"
	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
	"github.com/ignatzorin/reputation-ledger/internal/verifier"
)

// Recomputer — триггер пересчёта агрегата после изменения журнала.
type Recomputer interface {
	Recompute(ctx context.Context, address string, now time.Time) (*models.UserReputation, error)
}

// DisputePolicy решает, кому разрешено помечать отзыв спорным.
// Ядро не встраивает конкретную проверку ролей: политика инъецируется хостом.
type DisputePolicy interface {
	Allow(ctx context.Context, flagger string, review *models.Review) error
}

// AllowAllDisputes разрешает пометку любому вызывающему.
type AllowAllDisputes struct{}

func (AllowAllDisputes) Allow(context.Context, string, *models.Review) error { return nil }

// ReviewService выполняет операции, меняющие журнал: приём отзыва и пометку
// спора. Все проверки предшествуют записям: при любой ошибке журнал остаётся
// нетронутым.
type ReviewService struct {
	ledger     ReviewLedger
	index      UserReviewIndex
	reputation Recomputer
	proofs     verifier.ProofVerifier
	signatures verifier.SignatureVerifier
	policy     DisputePolicy
	emitter    events.Emitter
}

func NewReviewService(ledger ReviewLedger, index UserReviewIndex, reputation Recomputer, proofs verifier.ProofVerifier, signatures verifier.SignatureVerifier, policy DisputePolicy, emitter events.Emitter) *ReviewService {
	if policy == nil {
		policy = AllowAllDisputes{}
	}
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &ReviewService{
		ledger:     ledger,
		index:      index,
		reputation: reputation,
		proofs:     proofs,
		signatures: signatures,
		policy:     policy,
		emitter:    emitter,
	}
}

// SubmitReviewInput — параметры приёма отзыва. Reviewer приходит из конверта
// сообщения хоста: ядро доверяет этой личности и не аутентифицирует её само.
type SubmitReviewInput struct {
	Service          string
	Rating           int
	Content          string
	TransactionProof string
	Signature        []byte
	Reviewer         string
	Now              time.Time
}

// SubmitReview принимает отзыв: проверяет оценку и доказательство транзакции,
// пишет журнал, затем индекс, затем запускает пересчёт репутации автора.
func (s *ReviewService) SubmitReview(ctx context.Context, input SubmitReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperror.New(apperror.ErrCodeValidation, "рейтинг должен быть от 1 до 5")
	}
	if input.Reviewer == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "адрес отправителя обязателен")
	}

	if !s.proofs.VerifyProof(input.TransactionProof) {
		return nil, apperror.New(apperror.ErrCodeInvalidProof, "доказательство транзакции не прошло проверку")
	}
	if len(input.Signature) > 0 && !s.signatures.VerifySignature([]byte(input.Content), input.Signature, nil) {
		return nil, apperror.New(apperror.ErrCodeInvalidProof, "подпись не прошла проверку")
	}

	review := &models.Review{
		ID:               models.NewReviewID(input.Now, input.Reviewer),
		Service:          input.Service,
		Rating:           input.Rating,
		Content:          input.Content,
		Reviewer:         input.Reviewer,
		Timestamp:        input.Now,
		TransactionProof: input.TransactionProof,
		Signature:        input.Signature,
	}

	// Сначала журнал, потом индекс: каждый идентификатор из индекса обязан
	// разрешаться в журнале.
	if err := s.ledger.Put(ctx, review); err != nil {
		return nil, err
	}
	if err := s.index.Put(ctx, review.Reviewer, review.ID); err != nil {
		return nil, err
	}
	if _, err := s.reputation.Recompute(ctx, review.Reviewer, input.Now); err != nil {
		return nil, err
	}

	s.emitter.Emit(events.New(events.ActionSubmitReview, input.Now, map[string]string{
		"reviewer":  review.Reviewer,
		"service":   review.Service,
		"review_id": review.ID,
	}))
	return review, nil
}

// FlagDispute помечает отзыв спорным и пересчитывает репутацию его автора
// (не вызывающего). Пометка одностороння; повторная пометка идемпотентна и
// лишь перезаписывает причину.
func (s *ReviewService) FlagDispute(ctx context.Context, reviewID, flagger, reason string, now time.Time) (*models.Review, error) {
	review, err := s.ledger.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Allow(ctx, flagger, review); err != nil {
		return nil, err
	}

	review.IsDisputed = true
	review.DisputeReason = &reason
	if err := s.ledger.Put(ctx, review); err != nil {
		return nil, err
	}

	if _, err := s.reputation.Recompute(ctx, review.Reviewer, now); err != nil {
		return nil, err
	}

	s.emitter.Emit(events.New(events.ActionFlagDispute, now, map[string]string{
		"review_id": reviewID,
		"flagger":   flagger,
		"reason":    reason,
	}))
	return review, nil
}
