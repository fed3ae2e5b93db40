package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/reputation-ledger/internal/events"
	"github.com/ignatzorin/reputation-ledger/internal/models"
	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
	"github.com/ignatzorin/reputation-ledger/internal/repository/memory"
	"github.com/ignatzorin/reputation-ledger/internal/verifier"
)

type mockRecomputer struct {
	mock.Mock
}

func (m *mockRecomputer) Recompute(ctx context.Context, address string, now time.Time) (*models.UserReputation, error) {
	args := m.Called(ctx, address, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserReputation), args.Error(1)
}

type rejectProofs struct{}

func (rejectProofs) VerifyProof(string) bool { return false }

type rejectSignatures struct{}

func (rejectSignatures) VerifySignature([]byte, []byte, []byte) bool { return false }

type denyDisputes struct{}

func (denyDisputes) Allow(context.Context, string, *models.Review) error {
	return apperror.ErrForbidden
}

// captureEmitter копит события для проверок.
type captureEmitter struct {
	emitted []events.Event
}

func (c *captureEmitter) Emit(e events.Event) { c.emitted = append(c.emitted, e) }

func newReviewService(store *memory.Store, rec *mockRecomputer, emitter events.Emitter) *ReviewService {
	return NewReviewService(store.Reviews, store.Index, rec, verifier.AcceptAllProofs{}, verifier.AcceptAllSignatures{}, nil, emitter)
}

func TestReviewService_SubmitReview_Success(t *testing.T) {
	store := memory.NewStore()
	rec := new(mockRecomputer)
	emitter := &captureEmitter{}
	svc := newReviewService(store, rec, emitter)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()

	rec.On("Recompute", ctx, "alice", now).Return(&models.UserReputation{Address: "alice"}, nil)

	review, err := svc.SubmitReview(ctx, SubmitReviewInput{
		Service:          "delivery",
		Rating:           5,
		Content:          "Отличный сервис",
		TransactionProof: "tx-proof",
		Reviewer:         "alice",
		Now:              now,
	})
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d-alice", now.Unix()), review.ID)
	assert.False(t, review.IsDisputed)

	stored, err := store.Reviews.Get(ctx, review.ID)
	assert.NoError(t, err)
	assert.Equal(t, 5, stored.Rating)

	ids, err := store.Index.ListByUser(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, []string{review.ID}, ids)

	rec.AssertExpectations(t)
	assert.Len(t, emitter.emitted, 1)
	assert.Equal(t, events.ActionSubmitReview, emitter.emitted[0].Action)
	assert.Equal(t, review.ID, emitter.emitted[0].Attributes["review_id"])
}

func TestReviewService_SubmitReview_AggregatesAcrossDays(t *testing.T) {
	store := memory.NewStore()
	reputation := NewReputationService(store.Reviews, store.Index, store.Users, testParams(), nil)
	svc := NewReviewService(store.Reviews, store.Index, reputation, verifier.AcceptAllProofs{}, verifier.AcceptAllSignatures{}, nil, nil)
	ctx := context.Background()
	t0 := time.Unix(1_700_000_000, 0).UTC()

	// Три отзыва с интервалом в сутки при месячном периоде затухания.
	for day := 0; day < 3; day++ {
		_, err := svc.SubmitReview(ctx, SubmitReviewInput{
			Service:  "delivery",
			Rating:   5,
			Reviewer: "alice",
			Now:      t0.Add(time.Duration(day) * 24 * time.Hour),
		})
		assert.NoError(t, err)
	}

	rep, err := store.Users.Get(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, 3, rep.TotalReviews)
	assert.Equal(t, 0, rep.DisputedReviews)
	assert.Equal(t, "30", rep.ReputationScore.String())
}

func TestReviewService_SubmitReview_InvalidRating(t *testing.T) {
	store := memory.NewStore()
	rec := new(mockRecomputer)
	svc := newReviewService(store, rec, nil)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.SubmitReview(ctx, SubmitReviewInput{Rating: rating, Reviewer: "alice", Now: now})
		assert.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
		assert.Contains(t, err.Error(), "от 1 до 5")
	}

	// Журнал не тронут: все проверки предшествуют записям.
	reviews, err := store.Reviews.Range(ctx, "", 0)
	assert.NoError(t, err)
	assert.Empty(t, reviews)
	rec.AssertNotCalled(t, "Recompute", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_SubmitReview_MissingReviewer(t *testing.T) {
	store := memory.NewStore()
	svc := newReviewService(store, new(mockRecomputer), nil)

	_, err := svc.SubmitReview(context.Background(), SubmitReviewInput{Rating: 4, Now: time.Now().UTC()})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReviewService_SubmitReview_InvalidProof(t *testing.T) {
	store := memory.NewStore()
	rec := new(mockRecomputer)
	svc := NewReviewService(store.Reviews, store.Index, rec, rejectProofs{}, verifier.AcceptAllSignatures{}, nil, nil)
	ctx := context.Background()

	_, err := svc.SubmitReview(ctx, SubmitReviewInput{
		Rating:           5,
		Reviewer:         "alice",
		TransactionProof: "forged",
		Now:              time.Now().UTC(),
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidProof(err))

	reviews, err := store.Reviews.Range(ctx, "", 0)
	assert.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestReviewService_SubmitReview_BadSignature(t *testing.T) {
	store := memory.NewStore()
	svc := NewReviewService(store.Reviews, store.Index, new(mockRecomputer), verifier.AcceptAllProofs{}, rejectSignatures{}, nil, nil)

	_, err := svc.SubmitReview(context.Background(), SubmitReviewInput{
		Rating:    5,
		Reviewer:  "alice",
		Content:   "текст",
		Signature: []byte{0x01, 0x02},
		Now:       time.Now().UTC(),
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidProof(err))
}

func TestReviewService_SubmitReview_EmptySignatureSkipsCheck(t *testing.T) {
	store := memory.NewStore()
	rec := new(mockRecomputer)
	// Отклоняющий верификатор подписи не должен быть вызван без подписи.
	svc := NewReviewService(store.Reviews, store.Index, rec, verifier.AcceptAllProofs{}, rejectSignatures{}, nil, nil)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()

	rec.On("Recompute", ctx, "alice", now).Return(&models.UserReputation{Address: "alice"}, nil)

	_, err := svc.SubmitReview(ctx, SubmitReviewInput{Rating: 5, Reviewer: "alice", Now: now})
	assert.NoError(t, err)
}

func TestReviewService_FlagDispute_Success(t *testing.T) {
	store := memory.NewStore()
	rec := new(mockRecomputer)
	emitter := &captureEmitter{}
	svc := newReviewService(store, rec, emitter)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()

	review := seedReview(t, store, "bob", now.Add(-time.Hour), 2, false)
	rec.On("Recompute", ctx, "bob", now).Return(&models.UserReputation{Address: "bob"}, nil)

	flagged, err := svc.FlagDispute(ctx, review.ID, "carol", "накрученный отзыв", now)
	assert.NoError(t, err)
	assert.True(t, flagged.IsDisputed)
	assert.NotNil(t, flagged.DisputeReason)
	assert.Equal(t, "накрученный отзыв", *flagged.DisputeReason)

	// Пересчитывается репутация автора отзыва, а не вызывающего.
	rec.AssertExpectations(t)

	assert.Len(t, emitter.emitted, 1)
	assert.Equal(t, events.ActionFlagDispute, emitter.emitted[0].Action)
	assert.Equal(t, "carol", emitter.emitted[0].Attributes["flagger"])
}

func TestReviewService_FlagDispute_Repeated(t *testing.T) {
	store := memory.NewStore()
	rec := new(mockRecomputer)
	svc := newReviewService(store, rec, nil)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()

	review := seedReview(t, store, "bob", now.Add(-time.Hour), 2, false)
	rec.On("Recompute", ctx, "bob", mock.Anything).Return(&models.UserReputation{Address: "bob"}, nil)

	_, err := svc.FlagDispute(ctx, review.ID, "carol", "первая причина", now)
	assert.NoError(t, err)

	// Повторная пометка идемпотентна и перезаписывает причину.
	flagged, err := svc.FlagDispute(ctx, review.ID, "dave", "вторая причина", now.Add(time.Minute))
	assert.NoError(t, err)
	assert.True(t, flagged.IsDisputed)
	assert.Equal(t, "вторая причина", *flagged.DisputeReason)
}

func TestReviewService_FlagDispute_NotFound(t *testing.T) {
	store := memory.NewStore()
	svc := newReviewService(store, new(mockRecomputer), nil)

	_, err := svc.FlagDispute(context.Background(), "1699999999-nobody", "carol", "причина", time.Now().UTC())
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReviewService_FlagDispute_PolicyDenied(t *testing.T) {
	store := memory.NewStore()
	rec := new(mockRecomputer)
	svc := NewReviewService(store.Reviews, store.Index, rec, verifier.AcceptAllProofs{}, verifier.AcceptAllSignatures{}, denyDisputes{}, nil)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0).UTC()

	review := seedReview(t, store, "bob", now.Add(-time.Hour), 2, false)

	_, err := svc.FlagDispute(ctx, review.ID, "carol", "причина", now)
	assert.Error(t, err)

	stored, getErr := store.Reviews.Get(ctx, review.ID)
	assert.NoError(t, getErr)
	assert.False(t, stored.IsDisputed)
	rec.AssertNotCalled(t, "Recompute", mock.Anything, mock.Anything, mock.Anything)
}
