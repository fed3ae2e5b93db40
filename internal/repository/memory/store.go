// Package memory содержит эталонную реализацию хранилища в памяти.
// Используется в тестах и как образец контракта для дисковых адаптеров:
// перечисление строго в байтовом порядке ключей.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignatzorin/reputation-ledger/internal/models"
	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
)

type state struct {
	mu      sync.RWMutex
	reviews map[string]models.Review
	index   map[string]map[string]struct{}
	users   map[string]models.UserReputation
}

// Store объединяет три карты хранилища под общим мьютексом.
type Store struct {
	Reviews *ReviewStore
	Index   *IndexStore
	Users   *ReputationStore
}

func NewStore() *Store {
	st := &state{
		reviews: make(map[string]models.Review),
		index:   make(map[string]map[string]struct{}),
		users:   make(map[string]models.UserReputation),
	}
	return &Store{
		Reviews: &ReviewStore{st: st},
		Index:   &IndexStore{st: st},
		Users:   &ReputationStore{st: st},
	}
}

type ReviewStore struct {
	st *state
}

func (s *ReviewStore) Put(_ context.Context, review *models.Review) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.reviews[review.ID] = cloneReview(*review)
	return nil
}

func (s *ReviewStore) Get(_ context.Context, id string) (*models.Review, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	review, ok := s.st.reviews[id]
	if !ok {
		return nil, apperror.ErrReviewNotFound
	}
	copied := cloneReview(review)
	return &copied, nil
}

func (s *ReviewStore) Range(_ context.Context, startAfter string, limit int) ([]models.Review, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()

	keys := make([]string, 0, len(s.st.reviews))
	for k := range s.st.reviews {
		if k > startAfter {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	reviews := make([]models.Review, 0, len(keys))
	for _, k := range keys {
		reviews = append(reviews, cloneReview(s.st.reviews[k]))
	}
	return reviews, nil
}

type IndexStore struct {
	st *state
}

func (s *IndexStore) Put(_ context.Context, reviewer, reviewID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if s.st.index[reviewer] == nil {
		s.st.index[reviewer] = make(map[string]struct{})
	}
	s.st.index[reviewer][reviewID] = struct{}{}
	return nil
}

func (s *IndexStore) ListByUser(_ context.Context, reviewer string) ([]string, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	ids := make([]string, 0, len(s.st.index[reviewer]))
	for id := range s.st.index[reviewer] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type ReputationStore struct {
	st *state
}

func (s *ReputationStore) Get(_ context.Context, address string) (*models.UserReputation, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	rep, ok := s.st.users[address]
	if !ok {
		return nil, apperror.ErrReputationNotFound
	}
	copied := rep
	return &copied, nil
}

func (s *ReputationStore) Save(_ context.Context, rep *models.UserReputation) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.users[rep.Address] = *rep
	return nil
}

func (s *ReputationStore) Count(_ context.Context) (int, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	return len(s.st.users), nil
}

func cloneReview(r models.Review) models.Review {
	if r.Signature != nil {
		sig := make([]byte, len(r.Signature))
		copy(sig, r.Signature)
		r.Signature = sig
	}
	if r.DisputeReason != nil {
		reason := *r.DisputeReason
		r.DisputeReason = &reason
	}
	return r
}
