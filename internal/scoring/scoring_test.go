package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/reputation-ledger/internal/models"
	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
)

func defaultParams() models.ReputationParams {
	return models.ReputationParams{
		TimeWeightFactor:      10,
		VolumeWeightFactor:    5,
		DisputePenalty:        20,
		InactivityDecayPeriod: 2592000,
		DecayRate:             95,
	}
}

func TestScore_SingleActiveReview(t *testing.T) {
	now := time.Now().UTC()
	rep := &models.UserReputation{
		Address:      "alice",
		TotalReviews: 1,
		LastActivity: now,
	}

	score, err := Score(rep, defaultParams(), now)
	assert.NoError(t, err)
	assert.Equal(t, "10", score.String())
}

func TestScore_SingleDisputedReview(t *testing.T) {
	now := time.Now().UTC()
	rep := &models.UserReputation{
		Address:         "bob",
		TotalReviews:    1,
		DisputedReviews: 1,
		LastActivity:    now,
	}

	// base = 0, штраф 20, итог насыщается в нуле.
	score, err := Score(rep, defaultParams(), now)
	assert.NoError(t, err)
	assert.True(t, score.IsZero())
}

func TestScore_ThreeReviews(t *testing.T) {
	now := time.Now().UTC()
	rep := &models.UserReputation{
		Address:      "carol",
		TotalReviews: 3,
		LastActivity: now,
	}

	score, err := Score(rep, defaultParams(), now)
	assert.NoError(t, err)
	assert.Equal(t, "30", score.String())
}

func TestScore_PenaltyExceedsWeighted(t *testing.T) {
	now := time.Now().UTC()
	rep := &models.UserReputation{
		TotalReviews:    2,
		DisputedReviews: 1,
		LastActivity:    now,
	}

	// 1*10 < 1*20: отрицательных счётов не бывает.
	score, err := Score(rep, defaultParams(), now)
	assert.NoError(t, err)
	assert.True(t, score.IsZero())
}

func TestScore_DecayAfterInactivity(t *testing.T) {
	params := models.ReputationParams{
		TimeWeightFactor:      10,
		VolumeWeightFactor:    5,
		DisputePenalty:        20,
		InactivityDecayPeriod: 100,
		DecayRate:             2,
	}
	last := time.Unix(1_000_000, 0).UTC()
	rep := &models.UserReputation{
		TotalReviews: 1,
		LastActivity: last,
	}

	// 250 секунд простоя при периоде 100 — два полных периода: вес 2^2.
	score, err := Score(rep, params, last.Add(250*time.Second))
	assert.NoError(t, err)
	assert.Equal(t, "4", score.String())
}

func TestScore_NoDecayAtExactPeriodBoundary(t *testing.T) {
	params := defaultParams()
	params.InactivityDecayPeriod = 100
	last := time.Unix(1_000_000, 0).UTC()
	rep := &models.UserReputation{
		TotalReviews: 1,
		LastActivity: last,
	}

	// Простой ровно в период ещё не считается неактивностью.
	score, err := Score(rep, params, last.Add(100*time.Second))
	assert.NoError(t, err)
	assert.Equal(t, "10", score.String())
}

func TestScore_ClockSkewClampedToZero(t *testing.T) {
	last := time.Unix(1_000_000, 0).UTC()
	rep := &models.UserReputation{
		TotalReviews: 1,
		LastActivity: last,
	}

	score, err := Score(rep, defaultParams(), last.Add(-time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, "10", score.String())
}

func TestScore_VolumeWeightTruncates(t *testing.T) {
	now := time.Now().UTC()
	rep := &models.UserReputation{
		LastActivity:      now,
		TransactionVolume: models.NewUint(150),
	}

	// 150*5/100 = 7.5, дробная часть отбрасывается.
	score, err := Score(rep, defaultParams(), now)
	assert.NoError(t, err)
	assert.Equal(t, "7", score.String())
}

func TestScore_DisputedExceedsTotal(t *testing.T) {
	now := time.Now().UTC()
	rep := &models.UserReputation{
		TotalReviews:    1,
		DisputedReviews: 3,
		LastActivity:    now,
	}

	score, err := Score(rep, defaultParams(), now)
	assert.NoError(t, err)
	assert.True(t, score.IsZero())
}

func TestScore_DecayOverflowSurfaces(t *testing.T) {
	params := models.ReputationParams{
		TimeWeightFactor:      10,
		VolumeWeightFactor:    5,
		DisputePenalty:        20,
		InactivityDecayPeriod: 1,
		DecayRate:             math.MaxUint64,
	}
	last := time.Unix(0, 0).UTC()
	rep := &models.UserReputation{
		TotalReviews: 1,
		LastActivity: last,
	}

	_, err := Score(rep, params, last.Add(1000*time.Second))
	assert.Error(t, err)
	assert.True(t, apperror.IsOverflow(err))
}
