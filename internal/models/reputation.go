package models

import (
	"time"

	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
)

// UserReputation — производный агрегат: при каждом пересчёте перезаписывается
// целиком из авторитетного набора отзывов пользователя.
type UserReputation struct {
	Address           string    `db:"address" json:"address"`
	ReputationScore   Uint      `db:"reputation_score" json:"reputation_score"`
	TotalReviews      int       `db:"total_reviews" json:"total_reviews"`
	DisputedReviews   int       `db:"disputed_reviews" json:"disputed_reviews"`
	LastActivity      time.Time `db:"last_activity" json:"last_activity"`
	TransactionVolume Uint      `db:"transaction_volume" json:"transaction_volume"`
}

// NewUserReputation возвращает нулевой агрегат для пользователя без истории.
func NewUserReputation(address string, now time.Time) *UserReputation {
	return &UserReputation{
		Address:      address,
		LastActivity: now,
	}
}

// ReputationParams — конфигурация формулы счёта. Задаётся один раз при старте
// процесса и не изменяется.
type ReputationParams struct {
	TimeWeightFactor      uint64
	VolumeWeightFactor    uint64
	DisputePenalty        uint64
	InactivityDecayPeriod uint64 // секунды
	DecayRate             uint64
}

func (p ReputationParams) Validate() error {
	if p.InactivityDecayPeriod == 0 {
		return apperror.New(apperror.ErrCodeValidation, "период затухания должен быть больше нуля")
	}
	return nil
}
