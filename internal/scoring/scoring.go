// Package scoring реализует чистую формулу счёта репутации.
//
// Счёт пересчитывается агрегатором целиком при каждом изменении истории
// отзывов; функция не имеет побочных эффектов и не обращается к хранилищу.
package scoring

import (
	"time"

	"github.com/ignatzorin/reputation-ledger/internal/models"
)

// Score вычисляет счёт репутации по агрегату пользователя и параметрам:
//
//	base     = total_reviews − disputed_reviews (с насыщением)
//	weight   = time_weight_factor, пока пользователь активен в пределах
//	           периода затухания, иначе decay_rate^periods
//	volume   = transaction_volume * volume_weight_factor / 100
//	penalty  = disputed_reviews * dispute_penalty
//	score    = max(0, base*weight + volume − penalty)
//
// Затухание мультипликативно и в принципе неограниченно растёт с числом
// периодов, поэтому каждое промежуточное значение контролируется на
// переполнение: выход за разрядность — жёсткая ошибка OVERFLOW.
func Score(rep *models.UserReputation, params models.ReputationParams, now time.Time) (models.Uint, error) {
	base := models.NewUint(saturatingCount(rep.TotalReviews, rep.DisputedReviews))

	elapsed := now.Unix() - rep.LastActivity.Unix()
	if elapsed < 0 {
		elapsed = 0
	}

	timeWeight := models.NewUint(params.TimeWeightFactor)
	if uint64(elapsed) > params.InactivityDecayPeriod {
		periods := uint64(elapsed) / params.InactivityDecayPeriod
		decayed, err := models.NewUint(params.DecayRate).Pow(periods)
		if err != nil {
			return models.Uint{}, err
		}
		timeWeight = decayed
	}

	volumeWeight, err := rep.TransactionVolume.MulRatio(params.VolumeWeightFactor, 100)
	if err != nil {
		return models.Uint{}, err
	}

	penalty := models.Uint{}
	if rep.DisputedReviews > 0 {
		penalty, err = models.NewUint(uint64(rep.DisputedReviews)).Mul(models.NewUint(params.DisputePenalty))
		if err != nil {
			return models.Uint{}, err
		}
	}

	weighted, err := base.Mul(timeWeight)
	if err != nil {
		return models.Uint{}, err
	}
	weighted, err = weighted.Add(volumeWeight)
	if err != nil {
		return models.Uint{}, err
	}

	return weighted.SubSat(penalty), nil
}

func saturatingCount(total, disputed int) uint64 {
	if total <= disputed {
		return 0
	}
	return uint64(total - disputed)
}
