package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
)

// Uint — неотрицательное целое для счёта репутации и объёма транзакций.
// Арифметика с контролем переполнения: любое промежуточное значение,
// выходящее за 256 бит, превращается в ошибку OVERFLOW, а не заворачивается.
type Uint struct {
	v uint256.Int
}

func NewUint(x uint64) Uint {
	var u Uint
	u.v.SetUint64(x)
	return u
}

// UintFromDecimal разбирает десятичную строку без знака.
func UintFromDecimal(s string) (Uint, error) {
	var u Uint
	if err := u.v.SetFromDecimal(s); err != nil {
		return Uint{}, apperror.Wrap(err, apperror.ErrCodeValidation, "неверный формат числа")
	}
	return u, nil
}

func (u Uint) IsZero() bool {
	return u.v.IsZero()
}

func (u Uint) Equal(o Uint) bool {
	return u.v.Eq(&o.v)
}

func (u Uint) String() string {
	return u.v.Dec()
}

// Add складывает с контролем переполнения.
func (u Uint) Add(o Uint) (Uint, error) {
	var r Uint
	if _, overflow := r.v.AddOverflow(&u.v, &o.v); overflow {
		return Uint{}, apperror.New(apperror.ErrCodeOverflow, "переполнение при сложении")
	}
	return r, nil
}

// Mul умножает с контролем переполнения.
func (u Uint) Mul(o Uint) (Uint, error) {
	var r Uint
	if _, overflow := r.v.MulOverflow(&u.v, &o.v); overflow {
		return Uint{}, apperror.New(apperror.ErrCodeOverflow, "переполнение при умножении")
	}
	return r, nil
}

// SubSat вычитает с насыщением: результат не бывает отрицательным.
func (u Uint) SubSat(o Uint) Uint {
	var r Uint
	if _, underflow := r.v.SubOverflow(&u.v, &o.v); underflow {
		return Uint{}
	}
	return r
}

// MulRatio возвращает floor(u*num/den), как multiply_ratio в исходном контракте.
func (u Uint) MulRatio(num, den uint64) (Uint, error) {
	if den == 0 {
		return Uint{}, apperror.New(apperror.ErrCodeValidation, "деление на ноль")
	}
	var r Uint
	if _, overflow := r.v.MulOverflow(&u.v, uint256.NewInt(num)); overflow {
		return Uint{}, apperror.New(apperror.ErrCodeOverflow, "переполнение при умножении")
	}
	r.v.Div(&r.v, uint256.NewInt(den))
	return r, nil
}

// Pow возводит в степень быстрым возведением с контролем переполнения
// каждого промежуточного произведения.
func (u Uint) Pow(exp uint64) (Uint, error) {
	result := uint256.NewInt(1)
	base := new(uint256.Int).Set(&u.v)

	for exp > 0 {
		if exp&1 == 1 {
			if _, overflow := result.MulOverflow(result, base); overflow {
				return Uint{}, apperror.New(apperror.ErrCodeOverflow, "переполнение при возведении в степень")
			}
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		if _, overflow := base.MulOverflow(base, base); overflow {
			return Uint{}, apperror.New(apperror.ErrCodeOverflow, "переполнение при возведении в степень")
		}
	}

	var r Uint
	r.v.Set(result)
	return r, nil
}

// MarshalJSON сериализует число десятичной строкой, как Uint128 в исходном API.
func (u Uint) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.v.Dec())
}

func (u *Uint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Допускаем и числовой литерал.
		var n uint64
		if err2 := json.Unmarshal(data, &n); err2 != nil {
			return fmt.Errorf("uint: неверный формат: %w", err)
		}
		u.v.SetUint64(n)
		return nil
	}
	return u.v.SetFromDecimal(s)
}

// Value сохраняет число десятичной строкой (колонка NUMERIC).
func (u Uint) Value() (driver.Value, error) {
	return u.v.Dec(), nil
}

func (u *Uint) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		u.v.Clear()
		return nil
	case []byte:
		return u.v.SetFromDecimal(string(v))
	case string:
		return u.v.SetFromDecimal(v)
	case int64:
		if v < 0 {
			return fmt.Errorf("uint: отрицательное значение %d", v)
		}
		u.v.SetUint64(uint64(v))
		return nil
	default:
		return fmt.Errorf("uint: неподдерживаемый тип %T", src)
	}
}
