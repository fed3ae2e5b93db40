package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/reputation-ledger/internal/pkg/apperror"
)

func TestUint_PowCheckedOverflow(t *testing.T) {
	v, err := NewUint(3).Pow(5)
	assert.NoError(t, err)
	assert.Equal(t, "243", v.String())

	_, err = NewUint(2).Pow(300)
	assert.Error(t, err)
	assert.True(t, apperror.IsOverflow(err))
}

func TestUint_MulRatioTruncates(t *testing.T) {
	v, err := NewUint(7).MulRatio(5, 100)
	assert.NoError(t, err)
	assert.True(t, v.IsZero())

	v, err = NewUint(150).MulRatio(5, 100)
	assert.NoError(t, err)
	assert.Equal(t, "7", v.String())
}

func TestUint_SubSatStopsAtZero(t *testing.T) {
	v := NewUint(10).SubSat(NewUint(25))
	assert.True(t, v.IsZero())

	v = NewUint(25).SubSat(NewUint(10))
	assert.Equal(t, "15", v.String())
}

func TestUint_JSONDecimalString(t *testing.T) {
	raw, err := json.Marshal(NewUint(12345))
	assert.NoError(t, err)
	assert.Equal(t, `"12345"`, string(raw))

	var v Uint
	assert.NoError(t, json.Unmarshal([]byte(`"340282366920938463463374607431768211456"`), &v))
	assert.Equal(t, "340282366920938463463374607431768211456", v.String())

	// Голый числовой литерал тоже принимается.
	assert.NoError(t, json.Unmarshal([]byte(`77`), &v))
	assert.Equal(t, "77", v.String())
}

func TestUint_AddMulChecked(t *testing.T) {
	max, err := UintFromDecimal("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	assert.NoError(t, err)

	_, err = max.Add(NewUint(1))
	assert.Error(t, err)
	assert.True(t, apperror.IsOverflow(err))

	_, err = max.Mul(NewUint(2))
	assert.Error(t, err)
	assert.True(t, apperror.IsOverflow(err))
}
