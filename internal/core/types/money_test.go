package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vyapari/internal/core/apperror"
)

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"}, // half rounds up
		{"10.004", "10"},
		{"10.015", "10.02"},
		{"118.644", "118.64"},
		{"0.125", "0.13"},
		{"42", "42"},
	}
	for _, tc := range cases {
		got := RoundMoney(MustMoney(tc.in))
		assert.True(t, MustMoney(tc.want).Equal(got), "%s -> %s, want %s", tc.in, got, tc.want)
	}
}

func TestNewMoneyFromFloat(t *testing.T) {
	m, err := NewMoneyFromFloat(99.5)
	require.NoError(t, err)
	assert.True(t, MustMoney("99.5").Equal(m))

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewMoneyFromFloat(f)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidAmount, appErr.Code)
	}
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(Zero()))
	assert.NoError(t, ValidateAmount(MustMoney("0.01")))
	assert.Error(t, ValidateAmount(MustMoney("-1")))

	assert.Error(t, ValidatePositiveAmount(Zero()))
	assert.NoError(t, ValidatePositiveAmount(MustMoney("0.01")))
	assert.Error(t, ValidatePositiveAmount(MustMoney("-0.01")))
}
