package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/types"
)

func rate(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCompute_ExclusiveIntra(t *testing.T) {
	// 18% on 200 exclusive: taxable 200, tax 36, total 236
	b, err := Compute(types.MustMoney("200"), rate(18), Config{Mode: ModeExclusive, Jurisdiction: JurisdictionIntra})
	require.NoError(t, err)

	assert.True(t, b.TaxableValue.Equal(types.MustMoney("200")), "taxable = %s", b.TaxableValue)
	assert.True(t, b.TaxAmount.Equal(types.MustMoney("36")), "tax = %s", b.TaxAmount)
	assert.True(t, b.Total.Equal(types.MustMoney("236")), "total = %s", b.Total)
	assert.True(t, b.CGST.Equal(types.MustMoney("18")))
	assert.True(t, b.SGST.Equal(types.MustMoney("18")))
	assert.True(t, b.IGST.IsZero())
}

func TestCompute_InclusiveIntra(t *testing.T) {
	// gross 236 inclusive of 18%: taxable 200.00, tax 36.00
	b, err := Compute(types.MustMoney("236"), rate(18), Config{Mode: ModeInclusive, Jurisdiction: JurisdictionIntra})
	require.NoError(t, err)

	assert.True(t, b.TaxableValue.Equal(types.MustMoney("200.00")), "taxable = %s", b.TaxableValue)
	assert.True(t, b.TaxAmount.Equal(types.MustMoney("36.00")), "tax = %s", b.TaxAmount)
	assert.True(t, b.Total.Equal(types.MustMoney("236")))
}

func TestCompute_InclusiveSumsBackExactly(t *testing.T) {
	// Awkward gross values must still satisfy taxable + tax == input exactly.
	cfg := Config{Mode: ModeInclusive, Jurisdiction: JurisdictionIntra}
	for _, gross := range []string{"99.99", "100.01", "0.01", "123.45", "777.77"} {
		b, err := Compute(types.MustMoney(gross), rate(18), cfg)
		require.NoError(t, err, gross)
		assert.True(t, b.TaxableValue.Add(b.TaxAmount).Equal(types.MustMoney(gross)),
			"gross %s: %s + %s", gross, b.TaxableValue, b.TaxAmount)
	}
}

func TestCompute_ExclusiveGrossRoundTrip(t *testing.T) {
	cfg := Config{Mode: ModeExclusive, Jurisdiction: JurisdictionIntra}
	for _, amount := range []string{"100", "99.99", "1.33", "450.50"} {
		b, err := Compute(types.MustMoney(amount), rate(12), cfg)
		require.NoError(t, err, amount)
		assert.True(t, b.Total.Equal(b.TaxableValue.Add(b.TaxAmount)))
		// Re-derived gross differs from taxable*(1+r) by at most half a paisa.
		exact := types.MustMoney(amount).Mul(decimal.NewFromFloat(1.12))
		diff := b.Total.Sub(exact).Abs()
		assert.True(t, diff.LessThanOrEqual(types.MustMoney("0.005")), "diff %s", diff)
	}
}

func TestCompute_InterStateSplit(t *testing.T) {
	b, err := Compute(types.MustMoney("500"), rate(18), Config{Mode: ModeExclusive, Jurisdiction: JurisdictionInter})
	require.NoError(t, err)

	assert.True(t, b.IGST.Equal(b.TaxAmount))
	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
}

func TestCompute_SplitComponentsAlwaysSum(t *testing.T) {
	// Odd-paisa tax amounts cannot split evenly; the components must still
	// sum to the tax amount.
	b, err := Compute(types.MustMoney("200.10"), rate(18), Config{Mode: ModeExclusive, Jurisdiction: JurisdictionIntra})
	require.NoError(t, err)

	assert.True(t, b.CGST.Add(b.SGST).Equal(b.TaxAmount),
		"cgst %s + sgst %s != tax %s", b.CGST, b.SGST, b.TaxAmount)
}

func TestCompute_ZeroRate(t *testing.T) {
	for _, mode := range []Mode{ModeExclusive, ModeInclusive} {
		b, err := Compute(types.MustMoney("150"), rate(0), Config{Mode: mode, Jurisdiction: JurisdictionIntra})
		require.NoError(t, err)
		assert.True(t, b.TaxAmount.IsZero())
		assert.True(t, b.TaxableValue.Equal(types.MustMoney("150")))
		assert.True(t, b.Total.Equal(types.MustMoney("150")))
	}
}

func TestCompute_RejectsNegativeInputs(t *testing.T) {
	cfg := DefaultConfig()

	_, err := Compute(types.MustMoney("-1"), rate(18), cfg)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidAmount, appErr.Code)

	_, err = Compute(types.MustMoney("100"), rate(-5), cfg)
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidAmount, appErr.Code)
}

func TestCompute_RejectsUnknownConfig(t *testing.T) {
	_, err := Compute(types.MustMoney("100"), rate(18), Config{Mode: "half-inclusive", Jurisdiction: JurisdictionIntra})
	assert.Error(t, err)

	_, err = Compute(types.MustMoney("100"), rate(18), Config{Mode: ModeExclusive, Jurisdiction: "offshore"})
	assert.Error(t, err)
}

func TestComputeForHSN(t *testing.T) {
	// soap heading carries 18%
	b, err := ComputeForHSN(types.MustMoney("100"), "3401", DefaultConfig())
	require.NoError(t, err)
	assert.True(t, b.TaxAmount.Equal(types.MustMoney("18")))

	_, err = ComputeForHSN(types.MustMoney("100"), "9999", DefaultConfig())
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnknownHSNCode, appErr.Code)
}
