package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vyapari/internal/core/apperror"
)

func TestLookupRate_Heading(t *testing.T) {
	r, err := LookupRate("1905")
	require.NoError(t, err)
	assert.True(t, r.Equal(decimal.NewFromInt(18)))
}

func TestLookupRate_LongCodeResolvesHeading(t *testing.T) {
	// 8-digit classification resolves through its 4-digit heading
	r, err := LookupRate("19053100")
	require.NoError(t, err)
	assert.True(t, r.Equal(decimal.NewFromInt(18)))
}

func TestLookupRate_Unknown(t *testing.T) {
	for _, code := range []string{"", "   ", "4242", "00", "990199"} {
		_, err := LookupRate(code)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok, "code %q", code)
		assert.Equal(t, apperror.CodeUnknownHSNCode, appErr.Code)
	}
}

func TestKnownHSN(t *testing.T) {
	assert.True(t, KnownHSN("3401"))
	assert.False(t, KnownHSN("1234"))
}
