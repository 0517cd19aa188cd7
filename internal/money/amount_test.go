package money

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsmart/internal/apperrors"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    float64
		currency string
		wantErr  *apperrors.Error
	}{
		{name: "two decimals USD", value: 12.34, currency: "USD"},
		{name: "integer USD", value: 100, currency: "USD"},
		{name: "one decimal EUR", value: 0.5, currency: "EUR"},
		{name: "integer JPY", value: 100, currency: "JPY"},
		{name: "at max", value: MaxAmount, currency: "USD"},
		{name: "three decimals USD", value: 100.001, currency: "USD", wantErr: apperrors.ErrTooManyDecimals},
		{name: "fraction JPY", value: 100.5, currency: "JPY", wantErr: apperrors.ErrTooManyDecimals},
		{name: "fraction KRW", value: 0.1, currency: "KRW", wantErr: apperrors.ErrTooManyDecimals},
		{name: "zero", value: 0, currency: "USD", wantErr: apperrors.ErrInvalidAmount},
		{name: "negative", value: -5, currency: "USD", wantErr: apperrors.ErrInvalidAmount},
		{name: "NaN", value: math.NaN(), currency: "USD", wantErr: apperrors.ErrInvalidAmount},
		{name: "over max", value: MaxAmount + 1, currency: "USD", wantErr: apperrors.ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ValidateAmount(tt.value, tt.currency)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestAmountsMatch(t *testing.T) {
	t.Parallel()

	assert.True(t, AmountsMatch(100, 100))
	assert.True(t, AmountsMatch(100, 99.99))
	assert.True(t, AmountsMatch(33.333333*3, 100))
	assert.False(t, AmountsMatch(100, 99.98))
	assert.False(t, AmountsMatch(80, 100))
}

func TestIsZeroDecimal(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"JPY", "KRW", "VND", "IDR", "jpy"} {
		assert.True(t, IsZeroDecimal(code), code)
	}
	for _, code := range []string{"USD", "EUR", "GBP", ""} {
		assert.False(t, IsZeroDecimal(code), code)
	}
}

func TestRoundAndFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 33.33, Round(100.0/3, "USD"))
	assert.Equal(t, 1.01, Round(1.005, "USD"))
	assert.Equal(t, 1235.0, Round(1234.5, "JPY"))

	assert.Equal(t, "$12.50", Format(12.5, "USD"))
	assert.Equal(t, "-€3.00", Format(-3, "EUR"))
	assert.Equal(t, "¥1200", Format(1200, "JPY"))
	assert.Equal(t, "80.00", FormatPlain(80))
}

func TestMinorUnits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1234), ToMinorUnits(12.34, "USD"))
	assert.Equal(t, int64(500), ToMinorUnits(500, "JPY"))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	c, ok := Lookup("usd")
	require.True(t, ok)
	assert.Equal(t, "$", c.Symbol)

	_, ok = Lookup("XXX")
	assert.False(t, ok)
	assert.Equal(t, "XXX", Symbol("XXX"))
	assert.Len(t, Currencies(), len(currencies))
}
