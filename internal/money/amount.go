package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/apperrors"
)

const (
	// Epsilon is the absolute tolerance used whenever two monetary totals
	// are compared. Shares are float derived, so exact equality never holds.
	Epsilon = 0.01

	// MaxAmount is the largest accepted expense amount.
	MaxAmount = 1_000_000_000
)

// ValidateAmount checks value against the amount rules for currencyCode and
// returns it unchanged on success.
func ValidateAmount(value float64, currencyCode string) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, apperrors.New(apperrors.InvalidAmount, "amount", "Amount must be greater than zero")
	}
	if value > MaxAmount {
		return 0, apperrors.New(apperrors.AmountTooLarge, "amount", "Amount is too large (maximum: 1 billion)")
	}

	d := decimal.NewFromFloat(value)
	if IsZeroDecimal(currencyCode) {
		if !d.IsInteger() {
			return 0, apperrors.New(apperrors.TooManyDecimals, "amount",
				"%s does not support decimal places", currencyCode)
		}
		return value, nil
	}
	if !d.Equal(d.Round(2)) {
		return 0, apperrors.New(apperrors.TooManyDecimals, "amount",
			"Amount cannot have more than 2 decimal places")
	}
	return value, nil
}

// AmountsMatch reports whether a and b are equal within Epsilon.
func AmountsMatch(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon+1e-9
}

// Round rounds value half away from zero to the currency's minor unit.
func Round(value float64, currencyCode string) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	return decimal.NewFromFloat(value).Round(Precision(currencyCode)).InexactFloat64()
}

// ToMinorUnits converts value to an integer count of the currency's minor
// unit (cents for USD, yen for JPY), rounding half away from zero.
func ToMinorUnits(value float64, currencyCode string) int64 {
	p := Precision(currencyCode)
	return decimal.NewFromFloat(value).Shift(p).Round(0).IntPart()
}

// FormatPlain renders value with two decimals, the form used in messages.
func FormatPlain(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

// Format renders value with the currency symbol and precision, e.g. "$12.50"
// or "-¥1200".
func Format(value float64, currencyCode string) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	return fmt.Sprintf("%s%s%s", sign, Symbol(currencyCode),
		decimal.NewFromFloat(value).StringFixed(Precision(currencyCode)))
}
