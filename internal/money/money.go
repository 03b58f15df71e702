// Package money implements minor-unit currency arithmetic for billing.
// All persisted monetary fields are int64 minor units (cents); rounding
// happens once, at the point of persistence or display, never on
// intermediate sums.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Epsilon is the settlement tolerance in minor units (0.01 currency unit).
const Epsilon int64 = 1

var ErrInvalidAmount = errors.New("invalid_amount")

// LineItem is a single billable line on an invoice.
type LineItem struct {
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

// SumItems totals line item prices. Any negative price invalidates the
// whole set.
func SumItems(items []LineItem) (int64, error) {
	var total int64
	for _, item := range items {
		if item.Price < 0 {
			return 0, ErrInvalidAmount
		}
		total += item.Price
	}
	return total, nil
}

// ComputeTax applies a percentage rate to a subtotal, rounding half-up to
// the nearest minor unit.
func ComputeTax(subtotal int64, ratePercent float64) (int64, error) {
	if subtotal < 0 {
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(ratePercent) || math.IsInf(ratePercent, 0) || ratePercent < 0 {
		return 0, ErrInvalidAmount
	}
	return RoundHalfUp(float64(subtotal) * ratePercent / 100), nil
}

// RoundHalfUp rounds a fractional minor-unit value to the nearest whole
// minor unit, halves away from zero.
func RoundHalfUp(v float64) int64 {
	if v >= 0 {
		return int64(math.Floor(v + 0.5))
	}
	return int64(math.Ceil(v - 0.5))
}

// FromDecimal converts a decimal currency value (e.g. 194.33) to minor
// units. Rejects NaN, infinities and negatives.
func FromDecimal(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidAmount
	}
	return RoundHalfUp(v * 100), nil
}

// ToDecimal converts minor units back to a decimal currency value.
func ToDecimal(v int64) float64 {
	return float64(v) / 100
}

// Format renders minor units as "CUR 1,234.56" without the thousands
// separator; used by renderers and PDF export.
func Format(amount int64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "MYR"
	}
	return fmt.Sprintf("%s %.2f", currency, ToDecimal(amount))
}
