// Package money converts between currency units and integer cents, and
// renders cent amounts as Brazilian Real strings. All arithmetic in the
// application happens in cents; floats only appear at the JSON boundary.
package money

import (
	"errors"
	"math"
	"strconv"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ToCents converts a currency-unit value (e.g. 12.34) to cents with
// half-up rounding. Negative, NaN and infinite values are rejected.
func ToCents(units float64) (int64, error) {
	if math.IsNaN(units) || math.IsInf(units, 0) {
		return 0, ErrInvalidAmount
	}
	if units < 0 {
		return 0, ErrInvalidAmount
	}
	// int64 max is ~9.2e18, so anything above 9e16 units overflows in cents
	if units > 9e16 {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(units * 100.0)), nil
}

// ToUnits returns the currency-unit value of a cent amount for JSON output.
func ToUnits(cents int64) float64 {
	return float64(cents) / 100.0
}

// FormatBRL renders cents as a pt-BR currency string, e.g. "R$ 1.234,56".
// Grouping uses dots, the decimal separator is a comma.
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	units := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	// Insert a dot every three digits from the right.
	var grouped []byte
	for i, d := range []byte(units) {
		if i > 0 && (len(units)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	return sign + "R$ " + string(grouped) + "," + twoDigits(frac)
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
