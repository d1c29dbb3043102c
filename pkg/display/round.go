// Package display turns model values into the text shown to operators.
package display

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds n to precision decimal digits, halves away from zero. It is
// round(n * 10^p) / 10^p evaluated on the shortest decimal form of n, so
// Round(2.345, 2) is 2.35 (math.Round(2.345*100)/100 gives 2.34).
//
// NaN and infinities are returned unchanged. A negative precision rounds to
// tens, hundreds and so on.
func Round(n float64, precision int) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return n
	}
	f, _ := decimal.NewFromFloat(n).Round(int32(precision)).Float64()
	return f
}
