package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds value half away from zero to the given number of decimal
// places. The value is rounded on its shortest decimal representation so
// that 4.365 becomes 4.37 regardless of binary representation error.
func Round(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}
