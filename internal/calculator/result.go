package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Result is an indicator value tagged with whether the series held enough
// history to compute it. When Sufficient is false, Value holds the neutral default.
type Result[T any] struct {
	Value      T
	Sufficient bool
}

func computed[T any](v T) Result[T] { return Result[T]{Value: v, Sufficient: true} }

func neutral[T any](v T) Result[T] { return Result[T]{Value: v} }

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
