package anymath

import "math"

type Float64 func(float64, float64) float64

type Function struct {
	Init float64
	Float64
}

var Min = &Function{
	Init:    math.Inf(1),
	Float64: func(a, b float64) float64 { return min(a, b) },
}

var Max = &Function{
	Init:    math.Inf(-1),
	Float64: func(a, b float64) float64 { return max(a, b) },
}

var Add = &Function{
	Float64: func(a, b float64) float64 { return a + b },
}

var Mul = &Function{
	Init:    1,
	Float64: func(a, b float64) float64 { return a * b },
}

// Reduce folds values with f starting from f.Init.  NaN values are
// skipped.
func (f *Function) Reduce(values []float64) float64 {
	result := f.Init
	for _, v := range values {
		if !math.IsNaN(v) {
			result = f.Float64(result, v)
		}
	}
	return result
}
