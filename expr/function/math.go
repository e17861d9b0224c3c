package function

import (
	"fmt"
	"math"

	"github.com/brimdata/summary/pkg/anymath"
)

// unary applies a float function to every element of its argument.
type unary func(float64) float64

func (u unary) Call(args [][]float64) ([]float64, error) {
	out := make([]float64, len(args[0]))
	for k, x := range args[0] {
		out[k] = u(x)
	}
	return out, nil
}

func sgn(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(x) / x
}

type Pow struct{}

func (*Pow) Call(args [][]float64) ([]float64, error) {
	return apply(math.Pow, args[0], args[1])
}

// reducer folds its single argument to a scalar, or with more than one
// argument combines them element by element.
type reducer struct {
	fn *anymath.Function
}

func (r *reducer) Call(args [][]float64) ([]float64, error) {
	if len(args) == 1 {
		return []float64{r.fn.Reduce(args[0])}, nil
	}
	result := args[0]
	for _, arg := range args[1:] {
		var err error
		if result, err = apply(r.fn.Float64, result, arg); err != nil {
			return nil, err
		}
	}
	return result, nil
}

type average struct{}

func (*average) Call(args [][]float64) ([]float64, error) {
	var n int
	for _, v := range args[0] {
		if !math.IsNaN(v) {
			n++
		}
	}
	if n == 0 {
		return []float64{math.NaN()}, nil
	}
	return []float64{anymath.Add.Reduce(args[0]) / float64(n)}, nil
}

func apply(fn func(float64, float64) float64, a, b []float64) ([]float64, error) {
	if len(a) != len(b) && len(a) != 1 && len(b) != 1 {
		return nil, fmt.Errorf("%w: vector lengths %d and %d", ErrBadArgument, len(a), len(b))
	}
	n := max(len(a), len(b))
	out := make([]float64, n)
	for k := range out {
		out[k] = fn(at(a, k), at(b, k))
	}
	return out, nil
}

func at(v []float64, k int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[k]
}
