// Package function implements the built-in functions of the expression
// language.
package function

import (
	"errors"
	"math"

	"github.com/brimdata/summary/expr"
	"github.com/brimdata/summary/pkg/anymath"
)

var (
	ErrBadArgument    = errors.New("bad argument")
	ErrNoSuchFunction = errors.New("no such function")
	ErrTooFewArgs     = errors.New("too few arguments")
	ErrTooManyArgs    = errors.New("too many arguments")
)

// New returns the function called name with narg arguments.  It has the
// signature of expr.Lookup.
func New(name string, narg int) (expr.Function, error) {
	argmin := 1
	argmax := 1
	var f expr.Function
	switch name {
	case "abs":
		f = unary(math.Abs)
	case "acos":
		f = unary(math.Acos)
	case "acosh":
		f = unary(math.Acosh)
	case "asin":
		f = unary(math.Asin)
	case "asinh":
		f = unary(math.Asinh)
	case "atan":
		f = unary(math.Atan)
	case "atanh":
		f = unary(math.Atanh)
	case "avg":
		f = &average{}
	case "ceil":
		f = unary(math.Ceil)
	case "cos":
		f = unary(math.Cos)
	case "cosh":
		f = unary(math.Cosh)
	case "cot":
		f = unary(func(x float64) float64 { return 1 / math.Tan(x) })
	case "csc":
		f = unary(func(x float64) float64 { return 1 / math.Sin(x) })
	case "deg2grad":
		f = unary(func(x float64) float64 { return x * 10 / 9 })
	case "deg2rad":
		f = unary(func(x float64) float64 { return x * math.Pi / 180 })
	case "exp":
		f = unary(math.Exp)
	case "floor":
		f = unary(math.Floor)
	case "frac":
		f = unary(func(x float64) float64 {
			_, frac := math.Modf(x)
			return frac
		})
	case "grad2deg":
		f = unary(func(x float64) float64 { return x * 9 / 10 })
	case "log":
		f = unary(math.Log)
	case "log10":
		f = unary(math.Log10)
	case "max":
		argmax = -1
		f = &reducer{fn: anymath.Max}
	case "min":
		argmax = -1
		f = &reducer{fn: anymath.Min}
	case "pow":
		argmin, argmax = 2, 2
		f = &Pow{}
	case "rad2deg":
		f = unary(func(x float64) float64 { return x * 180 / math.Pi })
	case "round":
		f = unary(math.Round)
	case "sec":
		f = unary(func(x float64) float64 { return 1 / math.Cos(x) })
	case "sgn":
		f = unary(sgn)
	case "sin":
		f = unary(math.Sin)
	case "sinc":
		f = unary(sinc)
	case "sinh":
		f = unary(math.Sinh)
	case "sqrt":
		f = unary(math.Sqrt)
	case "sum":
		f = &reducer{fn: anymath.Add}
	case "tan":
		f = unary(math.Tan)
	case "tanh":
		f = unary(math.Tanh)
	case "trunc":
		f = unary(math.Trunc)
	default:
		return nil, ErrNoSuchFunction
	}
	if err := CheckArgCount(narg, argmin, argmax); err != nil {
		return nil, err
	}
	return f, nil
}

func CheckArgCount(narg int, argmin int, argmax int) error {
	if argmin != -1 && narg < argmin {
		return ErrTooFewArgs
	}
	if argmax != -1 && narg > argmax {
		return ErrTooManyArgs
	}
	return nil
}
