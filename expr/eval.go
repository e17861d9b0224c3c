package expr

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrLengthMismatch  = errors.New("vector lengths differ")
)

// Function is a callable of the expression language.  Arguments and
// result follow the vector convention of the package.
type Function interface {
	Call(args [][]float64) ([]float64, error)
}

// Lookup resolves a function name and argument count to a Function.
type Lookup func(name string, narg int) (Function, error)

// Evaluator evaluates expressions over a set of bound variables.
type Evaluator struct {
	vars   map[string][]float64
	lookup Lookup
}

func NewEvaluator(vars map[string][]float64, lookup Lookup) *Evaluator {
	return &Evaluator{vars: vars, lookup: lookup}
}

// Eval evaluates n.  A scalar result is broadcast to the length of the
// longest bound variable.
func (e *Evaluator) Eval(n Node) ([]float64, error) {
	v, err := e.eval(n)
	if err != nil {
		return nil, err
	}
	length := 0
	for _, x := range e.vars {
		length = max(length, len(x))
	}
	if len(v) == 1 && length > 1 {
		return broadcast(v[0], length), nil
	}
	return v, nil
}

func broadcast(x float64, n int) []float64 {
	out := make([]float64, n)
	for k := range out {
		out[k] = x
	}
	return out
}

func (e *Evaluator) eval(n Node) ([]float64, error) {
	switch n := n.(type) {
	case *Number:
		return []float64{n.Value}, nil
	case *Ident:
		v, ok := e.vars[n.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, n.Name)
		}
		return v, nil
	case *Unary:
		v, err := e.eval(n.Operand)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(v))
		for k, x := range v {
			out[k] = -x
		}
		return out, nil
	case *Binary:
		lhs, err := e.eval(n.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := e.eval(n.RHS)
		if err != nil {
			return nil, err
		}
		return Apply(operator(n.Op), lhs, rhs)
	case *Call:
		if e.lookup == nil {
			return nil, fmt.Errorf("%s: no functions available", n.Name)
		}
		f, err := e.lookup(n.Name, len(n.Args))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Name, err)
		}
		args := make([][]float64, len(n.Args))
		for k, a := range n.Args {
			if args[k], err = e.eval(a); err != nil {
				return nil, err
			}
		}
		v, err := f.Call(args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Name, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown expression node %T", n)
}

func operator(op string) func(float64, float64) float64 {
	switch op {
	case "+":
		return func(a, b float64) float64 { return a + b }
	case "-":
		return func(a, b float64) float64 { return a - b }
	case "*":
		return func(a, b float64) float64 { return a * b }
	case "/":
		return func(a, b float64) float64 { return a / b }
	}
	return math.Pow
}

// Apply combines two vectors element by element, broadcasting a vector
// of length one against the other.
func Apply(fn func(float64, float64) float64, a, b []float64) ([]float64, error) {
	n := len(a)
	switch {
	case len(a) == len(b):
	case len(a) == 1:
		n = len(b)
	case len(b) == 1:
	default:
		return nil, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(a), len(b))
	}
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
