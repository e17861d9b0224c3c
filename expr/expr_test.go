package expr_test

import (
	"math"
	"testing"

	"github.com/brimdata/summary/expr"
	"github.com/brimdata/summary/expr/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, src string, vars map[string][]float64) []float64 {
	t.Helper()
	n, err := expr.Parse(src)
	require.NoError(t, err)
	v, err := expr.NewEvaluator(vars, function.New).Eval(n)
	require.NoError(t, err)
	return v
}

func TestPrecedence(t *testing.T) {
	cases := map[string]float64{
		"1 + 2 * 3":     7,
		"(1 + 2) * 3":   9,
		"2 ^ 3 ^ 2":     512,
		"-2 ^ 2":        -4,
		"2 ^ -1":        0.5,
		"10 - 4 - 3":    3,
		"8 / 4 / 2":     1,
		"-(1 - 3) * +2": 4,
		"1.5e1 + .5":    15.5,
	}
	for src, want := range cases {
		assert.Equal(t, []float64{want}, eval(t, src, nil), src)
	}
}

func TestVectors(t *testing.T) {
	vars := map[string][]float64{
		"WOPR_A": {1, 2, 3},
		"WOPR_B": {10, 20, 30},
	}
	assert.Equal(t, []float64{11, 22, 33}, eval(t, "WOPR_A + WOPR_B", vars))
	assert.Equal(t, []float64{2, 4, 6}, eval(t, "2 * WOPR_A", vars))
	assert.Equal(t, []float64{6, 6, 6}, eval(t, "sum(WOPR_A)", vars))
	assert.Equal(t, []float64{2, 2, 2}, eval(t, "avg(WOPR_A)", vars))
	assert.Equal(t, []float64{-1, 0, 1}, eval(t, "WOPR_A - avg(WOPR_A)", vars))
	assert.Equal(t, []float64{10, 20, 30}, eval(t, "max(WOPR_A, WOPR_B)", vars))
	assert.Equal(t, []float64{1, 4, 9}, eval(t, "pow(WOPR_A, 2)", vars))
	assert.Equal(t, []float64{7, 7, 7}, eval(t, "7", vars))
}

func TestVariables(t *testing.T) {
	n, err := expr.Parse("WOPR_B + sqrt(WOPR_A) * WOPR_B - max(X1, 2)")
	require.NoError(t, err)
	assert.Equal(t, []string{"WOPR_B", "WOPR_A", "X1"}, expr.Variables(n))
	n, err = expr.Parse("3 * 4")
	require.NoError(t, err)
	assert.Empty(t, expr.Variables(n))
}

func TestSyntaxErrors(t *testing.T) {
	for _, src := range []string{"", "1 +", "(1 + 2", "f(1,", "1 2", "a $ b", "a := b"} {
		_, err := expr.Parse(src)
		assert.ErrorIs(t, err, expr.ErrSyntax, src)
	}
}

func TestEvalErrors(t *testing.T) {
	run := func(src string, vars map[string][]float64) error {
		n, err := expr.Parse(src)
		require.NoError(t, err)
		_, err = expr.NewEvaluator(vars, function.New).Eval(n)
		return err
	}
	assert.ErrorIs(t, run("a + 1", nil), expr.ErrUnknownVariable)
	assert.ErrorIs(t, run("nope(1)", nil), function.ErrNoSuchFunction)
	assert.ErrorIs(t, run("sqrt(1, 2)", nil), function.ErrTooManyArgs)
	assert.ErrorIs(t, run("pow(1)", nil), function.ErrTooFewArgs)
	vars := map[string][]float64{"a": {1, 2}, "b": {1, 2, 3}}
	assert.ErrorIs(t, run("a + b", vars), expr.ErrLengthMismatch)
}

func TestNaN(t *testing.T) {
	v := eval(t, "a / b", map[string][]float64{"a": {1, 0}, "b": {0, 0}})
	assert.True(t, math.IsInf(v[0], 1))
	assert.True(t, math.IsNaN(v[1]))
}
