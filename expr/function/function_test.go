package function

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, name string, args ...[]float64) []float64 {
	t.Helper()
	f, err := New(name, len(args))
	require.NoError(t, err)
	v, err := f.Call(args)
	require.NoError(t, err)
	return v
}

func TestFunctions(t *testing.T) {
	assert.Equal(t, []float64{1, 2}, call(t, "abs", []float64{-1, 2}))
	assert.Equal(t, []float64{2}, call(t, "ceil", []float64{1.2}))
	assert.Equal(t, []float64{1}, call(t, "floor", []float64{1.8}))
	assert.Equal(t, []float64{2}, call(t, "log10", []float64{100}))
	assert.Equal(t, []float64{3}, call(t, "sqrt", []float64{9}))
	assert.Equal(t, []float64{2}, call(t, "round", []float64{1.5}))
	assert.Equal(t, []float64{1}, call(t, "min", []float64{3, 1, 2}))
	assert.Equal(t, []float64{1, 1}, call(t, "min", []float64{3, 1}, []float64{1}))
	assert.Equal(t, []float64{8}, call(t, "pow", []float64{2}, []float64{3}))
	assert.Equal(t, []float64{2}, call(t, "avg", []float64{1, math.NaN(), 3}))
	assert.True(t, math.IsNaN(call(t, "avg", []float64{math.NaN()})[0]))
}

func TestVectorFunctions(t *testing.T) {
	assert.Equal(t, []float64{-1, 0, 1}, call(t, "sgn", []float64{-3, 0, 2}))
	assert.Equal(t, []float64{1, -1}, call(t, "trunc", []float64{1.7, -1.7}))
	assert.InDelta(t, 0.25, call(t, "frac", []float64{2.25})[0], 1e-12)
	assert.Equal(t, []float64{1}, call(t, "sinc", []float64{0}))
	assert.InDelta(t, math.Pi, call(t, "deg2rad", []float64{180})[0], 1e-12)
	assert.InDelta(t, 90, call(t, "rad2deg", []float64{math.Pi / 2})[0], 1e-12)
	assert.InDelta(t, 100, call(t, "deg2grad", []float64{90})[0], 1e-12)
	assert.InDelta(t, 90, call(t, "grad2deg", []float64{100})[0], 1e-12)
	assert.InDelta(t, 1, call(t, "sec", []float64{0})[0], 1e-12)
	assert.InDelta(t, 1, call(t, "cot", []float64{math.Pi / 4})[0], 1e-12)
}

func TestArgCount(t *testing.T) {
	_, err := New("abs", 0)
	assert.ErrorIs(t, err, ErrTooFewArgs)
	_, err = New("sum", 2)
	assert.ErrorIs(t, err, ErrTooManyArgs)
	_, err = New("max", 5)
	assert.NoError(t, err)
	_, err = New("bogus", 1)
	assert.ErrorIs(t, err, ErrNoSuchFunction)
	f, err := New("min", 2)
	require.NoError(t, err)
	_, err = f.Call([][]float64{{1, 2}, {1, 2, 3}})
	assert.ErrorIs(t, err, ErrBadArgument)
}
