package align

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnion(t *testing.T) {
	assert.Equal(t, []int64{0, 1, 2, 5}, Union([]int64{0, 2}, []int64{1, 2, 5}, nil))
	assert.Nil(t, Union())
}

func TestAt(t *testing.T) {
	s := Series[float64]{Times: []int64{10, 20, 40}, Values: []float64{1, 2, math.NaN()}}
	v, valid := At(s, []int64{0, 10, 15, 20, 30, 40, 50})
	assert.Equal(t, []uint32{1, 2, 3}, valid.ToArray())
	assert.Equal(t, 1.0, v[1])
	assert.Equal(t, 1.5, v[2])
	assert.Equal(t, 2.0, v[3])
	for _, k := range []int{0, 4, 5, 6} {
		assert.True(t, math.IsNaN(v[k]), "position %d", k)
	}
}

func TestAlignCommon(t *testing.T) {
	a := Series[float64]{Times: []int64{0, 1, 2}, Values: []float64{1, 2, 3}}
	b := Series[float64]{Times: []int64{0, 2}, Values: []float64{10, 30}}
	times, values := Align(Common, a, b)
	assert.Equal(t, []int64{0, 2}, times)
	require.Len(t, values, 2)
	assert.Equal(t, []float64{1, 3}, values[0])
	assert.Equal(t, []float64{10, 30}, values[1])
}

func TestAlignInterpolate(t *testing.T) {
	a := Series[float32]{Times: []int64{0, 1, 2, 3}, Values: []float32{1, 2, 3, 4}}
	b := Series[float32]{Times: []int64{1, 3, 5}, Values: []float32{10, 30, 50}}
	times, values := Align(Interpolate, a, b)
	assert.Equal(t, []int64{1, 2, 3}, times)
	assert.Equal(t, []float32{2, 3, 4}, values[0])
	assert.Equal(t, []float32{10, 20, 30}, values[1])
}

func TestAlignDisjoint(t *testing.T) {
	a := Series[float64]{Times: []int64{0, 1}, Values: []float64{1, 2}}
	b := Series[float64]{Times: []int64{5, 6}, Values: []float64{1, 2}}
	times, values := Align(Interpolate, a, b)
	assert.Nil(t, times)
	assert.Nil(t, values)
}

func TestAlignSingle(t *testing.T) {
	a := Series[float64]{Times: []int64{0, 1}, Values: []float64{1, 2}}
	times, values := Align(Common, a)
	assert.Equal(t, []int64{0, 1}, times)
	assert.Equal(t, [][]float64{{1, 2}}, values)
}
