package anymath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduce(t *testing.T) {
	values := []float64{3, math.NaN(), -1, 4}
	assert.Equal(t, -1.0, Min.Reduce(values))
	assert.Equal(t, 4.0, Max.Reduce(values))
	assert.Equal(t, 6.0, Add.Reduce(values))
	assert.Equal(t, -12.0, Mul.Reduce(values))
	assert.True(t, math.IsInf(Min.Reduce(nil), 1))
}
