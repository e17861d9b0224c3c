package calcio

import (
	"testing"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/calc"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/memio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolver map[string]sio.Reader

func (r resolver) Reader(id string) (sio.Reader, bool) {
	reader, ok := r[id]
	return reader, ok
}

func TestReader(t *testing.T) {
	base := memio.NewReader()
	wopr := summary.Well("WOPR", "P1")
	require.NoError(t, base.Put(wopr, "SM3/DAY", []int64{0, 10}, []float64{1, 2}))
	coll := calc.NewCollection(resolver{"case": base}, nil)
	c, err := calc.New("double := X * 2")
	require.NoError(t, err)
	c.Unit = "SM3/DAY"
	coll.Add(c)
	require.NoError(t, coll.Bind(c.ID, "X", "case", wopr))

	r := NewReader(coll, "case")
	addr := summary.Calculated("double", c.ID)
	assert.False(t, r.HasAddress(addr), "not calculated yet")
	assert.Empty(t, r.AllResultAddresses())

	_, err = coll.Calculate(t.Context(), c.ID, "case")
	require.NoError(t, err)
	assert.Equal(t, []summary.Address{addr}, r.AllResultAddresses())
	v, ok := r.Values(addr)
	require.True(t, ok)
	assert.Equal(t, []float64{2, 4}, v)
	assert.Equal(t, []int64{0, 10}, r.TimeSteps(addr))
	assert.Equal(t, "SM3/DAY", r.UnitName(addr))

	for _, a := range []summary.Address{wopr, summary.Calculated("other", c.ID), summary.Calculated("double", 99), addr.WithError(true)} {
		v, ok := r.Values(a)
		assert.False(t, ok, a.UIText())
		assert.Nil(t, v)
		assert.Nil(t, r.TimeSteps(a))
		assert.Equal(t, "", r.UnitName(a))
	}
	assert.False(t, NewReader(coll, "elsewhere").HasAddress(addr))
}
