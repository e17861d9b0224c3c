package sio_test

import (
	"testing"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/memio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiReader(t *testing.T) {
	a := memio.NewReader()
	b := memio.NewReader()
	wopr := summary.Well("WOPR", "P1")
	fopt := summary.Field("FOPT")
	require.NoError(t, a.Put(wopr, "SM3/DAY", []int64{0, 10}, []float64{1, 2}))
	require.NoError(t, b.Put(wopr, "STB/DAY", []int64{0}, []float64{9}))
	require.NoError(t, b.Put(fopt, "SM3", []int64{0}, []float64{5}))

	r := sio.MultiReader(a, b)
	assert.Equal(t, []summary.Address{fopt, wopr}, r.AllResultAddresses())
	v, ok := r.Values(wopr)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2}, v)
	assert.Equal(t, "SM3/DAY", r.UnitName(wopr))
	assert.Equal(t, []int64{0}, r.TimeSteps(fopt))

	missing := summary.Well("WOPR", "P9")
	v, ok = r.Values(missing)
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Nil(t, r.TimeSteps(missing))
	assert.Equal(t, "", r.UnitName(missing))
	assert.False(t, r.HasAddress(missing))

	before := r.(sio.Versioned).Version()
	require.NoError(t, b.Put(fopt, "SM3", []int64{0}, []float64{6}))
	assert.Greater(t, r.(sio.Versioned).Version(), before)
}

func TestValuesIdempotent(t *testing.T) {
	r := memio.NewReader()
	a := summary.Well("WOPR", "P1")
	require.NoError(t, r.Put(a, "", []int64{0, 1}, []float64{1.5, 2.5}))
	v1, _ := r.Values(a)
	v1[0] = 100
	v2, _ := r.Values(a)
	v3, _ := r.Values(a)
	assert.Equal(t, v2, v3)
	assert.Equal(t, 1.5, v2[0])
}

func TestMatch(t *testing.T) {
	r := memio.NewReader()
	for _, a := range []summary.Address{
		summary.Well("WOPR", "P1"),
		summary.Well("WOPR", "P2"),
		summary.Well("WWPR", "P1"),
		summary.Field("FOPR"),
	} {
		require.NoError(t, r.Put(a, "", nil, nil))
	}
	hits, err := sio.Match(r, "W%PR:P1")
	require.NoError(t, err)
	assert.Equal(t, []summary.Address{summary.Well("WOPR", "P1"), summary.Well("WWPR", "P1")}, hits)

	hits, err = sio.Match(r, "WOPR:P_")
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = sio.Match(r, "")
	require.NoError(t, err)
	assert.Len(t, hits, 4)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "smspec", sio.FormatFromPath("/data/CASE.SMSPEC"))
	assert.Equal(t, "smspec", sio.FormatFromPath("CASE.FUNSMRY"))
	assert.Equal(t, "rsm", sio.FormatFromPath("case.rsm"))
	assert.Equal(t, "csv", sio.FormatFromPath("obs.csv"))
	assert.Equal(t, "", sio.FormatFromPath("notes.md"))
}
