package userio

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/sio/memio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var origin = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func TestReaderDays(t *testing.T) {
	const text = `DAYS,WOPR:P1,FOPT
UNITS,SM3/DAY,SM3
0,1.5,10
2,,20
`
	r, err := NewReader(strings.NewReader(text), Options{Origin: origin})
	require.NoError(t, err)
	wopr := summary.Well("WOPR", "P1")
	fopt := summary.Field("FOPT")
	assert.Equal(t, []summary.Address{fopt, wopr}, r.AllResultAddresses())
	assert.Equal(t, []int64{origin.Unix(), origin.Unix() + 172800}, r.TimeSteps(wopr))
	v, ok := r.Values(wopr)
	require.True(t, ok)
	require.Len(t, v, 2)
	assert.Equal(t, 1.5, v[0])
	assert.True(t, math.IsNaN(v[1]))
	assert.Equal(t, "SM3", r.UnitName(fopt))
	assert.Nil(t, r.TimeSteps(summary.Field("FOPR")))
}

func TestReaderErrors(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), Options{})
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = NewReader(strings.NewReader("WOPR:P1\n1\n"), Options{})
	assert.ErrorIs(t, err, ErrNoTimeColumn)
	_, err = NewReader(strings.NewReader("DATE,BPR:1,2\n2020-01-01,1\n"), Options{})
	assert.Error(t, err)
}

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }

func TestWriterRoundTrip(t *testing.T) {
	src := memio.NewReader()
	wopr := summary.Well("WOPR", "P1")
	bpr := summary.Block("BPR", 1, 2, 3)
	times := []int64{origin.Unix(), origin.Add(36 * time.Hour).Unix()}
	require.NoError(t, src.Put(wopr, "SM3/DAY", times, []float64{1, 2.25}))
	require.NoError(t, src.Put(bpr, "BARSA", times, []float64{200, 199}))

	var buf bytes.Buffer
	w, err := NewWriter(nopCloser{&buf}, WriterOpts{Units: true})
	require.NoError(t, err)
	require.NoError(t, w.Write(src, []summary.Address{wopr, bpr, summary.Field("FOPT")}))
	require.NoError(t, w.Close())
	assert.Equal(t, `DATE,WOPR:P1,"BPR:1,2,3"
UNITS,SM3/DAY,BARSA
2020-01-01T00:00:00,1,200
2020-01-02T12:00:00,2.25,199
`, buf.String())

	r, err := NewReader(strings.NewReader(buf.String()), Options{})
	require.NoError(t, err)
	assert.Equal(t, times, r.TimeSteps(bpr))
	v, ok := r.Values(wopr)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2.25}, v)
	assert.Equal(t, "BARSA", r.UnitName(bpr))
}

func TestWriterMixedAxes(t *testing.T) {
	src := memio.NewReader()
	require.NoError(t, src.Put(summary.Field("FOPT"), "", []int64{0}, []float64{1}))
	require.NoError(t, src.Put(summary.Field("FWPT"), "", []int64{1}, []float64{1}))
	w, err := NewWriter(nopCloser{&bytes.Buffer{}}, WriterOpts{})
	require.NoError(t, err)
	assert.ErrorIs(t, w.Write(src, []summary.Address{summary.Field("FOPT"), summary.Field("FWPT")}), ErrNotDataFrame)
}
