package ensemble

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/calc"
	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/anyio"
	"github.com/brimdata/summary/sio/memio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fopt = summary.Field("FOPT")

func realization(t *testing.T, times []int64, values []float64) *memio.Reader {
	r := memio.NewReader()
	require.NoError(t, r.Put(fopt, "SM3", times, values))
	return r
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for k := range 3 {
		path := filepath.Join(dir, fmt.Sprintf("real-%d.csv", k))
		body := fmt.Sprintf("DAYS,FOPT\n0,%d\n1,%d\n", k, 10*k)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		paths = append(paths, path)
	}
	paths = append(paths, filepath.Join(dir, "missing.csv"))

	core, logs := observer.New(zapcore.WarnLevel)
	progress := &Progress{}
	e, err := Load(t.Context(), storage.NewFileSystem(), "ens", paths, LoadOptions{
		Reader:      anyio.ReaderOpts{Origin: time.Unix(0, 0)},
		Concurrency: 2,
		Logger:      zap.New(core),
		Progress:    progress,
	})
	require.Error(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 1, logs.FilterMessage("case not loaded").Len())
	cases := e.Cases()
	require.Len(t, cases, 3)
	assert.Equal(t, "real-0", cases[0].Name)
	assert.Equal(t, []summary.Address{fopt}, e.Addresses())

	var buf bytes.Buffer
	assert.False(t, progress.Display(&buf))
	assert.Equal(t, "loaded 4/4 cases (1 failed)\n", buf.String())

	r, ok := e.Reader(cases[2].ID.String())
	require.True(t, ok)
	v, _ := r.Values(fopt)
	assert.Equal(t, []float64{2, 20}, v)
	_, ok = e.Reader("real-1")
	assert.True(t, ok)
	_, ok = e.Reader("nope")
	assert.False(t, ok)

	assert.True(t, e.Remove("real-1"))
	assert.False(t, e.Remove("real-1"))
	assert.Len(t, e.Cases(), 2)
	require.NoError(t, e.Close())
}

func TestCompute(t *testing.T) {
	readers := []sio.Reader{
		realization(t, []int64{0, 10}, []float64{1, 1}),
		realization(t, []int64{0, 10}, []float64{2, 2}),
		realization(t, []int64{0, 5, 10}, []float64{3, 3, 3}),
		realization(t, []int64{0}, []float64{4}),
		memio.NewReader(),
	}
	stats, err := Compute(readers, fopt)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 5, 10}, stats.Times)
	assert.Equal(t, []int{4, 3, 3}, stats.Count)
	assert.InDelta(t, 3.7, stats.P10[0], 1e-9)
	assert.InDelta(t, 2.5, stats.P50[0], 1e-9)
	assert.InDelta(t, 1.3, stats.P90[0], 1e-9)
	assert.Equal(t, 2.5, stats.Mean[0])
	assert.Equal(t, 2.0, stats.P50[1])
	assert.Equal(t, 2.0, stats.Mean[2])

	_, err = Compute(readers, summary.Field("FGPT"))
	assert.ErrorIs(t, err, ErrNoRealizations)
}

func TestStatsReader(t *testing.T) {
	e := New("ens",
		NewCase("a", "", realization(t, []int64{0, 10}, []float64{1, 3})),
		NewCase("b", "", realization(t, []int64{0, 10}, []float64{3, 5})),
	)
	r := NewStatsReader(e)
	mean := StatisticAddress(Mean, fopt)
	assert.Equal(t, "MEAN:FOPT", mean.Quantity)
	assert.Len(t, r.AllResultAddresses(), 4)
	assert.True(t, r.HasAddress(mean))
	assert.Equal(t, "SM3", r.UnitName(mean))
	v, ok := r.Values(mean)
	require.True(t, ok)
	assert.Equal(t, []float64{2, 4}, v)
	assert.Equal(t, []int64{0, 10}, r.TimeSteps(mean))

	e.Add(NewCase("c", "", realization(t, []int64{0, 10}, []float64{5, 7})))
	v, _ = r.Values(mean)
	assert.Equal(t, []float64{3, 5}, v, "recomputed after the ensemble changed")

	for _, a := range []summary.Address{fopt, StatisticAddress(P10, summary.Field("FGPT")), summary.EnsembleStatistics("P42:FOPT")} {
		assert.False(t, r.HasAddress(a))
		_, ok := r.Values(a)
		assert.False(t, ok)
	}

	stat, src, err := ParseStatisticAddress("P90:WOPR:P1")
	require.NoError(t, err)
	assert.Equal(t, P90, stat)
	assert.Equal(t, summary.Well("WOPR", "P1"), src)
}

func TestEnsembleResolvesCalculations(t *testing.T) {
	e := New("ens",
		NewCase("a", "", realization(t, []int64{0, 10}, []float64{1, 3})),
		NewCase("b", "", realization(t, []int64{0, 10}, []float64{3, 5})),
	)
	c, err := calc.New("twice := X * 2")
	require.NoError(t, err)
	require.NoError(t, c.Bind("X", calc.TargetCase, fopt))
	for _, id := range []string{"a", "b"} {
		_, err := c.Calculate(t.Context(), e, id)
		require.NoError(t, err)
	}
	res, ok := c.Result("b")
	require.True(t, ok)
	assert.Equal(t, []float64{6, 10}, res.Values)
}

func TestCaseName(t *testing.T) {
	assert.Equal(t, "NORNE", CaseName("/data/NORNE.SMSPEC"))
	assert.Equal(t, "run.1", CaseName("run.1"))
	assert.Equal(t, "user", CaseName("x/user.csv"))
}
