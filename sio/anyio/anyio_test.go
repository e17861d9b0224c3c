package anyio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/sio/memio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	cases := map[string]string{
		"PAR1....":                   "parquet",
		"\xff\xff\xff\xff\x10\x00":   "arrows",
		"\x00\x00\x00\x10KEYWORDS":   "smspec",
		" 'DIMENS  '           6 'INTE'": "smspec",
		"DATE,WOPR:P1\n2020-01-01,1": "csv",
		"DAYS\tFOPT\n0\t1":           "tsv",
		"TIME  WOPR\nDAYS  SM3\n0 1": "rsm",
	}
	for in, want := range cases {
		got, err := Detect([]byte(in))
		require.NoError(t, err)
		assert.Equal(t, want, got, "%q", in)
	}
	_, err := Detect(nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestOpenText(t *testing.T) {
	dir := t.TempDir()
	origin := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rsm := filepath.Join(dir, "case.dat")
	require.NoError(t, os.WriteFile(rsm, []byte("TIME  WOPR\nDAYS  SM3/DAY\n      P1\n0.0  100.0\n1.0  95.0\n"), 0o644))
	csv := filepath.Join(dir, "user.csv")
	require.NoError(t, os.WriteFile(csv, []byte("DAYS,FOPT\n0,1\n2,3\n"), 0o644))

	engine := storage.NewFileSystem()
	opts := ReaderOpts{Origin: origin}
	r, err := Open(t.Context(), engine, rsm, opts)
	require.NoError(t, err)
	v, ok := r.Values(summary.Well("WOPR", "P1"))
	require.True(t, ok)
	assert.Equal(t, []float64{100, 95}, v)
	require.NoError(t, r.Close())

	r, err = Open(t.Context(), engine, csv, opts)
	require.NoError(t, err)
	assert.Equal(t, []int64{origin.Unix(), origin.Unix() + 2*86400}, r.TimeSteps(summary.Field("FOPT")))

	_, err = Open(t.Context(), engine, csv, ReaderOpts{Format: "bogus"})
	assert.ErrorContains(t, err, "no such format")
}

func TestWriteAndOpen(t *testing.T) {
	src := memio.NewReader()
	fopt := summary.Field("FOPT")
	require.NoError(t, src.Put(fopt, "SM3", []int64{0, 60}, []float64{1, 2}))
	engine := storage.NewFileSystem()
	for _, format := range []string{"arrows", "parquet", "csv"} {
		path := filepath.Join(t.TempDir(), "out."+format)
		f, err := engine.Put(t.Context(), path)
		require.NoError(t, err)
		w, err := NewWriter(f, WriterOpts{Format: format})
		require.NoError(t, err)
		require.NoError(t, w.Write(src, []summary.Address{fopt}))
		require.NoError(t, w.Close())

		r, err := Open(t.Context(), engine, path, ReaderOpts{})
		require.NoError(t, err, format)
		v, ok := r.Values(fopt)
		require.True(t, ok, format)
		assert.Equal(t, []float64{1, 2}, v, format)
		assert.Equal(t, []int64{0, 60}, r.TimeSteps(fopt), format)
		require.NoError(t, r.Close())
	}
	_, err := NewWriter(nil, WriterOpts{Format: "bogus"})
	assert.Error(t, err)
}
