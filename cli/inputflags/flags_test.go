package inputflags

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"-lazy", "2MiB", "-origin", "2020-01-15", "-i", "rsm"}))
	require.NoError(t, f.Init())
	assert.EqualValues(t, 2<<20, f.ReaderOpts.LazyThreshold)
	assert.Equal(t, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), f.ReaderOpts.Origin)
	assert.Equal(t, "rsm", f.ReaderOpts.Format)

	f = Flags{}
	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"-lazy", "lots"}))
	assert.Error(t, f.Init())
}

func TestDefaultLazyThreshold(t *testing.T) {
	assert.Positive(t, DefaultLazyThreshold())
}
