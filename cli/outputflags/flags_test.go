package outputflags

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, dflt string, args ...string) *Flags {
	f := &Flags{DefaultFormat: dflt}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	require.NoError(t, f.Init())
	return f
}

func TestOutputFileExtension(t *testing.T) {
	assert.Equal(t, "out.parquet", parse(t, "parquet", "-o", "out").FileName())
	assert.Equal(t, "out.tsv", parse(t, "", "-f", "tsv", "-o", "out").FileName())
	assert.Equal(t, "out.txt", parse(t, "csv", "-o", "out.txt").FileName())
	assert.Equal(t, "", parse(t, "csv", "-o", "-").FileName())
}

func TestDefaultFormat(t *testing.T) {
	assert.Equal(t, "csv", parse(t, "").Format)
	assert.Equal(t, "arrows", parse(t, "arrows", "-B").Format)
}
