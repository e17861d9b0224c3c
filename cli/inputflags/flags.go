package inputflags

import (
	"flag"
	"fmt"
	"time"

	"github.com/alecthomas/units"
	"github.com/araddon/dateparse"
	"github.com/brimdata/summary/sio/anyio"
	"github.com/pbnjay/memory"
)

// DefaultLazyThreshold is the data file size above which ECLIPSE cases are
// loaded on demand: an eighth of system memory, or 1GiB when the size
// of memory is unknown.
func DefaultLazyThreshold() int64 {
	if total := memory.TotalMemory(); total > 0 {
		return int64(total / 8)
	}
	return int64(units.GiB)
}

type Flags struct {
	ReaderOpts anyio.ReaderOpts
	lazy       string
	origin     string
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	opts := &f.ReaderOpts
	fs.StringVar(&opts.Format, "i", "auto", "format of input cases [auto,arrows,csv,parquet,rsm,smspec,tsv]")
	fs.StringVar(&f.lazy, "lazy", units.Base2Bytes(DefaultLazyThreshold()).String(),
		"load ECLIPSE data files larger than this on demand, as '512MiB' or '4GB', etc.")
	fs.BoolVar(&opts.SkipRestart, "norestart", false, "do not follow restart cases")
	fs.StringVar(&f.origin, "origin", "", "start date of text tables and user data with relative times")
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	lazy, err := units.ParseStrictBytes(f.lazy)
	if err != nil {
		return fmt.Errorf("invalid -lazy size: %w", err)
	}
	if lazy < 0 {
		return fmt.Errorf("invalid -lazy size: %s", f.lazy)
	}
	f.ReaderOpts.LazyThreshold = lazy
	if f.origin != "" {
		t, err := dateparse.ParseIn(f.origin, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid -origin date: %w", err)
		}
		f.ReaderOpts.Origin = t
	}
	return nil
}
