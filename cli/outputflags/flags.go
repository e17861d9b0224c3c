package outputflags

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/anyio"
	"golang.org/x/term"
)

type Flags struct {
	anyio.WriterOpts
	DefaultFormat string
	forceBinary   bool
	outputFile    string
}

func (f *Flags) Options() anyio.WriterOpts {
	return f.WriterOpts
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	if f.DefaultFormat == "" {
		f.DefaultFormat = "csv"
	}
	fs.StringVar(&f.Format, "f", f.DefaultFormat, "format for output data [arrows,csv,parquet,tsv]")
	fs.BoolVar(&f.forceBinary, "B", false, "allow binary output to be sent to a terminal")
	fs.StringVar(&f.outputFile, "o", "", "write data to output file (the format's extension is added if it has none)")
	fs.StringVar(&f.CSV.TimeFormat, "timefmt", "", "strftime pattern for the DATE column of csv and tsv output")
	fs.BoolVar(&f.CSV.Units, "units", false, "add a UNITS row to csv and tsv output")
}

func (f *Flags) Init() error {
	if f.outputFile == "-" {
		f.outputFile = ""
	}
	if f.outputFile != "" && filepath.Ext(f.outputFile) == "" {
		f.outputFile += sio.Extension(f.Format)
	}
	switch f.Format {
	case "arrows", "parquet":
		if f.outputFile == "" && !f.forceBinary && term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("writing binary output to a terminal; use -o or -B")
		}
	}
	return nil
}

func (f *Flags) FileName() string {
	return f.outputFile
}

// Open returns a writer to the output file, or to standard output if no
// file was named.
func (f *Flags) Open(ctx context.Context, engine storage.Engine) (sio.WriteCloser, error) {
	if f.outputFile == "" {
		return anyio.NewWriter(sio.NopCloser(os.Stdout), f.WriterOpts)
	}
	w, err := engine.Put(ctx, f.outputFile)
	if err != nil {
		return nil, err
	}
	sw, err := anyio.NewWriter(w, f.WriterOpts)
	if err != nil {
		w.Close()
		return nil, err
	}
	return sw, nil
}
