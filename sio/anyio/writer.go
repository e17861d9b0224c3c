package anyio

import (
	"fmt"
	"io"

	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/arrowio"
	"github.com/brimdata/summary/sio/parquetio"
	"github.com/brimdata/summary/sio/userio"
)

type WriterOpts struct {
	Format string
	CSV    userio.WriterOpts
}

func NewWriter(w io.WriteCloser, opts WriterOpts) (sio.WriteCloser, error) {
	switch opts.Format {
	case "arrows":
		return arrowio.NewWriter(w), nil
	case "csv", "":
		return newCSVWriter(w, opts.CSV)
	case "parquet":
		return parquetio.NewWriter(w), nil
	case "tsv":
		opts.CSV.Delim = '\t'
		return newCSVWriter(w, opts.CSV)
	}
	return nil, fmt.Errorf("unknown format: %s", opts.Format)
}

func newCSVWriter(w io.WriteCloser, opts userio.WriterOpts) (sio.WriteCloser, error) {
	cw, err := userio.NewWriter(w, opts)
	if err != nil {
		return nil, err
	}
	return cw, nil
}
