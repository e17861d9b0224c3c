// Package parquetio reads and writes summary vectors as Parquet files
// using the table layout of package arrowio.
package parquetio

import (
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/brimdata/summary"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/arrowio"
)

type Writer struct {
	*arrowio.Writer
}

func NewWriter(wc io.WriteCloser) *Writer {
	w := arrowio.NewWriter(wc)
	w.NewWriterFunc = func(w io.Writer, s *arrow.Schema) (arrowio.WriteCloser, error) {
		props := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
		fw, err := pqarrow.NewFileWriter(s, sio.NopCloser(w), nil, props)
		if err != nil {
			return nil, fmt.Errorf("parquetio: %w", err)
		}
		return fw, nil
	}
	return &Writer{w}
}

func (w *Writer) Write(r sio.Reader, addrs []summary.Address) error {
	if err := w.Writer.Write(r, addrs); err != nil {
		return parquetioError{err}
	}
	return nil
}

type parquetioError struct {
	err error
}

func (p parquetioError) Error() string {
	return "parquetio: " + strings.TrimPrefix(p.err.Error(), "arrowio: ")
}

func (p parquetioError) Unwrap() error { return p.err }
