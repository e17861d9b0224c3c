// Package arrowio reads and writes summary vectors in the Arrow IPC
// stream format.  A table has a TIME column of type timestamp[s]
// followed by one nullable float64 column per vector, named by its
// text address and carrying its unit in the field metadata.
package arrowio

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/brimdata/summary"
	"github.com/brimdata/summary/pkg/align"
	"github.com/brimdata/summary/sio"
)

const (
	TimeColumn = "TIME"
	unitKey    = "unit"
)

var (
	ErrNoVectors      = errors.New("arrowio: no vectors to write")
	ErrSchemaMismatch = errors.New("arrowio: vectors differ from those already written")
)

// WriteCloser is implemented by ipc.Writer and pqarrow.FileWriter.
type WriteCloser interface {
	Write(arrow.Record) error
	Close() error
}

// Writer is a sio.Writer for the Arrow IPC stream format.  Vectors are
// written on the union of their time axes with nulls where a vector has
// no sample.
type Writer struct {
	NewWriterFunc func(io.Writer, *arrow.Schema) (WriteCloser, error)

	w       io.WriteCloser
	writer  WriteCloser
	builder *array.RecordBuilder
	names   []string
}

func NewWriter(w io.WriteCloser) *Writer {
	return &Writer{
		NewWriterFunc: func(w io.Writer, s *arrow.Schema) (WriteCloser, error) {
			return ipc.NewWriter(w, ipc.WithSchema(s)), nil
		},
		w: w,
	}
}

func (w *Writer) Close() error {
	var err error
	if w.writer != nil {
		err = w.flush(1)
		w.builder.Release()
		if err2 := w.writer.Close(); err == nil {
			err = err2
		}
		w.writer = nil
	}
	if err2 := w.w.Close(); err == nil {
		err = err2
	}
	return err
}

const recordBatchSize = 1024

type column struct {
	times  []int64
	values []float64
}

func (w *Writer) Write(r sio.Reader, addrs []summary.Address) error {
	var fields []arrow.Field
	var cols []column
	var names []string
	for _, a := range addrs {
		values, ok := r.Values(a)
		if !ok {
			continue
		}
		name := a.TextAddress()
		fields = append(fields, arrow.Field{
			Name:     name,
			Type:     arrow.PrimitiveTypes.Float64,
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{unitKey}, []string{r.UnitName(a)}),
		})
		cols = append(cols, column{r.TimeSteps(a), values})
		names = append(names, name)
	}
	if len(cols) == 0 {
		return ErrNoVectors
	}
	if w.writer == nil {
		fields = append([]arrow.Field{{Name: TimeColumn, Type: arrow.FixedWidthTypes.Timestamp_s}}, fields...)
		schema := arrow.NewSchema(fields, nil)
		writer, err := w.NewWriterFunc(w.w, schema)
		if err != nil {
			return err
		}
		w.writer = writer
		w.builder = array.NewRecordBuilder(memory.DefaultAllocator, schema)
		w.builder.Reserve(recordBatchSize)
		w.names = names
	} else if !slices.Equal(w.names, names) {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, names)
	}
	axes := make([][]int64, len(cols))
	for k, c := range cols {
		axes[k] = c.times
	}
	cursor := make([]int, len(cols))
	for _, t := range align.Union(axes...) {
		w.builder.Field(0).(*array.TimestampBuilder).Append(arrow.Timestamp(t))
		for k, c := range cols {
			b := w.builder.Field(k + 1).(*array.Float64Builder)
			i := cursor[k]
			for i < len(c.times) && c.times[i] < t {
				i++
			}
			cursor[k] = i
			if i < len(c.times) && c.times[i] == t && i < len(c.values) {
				b.Append(c.values[i])
			} else {
				b.AppendNull()
			}
		}
		if err := w.flush(recordBatchSize); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) flush(min int) error {
	if w.builder.Field(0).Len() < min {
		return nil
	}
	rec := w.builder.NewRecord()
	defer rec.Release()
	w.builder.Reserve(recordBatchSize)
	return w.writer.Write(rec)
}
