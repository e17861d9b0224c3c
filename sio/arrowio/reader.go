package arrowio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/brimdata/summary"
	"github.com/brimdata/summary/sio/memio"
)

var ErrNoTimeColumn = errors.New("arrowio: no TIME timestamp column")

// NewReader reads an Arrow IPC stream into memory.
func NewReader(r io.Reader) (*memio.Reader, error) {
	ipcReader, err := ipc.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer ipcReader.Release()
	return NewReaderFromRecordReader(ipcReader)
}

type vector struct {
	addr   summary.Address
	unit   string
	times  []int64
	values []float64
}

// NewReaderFromRecordReader reads every record of rr.  Null cells are
// treated as missing samples.
func NewReaderFromRecordReader(rr pqarrow.RecordReader) (*memio.Reader, error) {
	schema := rr.Schema()
	timeIndex := -1
	var unit arrow.TimeUnit
	vectors := make(map[int]*vector)
	for k, f := range schema.Fields() {
		if ts, ok := f.Type.(*arrow.TimestampType); ok && f.Name == TimeColumn {
			timeIndex, unit = k, ts.Unit
			continue
		}
		if f.Type.ID() != arrow.FLOAT64 && f.Type.ID() != arrow.FLOAT32 {
			continue
		}
		a, err := summary.FromTextAddress(f.Name)
		if err != nil {
			return nil, fmt.Errorf("arrowio: column %q: %w", f.Name, err)
		}
		v := &vector{addr: a}
		if i := f.Metadata.FindKey(unitKey); i >= 0 {
			v.unit = f.Metadata.Values()[i]
		}
		vectors[k] = v
	}
	if timeIndex < 0 {
		return nil, ErrNoTimeColumn
	}
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		times := rec.Column(timeIndex).(*array.Timestamp)
		for k, v := range vectors {
			col := rec.Column(k)
			for i := range int(rec.NumRows()) {
				if col.IsNull(i) || times.IsNull(i) {
					continue
				}
				x := value(col, i)
				if math.IsNaN(x) {
					continue
				}
				v.times = append(v.times, times.Value(i).ToTime(unit).Unix())
				v.values = append(v.values, x)
			}
		}
	}
	out := memio.NewReader()
	for _, v := range vectors {
		if err := out.Put(v.addr, v.unit, v.times, v.values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func value(a arrow.Array, i int) float64 {
	switch a := a.(type) {
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	}
	return math.NaN()
}
