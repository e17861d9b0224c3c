package userio

import (
	"encoding/csv"
	"errors"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/sio"
	"github.com/lestrrat-go/strftime"
)

var ErrNotDataFrame = errors.New("CSV output requires vectors sharing one time axis")

type Writer struct {
	writer    io.WriteCloser
	encoder   *csv.Writer
	formatter *strftime.Strftime
	units     bool
}

type WriterOpts struct {
	Delim rune
	// TimeFormat is a strftime pattern for the DATE column.
	TimeFormat string
	// Units adds a UNITS row below the header.
	Units bool
}

func NewWriter(w io.WriteCloser, opts WriterOpts) (*Writer, error) {
	encoder := csv.NewWriter(w)
	if opts.Delim != 0 {
		encoder.Comma = opts.Delim
	}
	format := opts.TimeFormat
	if format == "" {
		format = "%Y-%m-%dT%H:%M:%S"
	}
	formatter, err := strftime.New(format)
	if err != nil {
		return nil, err
	}
	return &Writer{
		writer:    w,
		encoder:   encoder,
		formatter: formatter,
		units:     opts.Units,
	}, nil
}

func (w *Writer) Close() error {
	w.encoder.Flush()
	return errors.Join(w.encoder.Error(), w.writer.Close())
}

// Write writes the vectors addrs of r as one table.  Every vector must
// have the time steps of the first.  Addresses missing from r are
// skipped.
func (w *Writer) Write(r sio.Reader, addrs []summary.Address) error {
	var times []int64
	var cols [][]float64
	hdr := []string{"DATE"}
	units := []string{"UNITS"}
	for _, a := range addrs {
		values, ok := r.Values(a)
		if !ok {
			continue
		}
		ts := r.TimeSteps(a)
		if times == nil {
			times = ts
		} else if !slices.Equal(times, ts) {
			return ErrNotDataFrame
		}
		cols = append(cols, values)
		hdr = append(hdr, a.TextAddress())
		units = append(units, r.UnitName(a))
	}
	if err := w.encoder.Write(hdr); err != nil {
		return err
	}
	if w.units {
		if err := w.encoder.Write(units); err != nil {
			return err
		}
	}
	row := make([]string, len(hdr))
	for k, t := range times {
		row[0] = w.formatter.FormatString(time.Unix(t, 0).UTC())
		for i, col := range cols {
			row[i+1] = strconv.FormatFloat(col[k], 'g', -1, 64)
		}
		if err := w.encoder.Write(row); err != nil {
			return err
		}
	}
	w.encoder.Flush()
	return w.encoder.Error()
}
