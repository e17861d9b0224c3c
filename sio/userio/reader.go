// Package userio reads and writes user-supplied summary vectors as CSV:
// a header row of text addresses, an optional UNITS row and one row per
// time step.
package userio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/brimdata/summary"
	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/sio"
)

var (
	ErrEmpty        = errors.New("empty csv file")
	ErrNoTimeColumn = errors.New("csv file has no TIME, DATE, DAYS or YEARS column")
)

type Options struct {
	// Origin maps numeric TIME, DAYS and YEARS offsets to absolute times.
	Origin time.Time
	Delim  rune
}

type column struct {
	unit   string
	values []float64
}

// Reader serves the columns of a CSV file over a shared time axis.
type Reader struct {
	times   []int64
	columns map[summary.Address]*column
}

var _ sio.Reader = (*Reader)(nil)

func Open(ctx context.Context, engine storage.Engine, path string, opts Options) (*Reader, error) {
	f, err := engine.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := NewReader(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func NewReader(r io.Reader, opts Options) (*Reader, error) {
	reader := csv.NewReader(r)
	if opts.Delim != 0 {
		reader.Comma = opts.Delim
	}
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	hdr := records[0]
	records = records[1:]
	timeCol, timeKind := -1, ""
	cols := make([]*column, len(hdr))
	addrs := make([]summary.Address, len(hdr))
	for k, name := range hdr {
		name = strings.TrimSpace(name)
		switch kind := strings.ToUpper(name); kind {
		case "TIME", "DATE", "DAYS", "YEARS":
			if timeCol < 0 {
				timeCol, timeKind = k, kind
				continue
			}
		}
		a, err := summary.FromTextAddress(name)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", k+1, err)
		}
		addrs[k] = a
		cols[k] = &column{}
	}
	if timeCol < 0 {
		return nil, ErrNoTimeColumn
	}
	if len(records) > 0 && strings.EqualFold(strings.TrimSpace(records[0][0]), "UNITS") {
		for k, unit := range records[0] {
			if cols[k] != nil {
				cols[k].unit = strings.TrimSpace(unit)
			}
		}
		records = records[1:]
	}
	out := &Reader{columns: make(map[summary.Address]*column)}
	for line, rec := range records {
		t, err := parseTime(timeKind, strings.TrimSpace(rec[timeCol]), opts.Origin)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+1, err)
		}
		out.times = append(out.times, t)
		for k, cell := range rec {
			if cols[k] != nil {
				cols[k].values = append(cols[k].values, parseValue(cell))
			}
		}
	}
	for k, c := range cols {
		if c != nil {
			key := addrs[k].Normalize()
			if _, ok := out.columns[key]; !ok {
				out.columns[key] = c
			}
		}
	}
	return out, nil
}

func parseTime(kind, cell string, origin time.Time) (int64, error) {
	if kind == "DATE" {
		t, err := dateparse.ParseIn(cell, time.UTC)
		if err != nil {
			return 0, err
		}
		return t.Unix(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		// A TIME column may hold dates as well as offsets.
		if kind == "TIME" {
			return parseTime("DATE", cell, origin)
		}
		return 0, err
	}
	scale := 86400.0
	if kind == "YEARS" {
		scale = 365.25 * 86400
	}
	return origin.Unix() + int64(math.Round(v*scale)), nil
}

// parseValue returns NaN for cells that are empty or not numbers.
func parseValue(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (r *Reader) AllResultAddresses() []summary.Address {
	out := make([]summary.Address, 0, len(r.columns))
	for a := range r.columns {
		out = append(out, a)
	}
	return sio.SortAddresses(out)
}

func (r *Reader) Values(a summary.Address) ([]float64, bool) {
	c, ok := r.columns[a.Normalize()]
	if !ok {
		return nil, false
	}
	return slices.Clone(c.values), true
}

func (r *Reader) TimeSteps(a summary.Address) []int64 {
	if !r.HasAddress(a) {
		return nil
	}
	return slices.Clone(r.times)
}

func (r *Reader) UnitName(a summary.Address) string {
	if c, ok := r.columns[a.Normalize()]; ok {
		return c.unit
	}
	return ""
}

func (r *Reader) HasAddress(a summary.Address) bool {
	_, ok := r.columns[a.Normalize()]
	return ok
}
