package rsmio

import (
	"context"
	"io"
	"slices"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/sio"
)

type vector struct {
	table  *Table
	column *Column
}

// Reader serves the vector columns of a set of text tables.  Each vector
// takes the time steps of the table it appears in.  An address found in
// more than one table is served from the first.
type Reader struct {
	tables  []Table
	vectors map[summary.Address]vector
}

var _ sio.Reader = (*Reader)(nil)

func NewReader(r io.Reader, opts Options) (*Reader, error) {
	tables, err := ParseTables(r, opts)
	if err != nil {
		return nil, err
	}
	reader := &Reader{
		tables:  tables,
		vectors: make(map[summary.Address]vector),
	}
	for k := range reader.tables {
		t := &reader.tables[k]
		for i := range t.Columns {
			c := &t.Columns[i]
			if !c.IsVector {
				continue
			}
			key := c.Address.Normalize()
			if _, ok := reader.vectors[key]; !ok {
				reader.vectors[key] = vector{t, c}
			}
		}
	}
	return reader, nil
}

func Open(ctx context.Context, engine storage.Engine, path string, opts Options) (*Reader, error) {
	f, err := engine.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewReader(f, opts)
}

func (r *Reader) Tables() []Table {
	return r.tables
}

func (r *Reader) AllResultAddresses() []summary.Address {
	out := make([]summary.Address, 0, len(r.vectors))
	for a := range r.vectors {
		out = append(out, a)
	}
	return sio.SortAddresses(out)
}

func (r *Reader) Values(a summary.Address) ([]float64, bool) {
	v, ok := r.vectors[a.Normalize()]
	if !ok {
		return nil, false
	}
	return slices.Clone(v.column.Values), true
}

func (r *Reader) TimeSteps(a summary.Address) []int64 {
	v, ok := r.vectors[a.Normalize()]
	if !ok {
		return nil
	}
	return slices.Clone(v.table.Times)
}

func (r *Reader) UnitName(a summary.Address) string {
	if v, ok := r.vectors[a.Normalize()]; ok {
		return v.column.Unit
	}
	return ""
}

func (r *Reader) HasAddress(a summary.Address) bool {
	_, ok := r.vectors[a.Normalize()]
	return ok
}
