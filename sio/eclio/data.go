package eclio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/brimdata/summary/pkg/fortio"
	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/smspec"
)

var ErrParamsLength = errors.New("PARAMS length differs from header")

// row is one PARAMS record.  Eager rows carry their values; lazy rows
// carry the deferred keyword and the file it was read from.
type row struct {
	values []float64
	params *fortio.Keyword
	file   int
}

// table holds the time steps of one case's data files.
type table struct {
	header *smspec.Header
	times  []int64
	rows   []row
	files  []storage.Reader

	mu   sync.Mutex
	cols map[int][]float64
}

// loadTable reads the data files of a case.  Unformatted files larger
// than lazyThreshold bytes (when positive) are opened in lazy mode: the
// PARAMS records are skipped and single columns are read on demand.
func loadTable(ctx context.Context, engine storage.Engine, h *smspec.Header, paths []string, lazyThreshold int64) (*table, error) {
	t := &table{header: h, cols: make(map[int][]float64)}
	for _, path := range paths {
		if err := t.load(ctx, engine, path, lazyThreshold); err != nil {
			t.close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return t, nil
}

func (t *table) load(ctx context.Context, engine storage.Engine, path string, lazyThreshold int64) error {
	f, err := engine.Get(ctx, path)
	if err != nil {
		return err
	}
	var kr fortio.KeywordReader
	lazy := false
	if isFormattedData(path) {
		kr = fortio.NewFormattedReader(f)
	} else {
		r := fortio.NewReader(f)
		if lazyThreshold > 0 {
			size, err := f.Size()
			if err != nil {
				f.Close()
				return err
			}
			if size > lazyThreshold {
				r.Defer("PARAMS")
				lazy = true
			}
		}
		kr = r
	}
	file := -1
	if lazy {
		file = len(t.files)
		t.files = append(t.files, f)
	} else {
		defer f.Close()
	}
	n := t.header.Len()
	for {
		k, err := kr.Read()
		if err != nil {
			return err
		}
		if k == nil {
			return nil
		}
		if k.Name != "PARAMS" {
			continue
		}
		if k.Len() != n {
			return fmt.Errorf("%w: record %d has %d values, header has %d", ErrParamsLength, len(t.rows), k.Len(), n)
		}
		var r row
		var param func(int) float64
		if lazy {
			r = row{params: k, file: file}
			var perr error
			param = func(i int) float64 {
				v, err := k.ReadFloatAt(f, i)
				if err != nil && perr == nil {
					perr = err
				}
				return v
			}
			sec := t.header.TimeAxis().Seconds(t.header.StartTime, param)
			if perr != nil {
				return perr
			}
			t.times = append(t.times, sec)
		} else {
			r = row{values: k.Float64s(), file: -1}
			t.times = append(t.times, t.header.TimeAxis().Seconds(t.header.StartTime, func(i int) float64 {
				return r.values[i]
			}))
		}
		t.rows = append(t.rows, r)
	}
}

// column returns the values of the quantity at params offset p for every
// row.  The result is shared and must not be modified.
func (t *table) column(p int) ([]float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if col, ok := t.cols[p]; ok {
		return col, nil
	}
	col := make([]float64, len(t.rows))
	for k, r := range t.rows {
		if r.params == nil {
			col[k] = r.values[p]
			continue
		}
		v, err := r.params.ReadFloatAt(t.files[r.file], p)
		if err != nil {
			return nil, err
		}
		col[k] = v
	}
	t.cols[p] = col
	return col, nil
}

func (t *table) close() error {
	var errs []error
	for _, f := range t.files {
		errs = append(errs, f.Close())
	}
	t.files = nil
	return errors.Join(errs...)
}
