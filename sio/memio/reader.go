// Package memio implements sio.Reader over series held in memory.
package memio

import (
	"fmt"
	"slices"
	"sync"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/sio"
)

type series struct {
	unit   string
	times  []int64
	values []float64
}

// Reader is safe for concurrent use.  Every Put or Delete increases its
// version.
type Reader struct {
	mu      sync.RWMutex
	series  map[summary.Address]series
	version uint64
}

var (
	_ sio.Reader    = (*Reader)(nil)
	_ sio.Versioned = (*Reader)(nil)
)

func NewReader() *Reader {
	return &Reader{series: make(map[summary.Address]series)}
}

// Put stores a copy of a series, replacing any previous one for a.
func (r *Reader) Put(a summary.Address, unit string, times []int64, values []float64) error {
	if len(times) != len(values) {
		return fmt.Errorf("%s: %d time steps but %d values", a, len(times), len(values))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.series[a.Normalize()] = series{unit, slices.Clone(times), slices.Clone(values)}
	r.version++
	return nil
}

func (r *Reader) Delete(a summary.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a = a.Normalize()
	if _, ok := r.series[a]; ok {
		delete(r.series, a)
		r.version++
	}
}

func (r *Reader) AllResultAddresses() []summary.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]summary.Address, 0, len(r.series))
	for a := range r.series {
		out = append(out, a)
	}
	return sio.SortAddresses(out)
}

func (r *Reader) get(a summary.Address) (series, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.series[a.Normalize()]
	return s, ok
}

func (r *Reader) Values(a summary.Address) ([]float64, bool) {
	s, ok := r.get(a)
	if !ok {
		return nil, false
	}
	return slices.Clone(s.values), true
}

func (r *Reader) TimeSteps(a summary.Address) []int64 {
	s, _ := r.get(a)
	return slices.Clone(s.times)
}

func (r *Reader) UnitName(a summary.Address) string {
	s, _ := r.get(a)
	return s.unit
}

func (r *Reader) HasAddress(a summary.Address) bool {
	_, ok := r.get(a)
	return ok
}

func (r *Reader) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}
