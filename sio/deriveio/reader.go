// Package deriveio implements a reader whose vectors combine the
// vectors of two cases with an arithmetic operator.
package deriveio

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/pkg/align"
	"github.com/brimdata/summary/sio"
)

type Operator byte

const (
	Add Operator = '+'
	Sub Operator = '-'
	Mul Operator = '*'
	Div Operator = '/'
)

func ParseOperator(s string) (Operator, error) {
	switch s {
	case "+", "add":
		return Add, nil
	case "-", "sub":
		return Sub, nil
	case "*", "mul":
		return Mul, nil
	case "/", "div":
		return Div, nil
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

func (o Operator) String() string {
	return string(o)
}

func (o Operator) apply(a, b float64) float64 {
	switch o {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		if b == 0 {
			return math.NaN()
		}
		return a / b
	}
	return math.NaN()
}

type series struct {
	times  []int64
	values []float64
}

// Reader serves "left op right" for every address both cases have.
// Results are computed on first request and kept until either case
// reports a new version.
type Reader struct {
	left, right sio.Reader
	op          Operator
	mode        align.Mode

	mu       sync.Mutex
	versions [2]uint64
	cache    map[summary.Address]series
}

var (
	_ sio.Reader    = (*Reader)(nil)
	_ sio.Versioned = (*Reader)(nil)
)

// NewReader returns a reader combining left and right.  Time steps
// sampled by only one of the cases are kept when mode is
// align.Interpolate and dropped when it is align.Common.
func NewReader(left sio.Reader, op Operator, right sio.Reader, mode align.Mode) *Reader {
	r := &Reader{
		left:  left,
		right: right,
		op:    op,
		mode:  mode,
		cache: make(map[summary.Address]series),
	}
	r.versions = r.current()
	return r
}

func version(r sio.Reader) uint64 {
	if v, ok := r.(sio.Versioned); ok {
		return v.Version()
	}
	return 0
}

func (r *Reader) current() [2]uint64 {
	return [2]uint64{version(r.left), version(r.right)}
}

func (r *Reader) Version() uint64 {
	v := r.current()
	return v[0] + v[1]
}

func (r *Reader) lookup(a summary.Address) (series, bool) {
	if !r.left.HasAddress(a) || !r.right.HasAddress(a) {
		return series{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.current(); v != r.versions {
		clear(r.cache)
		r.versions = v
	}
	if s, ok := r.cache[a]; ok {
		return s, true
	}
	lv, ok := r.left.Values(a)
	if !ok {
		return series{}, false
	}
	rv, ok := r.right.Values(a)
	if !ok {
		return series{}, false
	}
	times, aligned := align.Align(r.mode,
		align.Series[float64]{Times: r.left.TimeSteps(a), Values: lv},
		align.Series[float64]{Times: r.right.TimeSteps(a), Values: rv},
	)
	var s series
	if times != nil {
		s.times = times
		s.values = make([]float64, len(times))
		for k := range times {
			s.values[k] = r.op.apply(aligned[0][k], aligned[1][k])
		}
	}
	r.cache[a] = s
	return s, true
}

func (r *Reader) AllResultAddresses() []summary.Address {
	var out []summary.Address
	for _, a := range r.left.AllResultAddresses() {
		if r.right.HasAddress(a) {
			out = append(out, a)
		}
	}
	return out
}

func (r *Reader) Values(a summary.Address) ([]float64, bool) {
	s, ok := r.lookup(a)
	if !ok {
		return nil, false
	}
	return slices.Clone(s.values), true
}

func (r *Reader) TimeSteps(a summary.Address) []int64 {
	s, _ := r.lookup(a)
	return slices.Clone(s.times)
}

func (r *Reader) UnitName(a summary.Address) string {
	if !r.HasAddress(a) {
		return ""
	}
	return r.left.UnitName(a)
}

func (r *Reader) HasAddress(a summary.Address) bool {
	return r.left.HasAddress(a) && r.right.HasAddress(a)
}
