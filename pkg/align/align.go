// Package align puts series with differing time axes onto one axis.
package align

import (
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/exp/constraints"
)

type Mode int

const (
	// Common keeps only the time steps sampled by every series.
	Common Mode = iota
	// Interpolate keeps every time step of the union that lies inside
	// the range covered by all series, interpolating linearly between
	// samples.
	Interpolate
)

type Series[T constraints.Float] struct {
	Times  []int64
	Values []T
}

// Union returns the sorted distinct time steps of axes.
func Union(axes ...[]int64) []int64 {
	var out []int64
	for _, a := range axes {
		out = append(out, a...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// At evaluates s at each of the sorted time steps in at.  The returned
// bitmap holds the positions of at where the result is valid: inside
// the span of s and between two samples that are numbers.  Invalid
// positions are NaN.
func At[T constraints.Float](s Series[T], at []int64) ([]T, *roaring.Bitmap) {
	return evaluate(s, at, true)
}

// Samples is like At but only positions that s samples exactly are
// valid.
func Samples[T constraints.Float](s Series[T], at []int64) ([]T, *roaring.Bitmap) {
	return evaluate(s, at, false)
}

func evaluate[T constraints.Float](s Series[T], at []int64, interpolate bool) ([]T, *roaring.Bitmap) {
	n := min(len(s.Times), len(s.Values))
	times, values := s.Times[:n], s.Values[:n]
	out := make([]T, len(at))
	valid := roaring.New()
	for k, t := range at {
		out[k] = T(math.NaN())
		i, found := slices.BinarySearch(times, t)
		switch {
		case found:
			if v := values[i]; !isNaN(v) {
				out[k] = v
				valid.Add(uint32(k))
			}
		case interpolate && i > 0 && i < n:
			v0, v1 := values[i-1], values[i]
			if isNaN(v0) || isNaN(v1) {
				continue
			}
			t0, t1 := times[i-1], times[i]
			f := T(t-t0) / T(t1-t0)
			out[k] = v0 + f*(v1-v0)
			valid.Add(uint32(k))
		}
	}
	return out, valid
}

func isNaN[T constraints.Float](v T) bool {
	return v != v
}

// Align evaluates every series on the union of their time axes and
// trims the result to the positions valid for all of them.  In
// Interpolate mode the result is the contiguous range from the first to
// the last such position.  It returns a nil axis when the series share
// no valid position.
func Align[T constraints.Float](mode Mode, series ...Series[T]) ([]int64, [][]T) {
	if len(series) == 0 {
		return nil, nil
	}
	axes := make([][]int64, len(series))
	for k, s := range series {
		axes[k] = s.Times
	}
	union := Union(axes...)
	values := make([][]T, len(series))
	bitmaps := make([]*roaring.Bitmap, len(series))
	for k, s := range series {
		if mode == Interpolate {
			values[k], bitmaps[k] = At(s, union)
		} else {
			values[k], bitmaps[k] = Samples(s, union)
		}
	}
	valid := roaring.FastAnd(bitmaps...)
	if len(bitmaps) == 1 {
		valid = bitmaps[0]
	}
	if valid.IsEmpty() {
		return nil, nil
	}
	var keep []uint32
	if mode == Interpolate {
		for k := valid.Minimum(); k <= valid.Maximum(); k++ {
			keep = append(keep, k)
		}
	} else {
		keep = valid.ToArray()
	}
	times := pick(union, keep)
	for k := range values {
		values[k] = pick(values[k], keep)
	}
	return times, values
}

func pick[T any](s []T, index []uint32) []T {
	out := make([]T, len(index))
	for k, i := range index {
		out[k] = s[i]
	}
	return out
}
