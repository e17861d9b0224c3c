package ensemble

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/pkg/align"
	"github.com/brimdata/summary/sio"
)

var ErrNoRealizations = errors.New("no realization has the vector")

type Statistic string

const (
	P10  Statistic = "P10"
	P50  Statistic = "P50"
	P90  Statistic = "P90"
	Mean Statistic = "MEAN"
)

var Statistics = []Statistic{P10, P50, P90, Mean}

// StatisticAddress names statistic stat of vector a, e.g.
// "P10:WOPR:P1".
func StatisticAddress(stat Statistic, a summary.Address) summary.Address {
	return summary.EnsembleStatistics(string(stat) + ":" + a.TextAddress())
}

// ParseStatisticAddress splits a statistic address, or the text form of
// one, into the statistic and the vector it summarizes.
func ParseStatisticAddress(s string) (Statistic, summary.Address, error) {
	name, text, ok := strings.Cut(s, ":")
	if !ok || !slices.Contains(Statistics, Statistic(name)) {
		return "", summary.Address{}, fmt.Errorf("%q is not an ensemble statistic", s)
	}
	a, err := summary.FromTextAddress(text)
	if err != nil {
		return "", summary.Address{}, err
	}
	return Statistic(name), a, nil
}

// Stats holds the statistics of one vector on the union of the
// realizations' time axes.  Time steps no realization covers are
// omitted.
type Stats struct {
	Times []int64
	P10   []float64
	P50   []float64
	P90   []float64
	Mean  []float64
	// Count is the number of realizations contributing to each step.
	Count []int
}

func (s *Stats) Values(stat Statistic) []float64 {
	switch stat {
	case P10:
		return s.P10
	case P50:
		return s.P50
	case P90:
		return s.P90
	case Mean:
		return s.Mean
	}
	return nil
}

// Compute computes the statistics of a over the readers that have it.
// Realizations are interpolated onto the union time axis and contribute
// only inside their own time range.  P10 follows the reservoir
// convention and is the 90th percentile of the samples.
func Compute(readers []sio.Reader, a summary.Address) (*Stats, error) {
	var series []align.Series[float64]
	for _, r := range readers {
		values, ok := r.Values(a)
		if !ok || len(values) == 0 {
			continue
		}
		series = append(series, align.Series[float64]{Times: r.TimeSteps(a), Values: values})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRealizations, a.TextAddress())
	}
	axes := make([][]int64, len(series))
	for k, s := range series {
		axes[k] = s.Times
	}
	union := align.Union(axes...)
	cols := make([][]float64, len(series))
	for k, s := range series {
		cols[k], _ = align.At(s, union)
	}
	stats := &Stats{}
	samples := make([]float64, 0, len(series))
	for i, t := range union {
		samples = samples[:0]
		for _, col := range cols {
			if v := col[i]; !math.IsNaN(v) {
				samples = append(samples, v)
			}
		}
		if len(samples) == 0 {
			continue
		}
		slices.Sort(samples)
		stats.Times = append(stats.Times, t)
		stats.P10 = append(stats.P10, percentile(samples, 0.9))
		stats.P50 = append(stats.P50, percentile(samples, 0.5))
		stats.P90 = append(stats.P90, percentile(samples, 0.1))
		stats.Mean = append(stats.Mean, mean(samples))
		stats.Count = append(stats.Count, len(samples))
	}
	return stats, nil
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

func mean(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// StatsReader serves the statistics of an ensemble as
// ENSEMBLE_STATISTICS vectors.  Statistics are computed on first request
// and recomputed when the ensemble changes.
type StatsReader struct {
	ensemble *Ensemble

	mu      sync.Mutex
	version uint64
	cache   map[summary.Address]*Stats
}

var (
	_ sio.Reader    = (*StatsReader)(nil)
	_ sio.Versioned = (*StatsReader)(nil)
)

func NewStatsReader(e *Ensemble) *StatsReader {
	return &StatsReader{ensemble: e, cache: make(map[summary.Address]*Stats)}
}

func (s *StatsReader) Version() uint64 {
	return s.ensemble.Version()
}

func (s *StatsReader) readers() []sio.Reader {
	cases := s.ensemble.Cases()
	out := make([]sio.Reader, len(cases))
	for k, c := range cases {
		out[k] = c.Reader
	}
	return out
}

func (s *StatsReader) lookup(a summary.Address) (Statistic, *Stats, bool) {
	if a.Category != summary.CategoryEnsembleStatistics || a.Error {
		return "", nil, false
	}
	stat, src, err := ParseStatisticAddress(a.Quantity)
	if err != nil {
		return "", nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v := s.ensemble.Version(); v != s.version {
		clear(s.cache)
		s.version = v
	}
	stats, ok := s.cache[src]
	if !ok {
		if stats, err = Compute(s.readers(), src); err != nil {
			return "", nil, false
		}
		s.cache[src] = stats
	}
	return stat, stats, true
}

func (s *StatsReader) AllResultAddresses() []summary.Address {
	var out []summary.Address
	for _, a := range s.ensemble.Addresses() {
		if a.Category == summary.CategoryEnsembleStatistics || a.Category == summary.CategoryCalculated || a.Error {
			continue
		}
		for _, stat := range Statistics {
			out = append(out, StatisticAddress(stat, a))
		}
	}
	return sio.SortAddresses(out)
}

func (s *StatsReader) Values(a summary.Address) ([]float64, bool) {
	stat, stats, ok := s.lookup(a)
	if !ok {
		return nil, false
	}
	return slices.Clone(stats.Values(stat)), true
}

func (s *StatsReader) TimeSteps(a summary.Address) []int64 {
	_, stats, ok := s.lookup(a)
	if !ok {
		return nil
	}
	return slices.Clone(stats.Times)
}

func (s *StatsReader) UnitName(a summary.Address) string {
	if a.Category != summary.CategoryEnsembleStatistics {
		return ""
	}
	_, src, err := ParseStatisticAddress(a.Quantity)
	if err != nil {
		return ""
	}
	for _, c := range s.ensemble.Cases() {
		if c.Reader.HasAddress(src) {
			return c.Reader.UnitName(src)
		}
	}
	return ""
}

func (s *StatsReader) HasAddress(a summary.Address) bool {
	if a.Category != summary.CategoryEnsembleStatistics || a.Error {
		return false
	}
	_, src, err := ParseStatisticAddress(a.Quantity)
	if err != nil {
		return false
	}
	for _, c := range s.ensemble.Cases() {
		if c.Reader.HasAddress(src) {
			return true
		}
	}
	return false
}
