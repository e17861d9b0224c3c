// Package eclio reads and writes ECLIPSE summary cases: an SMSPEC header
// with a unified UNSMRY data file or per-report-step files, in
// unformatted or formatted form, following the case's restart chain.
package eclio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/pkg/fortio"
	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/smspec"
	"go.uber.org/zap"
)

type Options struct {
	Logger *zap.Logger
	// LazyThreshold is the data file size in bytes above which PARAMS
	// records are read on demand.  Zero loads everything eagerly.
	LazyThreshold int64
	// SkipRestart ignores the RESTART keyword.
	SkipRestart bool
}

// segment is one case of a restart chain and the number of its leading
// rows that contribute to the stitched series.
type segment struct {
	path   string
	header *smspec.Header
	table  *table
	rows   int
}

type Reader struct {
	path     string
	header   *smspec.Header
	segments []*segment
	times    []int64
	logger   *zap.Logger
}

var _ sio.ReadCloser = (*Reader)(nil)

// Open opens the summary case identified by path, which may name the
// header, a data file or the case's base name.
func Open(ctx context.Context, engine storage.Engine, path string, opts Options) (*Reader, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	files, err := discover(ctx, engine, path)
	if err != nil {
		return nil, err
	}
	own, err := openSegment(ctx, engine, files, opts.LazyThreshold)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		path:     files.header,
		header:   own.header,
		segments: []*segment{own},
		logger:   logger,
	}
	if !opts.SkipRestart {
		r.followRestarts(ctx, engine, opts.LazyThreshold)
	}
	r.stitch()
	return r, nil
}

func openSegment(ctx context.Context, engine storage.Engine, files caseFiles, lazyThreshold int64) (*segment, error) {
	h, err := ReadHeader(ctx, engine, files.header)
	if err != nil {
		return nil, err
	}
	t, err := loadTable(ctx, engine, h, files.data, lazyThreshold)
	if err != nil {
		return nil, err
	}
	return &segment{path: files.header, header: h, table: t}, nil
}

// ReadHeader reads and indexes an SMSPEC or FSMSPEC file.
func ReadHeader(ctx context.Context, engine storage.Engine, path string) (*smspec.Header, error) {
	f, err := engine.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var kr fortio.KeywordReader
	if fortio.IsFormatted(path) {
		kr = fortio.NewFormattedReader(f)
	} else {
		kr = fortio.NewReader(f)
	}
	keywords, err := fortio.ReadAll(kr)
	if err != nil {
		return nil, err
	}
	h, err := smspec.Build(keywords)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// followRestarts prepends ancestor cases to r.segments until the chain
// ends, loops, or reaches a case that cannot be linked.
func (r *Reader) followRestarts(ctx context.Context, engine storage.Engine, lazyThreshold int64) {
	visited := map[string]bool{r.path: true}
	child := r.segments[0]
	for child.header.Restart != "" {
		base := resolveRestart(child.path, child.header.Restart)
		logger := r.logger.With(zap.String("case", child.path), zap.String("restart", base))
		files, err := discover(ctx, engine, base)
		if err != nil {
			logger.Warn("restart case not found", zap.Error(err))
			return
		}
		if visited[files.header] {
			logger.Warn("restart chain loops")
			return
		}
		visited[files.header] = true
		h, err := ReadHeader(ctx, engine, files.header)
		if err != nil {
			logger.Warn("restart header unreadable", zap.Error(err))
			return
		}
		if !smspec.Compatible(h, child.header) {
			logger.Warn("restart case incompatible")
			return
		}
		t, err := loadTable(ctx, engine, h, files.data, lazyThreshold)
		if err != nil {
			logger.Warn("restart data unreadable", zap.Error(err))
			return
		}
		child = &segment{path: files.header, header: h, table: t}
		r.segments = slices.Insert(r.segments, 0, child)
	}
}

// stitch decides how many rows each segment contributes.  A segment
// keeps only the steps strictly earlier than the first step of the
// nearest later segment that has any.
func (r *Reader) stitch() {
	limit := int64(math.MaxInt64)
	for k := len(r.segments) - 1; k >= 0; k-- {
		s := r.segments[k]
		times := s.table.times
		n := 0
		for n < len(times) && times[n] < limit {
			n++
		}
		s.rows = n
		if n > 0 {
			limit = times[0]
		}
	}
	r.times = nil
	for _, s := range r.segments {
		r.times = append(r.times, s.table.times[:s.rows]...)
	}
}

// Header returns the header of the case itself, not of its ancestors.
func (r *Reader) Header() *smspec.Header {
	return r.header
}

// Restarts returns the header paths of the linked ancestors, oldest
// first.
func (r *Reader) Restarts() []string {
	var out []string
	for _, s := range r.segments[:len(r.segments)-1] {
		out = append(out, s.path)
	}
	return out
}

func (r *Reader) AllResultAddresses() []summary.Address {
	var out []summary.Address
	for _, n := range r.header.Nodes() {
		out = append(out, n.Address)
	}
	return sio.SortAddresses(out)
}

func (r *Reader) HasAddress(a summary.Address) bool {
	_, ok := r.header.Node(a)
	return ok
}

func (r *Reader) Values(a summary.Address) ([]float64, bool) {
	node, ok := r.header.Node(a)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(r.times))
	for _, s := range r.segments {
		if s.rows == 0 {
			continue
		}
		n, ok := s.header.Node(a)
		if !ok {
			for range s.rows {
				out = append(out, node.Default)
			}
			continue
		}
		col, err := s.table.column(n.Params)
		if err != nil {
			r.logger.Error("reading values", zap.String("case", s.path), zap.Stringer("address", a), zap.Error(err))
			return nil, false
		}
		out = append(out, col[:s.rows]...)
	}
	return out, true
}

func (r *Reader) TimeSteps(a summary.Address) []int64 {
	if !r.HasAddress(a) {
		return nil
	}
	return slices.Clone(r.times)
}

func (r *Reader) UnitName(a summary.Address) string {
	if node, ok := r.header.Node(a); ok {
		return node.Unit
	}
	return ""
}

func (r *Reader) Close() error {
	var errs []error
	for _, s := range r.segments {
		errs = append(errs, s.table.close())
	}
	return errors.Join(errs...)
}
