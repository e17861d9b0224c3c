// Package ensemble loads groups of summary cases (realizations) and
// computes statistics across them.
package ensemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brimdata/summary"
	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/anyio"
	"github.com/paulbellamy/ratecounter"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Case is one opened summary case.
type Case struct {
	ID     ksuid.KSUID
	Name   string
	Path   string
	Reader sio.Reader
}

func NewCase(name, path string, r sio.Reader) *Case {
	return &Case{ID: ksuid.New(), Name: name, Path: path, Reader: r}
}

func (c *Case) Close() error {
	if closer, ok := c.Reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Ensemble is an ordered set of cases.  It resolves cases by id or name
// for calculations.
type Ensemble struct {
	Name string

	mu      sync.RWMutex
	cases   []*Case
	changes uint64
}

func New(name string, cases ...*Case) *Ensemble {
	return &Ensemble{Name: name, cases: cases}
}

func (e *Ensemble) Add(c *Case) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cases = append(e.cases, c)
	e.changes++
}

// Remove drops the case with the given id or name and reports whether it
// was present.  The case is not closed.
func (e *Ensemble) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.cases)
	e.cases = slices.DeleteFunc(e.cases, func(c *Case) bool { return match(c, id) })
	if len(e.cases) == n {
		return false
	}
	e.changes++
	return true
}

// Version increases when a case is added or removed or when a case
// reader reports a new version.
func (e *Ensemble) Version() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v := e.changes
	for _, c := range e.cases {
		if vr, ok := c.Reader.(sio.Versioned); ok {
			v += vr.Version()
		}
	}
	return v
}

func (e *Ensemble) Cases() []*Case {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.cases)
}

func match(c *Case, id string) bool {
	return c.ID.String() == id || c.Name == id
}

func (e *Ensemble) Case(id string) (*Case, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, c := range e.cases {
		if match(c, id) {
			return c, true
		}
	}
	return nil, false
}

// Reader implements calc.CaseResolver.
func (e *Ensemble) Reader(id string) (sio.Reader, bool) {
	c, ok := e.Case(id)
	if !ok {
		return nil, false
	}
	return c.Reader, true
}

// Addresses returns the union of the addresses of every case.
func (e *Ensemble) Addresses() []summary.Address {
	var out []summary.Address
	for _, c := range e.Cases() {
		out = append(out, c.Reader.AllResultAddresses()...)
	}
	return sio.SortAddresses(out)
}

func (e *Ensemble) Close() error {
	var errs []error
	for _, c := range e.Cases() {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

type LoadOptions struct {
	Reader anyio.ReaderOpts
	// Concurrency limits the number of cases opened at once.  Zero means
	// no limit.
	Concurrency int
	Logger      *zap.Logger
	// Progress, if set, counts the cases as they are opened.
	Progress *Progress
}

// Load opens the cases at paths in parallel.  Cases that fail to open
// are logged and left out of the ensemble; their errors are joined into
// the returned error, which is nil only when every case opened.
func Load(ctx context.Context, engine storage.Engine, name string, paths []string, opts LoadOptions) (*Ensemble, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ropts := opts.Reader
	if ropts.Logger == nil {
		ropts.Logger = logger
	}
	if opts.Progress != nil {
		opts.Progress.total.Add(int64(len(paths)))
	}
	cases := make([]*Case, len(paths))
	errs := make([]error, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		group.SetLimit(opts.Concurrency)
	}
	for k, path := range paths {
		group.Go(func() error {
			r, err := anyio.Open(ctx, engine, path, ropts)
			if opts.Progress != nil {
				opts.Progress.loaded()
			}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("case not loaded", zap.String("path", path), zap.Error(err))
				errs[k] = err
				if opts.Progress != nil {
					opts.Progress.failed.Add(1)
				}
				return nil
			}
			cases[k] = NewCase(CaseName(path), path, r)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		for _, c := range cases {
			if c != nil {
				c.Close()
			}
		}
		return nil, err
	}
	e := New(name)
	for _, c := range cases {
		if c != nil {
			e.cases = append(e.cases, c)
		}
	}
	return e, errors.Join(errs...)
}

// CaseName derives a display name from a case path: the base name
// without a summary file extension.
func CaseName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	switch strings.ToUpper(ext) {
	case ".SMSPEC", ".FSMSPEC", ".UNSMRY", ".FUNSMRY", ".DATA", ".RSM", ".CSV", ".TSV", ".ARROWS", ".PARQUET":
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// Progress counts loaded cases.  It implements display.Displayer.
type Progress struct {
	total  atomic.Int64
	done   atomic.Int64
	failed atomic.Int64

	once sync.Once
	rate *ratecounter.RateCounter
}

func (p *Progress) counter() *ratecounter.RateCounter {
	p.once.Do(func() {
		p.rate = ratecounter.NewRateCounter(time.Second)
	})
	return p.rate
}

func (p *Progress) loaded() {
	p.done.Add(1)
	p.counter().Incr(1)
}

func (p *Progress) Display(w io.Writer) bool {
	done, total := p.done.Load(), p.total.Load()
	fmt.Fprintf(w, "loaded %d/%d cases", done, total)
	if done < total {
		fmt.Fprintf(w, ", %d/s", p.counter().Rate())
	}
	if failed := p.failed.Load(); failed > 0 {
		fmt.Fprintf(w, " (%d failed)", failed)
	}
	fmt.Fprintln(w)
	return done < total
}
