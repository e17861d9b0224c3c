// Package anyio opens summary cases of any supported format.
package anyio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/arrowio"
	"github.com/brimdata/summary/sio/eclio"
	"github.com/brimdata/summary/sio/parquetio"
	"github.com/brimdata/summary/sio/rsmio"
	"github.com/brimdata/summary/sio/userio"
	"go.uber.org/zap"
)

type ReaderOpts struct {
	// Format is one of "smspec", "rsm", "csv", "tsv", "arrows" or
	// "parquet".  The empty string and "auto" detect the format from the
	// path and then from the file content.
	Format string
	Logger *zap.Logger
	// LazyThreshold and SkipRestart apply to ECLIPSE cases.
	LazyThreshold int64
	SkipRestart   bool
	// Origin is the time of offset zero in text tables and user data.
	Origin time.Time
}

// Open uses engine to open the summary case at path.
func Open(ctx context.Context, engine storage.Engine, path string, opts ReaderOpts) (sio.ReadCloser, error) {
	format := opts.Format
	if format == "" || format == "auto" {
		format = sio.FormatFromPath(path)
		if format == "" {
			var err error
			if format, err = detect(ctx, engine, path); err != nil {
				return nil, err
			}
		}
	}
	r, err := lookupReader(ctx, engine, path, format, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func lookupReader(ctx context.Context, engine storage.Engine, path, format string, opts ReaderOpts) (sio.ReadCloser, error) {
	switch format {
	case "smspec":
		r, err := eclio.Open(ctx, engine, path, eclio.Options{
			Logger:        opts.Logger,
			LazyThreshold: opts.LazyThreshold,
			SkipRestart:   opts.SkipRestart,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case "rsm":
		r, err := rsmio.Open(ctx, engine, path, rsmio.Options{Origin: opts.Origin, Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		return sio.NopReadCloser(r), nil
	case "csv", "tsv":
		uopts := userio.Options{Origin: opts.Origin}
		if format == "tsv" {
			uopts.Delim = '\t'
		}
		r, err := userio.Open(ctx, engine, path, uopts)
		if err != nil {
			return nil, err
		}
		return sio.NopReadCloser(r), nil
	case "arrows":
		return readFile(ctx, engine, path, func(f storage.Reader) (sio.Reader, error) {
			return arrowio.NewReader(f)
		})
	case "parquet":
		return readFile(ctx, engine, path, func(f storage.Reader) (sio.Reader, error) {
			size, err := f.Size()
			if err != nil {
				return nil, err
			}
			return parquetio.NewReader(ctx, io.NewSectionReader(f, 0, size))
		})
	}
	return nil, fmt.Errorf("no such format: \"%s\"", format)
}

func readFile(ctx context.Context, engine storage.Engine, path string, fn func(storage.Reader) (sio.Reader, error)) (sio.ReadCloser, error) {
	f, err := engine.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := fn(f)
	if err != nil {
		return nil, err
	}
	return sio.NopReadCloser(r), nil
}
