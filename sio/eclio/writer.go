package eclio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/brimdata/summary/pkg/fortio"
	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/smspec"
)

type WriteOptions struct {
	Formatted bool
	// Unified writes a single .UNSMRY (or .FUNSMRY) file rather than
	// one .Snnnn (or .Annnn) file per report step.
	Unified bool
}

type keywordWriter interface {
	Write(*fortio.Keyword) error
	Flush() error
}

func newKeywordWriter(w io.Writer, formatted bool) keywordWriter {
	if formatted {
		return fortio.NewFormattedWriter(w)
	}
	return fortio.NewWriter(w)
}

// Write stores a summary case under base: the header h and one PARAMS
// record per row.  Each row must hold one value per header node.
func Write(ctx context.Context, engine storage.Engine, base string, h *smspec.Header, rows [][]float32, opts WriteOptions) error {
	for k, row := range rows {
		if len(row) != h.Len() {
			return fmt.Errorf("%w: row %d has %d values, header has %d", ErrParamsLength, k, len(row), h.Len())
		}
	}
	headerExt, dataExt := ".SMSPEC", ".UNSMRY"
	if opts.Formatted {
		headerExt, dataExt = ".FSMSPEC", ".FUNSMRY"
	}
	if err := writeFile(ctx, engine, base+headerExt, opts.Formatted, h.Encode()); err != nil {
		return err
	}
	if opts.Unified {
		var keywords []*fortio.Keyword
		for k, row := range rows {
			keywords = append(keywords, stepKeywords(k, row)...)
		}
		return writeFile(ctx, engine, base+dataExt, opts.Formatted, keywords)
	}
	letter := 'S'
	if opts.Formatted {
		letter = 'A'
	}
	for k, row := range rows {
		path := fmt.Sprintf("%s.%c%04d", base, letter, k+1)
		if err := writeFile(ctx, engine, path, opts.Formatted, stepKeywords(k, row)); err != nil {
			return err
		}
	}
	return nil
}

func stepKeywords(step int, row []float32) []*fortio.Keyword {
	return []*fortio.Keyword{
		fortio.NewInts("SEQHDR", int32(step)),
		fortio.NewInts("MINISTEP", int32(step)),
		fortio.NewFloats("PARAMS", row...),
	}
}

func writeFile(ctx context.Context, engine storage.Engine, path string, formatted bool, keywords []*fortio.Keyword) error {
	f, err := engine.Put(ctx, path)
	if err != nil {
		return err
	}
	w := newKeywordWriter(f, formatted)
	for _, k := range keywords {
		if err := w.Write(k); err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return errors.Join(w.Flush(), f.Close())
}
