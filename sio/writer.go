package sio

import (
	"context"
	"io"
	"slices"

	"github.com/brimdata/summary"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping
// the provided Writer w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

// Writer wraps the Write method.
//
// Write writes the vectors addrs of r.  Addresses r does not have are
// skipped.  Implementations must not retain the slices r returns.
type Writer interface {
	Write(r Reader, addrs []summary.Address) error
}

type WriteCloser interface {
	Writer
	io.Closer
}

func MultiWriter(writers ...Writer) Writer {
	return &multiWriter{slices.Clone(writers)}
}

type multiWriter struct {
	writers []Writer
}

func (m *multiWriter) Write(r Reader, addrs []summary.Address) error {
	for _, w := range m.writers {
		if err := w.Write(r, addrs); err != nil {
			return err
		}
	}
	return nil
}

// Copy writes every vector of src to dst.
func Copy(dst Writer, src Reader) error {
	return CopyWithContext(context.Background(), dst, src)
}

func CopyWithContext(ctx context.Context, dst Writer, src Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return dst.Write(src, src.AllResultAddresses())
}
