// Package storage is the file access layer used to locate and open the
// files of a summary case.
package storage

import (
	"context"
	"io"
)

type Reader interface {
	io.Reader
	io.ReaderAt
	io.Closer
	Sizer
}

type Sizer interface {
	Size() (int64, error)
}

type Info struct {
	Name string
	Size int64
}

type Engine interface {
	Get(context.Context, string) (Reader, error)
	Put(context.Context, string) (io.WriteCloser, error)
	Exists(context.Context, string) (bool, error)
	List(context.Context, string) ([]Info, error)
	Size(context.Context, string) (int64, error)
}
