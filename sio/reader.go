// Package sio defines the uniform read interface implemented by every
// summary case backend.
package sio

//go:generate mockgen -source=reader.go -destination=mock/mock_reader.go -package=mock Reader,Versioned

import (
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/brimdata/summary"
)

// Reader is the read interface shared by all summary backends.
//
// Values returns the series for an address and true, or nil and false
// if the reader has no such address.  TimeSteps returns the time axis
// of an address in seconds since the Unix epoch, or nil if the address
// is unknown.  UnitName returns "" for an unknown address.  A missing
// address is never an error.
//
// The slices returned by Values and TimeSteps are owned by the caller.
type Reader interface {
	AllResultAddresses() []summary.Address
	Values(summary.Address) ([]float64, bool)
	TimeSteps(summary.Address) []int64
	UnitName(summary.Address) string
	HasAddress(summary.Address) bool
}

// Versioned is implemented by readers whose content can change after
// they are opened.  Version increases on every change.
type Versioned interface {
	Version() uint64
}

type ReadCloser interface {
	Reader
	io.Closer
}

func NopReadCloser(r Reader) ReadCloser {
	return nopReadCloser{r}
}

type nopReadCloser struct {
	Reader
}

func (nopReadCloser) Close() error { return nil }

// MultiReader returns a Reader that is the union of readers.  An address
// present in more than one reader is served by the first.
func MultiReader(readers ...Reader) Reader {
	if len(readers) == 1 {
		return readers[0]
	}
	return &multiReader{slices.Clone(readers)}
}

type multiReader struct {
	readers []Reader
}

func (m *multiReader) lookup(a summary.Address) Reader {
	for _, r := range m.readers {
		if r.HasAddress(a) {
			return r
		}
	}
	return nil
}

func (m *multiReader) AllResultAddresses() []summary.Address {
	var out []summary.Address
	for _, r := range m.readers {
		out = append(out, r.AllResultAddresses()...)
	}
	return SortAddresses(out)
}

func (m *multiReader) Values(a summary.Address) ([]float64, bool) {
	if r := m.lookup(a); r != nil {
		return r.Values(a)
	}
	return nil, false
}

func (m *multiReader) TimeSteps(a summary.Address) []int64 {
	if r := m.lookup(a); r != nil {
		return r.TimeSteps(a)
	}
	return nil
}

func (m *multiReader) UnitName(a summary.Address) string {
	if r := m.lookup(a); r != nil {
		return r.UnitName(a)
	}
	return ""
}

func (m *multiReader) HasAddress(a summary.Address) bool {
	return m.lookup(a) != nil
}

func (m *multiReader) Version() uint64 {
	var v uint64
	for _, r := range m.readers {
		if vr, ok := r.(Versioned); ok {
			v += vr.Version()
		}
	}
	return v
}

// SortAddresses sorts addrs and removes duplicates in place.
func SortAddresses(addrs []summary.Address) []summary.Address {
	slices.SortFunc(addrs, summary.Compare)
	return slices.CompactFunc(addrs, summary.Address.Equal)
}

// Extension returns the file name extension of format.
func Extension(format string) string {
	switch format {
	case "arrows":
		return ".arrows"
	case "csv":
		return ".csv"
	case "parquet":
		return ".parquet"
	case "rsm":
		return ".RSM"
	case "tsv":
		return ".tsv"
	case "smspec":
		return ".SMSPEC"
	default:
		return ""
	}
}

func FormatFromPath(path string) string {
	switch strings.ToUpper(filepath.Ext(path)) {
	case ".ARROWS":
		return "arrows"
	case ".CSV":
		return "csv"
	case ".TSV":
		return "tsv"
	case ".PARQUET":
		return "parquet"
	case ".RSM", ".TXT":
		return "rsm"
	case ".SMSPEC", ".FSMSPEC", ".UNSMRY", ".FUNSMRY", ".DATA", "":
		return "smspec"
	default:
		return ""
	}
}
