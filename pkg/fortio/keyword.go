// Package fortio reads and writes ECLIPSE keyword files, the record
// format shared by SMSPEC, UNSMRY and the other simulator output files.
//
// Each keyword is a 16 byte header record (8 character name, element
// count, 4 character type) followed by data records holding at most
// 1000 numeric or 105 string elements.  Unformatted files wrap every
// record in big-endian Fortran length markers.  Formatted files carry
// the same keywords as ASCII text.
package fortio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeInt     Type = "INTE"
	TypeFloat   Type = "REAL"
	TypeDouble  Type = "DOUB"
	TypeChar    Type = "CHAR"
	TypeBool    Type = "LOGI"
	TypeMessage Type = "MESS"
)

const (
	blockNumeric = 1000
	blockString  = 105
	nameLength   = 8
)

var (
	ErrBadRecord = errors.New("bad fortran record")
	ErrBadType   = errors.New("unsupported keyword type")
)

// Keyword is one named array.  Exactly one of the slices is populated,
// according to Type.
type Keyword struct {
	Name    string
	Type    Type
	Ints    []int32
	Floats  []float32
	Doubles []float64
	Strings []string
	Bools   []bool
	// Offset is the file position of the keyword's first data record.
	// It is set by the unformatted reader.
	Offset int64
	count  int
	order  binary.ByteOrder
}

func NewInts(name string, v ...int32) *Keyword {
	return &Keyword{Name: name, Type: TypeInt, Ints: v, count: len(v)}
}

func NewFloats(name string, v ...float32) *Keyword {
	return &Keyword{Name: name, Type: TypeFloat, Floats: v, count: len(v)}
}

func NewDoubles(name string, v ...float64) *Keyword {
	return &Keyword{Name: name, Type: TypeDouble, Doubles: v, count: len(v)}
}

func NewStrings(name string, v ...string) *Keyword {
	return &Keyword{Name: name, Type: TypeChar, Strings: v, count: len(v)}
}

func NewBools(name string, v ...bool) *Keyword {
	return &Keyword{Name: name, Type: TypeBool, Bools: v, count: len(v)}
}

func NewMessage(name string) *Keyword {
	return &Keyword{Name: name, Type: TypeMessage}
}

// Len returns the declared element count.
func (k *Keyword) Len() int {
	return k.count
}

// stringWidth returns the element width for CHAR and C0nn types, or 0.
func (t Type) stringWidth() int {
	if t == TypeChar {
		return nameLength
	}
	if len(t) == 4 && t[0] == 'C' {
		if n, err := strconv.Atoi(string(t[1:])); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func (t Type) elementSize() (int, error) {
	switch t {
	case TypeInt, TypeFloat, TypeBool:
		return 4, nil
	case TypeDouble:
		return 8, nil
	case TypeMessage:
		return 0, nil
	}
	if n := t.stringWidth(); n > 0 {
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadType, string(t))
}

func (t Type) blockSize() int {
	if t.stringWidth() > 0 {
		return blockString
	}
	return blockNumeric
}

// maxPrealloc bounds the capacity reserved from a declared element
// count, which comes from the file and may be corrupt.  Slices grow past
// it as elements are decoded.
const maxPrealloc = 1 << 16

func (k *Keyword) alloc(n int) error {
	k.count = n
	c := min(n, maxPrealloc)
	switch k.Type {
	case TypeInt:
		k.Ints = make([]int32, 0, c)
	case TypeFloat:
		k.Floats = make([]float32, 0, c)
	case TypeDouble:
		k.Doubles = make([]float64, 0, c)
	case TypeBool:
		k.Bools = make([]bool, 0, c)
	case TypeMessage:
	default:
		if k.Type.stringWidth() == 0 {
			return fmt.Errorf("keyword %s: %w: %q", k.Name, ErrBadType, string(k.Type))
		}
		k.Strings = make([]string, 0, c)
	}
	return nil
}

// TrimmedStrings returns the string elements with trailing blanks removed.
func (k *Keyword) TrimmedStrings() []string {
	out := make([]string, len(k.Strings))
	for i, s := range k.Strings {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// Float64s converts a numeric keyword to float64.
func (k *Keyword) Float64s() []float64 {
	switch k.Type {
	case TypeFloat:
		out := make([]float64, len(k.Floats))
		for i, v := range k.Floats {
			out[i] = float64(v)
		}
		return out
	case TypeDouble:
		return k.Doubles
	case TypeInt:
		out := make([]float64, len(k.Ints))
		for i, v := range k.Ints {
			out[i] = float64(v)
		}
		return out
	}
	return nil
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
