package fortio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

// KeywordReader is implemented by the unformatted and formatted readers.
// Read returns the next keyword, or nil and a nil error at end of input.
type KeywordReader interface {
	Read() (*Keyword, error)
}

// Reader reads keywords from an unformatted (binary) file.
type Reader struct {
	r      *bufio.Reader
	order  binary.ByteOrder
	offset int64
	lazy   map[string]bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Defer marks keyword names whose data is skipped rather than decoded.
// Deferred keywords are returned with their length and Offset set so
// elements can later be fetched with ReadFloatAt.
func (r *Reader) Defer(names ...string) {
	if r.lazy == nil {
		r.lazy = make(map[string]bool)
	}
	for _, name := range names {
		r.lazy[name] = true
	}
}

func (r *Reader) Read() (*Keyword, error) {
	header, err := r.record()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) != 16 {
		return nil, fmt.Errorf("%w: keyword header of %d bytes", ErrBadRecord, len(header))
	}
	k := &Keyword{
		Name:  strings.TrimSpace(string(header[:nameLength])),
		Type:  Type(header[12:16]),
		order: r.order,
	}
	n := int(int32(r.order.Uint32(header[8:12])))
	if n < 0 {
		return nil, fmt.Errorf("%w: keyword %s has negative length", ErrBadRecord, k.Name)
	}
	size, err := k.Type.elementSize()
	if err != nil {
		return nil, fmt.Errorf("keyword %s: %w", k.Name, err)
	}
	k.Offset = r.offset
	if r.lazy[k.Name] {
		k.count = n
		return k, r.skip(n, size)
	}
	if err := k.alloc(n); err != nil {
		return nil, err
	}
	for off := 0; off < n; {
		rec, err := r.record()
		if err != nil {
			return nil, noEOF(err)
		}
		if size == 0 || len(rec)%size != 0 {
			return nil, fmt.Errorf("%w: keyword %s data record of %d bytes", ErrBadRecord, k.Name, len(rec))
		}
		m := len(rec) / size
		if off+m > n {
			return nil, fmt.Errorf("%w: keyword %s overflows its declared length %d", ErrBadRecord, k.Name, n)
		}
		k.decode(rec, m, size)
		off += m
	}
	return k, nil
}

func (k *Keyword) decode(rec []byte, m, size int) {
	for i := range m {
		b := rec[i*size : (i+1)*size]
		switch k.Type {
		case TypeInt:
			k.Ints = append(k.Ints, int32(k.order.Uint32(b)))
		case TypeFloat:
			k.Floats = append(k.Floats, math.Float32frombits(k.order.Uint32(b)))
		case TypeDouble:
			k.Doubles = append(k.Doubles, math.Float64frombits(k.order.Uint64(b)))
		case TypeBool:
			k.Bools = append(k.Bools, k.order.Uint32(b) != 0)
		default:
			k.Strings = append(k.Strings, string(b))
		}
	}
}

func (r *Reader) skip(n, size int) error {
	if size == 0 {
		return nil
	}
	for off := 0; off < n; {
		length, err := r.marker()
		if err != nil {
			return noEOF(err)
		}
		if _, err := r.r.Discard(length + 4); err != nil {
			return noEOF(err)
		}
		r.offset += int64(length + 4)
		off += length / size
	}
	return nil
}

func (r *Reader) marker() (int, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return 0, fmt.Errorf("%w: truncated record marker", ErrBadRecord)
		}
		return 0, err
	}
	if r.order == nil {
		// The first record of a keyword file is always a 16 byte
		// header, which tells us the byte order.
		switch {
		case binary.BigEndian.Uint32(b[:]) == 16:
			r.order = binary.BigEndian
		case binary.LittleEndian.Uint32(b[:]) == 16:
			r.order = binary.LittleEndian
		default:
			return 0, fmt.Errorf("%w: not a keyword file", ErrBadRecord)
		}
	}
	r.offset += 4
	n := int(int32(r.order.Uint32(b[:])))
	if n < 0 {
		return 0, fmt.Errorf("%w: negative record length", ErrBadRecord)
	}
	return n, nil
}

func (r *Reader) record() ([]byte, error) {
	n, err := r.marker()
	if err != nil {
		return nil, err
	}
	// The length comes from the file, so read through a limit instead
	// of allocating it up front.
	buf, err := io.ReadAll(io.LimitReader(r.r, int64(n)+4))
	if err != nil {
		return nil, err
	}
	if len(buf) != n+4 {
		return nil, noEOF(io.ErrUnexpectedEOF)
	}
	r.offset += int64(n + 4)
	if tail := int(int32(r.order.Uint32(buf[n:]))); tail != n {
		return nil, fmt.Errorf("%w: record markers %d and %d disagree", ErrBadRecord, n, tail)
	}
	return buf[:n], nil
}

func noEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: unexpected end of file", ErrBadRecord)
	}
	return err
}

// ReadFloatAt reads element e of a deferred REAL or DOUB keyword from ra,
// which must be the file the keyword was read from.
func (k *Keyword) ReadFloatAt(ra io.ReaderAt, e int) (float64, error) {
	if e < 0 || e >= k.count {
		return 0, fmt.Errorf("keyword %s: element %d out of range", k.Name, e)
	}
	size, err := k.Type.elementSize()
	if err != nil {
		return 0, err
	}
	if k.Type != TypeFloat && k.Type != TypeDouble {
		return 0, fmt.Errorf("keyword %s: %w: %q is not floating point", k.Name, ErrBadType, string(k.Type))
	}
	block := blockNumeric
	off := k.Offset + int64(e/block)*int64(8+block*size) + 4 + int64(e%block*size)
	var b [8]byte
	if n, err := ra.ReadAt(b[:size], off); n < size {
		return 0, noEOF(err)
	}
	if k.Type == TypeFloat {
		return float64(math.Float32frombits(k.order.Uint32(b[:4]))), nil
	}
	return math.Float64frombits(k.order.Uint64(b[:8])), nil
}

// ReadAll reads keywords until end of input.
func ReadAll(r KeywordReader) ([]*Keyword, error) {
	var out []*Keyword
	for {
		k, err := r.Read()
		if err != nil {
			return nil, err
		}
		if k == nil {
			return out, nil
		}
		out = append(out, k)
	}
}

// IsFormatted reports whether path names a formatted file by the ECLIPSE
// convention of an extension beginning with F (e.g. ".FSMSPEC").
func IsFormatted(path string) bool {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || i+1 >= len(path) {
		return false
	}
	ext := strings.ToUpper(path[i+1:])
	return ext[0] == 'F' && ext != "F"
}
