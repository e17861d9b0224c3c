package fortio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Writer writes keywords to an unformatted, big-endian keyword file.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Write(k *Keyword) error {
	size, err := k.Type.elementSize()
	if err != nil {
		return err
	}
	n := k.Len()
	header := make([]byte, 16)
	copy(header, pad(k.Name, nameLength))
	binary.BigEndian.PutUint32(header[8:], uint32(n))
	copy(header[12:], pad(string(k.Type), 4))
	if err := w.record(header); err != nil {
		return err
	}
	block := k.Type.blockSize()
	for off := 0; off < n; off += block {
		m := min(block, n-off)
		rec := make([]byte, m*size)
		for i := range m {
			b := rec[i*size : (i+1)*size]
			switch k.Type {
			case TypeInt:
				binary.BigEndian.PutUint32(b, uint32(k.Ints[off+i]))
			case TypeFloat:
				binary.BigEndian.PutUint32(b, math.Float32bits(k.Floats[off+i]))
			case TypeDouble:
				binary.BigEndian.PutUint64(b, math.Float64bits(k.Doubles[off+i]))
			case TypeBool:
				var v uint32
				if k.Bools[off+i] {
					v = math.MaxUint32
				}
				binary.BigEndian.PutUint32(b, v)
			default:
				copy(b, pad(k.Strings[off+i], size))
			}
		}
		if err := w.record(rec); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) record(b []byte) error {
	var marker [4]byte
	binary.BigEndian.PutUint32(marker[:], uint32(len(b)))
	if _, err := w.w.Write(marker[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	_, err := w.w.Write(marker[:])
	return err
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

// FormattedWriter writes keywords as ASCII text.
type FormattedWriter struct {
	w *bufio.Writer
}

func NewFormattedWriter(w io.Writer) *FormattedWriter {
	return &FormattedWriter{w: bufio.NewWriter(w)}
}

func (f *FormattedWriter) Write(k *Keyword) error {
	n := k.Len()
	if _, err := fmt.Fprintf(f.w, " '%s' %11d '%s'\n", pad(k.Name, nameLength), n, pad(string(k.Type), 4)); err != nil {
		return err
	}
	columns := 1
	switch k.Type {
	case TypeInt:
		columns = 6
	case TypeFloat:
		columns = 4
	case TypeDouble:
		columns = 3
	case TypeBool:
		columns = 25
	case TypeMessage:
		return nil
	default:
		columns = 7
	}
	var line strings.Builder
	for i := range n {
		switch k.Type {
		case TypeInt:
			fmt.Fprintf(&line, " %11d", k.Ints[i])
		case TypeFloat:
			line.WriteString("  " + strconv.FormatFloat(float64(k.Floats[i]), 'E', 8, 32))
		case TypeDouble:
			s := strconv.FormatFloat(k.Doubles[i], 'E', 14, 64)
			line.WriteString("  " + strings.Replace(s, "E", "D", 1))
		case TypeBool:
			if k.Bools[i] {
				line.WriteString("  T")
			} else {
				line.WriteString("  F")
			}
		default:
			width, _ := k.Type.elementSize()
			fmt.Fprintf(&line, " '%s'", pad(k.Strings[i], width))
		}
		if (i+1)%columns == 0 || i == n-1 {
			line.WriteByte('\n')
			if _, err := f.w.WriteString(line.String()); err != nil {
				return err
			}
			line.Reset()
		}
	}
	return nil
}

func (f *FormattedWriter) Flush() error {
	return f.w.Flush()
}
