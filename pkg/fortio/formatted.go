package fortio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrFormattedSyntax = errors.New("formatted keyword syntax")

// FormattedReader reads keywords from a formatted (ASCII) keyword file.
type FormattedReader struct {
	r    *bufio.Reader
	line int
}

func NewFormattedReader(r io.Reader) *FormattedReader {
	return &FormattedReader{r: bufio.NewReader(r), line: 1}
}

func (f *FormattedReader) Read() (*Keyword, error) {
	name, quoted, err := f.token()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !quoted {
		return nil, f.error("expected quoted keyword name, found %q", name)
	}
	count, _, err := f.token()
	if err != nil {
		return nil, f.eof(err)
	}
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return nil, f.error("bad element count %q for keyword %s", count, name)
	}
	typ, quoted, err := f.token()
	if err != nil {
		return nil, f.eof(err)
	}
	if !quoted {
		return nil, f.error("expected quoted type for keyword %s", name)
	}
	k := &Keyword{Name: strings.TrimSpace(name), Type: Type(typ)}
	if err := k.alloc(n); err != nil {
		return nil, err
	}
	for i := range n {
		tok, quoted, err := f.token()
		if err != nil {
			return nil, f.eof(err)
		}
		if err := k.set(tok, quoted); err != nil {
			return nil, f.error("keyword %s element %d: %s", k.Name, i, err)
		}
	}
	return k, nil
}

func (k *Keyword) set(tok string, quoted bool) error {
	switch k.Type {
	case TypeInt:
		v, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return err
		}
		k.Ints = append(k.Ints, int32(v))
	case TypeFloat:
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return err
		}
		k.Floats = append(k.Floats, float32(v))
	case TypeDouble:
		v, err := strconv.ParseFloat(strings.Replace(tok, "D", "E", 1), 64)
		if err != nil {
			return err
		}
		k.Doubles = append(k.Doubles, v)
	case TypeBool:
		switch tok {
		case "T":
			k.Bools = append(k.Bools, true)
		case "F":
			k.Bools = append(k.Bools, false)
		default:
			return fmt.Errorf("bad logical %q", tok)
		}
	default:
		if !quoted {
			return fmt.Errorf("expected quoted string, found %q", tok)
		}
		k.Strings = append(k.Strings, tok)
	}
	return nil
}

// token returns the next whitespace separated token.  A token enclosed
// in single quotes is returned without the quotes and may contain blanks.
func (f *FormattedReader) token() (string, bool, error) {
	var c byte
	var err error
	for {
		c, err = f.r.ReadByte()
		if err != nil {
			return "", false, err
		}
		if c == '\n' {
			f.line++
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
	}
	if c == '\'' {
		s, err := f.r.ReadString('\'')
		if err != nil {
			return "", false, f.error("unterminated quoted string")
		}
		return s[:len(s)-1], true, nil
	}
	var b strings.Builder
	b.WriteByte(c)
	for {
		c, err = f.r.ReadByte()
		if err == io.EOF {
			return b.String(), false, nil
		}
		if err != nil {
			return "", false, err
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			return b.String(), false, f.r.UnreadByte()
		}
		b.WriteByte(c)
	}
}

func (f *FormattedReader) error(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrFormattedSyntax, f.line, fmt.Sprintf(format, args...))
}

func (f *FormattedReader) eof(err error) error {
	if err == io.EOF {
		return f.error("unexpected end of file")
	}
	return err
}
