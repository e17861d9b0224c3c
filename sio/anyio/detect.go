package anyio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"

	"github.com/brimdata/summary/pkg/storage"
)

var ErrUnknownFormat = errors.New("format detection error")

// detect guesses the format of path from its first bytes.
func detect(ctx context.Context, engine storage.Engine, path string) (string, error) {
	f, err := engine.Get(ctx, path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return Detect(buf[:n])
}

// Detect guesses a format from the leading bytes of a file.
func Detect(b []byte) (string, error) {
	switch {
	case len(b) == 0:
		return "", ErrUnknownFormat
	case bytes.HasPrefix(b, []byte("PAR1")):
		return "parquet", nil
	case bytes.HasPrefix(b, []byte("\xff\xff\xff\xff")):
		return "arrows", nil
	case len(b) >= 4 && binary.BigEndian.Uint32(b) == 16:
		// Fortran record marker of a 16 byte keyword header.
		return "smspec", nil
	case bytes.HasPrefix(bytes.TrimLeft(b, " "), []byte("'")):
		return "smspec", nil
	}
	line, _, _ := bytes.Cut(b, []byte("\n"))
	if bytes.ContainsRune(line, '\t') {
		return "tsv", nil
	}
	if bytes.ContainsRune(line, ',') {
		return "csv", nil
	}
	return "rsm", nil
}
