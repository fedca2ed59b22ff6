package core

// streaming.go provides reader helpers shared by the text-based formats.
//
// Uploads must be UTF-8. Files saved by Windows programs often start with a
// UTF-8 BOM (0xEF 0xBB 0xBF), which is dropped before parsing so that the
// first header cell still reads "Diagnosis".

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Parse failures shared by the formats.
var (
	ErrEmptyFile = errors.New("empty file")
	ErrEncoding  = errors.New("encoding error: file is not valid UTF-8")
)

// OpenText validates that data is UTF-8 and returns a reader over it with
// any leading BOM removed.
func OpenText(data []byte) (io.Reader, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w (first invalid byte at offset %d)", ErrEncoding, firstInvalidUTF8(data))
	}
	return NewBOMSkippingReader(bytes.NewReader(data)), nil
}

func firstInvalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	reader     io.Reader
	bomChecked bool
	buf        [3]byte
	pending    []byte // bytes read during the BOM check that belong to the data
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.bomChecked {
		r.bomChecked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
		if n == 3 && r.buf[0] == 0xEF && r.buf[1] == 0xBB && r.buf[2] == 0xBF {
			r.pending = nil
		} else {
			r.pending = r.buf[:n]
		}
	}

	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		return n, nil
	}

	return r.reader.Read(p)
}
