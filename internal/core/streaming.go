package core

// streaming.go provides the reader chain applied to CSV input before it
// reaches encoding/csv:
//
//   - BOMSkippingReader: Removes UTF-8 BOM (0xEF 0xBB 0xBF) from Windows files
//   - UTF8ValidatingReader: Fails with ErrInvalidUTF8 on the first invalid sequence
//
// Use WrapForImport to apply both in the correct order.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned by UTF8ValidatingReader when the stream is not
// valid UTF-8. The returned error wraps it with the byte offset.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	br      *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		if b, err := r.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
			if _, err := r.br.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.br.Read(p)
}

// UTF8ValidatingReader passes bytes through unchanged while checking that
// they form valid UTF-8. A multi-byte sequence split across reads is held
// back until it completes. Input is never rewritten.
type UTF8ValidatingReader struct {
	reader io.Reader
	raw    []byte
	carry  int    // incomplete trailing sequence held at raw[:carry]
	out    []byte // validated bytes not yet returned
	offset int64  // stream offset of raw[0]
	err    error
}

// NewUTF8ValidatingReader creates a validating reader.
func NewUTF8ValidatingReader(r io.Reader) *UTF8ValidatingReader {
	return &UTF8ValidatingReader{
		reader: r,
		raw:    make([]byte, 32*1024),
	}
}

// Read implements io.Reader.
func (v *UTF8ValidatingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(v.out) == 0 {
		if v.err != nil {
			return 0, v.err
		}
		v.fill()
	}
	n := copy(p, v.out)
	v.out = v.out[n:]
	return n, nil
}

// fill reads one chunk from the underlying reader and validates it.
func (v *UTF8ValidatingReader) fill() {
	n, err := v.reader.Read(v.raw[v.carry:])
	total := v.carry + n
	data := v.raw[:total]

	keep := 0
	if err == nil {
		keep = incompleteTrailingBytes(data)
	}
	check := data[:total-keep]

	if i := firstInvalid(check); i >= 0 {
		v.err = fmt.Errorf("%w at byte %d", ErrInvalidUTF8, v.offset+int64(i))
		v.out = nil
		return
	}

	v.out = append(v.out[:0], check...)
	v.offset += int64(len(check))
	v.carry = copy(v.raw, data[total-keep:])

	if err != nil {
		v.err = err
	}
}

// firstInvalid returns the index of the first invalid sequence, or -1.
func firstInvalid(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// incompleteTrailingBytes returns the number of bytes at the end of data
// that could be the start of an incomplete multi-byte UTF-8 sequence.
func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < runeLen(b) {
				return i
			}
			return 0
		}
		// Anything but a continuation byte ends the search.
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

// runeLen returns the expected length of a UTF-8 sequence starting with byte b.
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// WrapForImport strips a BOM and validates UTF-8, in that order.
func WrapForImport(r io.Reader) io.Reader {
	return NewUTF8ValidatingReader(NewBOMSkippingReader(r))
}
