// Package wire checks the structure of borsh-encoded buffers before they are
// handed to the reflective decoder.
//
// borsh-go allocates a declared length before reading it, so an untrusted
// buffer must be walked first. A Reader fails on the first violation and
// every later call is a no-op.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrTruncated      = errors.New("wire: truncated buffer")
	ErrLengthOverflow = errors.New("wire: declared length exceeds remaining buffer")
	ErrTrailingBytes  = errors.New("wire: unexpected trailing bytes")
	ErrInvalidBool    = errors.New("wire: invalid bool byte")
	ErrInvalidUTF8    = errors.New("wire: text is not valid UTF-8")
)

// Error reports a structural violation and the offset where it was found.
type Error struct {
	Err    error
	Offset int
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = &Error{Err: err, Offset: r.off}
	}
}

func (r *Reader) remaining() int { return len(r.buf) - r.off }

// Fixed skips n bytes.
func (r *Reader) Fixed(n int) {
	if r.err != nil {
		return
	}
	if r.remaining() < n {
		r.fail(ErrTruncated)
		return
	}
	r.off += n
}

func (r *Reader) Bool() {
	if r.err != nil {
		return
	}
	if r.remaining() < 1 {
		r.fail(ErrTruncated)
		return
	}
	if b := r.buf[r.off]; b > 1 {
		r.fail(ErrInvalidBool)
		return
	}
	r.off++
}

// Len reads a u32 element count and checks that count elements of at least
// minSize bytes fit in the rest of the buffer.
func (r *Reader) Len(minSize int) int {
	if r.err != nil {
		return 0
	}
	if r.remaining() < 4 {
		r.fail(ErrTruncated)
		return 0
	}
	n := uint64(binary.LittleEndian.Uint32(r.buf[r.off:]))
	if n*uint64(minSize) > uint64(r.remaining()-4) {
		r.fail(ErrLengthOverflow)
		return 0
	}
	r.off += 4
	return int(n)
}

// Bytes skips a length-prefixed byte string and returns it.
func (r *Reader) Bytes() []byte {
	n := r.Len(1)
	if r.err != nil {
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// String is Bytes plus a UTF-8 check.
func (r *Reader) String() {
	start := r.off
	b := r.Bytes()
	if r.err != nil {
		return
	}
	if !utf8.Valid(b) {
		r.off = start
		r.fail(ErrInvalidUTF8)
	}
}

// Finish returns the first violation, or ErrTrailingBytes if input is left.
func (r *Reader) Finish() error {
	if r.err != nil {
		return r.err
	}
	if r.remaining() != 0 {
		r.fail(ErrTrailingBytes)
	}
	return r.err
}
