package wire

import (
	"errors"
	"testing"
)

func TestReader_AcceptsExactLayout(t *testing.T) {
	buf := []byte{2, 0, 0, 0, 'h', 'i', 1, 9, 9}
	r := NewReader(buf)
	r.String()
	r.Bool()
	r.Fixed(2)
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestReader_Violations(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		read func(r *Reader)
		want error
	}{
		{"short prefix", []byte{1, 0}, func(r *Reader) { r.String() }, ErrTruncated},
		{"length overflow", []byte{9, 0, 0, 0, 'a'}, func(r *Reader) { r.String() }, ErrLengthOverflow},
		{"huge length", []byte{0xff, 0xff, 0xff, 0xff}, func(r *Reader) { r.Bytes() }, ErrLengthOverflow},
		{"trailing", []byte{1, 7}, func(r *Reader) { r.Bool() }, ErrTrailingBytes},
		{"bad bool", []byte{2}, func(r *Reader) { r.Bool() }, ErrInvalidBool},
		{"bad utf8", []byte{1, 0, 0, 0, 0xff}, func(r *Reader) { r.String() }, ErrInvalidUTF8},
		{"fixed short", []byte{1, 2, 3}, func(r *Reader) { r.Fixed(8) }, ErrTruncated},
		{"vec overflow", []byte{3, 0, 0, 0, 1, 2, 3}, func(r *Reader) { r.Len(2) }, ErrLengthOverflow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader(tc.buf)
			tc.read(r)
			err := r.Finish()
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
			var we *Error
			if !errors.As(err, &we) {
				t.Fatalf("expected *wire.Error, got %T", err)
			}
		})
	}
}

func TestReader_FirstViolationWins(t *testing.T) {
	r := NewReader([]byte{5})
	r.Bool()
	r.Fixed(10)
	err := r.Finish()
	if !errors.Is(err, ErrInvalidBool) {
		t.Fatalf("got %v want ErrInvalidBool", err)
	}
}
