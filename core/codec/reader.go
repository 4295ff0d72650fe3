// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/binary"
	"fmt"
)

// Reader is a cursor over a byte slice. Reads are confined to a window
// that boundaries can narrow; nested boundaries are closed in reverse
// order of opening.
type Reader struct {
	data   []byte
	offset int
	limit  int
	stack  []int
}

// NewReader creates a Reader whose window is the whole of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, limit: len(data)}
}

// Reset points the Reader at new data and drops all boundaries.
func (r *Reader) Reset(data []byte) {
	r.data = data
	r.offset = 0
	r.limit = len(data)
	r.stack = r.stack[:0]
}

// Remaining returns the number of unread bytes in the current window.
func (r *Reader) Remaining() int {
	return r.limit - r.offset
}

// Offset returns the current read position in the underlying slice.
func (r *Reader) Offset() int {
	return r.offset
}

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || r.offset+n > r.limit {
		return nil, ErrBufferTooShort
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *Reader) Byte() (byte, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Uint8() (byte, error) {
	return r.Byte()
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Bool reads a byte that must be 0 or 1.
func (r *Reader) Bool() (bool, error) {
	b, err := r.Byte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: got %d", ErrInvalidBool, b)
	}
}

// VBI reads a Variable Byte Integer.
func (r *Reader) VBI() (uint32, error) {
	v, n, err := DecodeVBI(r.data[r.offset:r.limit])
	if err != nil {
		return 0, err
	}
	r.offset += n
	return v, nil
}

// Binary reads length-prefixed Binary Data. The result is a copy and is
// never nil, even when empty.
func (r *Reader) Binary() ([]byte, error) {
	n, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	b, err := r.next(int(n))
	if err != nil {
		return nil, err
	}
	return append(make([]byte, 0, len(b)), b...), nil
}

// Text reads a length-prefixed UTF-8 Encoded String.
func (r *Reader) Text() (string, error) {
	n, err := r.Uint16()
	if err != nil {
		return "", err
	}
	b, err := r.next(int(n))
	if err != nil {
		return "", err
	}
	s := string(b)
	if err := ValidateText(s); err != nil {
		return "", err
	}
	return s, nil
}

// TextPair reads two consecutive UTF-8 Encoded Strings.
func (r *Reader) TextPair() (string, string, error) {
	k, err := r.Text()
	if err != nil {
		return "", "", err
	}
	v, err := r.Text()
	if err != nil {
		return "", "", err
	}
	return k, v, nil
}

// Raw returns a copy of the next n bytes.
func (r *Reader) Raw(n int) ([]byte, error) {
	b, err := r.next(n)
	if err != nil {
		return nil, err
	}
	return append(make([]byte, 0, n), b...), nil
}

// RawRemaining returns a copy of every unread byte in the current window.
func (r *Reader) RawRemaining() []byte {
	b, _ := r.Raw(r.Remaining())
	return b
}

// OpenBoundary narrows the window to the next n bytes.
func (r *Reader) OpenBoundary(n int) error {
	if n < 0 || n > r.Remaining() {
		return ErrBufferTooShort
	}
	r.stack = append(r.stack, r.limit)
	r.limit = r.offset + n
	return nil
}

// CloseBoundary skips whatever is left of the innermost boundary, restores
// the enclosing window and returns the number of bytes skipped.
func (r *Reader) CloseBoundary() (int, error) {
	if len(r.stack) == 0 {
		return 0, ErrNoBoundary
	}
	skipped := r.limit - r.offset
	r.offset = r.limit
	r.limit = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return skipped, nil
}
