// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/absmach/mqttwire/internal/bufpool"
)

// Writer is an append-only buffer of MQTT primitive encodings.
// Emitters return the Writer so calls can be chained. The first failure is
// latched: later emitters become no-ops and Err reports it.
type Writer struct {
	buf *bytes.Buffer
	err error
}

// NewWriter returns an empty Writer backed by a pooled buffer.
// Call Release when done with it.
func NewWriter() *Writer {
	return &Writer{buf: bufpool.Get()}
}

// NewWriterSize is NewWriter with room for at least n bytes.
func NewWriterSize(n int) *Writer {
	return &Writer{buf: bufpool.GetSized(n)}
}

// Release returns the underlying buffer to the pool. The Writer and any
// slice obtained from Bytes must not be used afterwards.
func (w *Writer) Release() {
	if w.buf == nil {
		return
	}
	bufpool.Put(w.buf)
	w.buf = nil
}

// Err returns the first error encountered by an emitter.
func (w *Writer) Err() error {
	return w.err
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the written bytes. The slice aliases the Writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Truncate discards all but the first n written bytes.
func (w *Writer) Truncate(n int) {
	w.buf.Truncate(n)
}

// Fail latches err unless an earlier error is already latched.
func (w *Writer) Fail(err error) *Writer {
	if w.err == nil {
		w.err = err
	}
	return w
}

func (w *Writer) Byte(b byte) *Writer {
	if w.err == nil {
		w.buf.WriteByte(b)
	}
	return w
}

func (w *Writer) Uint8(v byte) *Writer {
	return w.Byte(v)
}

func (w *Writer) Uint16(v uint16) *Writer {
	if w.err == nil {
		w.buf.Write(binary.BigEndian.AppendUint16(nil, v))
	}
	return w
}

func (w *Writer) Uint32(v uint32) *Writer {
	if w.err == nil {
		w.buf.Write(binary.BigEndian.AppendUint32(nil, v))
	}
	return w
}

// Uint8In writes v, failing with ErrValueOutOfRange if v is outside [lo, hi].
func (w *Writer) Uint8In(v, lo, hi byte) *Writer {
	if v < lo || v > hi {
		return w.Fail(fmt.Errorf("%w: %d not in [%d, %d]", ErrValueOutOfRange, v, lo, hi))
	}
	return w.Uint8(v)
}

// Uint16In writes v, failing with ErrValueOutOfRange if v is outside [lo, hi].
func (w *Writer) Uint16In(v, lo, hi uint16) *Writer {
	if v < lo || v > hi {
		return w.Fail(fmt.Errorf("%w: %d not in [%d, %d]", ErrValueOutOfRange, v, lo, hi))
	}
	return w.Uint16(v)
}

// Uint32In writes v, failing with ErrValueOutOfRange if v is outside [lo, hi].
func (w *Writer) Uint32In(v, lo, hi uint32) *Writer {
	if v < lo || v > hi {
		return w.Fail(fmt.Errorf("%w: %d not in [%d, %d]", ErrValueOutOfRange, v, lo, hi))
	}
	return w.Uint32(v)
}

func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.Byte(1)
	}
	return w.Byte(0)
}

// VBI writes v as a Variable Byte Integer.
func (w *Writer) VBI(v uint32) *Writer {
	if w.err != nil {
		return w
	}
	var scratch [maxVBILen]byte
	b, err := AppendVBI(scratch[:0], v)
	if err != nil {
		return w.Fail(err)
	}
	w.buf.Write(b)
	return w
}

// Text writes a UTF-8 Encoded String: a two-byte length followed by the bytes.
func (w *Writer) Text(s string) *Writer {
	if err := ValidateText(s); err != nil {
		return w.Fail(err)
	}
	if w.err == nil {
		w.buf.Write(binary.BigEndian.AppendUint16(nil, uint16(len(s))))
		w.buf.WriteString(s)
	}
	return w
}

// Binary writes Binary Data: a two-byte length followed by the bytes.
func (w *Writer) Binary(b []byte) *Writer {
	if len(b) > math.MaxUint16 {
		return w.Fail(fmt.Errorf("%w: binary data of %d bytes", ErrStringTooLong, len(b)))
	}
	if w.err == nil {
		w.buf.Write(binary.BigEndian.AppendUint16(nil, uint16(len(b))))
		w.buf.Write(b)
	}
	return w
}

// TextPair writes two consecutive UTF-8 Encoded Strings.
func (w *Writer) TextPair(key, value string) *Writer {
	return w.Text(key).Text(value)
}

// Raw writes b verbatim.
func (w *Writer) Raw(b []byte) *Writer {
	if w.err == nil {
		w.buf.Write(b)
	}
	return w
}

// AttachLengthPrefixed writes the length of other as a Variable Byte Integer
// followed by other's bytes. An error latched in other is propagated.
func (w *Writer) AttachLengthPrefixed(other *Writer) *Writer {
	if other.err != nil {
		return w.Fail(other.err)
	}
	if other.Len() > MaxVBI {
		return w.Fail(fmt.Errorf("%w: attached block of %d bytes", ErrValueOutOfRange, other.Len()))
	}
	return w.VBI(uint32(other.Len())).Raw(other.Bytes())
}

// ValidateText reports whether s can be sent as a UTF-8 Encoded String.
func ValidateText(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return fmt.Errorf("%w: contains U+0000", ErrInvalidUTF8)
		}
	}
	return nil
}
