// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codec_test

import (
	"strings"
	"testing"

	"github.com/absmach/mqttwire/core/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterPrimitives(t *testing.T) {
	w := codec.NewWriter()
	defer w.Release()

	w.Byte(0x01).
		Uint16(0x0203).
		Uint32(0x04050607).
		Bool(true).
		Text("ab").
		Binary([]byte{0xFF}).
		TextPair("k", "v").
		VBI(128).
		Raw([]byte{0xEE})
	require.NoError(t, w.Err())

	expected := []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x01,
		0x00, 0x02, 'a', 'b',
		0x00, 0x01, 0xFF,
		0x00, 0x01, 'k', 0x00, 0x01, 'v',
		0x80, 0x01,
		0xEE,
	}
	assert.Equal(t, expected, w.Bytes())
	assert.Equal(t, len(expected), w.Len())
}

func TestWriterRangeChecks(t *testing.T) {
	cases := []struct {
		desc  string
		write func(w *codec.Writer)
		err   error
	}{
		{
			desc:  "uint8 above max",
			write: func(w *codec.Writer) { w.Uint8In(3, 0, 2) },
			err:   codec.ErrValueOutOfRange,
		},
		{
			desc:  "uint16 below min",
			write: func(w *codec.Writer) { w.Uint16In(0, 1, 65535) },
			err:   codec.ErrValueOutOfRange,
		},
		{
			desc:  "uint32 below min",
			write: func(w *codec.Writer) { w.Uint32In(0, 1, 10) },
			err:   codec.ErrValueOutOfRange,
		},
		{
			desc:  "vbi above max",
			write: func(w *codec.Writer) { w.VBI(codec.MaxVBI + 1) },
			err:   codec.ErrValueOutOfRange,
		},
		{
			desc:  "text too long",
			write: func(w *codec.Writer) { w.Text(strings.Repeat("a", 65536)) },
			err:   codec.ErrStringTooLong,
		},
		{
			desc:  "text with null character",
			write: func(w *codec.Writer) { w.Text("a\x00b") },
			err:   codec.ErrInvalidUTF8,
		},
		{
			desc:  "text with invalid sequence",
			write: func(w *codec.Writer) { w.Text(string([]byte{0xC3, 0x28})) },
			err:   codec.ErrInvalidUTF8,
		},
		{
			desc:  "binary too long",
			write: func(w *codec.Writer) { w.Binary(make([]byte, 65536)) },
			err:   codec.ErrStringTooLong,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			w := codec.NewWriter()
			defer w.Release()
			tc.write(w)
			assert.ErrorIs(t, w.Err(), tc.err)
			assert.Equal(t, 0, w.Len())
		})
	}
}

func TestWriterStickyError(t *testing.T) {
	w := codec.NewWriter()
	defer w.Release()

	w.Byte(1).Uint8In(9, 0, 2).Byte(2).Text("after")
	assert.ErrorIs(t, w.Err(), codec.ErrValueOutOfRange)
	assert.Equal(t, []byte{1}, w.Bytes())
}

func TestWriterAttachLengthPrefixed(t *testing.T) {
	inner := codec.NewWriter()
	defer inner.Release()
	inner.Byte(0x11).Uint16(0x2233)

	w := codec.NewWriter()
	defer w.Release()
	w.AttachLengthPrefixed(inner)
	require.NoError(t, w.Err())
	assert.Equal(t, []byte{0x03, 0x11, 0x22, 0x33}, w.Bytes())

	bad := codec.NewWriter()
	defer bad.Release()
	bad.VBI(codec.MaxVBI + 1)

	w2 := codec.NewWriter()
	defer w2.Release()
	w2.AttachLengthPrefixed(bad)
	assert.ErrorIs(t, w2.Err(), codec.ErrValueOutOfRange)
}

func TestWriterTruncate(t *testing.T) {
	w := codec.NewWriter()
	defer w.Release()

	w.Raw([]byte{1, 2, 3, 4})
	w.Truncate(1)
	assert.Equal(t, []byte{1}, w.Bytes())
}

func TestNewWriterSize(t *testing.T) {
	payload := make([]byte, 10_000)
	w := codec.NewWriterSize(len(payload))
	defer w.Release()

	w.Raw(payload)
	require.NoError(t, w.Err())
	assert.Equal(t, len(payload), w.Len())
}
