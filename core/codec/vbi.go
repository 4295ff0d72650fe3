// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codec

import "fmt"

// MaxVBI is the largest value a Variable Byte Integer can carry.
const MaxVBI = 268_435_455

// maxVBILen is the longest encoding of a Variable Byte Integer.
const maxVBILen = 4

// SizeVBI returns the number of bytes needed to encode v.
func SizeVBI(v uint32) int {
	switch {
	case v < 128:
		return 1
	case v < 16_384:
		return 2
	case v < 2_097_152:
		return 3
	default:
		return 4
	}
}

// AppendVBI appends the Variable Byte Integer encoding of v to dst.
func AppendVBI(dst []byte, v uint32) ([]byte, error) {
	if v > MaxVBI {
		return dst, fmt.Errorf("%w: %d exceeds variable byte integer maximum", ErrValueOutOfRange, v)
	}
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst, nil
		}
	}
}

// EncodeVBI encodes v as a Variable Byte Integer.
func EncodeVBI(v uint32) ([]byte, error) {
	return AppendVBI(make([]byte, 0, SizeVBI(v)), v)
}

// DecodeVBI decodes a Variable Byte Integer from the start of data and
// returns the value and the number of bytes it occupied.
// ErrBufferTooShort means data ends inside the integer; ErrMalformedVBI
// means the fourth byte still has its continuation bit set.
func DecodeVBI(data []byte) (uint32, int, error) {
	var v uint32
	var shift uint
	for i := 0; i < maxVBILen; i++ {
		if i >= len(data) {
			return 0, 0, ErrBufferTooShort
		}
		b := data[i]
		v |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, ErrMalformedVBI
}
