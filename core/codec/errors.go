// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codec

import "errors"

// Errors returned by the primitive readers and writers.
var (
	ErrBufferTooShort  = errors.New("buffer too short")
	ErrMalformedVBI    = errors.New("malformed variable byte integer")
	ErrStringTooLong   = errors.New("string exceeds 65535 bytes")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidUTF8     = errors.New("invalid UTF-8 string")
	ErrInvalidBool     = errors.New("boolean byte must be 0 or 1")
	ErrNoBoundary      = errors.New("no open boundary")
)
