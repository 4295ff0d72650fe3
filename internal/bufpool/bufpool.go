// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package bufpool recycles the scratch buffers used while encoding packets.
//
// Buffers are kept in two tiers. Property blocks and variable headers are
// almost always small, while payloads vary widely; keeping them apart stops
// a single large PUBLISH from inflating every pooled header buffer.
package bufpool

import (
	"bytes"
	"sync"
)

const (
	// SmallCap is the initial capacity of buffers handed out by Get.
	SmallCap = 256

	// MaxPooledCap bounds the capacity of buffers returned to the pool.
	MaxPooledCap = 64 * 1024
)

var (
	small = sync.Pool{New: func() any { return bytes.NewBuffer(make([]byte, 0, SmallCap)) }}
	large = sync.Pool{New: func() any { return new(bytes.Buffer) }}
)

// Get returns an empty buffer.
func Get() *bytes.Buffer {
	b := small.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// GetSized returns an empty buffer able to hold at least n bytes without
// growing.
func GetSized(n int) *bytes.Buffer {
	if n <= SmallCap {
		return Get()
	}
	b := large.Get().(*bytes.Buffer)
	b.Reset()
	b.Grow(n)
	return b
}

// Put returns b to its tier. Buffers that grew past MaxPooledCap are
// dropped.
func Put(b *bytes.Buffer) {
	if b == nil {
		return
	}
	switch c := b.Cap(); {
	case c > MaxPooledCap:
		return
	case c <= SmallCap:
		small.Put(b)
	default:
		large.Put(b)
	}
}
