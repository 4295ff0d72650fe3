// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package capture reads and writes raw MQTT byte streams, optionally
// compressed with zstd or s2.
package capture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// Compression formats.
const (
	Auto = "auto"
	None = "none"
	Zstd = "zstd"
	S2   = "s2"
)

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	// Stream identifier chunk. The s2 reader also accepts snappy framing.
	s2Magic     = []byte{0xFF, 0x06, 0x00, 0x00, 'S', '2', 's', 'T', 'w', 'O'}
	snappyMagic = []byte{0xFF, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
)

// ErrUnknownCompression is returned for an unsupported compression name.
var ErrUnknownCompression = errors.New("unknown compression")

// Open opens the capture at path. With Auto the format is detected from the
// leading bytes.
func Open(path, compression string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	rc, err := NewReader(f, compression)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &readCloser{ReadCloser: rc, file: f}, nil
}

type readCloser struct {
	io.ReadCloser
	file *os.File
}

func (r *readCloser) Close() error {
	return errors.Join(r.ReadCloser.Close(), r.file.Close())
}

// NewReader returns a reader decompressing r. Closing it does not close r.
func NewReader(r io.Reader, compression string) (io.ReadCloser, error) {
	if compression == Auto {
		br := bufio.NewReader(r)
		compression = Detect(br)
		r = br
	}

	switch compression {
	case None:
		return io.NopCloser(r), nil
	case Zstd:
		d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		return d.IOReadCloser(), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, compression)
	}
}

// Detect peeks at the start of br and reports its compression format.
func Detect(br *bufio.Reader) string {
	head, _ := br.Peek(len(s2Magic))
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, s2Magic), bytes.HasPrefix(head, snappyMagic):
		return S2
	default:
		return None
	}
}

// NewWriter returns a writer compressing into w. Close flushes it but does
// not close w.
func NewWriter(w io.Writer, compression string) (io.WriteCloser, error) {
	switch compression {
	case None, Auto:
		return nopWriteCloser{w}, nil
	case Zstd:
		e, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		return e, nil
	case S2:
		return s2.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, compression)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Create creates the capture file at path, writing uncompressed when
// compression is Auto.
func Create(path, compression string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create capture: %w", err)
	}
	wc, err := NewWriter(f, compression)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &writeCloser{WriteCloser: wc, file: f}, nil
}

type writeCloser struct {
	io.WriteCloser
	file *os.File
}

func (w *writeCloser) Close() error {
	if err := w.WriteCloser.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
